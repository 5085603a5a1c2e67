package tools

import (
	"context"

	"github.com/alangould92/fareway-database-mcp/internal/domain"
	"github.com/alangould92/fareway-database-mcp/internal/store"
)

var accommodationTypes = []string{"hotel", "guesthouse", "resort", "self_catering"}

func accommodationTools(s store.RecordStore) []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        "search_accommodations",
			Description: "Search accommodations near golf regions by region, nightly price and type.",
			InputSchema: domain.InputSchema{Fields: []domain.Field{
				{Name: "region", Type: domain.TypeString, Description: "Region name or fragment"},
				{Name: "max_price", Type: domain.TypeInteger, Description: "Maximum price per night, inclusive"},
				{Name: "type", Type: domain.TypeString, Description: "Accommodation type", Enum: accommodationTypes},
				{Name: "limit", Type: domain.TypeInteger, Description: "Maximum rows returned", Default: defaultSearchLimit},
			}},
			CacheMode: domain.CacheDefault,
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				q := store.Query{
					Table: "accommodations",
					Limit: limitFrom(args, defaultSearchLimit),
				}
				if region, ok := args["region"].(string); ok && region != "" {
					q.Filters = append(q.Filters, store.Filter{Field: "region", Op: store.OpILike, Value: region})
				}
				if max, ok := args["max_price"].(int64); ok {
					q.Filters = append(q.Filters, store.Filter{Field: "price_per_night", Op: store.OpLte, Value: max})
				}
				if kind, ok := args["type"].(string); ok && kind != "" {
					q.Filters = append(q.Filters, store.Filter{Field: "type", Op: store.OpEq, Value: kind})
				}
				return s.Select(ctx, q)
			},
		},
		{
			Name:        "get_accommodation_details",
			Description: "Fetch a single accommodation by its identifier.",
			InputSchema: domain.InputSchema{Fields: []domain.Field{
				{Name: "accommodation_id", Type: domain.TypeString, Description: "Accommodation identifier", Required: true},
			}},
			CacheMode: domain.CacheNone,
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.SelectOne(ctx, "accommodations", "id", args["accommodation_id"])
			},
		},
		{
			Name:        "get_recommended_accommodations",
			Description: "Top-rated accommodations in a region for a price tier applied to the nightly rate.",
			InputSchema: domain.InputSchema{Fields: []domain.Field{
				{Name: "region", Type: domain.TypeString, Description: "Region name or fragment", Required: true},
				{Name: "price_tier", Type: domain.TypeString, Description: "Price bracket", Required: true, Enum: priceTiers},
				{Name: "limit", Type: domain.TypeInteger, Description: "Maximum rows returned", Default: defaultRecommendLimit},
			}},
			CacheMode: domain.CacheDefault,
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				tier, _ := args["price_tier"].(string)
				filters := []store.Filter{{Field: "region", Op: store.OpILike, Value: args["region"]}}
				filters = append(filters, tierFilters("price_per_night", tier)...)
				return s.Select(ctx, store.Query{
					Table:      "accommodations",
					Filters:    filters,
					OrderBy:    "rating",
					Descending: true,
					Limit:      limitFrom(args, defaultRecommendLimit),
				})
			},
		},
	}
}
