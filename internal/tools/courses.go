package tools

import (
	"context"

	"github.com/alangould92/fareway-database-mcp/internal/domain"
	"github.com/alangould92/fareway-database-mcp/internal/store"
)

func courseTools(s store.RecordStore) []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        "search_golf_courses",
			Description: "Search golf courses by region and price range. Region matching is case-insensitive substring; price bounds are inclusive, in minor currency units.",
			InputSchema: domain.InputSchema{Fields: []domain.Field{
				{Name: "region", Type: domain.TypeString, Description: "Region name or fragment, e.g. \"Kerry\" or \"south west\""},
				{Name: "min_price", Type: domain.TypeInteger, Description: "Minimum green fee, inclusive"},
				{Name: "max_price", Type: domain.TypeInteger, Description: "Maximum green fee, inclusive"},
				{Name: "min_rating", Type: domain.TypeNumber, Description: "Minimum course rating, 0-5"},
				{Name: "limit", Type: domain.TypeInteger, Description: "Maximum rows returned", Default: defaultSearchLimit},
			}},
			CacheMode: domain.CacheDefault,
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				q := store.Query{
					Table: "golf_courses",
					Limit: limitFrom(args, defaultSearchLimit),
				}
				if region, ok := args["region"].(string); ok && region != "" {
					q.Filters = append(q.Filters, store.Filter{Field: "region", Op: store.OpILike, Value: region})
				}
				if min, ok := args["min_price"].(int64); ok {
					q.Filters = append(q.Filters, store.Filter{Field: "price", Op: store.OpGte, Value: min})
				}
				if max, ok := args["max_price"].(int64); ok {
					q.Filters = append(q.Filters, store.Filter{Field: "price", Op: store.OpLte, Value: max})
				}
				if rating, ok := args["min_rating"].(float64); ok {
					q.Filters = append(q.Filters, store.Filter{Field: "rating", Op: store.OpGte, Value: rating})
				}
				return s.Select(ctx, q)
			},
		},
		{
			Name:        "search_courses_by_name",
			Description: "Fuzzy search golf courses by name (case-insensitive substring).",
			InputSchema: domain.InputSchema{Fields: []domain.Field{
				{Name: "name", Type: domain.TypeString, Description: "Course name or fragment", Required: true},
				{Name: "limit", Type: domain.TypeInteger, Description: "Maximum rows returned", Default: defaultSearchLimit},
			}},
			// Fuzzy matches rarely repeat; not worth a cache slot.
			CacheMode: domain.CacheNone,
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.Select(ctx, store.Query{
					Table:   "golf_courses",
					Filters: []store.Filter{{Field: "name", Op: store.OpILike, Value: args["name"]}},
					Limit:   limitFrom(args, defaultSearchLimit),
				})
			},
		},
		{
			Name:        "get_course_details",
			Description: "Fetch a single golf course by its identifier.",
			InputSchema: domain.InputSchema{Fields: []domain.Field{
				{Name: "course_id", Type: domain.TypeString, Description: "Course identifier", Required: true},
			}},
			CacheMode: domain.CacheNone,
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.SelectOne(ctx, "golf_courses", "id", args["course_id"])
			},
		},
		{
			Name:        "get_recommended_courses",
			Description: "Top-rated golf courses in a region for a price tier: budget (<= 150 EUR), standard (150-350 EUR inclusive), luxury (>= 350 EUR).",
			InputSchema: domain.InputSchema{Fields: []domain.Field{
				{Name: "region", Type: domain.TypeString, Description: "Region name or fragment", Required: true},
				{Name: "price_tier", Type: domain.TypeString, Description: "Price bracket", Required: true, Enum: priceTiers},
				{Name: "limit", Type: domain.TypeInteger, Description: "Maximum rows returned", Default: defaultRecommendLimit},
			}},
			CacheMode: domain.CacheDefault,
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				tier, _ := args["price_tier"].(string)
				filters := []store.Filter{{Field: "region", Op: store.OpILike, Value: args["region"]}}
				filters = append(filters, tierFilters("price", tier)...)
				return s.Select(ctx, store.Query{
					Table:      "golf_courses",
					Filters:    filters,
					OrderBy:    "rating",
					Descending: true,
					Limit:      limitFrom(args, defaultRecommendLimit),
				})
			},
		},
	}
}
