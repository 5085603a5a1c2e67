package tools

import (
	"context"
	"sort"
	"time"

	"github.com/alangould92/fareway-database-mcp/internal/domain"
	"github.com/alangould92/fareway-database-mcp/internal/store"
)

var seasons = []string{"peak", "shoulder", "off_peak"}

func rateTools(s store.RecordStore) []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        "get_course_rates",
			Description: "Green fee rates for a course, optionally restricted to a season.",
			InputSchema: domain.InputSchema{Fields: []domain.Field{
				{Name: "course_id", Type: domain.TypeString, Description: "Course identifier", Required: true},
				{Name: "season", Type: domain.TypeString, Description: "Rate season", Enum: seasons},
			}},
			CacheMode: domain.CacheDefault,
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				filters := []store.Filter{{Field: "course_id", Op: store.OpEq, Value: args["course_id"]}}
				if season, ok := args["season"].(string); ok && season != "" {
					filters = append(filters, store.Filter{Field: "season", Op: store.OpEq, Value: season})
				}
				return s.Select(ctx, store.Query{
					Table:   "green_fee_rates",
					Filters: filters,
					OrderBy: "price",
				})
			},
		},
	}
}

func regionTools(s store.RecordStore) []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        "list_regions",
			Description: "All regions with at least one golf course or accommodation.",
			InputSchema: domain.InputSchema{},
			CacheMode:   domain.CacheDefault,
			// Argument-less, so a fixed key replaces the derived one. Regions
			// change rarely; hold the entry longer than the process default.
			CachePrefix: "regions",
			CacheTTL:    time.Hour,
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				seen := make(map[string]struct{})
				for _, table := range []string{"golf_courses", "accommodations"} {
					rows, err := s.Select(ctx, store.Query{Table: table, Columns: []string{"region"}})
					if err != nil {
						return nil, err
					}
					for _, row := range rows {
						if region, ok := row["region"].(string); ok && region != "" {
							seen[region] = struct{}{}
						}
					}
				}
				regions := make([]string, 0, len(seen))
				for region := range seen {
					regions = append(regions, region)
				}
				sort.Strings(regions)
				return regions, nil
			},
		},
	}
}
