// Package tools defines the fixed catalogue of read-only lookups the gateway
// exposes: golf course search, accommodation search, green fee rates, and the
// recommendation variants built on the closed price-tier policy.
package tools

import (
	"github.com/alangould92/fareway-database-mcp/internal/domain"
	"github.com/alangould92/fareway-database-mcp/internal/store"
)

// Price tiers in minor currency units (euro cents are not used; prices are
// whole euro amounts x100 stored as integers). The tier bounds are inclusive
// on both edges, so a price sitting exactly on a boundary matches two tiers.
const (
	budgetMax = 15000
	luxuryMin = 35000
)

const (
	defaultSearchLimit    = int64(20)
	defaultRecommendLimit = int64(10)
)

var priceTiers = []string{"budget", "standard", "luxury"}

// Definitions returns the full tool set in catalogue order.
func Definitions(s store.RecordStore) []domain.ToolDefinition {
	defs := courseTools(s)
	defs = append(defs, accommodationTools(s)...)
	defs = append(defs, rateTools(s)...)
	defs = append(defs, regionTools(s)...)
	return defs
}

// tierFilters expands a price tier into inclusive bounds on column.
func tierFilters(column, tier string) []store.Filter {
	switch tier {
	case "budget":
		return []store.Filter{{Field: column, Op: store.OpLte, Value: budgetMax}}
	case "luxury":
		return []store.Filter{{Field: column, Op: store.OpGte, Value: luxuryMin}}
	default: // standard
		return []store.Filter{
			{Field: column, Op: store.OpGte, Value: budgetMax},
			{Field: column, Op: store.OpLte, Value: luxuryMin},
		}
	}
}

func limitFrom(args map[string]any, fallback int64) int {
	if v, ok := args["limit"].(int64); ok && v > 0 {
		return int(v)
	}
	return int(fallback)
}
