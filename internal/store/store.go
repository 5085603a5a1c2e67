// Package store exposes the narrow record-store capability the gateway
// consumes: bounded filter/range/equality lookups with ordering and a limit,
// plus a connectivity probe. The gateway never issues writes.
package store

import "context"

// Op is a filter operator.
type Op string

const (
	OpEq    Op = "eq"
	OpILike Op = "ilike" // case-insensitive substring match
	OpGte   Op = "gte"
	OpLte   Op = "lte"
)

// Filter is one bounded predicate on a column.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query describes a closed, pre-defined lookup. Tables and columns come from
// the fixed tool catalogue, never from caller input.
type Query struct {
	Table      string
	Columns    []string
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// RecordStore is the query capability backing every tool handler.
type RecordStore interface {
	Select(ctx context.Context, q Query) ([]map[string]any, error)
	SelectOne(ctx context.Context, table, idColumn string, id any) (map[string]any, error)
	Ping(ctx context.Context) error
	Close()
}
