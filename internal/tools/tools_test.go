package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alangould92/fareway-database-mcp/internal/domain"
	"github.com/alangould92/fareway-database-mcp/internal/store"
)

type fakeStore struct {
	queries []store.Query
	rows    map[string][]map[string]any // table -> rows
	one     map[string]any
	err     error
}

func (f *fakeStore) Select(_ context.Context, q store.Query) ([]map[string]any, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[q.Table], nil
}

func (f *fakeStore) SelectOne(_ context.Context, table, idColumn string, id any) (map[string]any, error) {
	f.queries = append(f.queries, store.Query{
		Table:   table,
		Filters: []store.Filter{{Field: idColumn, Op: store.OpEq, Value: id}},
		Limit:   1,
	})
	if f.err != nil {
		return nil, f.err
	}
	return f.one, nil
}

func (f *fakeStore) Ping(context.Context) error { return f.err }

func (f *fakeStore) Close() {}

func toolByName(t *testing.T, s store.RecordStore, name string) domain.ToolDefinition {
	t.Helper()
	for _, def := range Definitions(s) {
		if def.Name == name {
			return def
		}
	}
	t.Fatalf("tool %q not in catalogue", name)
	return domain.ToolDefinition{}
}

// run validates raw args through the tool's own schema, then invokes the
// handler, mirroring the engine's pipeline.
func run(t *testing.T, def domain.ToolDefinition, raw map[string]any) (any, error) {
	t.Helper()
	args, err := def.InputSchema.Validate(raw)
	require.NoError(t, err)
	return def.Handler(context.Background(), args)
}

func TestSearchGolfCourses_BuildsBoundedQuery(t *testing.T) {
	fs := &fakeStore{}
	def := toolByName(t, fs, "search_golf_courses")

	_, err := run(t, def, map[string]any{
		"region":    "Kerry",
		"min_price": float64(10000),
		"max_price": float64(30000),
	})
	require.NoError(t, err)
	require.Len(t, fs.queries, 1)

	q := fs.queries[0]
	require.Equal(t, "golf_courses", q.Table)
	require.Equal(t, 20, q.Limit, "limit defaults to 20")
	require.Equal(t, []store.Filter{
		{Field: "region", Op: store.OpILike, Value: "Kerry"},
		{Field: "price", Op: store.OpGte, Value: int64(10000)},
		{Field: "price", Op: store.OpLte, Value: int64(30000)},
	}, q.Filters)
}

func TestSearchGolfCourses_NoFiltersWhenOmitted(t *testing.T) {
	fs := &fakeStore{}
	def := toolByName(t, fs, "search_golf_courses")

	_, err := run(t, def, map[string]any{})
	require.NoError(t, err)
	require.Empty(t, fs.queries[0].Filters)
}

func TestRecommendedCourses_TierBoundariesAreInclusive(t *testing.T) {
	fs := &fakeStore{}
	def := toolByName(t, fs, "get_recommended_courses")

	_, err := run(t, def, map[string]any{"region": "Kerry", "price_tier": "budget"})
	require.NoError(t, err)
	_, err = run(t, def, map[string]any{"region": "Kerry", "price_tier": "standard"})
	require.NoError(t, err)
	_, err = run(t, def, map[string]any{"region": "Kerry", "price_tier": "luxury"})
	require.NoError(t, err)
	require.Len(t, fs.queries, 3)

	budget := fs.queries[0]
	require.Equal(t, []store.Filter{
		{Field: "region", Op: store.OpILike, Value: "Kerry"},
		{Field: "price", Op: store.OpLte, Value: budgetMax},
	}, budget.Filters)
	require.Equal(t, "rating", budget.OrderBy)
	require.True(t, budget.Descending)
	require.Equal(t, 10, budget.Limit, "recommendation limit defaults to 10")

	standard := fs.queries[1]
	require.Equal(t, []store.Filter{
		{Field: "region", Op: store.OpILike, Value: "Kerry"},
		{Field: "price", Op: store.OpGte, Value: budgetMax},
		{Field: "price", Op: store.OpLte, Value: luxuryMin},
	}, standard.Filters)

	luxury := fs.queries[2]
	require.Equal(t, []store.Filter{
		{Field: "region", Op: store.OpILike, Value: "Kerry"},
		{Field: "price", Op: store.OpGte, Value: luxuryMin},
	}, luxury.Filters)

	// A course priced exactly at the budget/standard edge satisfies both
	// tiers: budget's <= bound and standard's >= bound are both inclusive.
	price := budgetMax
	require.True(t, price <= budgetMax)
	require.True(t, price >= budgetMax && price <= luxuryMin)
}

func TestRecommendedCourses_RejectsUnknownTier(t *testing.T) {
	fs := &fakeStore{}
	def := toolByName(t, fs, "get_recommended_courses")

	_, err := def.InputSchema.Validate(map[string]any{"region": "Kerry", "price_tier": "premium"})
	require.Error(t, err)
	require.Empty(t, fs.queries, "no store access on invalid input")
}

func TestGetCourseDetails_PointLookup(t *testing.T) {
	fs := &fakeStore{one: map[string]any{"id": "c1", "name": "Old Head"}}
	def := toolByName(t, fs, "get_course_details")
	require.Equal(t, domain.CacheNone, def.CacheMode)

	row, err := run(t, def, map[string]any{"course_id": "c1"})
	require.NoError(t, err)
	require.Equal(t, "Old Head", row.(map[string]any)["name"])

	q := fs.queries[0]
	require.Equal(t, "golf_courses", q.Table)
	require.Equal(t, store.Filter{Field: "id", Op: store.OpEq, Value: "c1"}, q.Filters[0])
}

func TestSearchCoursesByName_FuzzyAndUncached(t *testing.T) {
	fs := &fakeStore{}
	def := toolByName(t, fs, "search_courses_by_name")
	require.Equal(t, domain.CacheNone, def.CacheMode)

	_, err := run(t, def, map[string]any{"name": "bally"})
	require.NoError(t, err)
	require.Equal(t, store.Filter{Field: "name", Op: store.OpILike, Value: "bally"}, fs.queries[0].Filters[0])
}

func TestSearchAccommodations_TypeEnumAndNightlyPrice(t *testing.T) {
	fs := &fakeStore{}
	def := toolByName(t, fs, "search_accommodations")

	_, err := run(t, def, map[string]any{
		"region":    "Clare",
		"max_price": float64(20000),
		"type":      "guesthouse",
	})
	require.NoError(t, err)
	require.Equal(t, []store.Filter{
		{Field: "region", Op: store.OpILike, Value: "Clare"},
		{Field: "price_per_night", Op: store.OpLte, Value: int64(20000)},
		{Field: "type", Op: store.OpEq, Value: "guesthouse"},
	}, fs.queries[0].Filters)

	_, err = def.InputSchema.Validate(map[string]any{"type": "igloo"})
	require.Error(t, err)
}

func TestRecommendedAccommodations_TiersNightlyRate(t *testing.T) {
	fs := &fakeStore{}
	def := toolByName(t, fs, "get_recommended_accommodations")

	_, err := run(t, def, map[string]any{"region": "Clare", "price_tier": "luxury"})
	require.NoError(t, err)

	q := fs.queries[0]
	require.Equal(t, "accommodations", q.Table)
	require.Contains(t, q.Filters, store.Filter{Field: "price_per_night", Op: store.OpGte, Value: luxuryMin})
	require.Equal(t, "rating", q.OrderBy)
	require.True(t, q.Descending)
}

func TestGetCourseRates_OptionalSeason(t *testing.T) {
	fs := &fakeStore{}
	def := toolByName(t, fs, "get_course_rates")

	_, err := run(t, def, map[string]any{"course_id": "c1"})
	require.NoError(t, err)
	require.Equal(t, []store.Filter{
		{Field: "course_id", Op: store.OpEq, Value: "c1"},
	}, fs.queries[0].Filters)

	_, err = run(t, def, map[string]any{"course_id": "c1", "season": "peak"})
	require.NoError(t, err)
	require.Equal(t, []store.Filter{
		{Field: "course_id", Op: store.OpEq, Value: "c1"},
		{Field: "season", Op: store.OpEq, Value: "peak"},
	}, fs.queries[1].Filters)
}

func TestListRegions_DedupesAndSorts(t *testing.T) {
	fs := &fakeStore{rows: map[string][]map[string]any{
		"golf_courses": {
			{"region": "Kerry"},
			{"region": "Clare"},
			{"region": "Kerry"},
		},
		"accommodations": {
			{"region": "Antrim"},
			{"region": "Clare"},
		},
	}}
	def := toolByName(t, fs, "list_regions")
	require.Equal(t, "regions", def.CachePrefix)

	data, err := run(t, def, map[string]any{})
	require.NoError(t, err)
	require.Equal(t, []string{"Antrim", "Clare", "Kerry"}, data)
}

func TestDefinitions_UniqueNames(t *testing.T) {
	fs := &fakeStore{}
	seen := make(map[string]struct{})
	for _, def := range Definitions(fs) {
		_, dup := seen[def.Name]
		require.False(t, dup, "duplicate tool %q", def.Name)
		seen[def.Name] = struct{}{}
		require.NotEmpty(t, def.Description)
		require.NotNil(t, def.Handler)
	}
	require.Len(t, seen, 9)
}
