package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func searchSchema() InputSchema {
	return InputSchema{Fields: []Field{
		{Name: "region", Type: TypeString, Required: true},
		{Name: "price_tier", Type: TypeString, Enum: []string{"budget", "standard", "luxury"}},
		{Name: "max_price", Type: TypeInteger},
		{Name: "min_rating", Type: TypeNumber},
		{Name: "limit", Type: TypeInteger, Default: int64(20)},
	}}
}

func TestValidate_AppliesDefaultsAndCoercions(t *testing.T) {
	args, err := searchSchema().Validate(map[string]any{
		"region":     "Ireland",
		"max_price":  "25000",
		"min_rating": float64(4),
	})
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"region":     "Ireland",
		"max_price":  int64(25000),
		"min_rating": float64(4),
		"limit":      int64(20),
	}, args)
}

func TestValidate_MissingRequiredField(t *testing.T) {
	_, err := searchSchema().Validate(map[string]any{})
	require.Error(t, err)
	require.Contains(t, err.Error(), `missing required field "region"`)
	require.Equal(t, CodeInvalidArgument, CodeOf(err))
}

func TestValidate_EnumRejected(t *testing.T) {
	_, err := searchSchema().Validate(map[string]any{
		"region":     "Ireland",
		"price_tier": "premium",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), `"price_tier"`)
}

func TestValidate_FirstInvalidFieldInDeclarationOrder(t *testing.T) {
	// Both price_tier and max_price are invalid; price_tier is declared first.
	_, err := searchSchema().Validate(map[string]any{
		"region":     "Ireland",
		"price_tier": "nope",
		"max_price":  "not-a-number",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), `"price_tier"`)
	require.NotContains(t, err.Error(), `"max_price"`)
}

func TestValidate_RejectsUnknownField(t *testing.T) {
	_, err := searchSchema().Validate(map[string]any{
		"region":  "Ireland",
		"zort":    true,
		"aaextra": 1,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown field "aaextra"`)
}

func TestValidate_IntegerRejectsFraction(t *testing.T) {
	_, err := searchSchema().Validate(map[string]any{
		"region":    "Ireland",
		"max_price": 19.5,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), `"max_price"`)
}

func TestJSONSchema_RendersObjectSchema(t *testing.T) {
	schema := searchSchema().JSONSchema()
	require.Equal(t, "object", schema.Type)
	require.Equal(t, []string{"region"}, schema.Required)
	require.Len(t, schema.Properties, 5)

	tier := schema.Properties["price_tier"]
	require.NotNil(t, tier)
	require.Equal(t, []any{"budget", "standard", "luxury"}, tier.Enum)

	limit := schema.Properties["limit"]
	require.NotNil(t, limit)
	require.Equal(t, json.RawMessage("20"), limit.Default)

	// The rendered schema must round-trip as plain JSON for the catalogue.
	raw, err := json.Marshal(schema)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "object", decoded["type"])
}
