package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
)

// FieldType enumerates the primitive types a tool argument may declare.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
)

// Field declares one tool argument.
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool
	// Default is applied when an optional field is omitted. Must already be
	// of the field's normalized Go type (string, int64, float64, bool).
	Default any
	// Enum, when non-empty, restricts the normalized value to this set.
	Enum []string
}

// InputSchema is a single declarative description of a tool's arguments.
// It renders two ways that can never diverge: Validate produces the
// normalized argument set, JSONSchema produces the catalogue's advertised
// schema.
type InputSchema struct {
	Fields []Field
}

// Validate checks raw caller arguments against the schema and returns the
// normalized set: required fields present, types coerced (numeric strings to
// numbers where declared), defaults applied, enums enforced. The first
// invalid field, in declaration order, is named in the returned error.
// Unknown fields are rejected after all declared fields pass.
func (s InputSchema) Validate(raw map[string]any) (map[string]any, error) {
	args := make(map[string]any, len(s.Fields))

	for _, f := range s.Fields {
		v, ok := raw[f.Name]
		if !ok || v == nil {
			if f.Required {
				return nil, E(CodeInvalidArgument, "", fmt.Sprintf("missing required field %q", f.Name), nil)
			}
			if f.Default != nil {
				args[f.Name] = f.Default
			}
			continue
		}
		norm, err := coerce(f.Type, v)
		if err != nil {
			return nil, E(CodeInvalidArgument, "", fmt.Sprintf("invalid field %q: %v", f.Name, err), nil)
		}
		if len(f.Enum) > 0 {
			sv, _ := norm.(string)
			if !containsString(f.Enum, sv) {
				return nil, E(CodeInvalidArgument, "",
					fmt.Sprintf("invalid field %q: value %v not in %v", f.Name, v, f.Enum), nil)
			}
		}
		args[f.Name] = norm
	}

	var unknown []string
	for name := range raw {
		if !s.declares(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, E(CodeInvalidArgument, "", fmt.Sprintf("unknown field %q", unknown[0]), nil)
	}

	return args, nil
}

// JSONSchema renders the advertised object schema for both catalogues.
func (s InputSchema) JSONSchema() *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(s.Fields))
	var required []string
	for _, f := range s.Fields {
		prop := &jsonschema.Schema{
			Type:        string(f.Type),
			Description: f.Description,
		}
		if len(f.Enum) > 0 {
			prop.Enum = make([]any, len(f.Enum))
			for i, e := range f.Enum {
				prop.Enum[i] = e
			}
		}
		if f.Default != nil {
			if raw, err := json.Marshal(f.Default); err == nil {
				prop.Default = json.RawMessage(raw)
			}
		}
		props[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func (s InputSchema) declares(name string) bool {
	for _, f := range s.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func coerce(t FieldType, v any) (any, error) {
	switch t {
	case TypeString:
		if sv, ok := v.(string); ok {
			return sv, nil
		}
		return nil, fmt.Errorf("expected string, got %T", v)
	case TypeInteger:
		switch n := v.(type) {
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("expected integer, got %v", n)
			}
			return int64(n), nil
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		case json.Number:
			return n.Int64()
		case string:
			parsed, err := strconv.ParseInt(n, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("expected integer, got %q", n)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("expected integer, got %T", v)
	case TypeNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case json.Number:
			return n.Float64()
		case string:
			parsed, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return nil, fmt.Errorf("expected number, got %q", n)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("expected number, got %T", v)
	case TypeBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("expected boolean, got %T", v)
	}
	return nil, fmt.Errorf("unsupported field type %q", t)
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
