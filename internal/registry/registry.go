// Package registry holds the fixed tool catalogue. Registration happens once
// at process start; afterwards the registry is read-only and safe for
// concurrent use without locking.
package registry

import (
	"fmt"

	"github.com/alangould92/fareway-database-mcp/internal/domain"
)

type Registry struct {
	byName map[string]domain.ToolDefinition
	order  []string
}

// New registers the full tool set. Duplicate names and empty definitions are
// fatal configuration errors.
func New(definitions []domain.ToolDefinition) (*Registry, error) {
	r := &Registry{byName: make(map[string]domain.ToolDefinition, len(definitions))}
	for _, def := range definitions {
		if def.Name == "" {
			return nil, fmt.Errorf("tool definition with empty name")
		}
		if def.Handler == nil {
			return nil, fmt.Errorf("tool %q has no handler", def.Name)
		}
		if _, exists := r.byName[def.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", def.Name)
		}
		if def.CacheMode == "" {
			def.CacheMode = domain.CacheDefault
		}
		r.byName[def.Name] = def
		r.order = append(r.order, def.Name)
	}
	return r, nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (domain.ToolDefinition, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// List returns all definitions in registration order.
func (r *Registry) List() []domain.ToolDefinition {
	out := make([]domain.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Len reports the catalogue size.
func (r *Registry) Len() int {
	return len(r.order)
}
