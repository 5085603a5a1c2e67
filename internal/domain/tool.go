// Package domain holds the gateway's core types: tool definitions, the
// uniform result envelope, and the declarative input schema that renders
// both a validator and the externally advertised JSON schema.
package domain

import (
	"context"
	"time"
)

// CacheMode controls whether the dispatch engine consults the cache for a tool.
type CacheMode string

const (
	// CacheDefault caches results under a key derived from the normalized
	// argument set.
	CacheDefault CacheMode = "default"
	// CacheNone skips caching entirely. Used for fuzzy name search (low hit
	// value) and point lookups.
	CacheNone CacheMode = "none"
)

// ToolHandler executes a tool against validated, normalized arguments.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// ToolDefinition describes one registered tool. Definitions are immutable
// after registration; the full set is fixed at process start.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema InputSchema
	Handler     ToolHandler

	CacheMode CacheMode
	// CacheTTL overrides the process-wide default TTL when positive.
	CacheTTL time.Duration
	// CachePrefix, when set, replaces the args-derived cache key with a
	// fixed tool-specific key. Only meaningful for argument-less tools.
	CachePrefix string
}

// ToolResult is the single envelope shape emitted by every tool on every
// transport. Exactly one of Data/Error is meaningful per the Success flag.
type ToolResult struct {
	Success  bool           `json:"success"`
	Data     any            `json:"data,omitempty"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Failure builds an error envelope. Metadata (duration) is filled in by the
// dispatch engine before the result leaves it.
func Failure(msg string) ToolResult {
	return ToolResult{Success: false, Error: msg}
}

// Successful builds a success envelope around a payload.
func Successful(data any) ToolResult {
	return ToolResult{Success: true, Data: data}
}
