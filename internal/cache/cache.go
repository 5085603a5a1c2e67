// Package cache provides the gateway's optional read-through cache. Both
// implementations swallow backend failures: a broken or absent cache only
// ever degrades to a permanent miss, never to an execution error.
package cache

import (
	"context"
	"time"
)

// Cache is the key/value capability consumed by the dispatch engine.
type Cache interface {
	// Get returns the cached payload and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores a payload with the given TTL. Failures are logged, not returned.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// ClearByPrefix drops every entry whose key starts with prefix.
	ClearByPrefix(ctx context.Context, prefix string)
}

// Noop is the disabled-cache mode: every read misses, every write is dropped.
type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (Noop) Set(context.Context, string, []byte, time.Duration) {}

func (Noop) ClearByPrefix(context.Context, string) {}
