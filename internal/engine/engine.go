// Package engine implements the validation & dispatch pipeline: registry
// lookup, schema validation, cache read, handler invocation, cache write,
// and the uniform result envelope every transport emits.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/alangould92/fareway-database-mcp/internal/cache"
	"github.com/alangould92/fareway-database-mcp/internal/domain"
	"github.com/alangould92/fareway-database-mcp/internal/registry"
)

type Engine struct {
	registry   *registry.Registry
	cache      cache.Cache
	metrics    domain.Metrics
	logger     *zap.Logger
	defaultTTL time.Duration
}

type Options struct {
	Registry *registry.Registry
	Cache    cache.Cache
	Metrics  domain.Metrics
	Logger   *zap.Logger
	// DefaultTTL applies to cacheable tools without a per-tool override.
	DefaultTTL time.Duration
}

func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := opts.Cache
	if c == nil {
		c = cache.NewNoop()
	}
	return &Engine{
		registry:   opts.Registry,
		cache:      c,
		metrics:    opts.Metrics,
		logger:     logger.Named("engine"),
		defaultTTL: opts.DefaultTTL,
	}
}

// Execute runs one tool call end to end. Every outcome, success or failure,
// comes back as a ToolResult with metadata.duration_ms set; handler faults
// never propagate past this method.
func (e *Engine) Execute(ctx context.Context, toolName string, rawArgs map[string]any) domain.ToolResult {
	start := time.Now()

	def, ok := e.registry.Lookup(toolName)
	if !ok {
		return e.finish(toolName, start, false, domain.Failure(fmt.Sprintf("unknown tool: %s", toolName)))
	}

	args, err := def.InputSchema.Validate(rawArgs)
	if err != nil {
		e.logger.Debug("validation failed",
			zap.String("tool", toolName),
			zap.Strings("arg_keys", keysOf(rawArgs)),
			zap.Error(err))
		return e.finish(toolName, start, false, domain.Failure(err.Error()))
	}

	key := ""
	if def.CacheMode == domain.CacheDefault {
		key = cacheKey(def, args)
	}
	if key != "" {
		if payload, hit := e.cache.Get(ctx, key); hit {
			var data any
			if err := json.Unmarshal(payload, &data); err == nil {
				e.observeCache(toolName, "hit")
				result := domain.Successful(data)
				result.Metadata = map[string]any{"cached": true}
				e.addCount(&result)
				return e.finish(toolName, start, true, result)
			}
			e.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		}
		e.observeCache(toolName, "miss")
	}

	data, err := def.Handler(ctx, args)
	if err != nil {
		e.logger.Warn("tool execution failed",
			zap.String("tool", toolName),
			zap.Strings("arg_keys", keysOf(args)),
			zap.Error(err))
		return e.finish(toolName, start, false, domain.Failure(err.Error()))
	}

	if key != "" {
		// Fire-and-forget: a cache write failure is logged inside the cache
		// layer and must not downgrade the result.
		if payload, err := json.Marshal(data); err == nil {
			e.cache.Set(ctx, key, payload, e.ttlFor(def))
		}
	}

	result := domain.Successful(data)
	e.addCount(&result)
	return e.finish(toolName, start, true, result)
}

func (e *Engine) ttlFor(def domain.ToolDefinition) time.Duration {
	if def.CacheTTL > 0 {
		return def.CacheTTL
	}
	return e.defaultTTL
}

// addCount records the row count for list payloads.
func (e *Engine) addCount(result *domain.ToolResult) {
	var n int
	switch data := result.Data.(type) {
	case []map[string]any:
		n = len(data)
	case []any:
		n = len(data)
	case []string:
		n = len(data)
	default:
		return
	}
	if result.Metadata == nil {
		result.Metadata = make(map[string]any, 2)
	}
	result.Metadata["count"] = n
}

func (e *Engine) finish(tool string, start time.Time, success bool, result domain.ToolResult) domain.ToolResult {
	elapsed := time.Since(start)
	if result.Metadata == nil {
		result.Metadata = make(map[string]any, 1)
	}
	result.Metadata["duration_ms"] = elapsed.Milliseconds()

	status := "ok"
	if !success {
		status = "error"
	}
	if e.metrics != nil {
		e.metrics.ObserveExecution(tool, status, elapsed)
	}
	e.logger.Info("tool executed",
		zap.String("tool", tool),
		zap.String("status", status),
		zap.Duration("duration", elapsed))
	return result
}

func (e *Engine) observeCache(tool, outcome string) {
	if e.metrics != nil {
		e.metrics.ObserveCache(tool, outcome)
	}
}

func keysOf(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
