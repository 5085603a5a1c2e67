// Package app is the composition root: it builds the store, cache, registry,
// engine and transports from configuration and owns their lifecycles.
package app

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/alangould92/fareway-database-mcp/internal/cache"
	"github.com/alangould92/fareway-database-mcp/internal/config"
	"github.com/alangould92/fareway-database-mcp/internal/domain"
	"github.com/alangould92/fareway-database-mcp/internal/engine"
	"github.com/alangould92/fareway-database-mcp/internal/registry"
	"github.com/alangould92/fareway-database-mcp/internal/store"
	"github.com/alangould92/fareway-database-mcp/internal/telemetry"
	"github.com/alangould92/fareway-database-mcp/internal/tools"
	"github.com/alangould92/fareway-database-mcp/internal/transport"
)

type App struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{logger: logger}
}

// Serve runs the HTTP API plus the streamable MCP endpoint until ctx is
// canceled. Store or config failures here are fatal: the gateway never
// accepts traffic without a reachable database.
func (a *App) Serve(ctx context.Context, cfg *config.Config) error {
	components, cleanup, err := a.build(ctx, cfg, telemetry.NewPrometheusMetrics(nil))
	if err != nil {
		return err
	}
	defer cleanup()

	mcpServer := transport.NewMCPServer(transport.MCPServerOptions{
		Registry:       components.registry,
		Engine:         components.engine,
		Logger:         a.logger,
		RequestTimeout: cfg.RequestTimeout(),
	})

	httpServer := transport.NewHTTPServer(transport.HTTPServerOptions{
		Registry:       components.registry,
		Engine:         components.engine,
		Store:          components.store,
		Metrics:        components.metrics,
		Logger:         a.logger,
		AuthSecret:     cfg.AuthToken,
		Limiter:        transport.NewFixedWindowLimiter(cfg.RateLimitWindow(), cfg.RateLimit.MaxRequests),
		RequestTimeout: cfg.RequestTimeout(),
		MCPHandler:     transport.NewStreamableHTTPHandler(mcpServer),
	})

	if cfg.AuthToken == "" {
		a.logger.Warn("auth disabled: no auth token configured")
	}
	a.logger.Info("gateway starting",
		zap.String("listen", cfg.ListenAddress),
		zap.Int("tools", components.registry.Len()),
		zap.Bool("cache", cfg.RedisURL != ""))

	return httpServer.Serve(ctx, cfg.ListenAddress)
}

// ServeStdio runs the MCP session adapter over stdio for local clients.
// Auth and rate limiting do not apply: stdio callers already own the process.
func (a *App) ServeStdio(ctx context.Context, cfg *config.Config) error {
	components, cleanup, err := a.build(ctx, cfg, telemetry.NewNoopMetrics())
	if err != nil {
		return err
	}
	defer cleanup()

	mcpServer := transport.NewMCPServer(transport.MCPServerOptions{
		Registry:       components.registry,
		Engine:         components.engine,
		Logger:         a.logger,
		RequestTimeout: cfg.RequestTimeout(),
	})

	a.logger.Info("gateway starting (stdio transport)", zap.Int("tools", components.registry.Len()))
	return mcpServer.Run(ctx, &mcp.StdioTransport{})
}

type components struct {
	store    store.RecordStore
	registry *registry.Registry
	engine   *engine.Engine
	metrics  domain.Metrics
}

func (a *App) build(ctx context.Context, cfg *config.Config, metrics domain.Metrics) (*components, func(), error) {
	recordStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL, a.logger)
	if err != nil {
		return nil, nil, err
	}

	toolCache := cache.Cache(cache.NewNoop())
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			recordStore.Close()
			return nil, nil, fmt.Errorf("invalid redis url: %w", err)
		}
		redisClient = redis.NewClient(redisOpts)
		toolCache = cache.NewRedisCache(redisClient, a.logger)
	}

	reg, err := registry.New(tools.Definitions(recordStore))
	if err != nil {
		recordStore.Close()
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, nil, fmt.Errorf("tool registration: %w", err)
	}

	eng := engine.New(engine.Options{
		Registry:   reg,
		Cache:      toolCache,
		Metrics:    metrics,
		Logger:     a.logger,
		DefaultTTL: cfg.CacheTTL(),
	})

	cleanup := func() {
		recordStore.Close()
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}
	return &components{store: recordStore, registry: reg, engine: eng, metrics: metrics}, cleanup, nil
}
