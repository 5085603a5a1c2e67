// Package transport hosts the gateway's two front ends: the stateless HTTP
// API and the MCP session adapter, both behind the same bearer auth and
// fixed-window rate limiting.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alangould92/fareway-database-mcp/internal/domain"
	"github.com/alangould92/fareway-database-mcp/internal/engine"
	"github.com/alangould92/fareway-database-mcp/internal/registry"
	"github.com/alangould92/fareway-database-mcp/internal/store"
)

type HTTPServerOptions struct {
	Registry *registry.Registry
	Engine   *engine.Engine
	Store    store.RecordStore
	Metrics  domain.Metrics
	Logger   *zap.Logger

	// AuthSecret enables bearer auth when non-empty.
	AuthSecret string
	Limiter    *FixedWindowLimiter
	// RequestTimeout bounds each tool execution; zero disables the deadline.
	RequestTimeout time.Duration
	// MCPHandler, when set, is mounted at /mcp behind auth and rate limiting.
	MCPHandler http.Handler
	// Gatherer backs /metrics; defaults to the global prometheus gatherer.
	Gatherer prometheus.Gatherer
}

type HTTPServer struct {
	opts    HTTPServerOptions
	auth    bearerAuth
	logger  *zap.Logger
	started time.Time
}

func NewHTTPServer(opts HTTPServerOptions) *HTTPServer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPServer{
		opts:    opts,
		auth:    bearerAuth{secret: opts.AuthSecret},
		logger:  logger.Named("http"),
		started: time.Now(),
	}
}

// Handler builds the full route table. /health and /metrics stay outside the
// auth and rate-limit chain.
func (s *HTTPServer) Handler() http.Handler {
	gatherer := s.opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("GET /tools", s.guard(http.HandlerFunc(s.handleListTools)))
	mux.Handle("POST /tools/{name}", s.guard(http.HandlerFunc(s.handleCallTool)))
	if s.opts.MCPHandler != nil {
		mux.Handle("/mcp", s.guard(s.opts.MCPHandler))
	}
	return s.recoverer(mux)
}

// guard wraps a handler with auth then rate limiting.
func (s *HTTPServer) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status := s.auth.check(r); status != 0 {
			writeJSON(w, status, map[string]any{"error": http.StatusText(status)})
			return
		}
		if s.opts.Limiter != nil {
			allowed, retryAfter := s.opts.Limiter.Allow(callerAddr(r))
			if !allowed {
				if s.opts.Metrics != nil {
					s.opts.Metrics.ObserveRateLimited()
				}
				seconds := int(retryAfter.Seconds()) + 1
				w.Header().Set("Retry-After", fmt.Sprint(seconds))
				writeJSON(w, http.StatusTooManyRequests, map[string]any{
					"error":               "rate limit exceeded",
					"retry_after_seconds": seconds,
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// recoverer converts adapter-level panics into bare 500s. Handler-level
// failures never reach here; the engine folds them into the envelope.
func (s *HTTPServer) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic in request handler",
					zap.String("request_id", requestID),
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec))
				writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type catalogueEntry struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

func (s *HTTPServer) handleListTools(w http.ResponseWriter, r *http.Request) {
	entries := make([]catalogueEntry, 0, s.opts.Registry.Len())
	for _, def := range s.opts.Registry.List() {
		entries = append(entries, catalogueEntry{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema.JSONSchema(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": entries})
}

func (s *HTTPServer) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if _, ok := s.opts.Registry.Lookup(name); !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": fmt.Sprintf("unknown tool: %s", name)})
		return
	}

	var rawArgs map[string]any
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&rawArgs); err != nil {
			// Malformed body is a caller error, reported in the envelope.
			result := domain.Failure(fmt.Sprintf("malformed request body: %v", err))
			result.Metadata = map[string]any{"duration_ms": int64(0)}
			writeJSON(w, http.StatusOK, result)
			return
		}
	}
	if rawArgs == nil {
		rawArgs = map[string]any{}
	}

	ctx := r.Context()
	if s.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
	}

	result := s.opts.Engine.Execute(ctx, name, rawArgs)
	writeJSON(w, http.StatusOK, result)
}

type healthReport struct {
	Status        string  `json:"status"`
	Database      string  `json:"database"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := healthReport{
		Status:        "healthy",
		Database:      "connected",
		UptimeSeconds: time.Since(s.started).Seconds(),
	}
	if err := s.opts.Store.Ping(r.Context()); err != nil {
		s.logger.Warn("database probe failed", zap.Error(err))
		report.Status = "degraded"
		report.Database = "disconnected"
	}
	writeJSON(w, http.StatusOK, report)
}

// Serve runs the API server until ctx is canceled.
func (s *HTTPServer) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("api server failed to start: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("api server shutdown error", zap.Error(err))
			return err
		}
		s.logger.Info("api server stopped")
		return nil
	}
}

func callerAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
