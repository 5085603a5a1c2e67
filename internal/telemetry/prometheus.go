// Package telemetry implements the gateway's metrics sinks.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/alangould92/fareway-database-mcp/internal/domain"
)

type PrometheusMetrics struct {
	toolExecutions *prometheus.CounterVec
	toolDuration   *prometheus.HistogramVec
	cacheRequests  *prometheus.CounterVec
	rateLimited    prometheus.Counter
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		toolExecutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fareway_tool_executions_total",
				Help: "Total number of tool executions by outcome",
			},
			[]string{"tool", "status"},
		),
		toolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fareway_tool_duration_seconds",
				Help:    "Duration of tool executions in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"tool"},
		),
		cacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fareway_cache_requests_total",
				Help: "Cache lookups by outcome for cacheable tools",
			},
			[]string{"tool", "outcome"},
		),
		rateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fareway_rate_limited_total",
				Help: "Requests rejected by the fixed-window rate limiter",
			},
		),
	}
}

func (m *PrometheusMetrics) ObserveExecution(tool, status string, duration time.Duration) {
	m.toolExecutions.WithLabelValues(tool, status).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) ObserveCache(tool, outcome string) {
	m.cacheRequests.WithLabelValues(tool, outcome).Inc()
}

func (m *PrometheusMetrics) ObserveRateLimited() {
	m.rateLimited.Inc()
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
