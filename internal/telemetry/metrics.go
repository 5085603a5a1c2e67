package telemetry

import (
	"time"

	"github.com/alangould92/fareway-database-mcp/internal/domain"
)

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveExecution(_ string, _ string, _ time.Duration) {}

func (n *NoopMetrics) ObserveCache(_ string, _ string) {}

func (n *NoopMetrics) ObserveRateLimited() {}

var _ domain.Metrics = (*NoopMetrics)(nil)
