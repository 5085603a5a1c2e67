package domain

import "time"

// Metrics receives gateway observability events. Implementations live in
// internal/telemetry.
type Metrics interface {
	ObserveExecution(tool, status string, duration time.Duration)
	ObserveCache(tool, outcome string)
	ObserveRateLimited()
}
