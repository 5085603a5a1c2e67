package transport

import (
	"sync"
	"time"
)

// FixedWindowLimiter counts requests per caller within fixed time buckets.
// All counters reset at each window boundary; there is no sliding behavior.
type FixedWindowLimiter struct {
	window time.Duration
	limit  int
	now    func() time.Time

	mu          sync.Mutex
	windowStart time.Time
	counts      map[string]int
}

func NewFixedWindowLimiter(window time.Duration, limit int) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		window: window,
		limit:  limit,
		now:    time.Now,
		counts: make(map[string]int),
	}
}

// Allow records one request from caller and reports whether it fits the
// current window. When rejected, retryAfter is the time until the next
// window boundary.
func (l *FixedWindowLimiter) Allow(caller string) (allowed bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.windowStart.IsZero() || now.Sub(l.windowStart) >= l.window {
		l.windowStart = now
		l.counts = make(map[string]int)
	}

	if l.counts[caller] >= l.limit {
		return false, l.windowStart.Add(l.window).Sub(now)
	}
	l.counts[caller]++
	return true, 0
}
