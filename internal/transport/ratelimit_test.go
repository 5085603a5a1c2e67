package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFixedWindowLimiter_CeilingAndReset(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewFixedWindowLimiter(time.Minute, 2)
	limiter.now = func() time.Time { return now }

	allowed, _ := limiter.Allow("10.0.0.1")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1")
	require.True(t, allowed)

	allowed, retryAfter := limiter.Allow("10.0.0.1")
	require.False(t, allowed, "third request in the window must be rejected")
	require.Greater(t, retryAfter, time.Duration(0))
	require.LessOrEqual(t, retryAfter, time.Minute)

	// First request of the next window passes again.
	now = now.Add(time.Minute)
	allowed, _ = limiter.Allow("10.0.0.1")
	require.True(t, allowed)
}

func TestFixedWindowLimiter_CallersCountedSeparately(t *testing.T) {
	limiter := NewFixedWindowLimiter(time.Minute, 1)

	allowed, _ := limiter.Allow("10.0.0.1")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.2")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1")
	require.False(t, allowed)
}

func TestFixedWindowLimiter_WindowBoundaryResetsAllCounters(t *testing.T) {
	now := time.Unix(0, 0)
	limiter := NewFixedWindowLimiter(time.Minute, 1)
	limiter.now = func() time.Time { return now }

	limiter.Allow("a")
	limiter.Allow("b")
	allowed, _ := limiter.Allow("a")
	require.False(t, allowed)

	now = now.Add(61 * time.Second)
	allowed, _ = limiter.Allow("a")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("b")
	require.True(t, allowed)
}
