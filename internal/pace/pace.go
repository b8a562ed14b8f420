// Package pace throttles outbound provider calls to respect external
// quotas. The interval is configuration, not business logic, so callers
// can disable pacing entirely in tests.
package pace

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum interval between calls.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter returns a limiter allowing one call per interval. A
// non-positive interval disables pacing.
func NewLimiter(interval time.Duration) *Limiter {
	if interval <= 0 {
		return &Limiter{}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
