// Package ratelimit provides token bucket style request limiting behind a swappable store:
// process memory for a single instance, Redis when several instances share the limits.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed bool
	// RetryAfter is set when the request was rejected.
	RetryAfter time.Duration
}

// Limiter decides whether one more request for key fits the configured rate.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Config is the rate applied to every key of a limiter.
type Config struct {
	RequestsPerSec float64
	Burst          int
}

// window is the fixed window that admits Burst requests at RequestsPerSec on average.
func (c Config) window() time.Duration {
	if c.RequestsPerSec <= 0 {
		return time.Second
	}
	return time.Duration(float64(c.Burst) / c.RequestsPerSec * float64(time.Second))
}
