package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	staleAfter    = time.Hour
	sweepInterval = 5 * time.Minute
)

type memoryEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// MemoryLimiter keeps one token bucket per key in process memory. Buckets idle for an hour
// are dropped during Allow.
type MemoryLimiter struct {
	config    Config
	mu        sync.Mutex
	entries   map[string]*memoryEntry
	lastSweep time.Time
	now       func() time.Time
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= sweepInterval {
		l.sweep(now)
	}

	entry, ok := l.entries[key]
	if !ok {
		entry = &memoryEntry{limiter: rate.NewLimiter(rate.Limit(l.config.RequestsPerSec), l.config.Burst)}
		l.entries[key] = entry
	}
	entry.lastAccess = now

	if entry.limiter.AllowN(now, 1) {
		return Decision{Allowed: true}, nil
	}

	reservation := entry.limiter.ReserveN(now, 1)
	retryAfter := reservation.DelayFrom(now)
	reservation.CancelAt(now)
	return Decision{Allowed: false, RetryAfter: retryAfter}, nil
}

// sweep drops idle buckets. Callers hold the lock.
func (l *MemoryLimiter) sweep(now time.Time) {
	threshold := now.Add(-staleAfter)
	for key, entry := range l.entries {
		if entry.lastAccess.Before(threshold) {
			delete(l.entries, key)
		}
	}
	l.lastSweep = now
}

// NewMemoryLimiter creates an in-process limiter.
func NewMemoryLimiter(config Config) *MemoryLimiter {
	return &MemoryLimiter{
		config:  config,
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}
