package verification

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is the admission-control collaborator: a sliding-window
// counter keyed by a client identifier. Limit and window are explicit per
// call so each surface (booking submit, OTP request, OTP verify) can carry
// its own budget.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// MemoryLimiter is the in-process fallback used when redis is not
// configured. It keeps the per-key request timestamps of the sliding window
// under a mutex; state resets on restart and is not shared across
// instances, which is why deployments with more than one replica should run
// the redis limiter instead.
type MemoryLimiter struct {
	mu      sync.Mutex
	history map[string][]time.Time
	now     func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		history: make(map[string][]time.Time),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-window)

	kept := l.history[key][:0]
	for _, ts := range l.history[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= limit {
		l.history[key] = kept
		return false, nil
	}

	l.history[key] = append(kept, now)
	return true, nil
}
