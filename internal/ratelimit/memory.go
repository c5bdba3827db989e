package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/smallbiznis/hotelbill/internal/clock"
	"golang.org/x/time/rate"
)

// sweepInterval bounds how often idle limiters are scanned for eviction.
const sweepInterval = time.Minute

// MemoryBucket is the single-process Bucket used when no redis is
// configured. Each key gets a rate.Limiter driven by the injected clock.
type MemoryBucket struct {
	mu        sync.Mutex
	clock     clock.Clock
	limiters  map[string]*rate.Limiter
	lastSweep time.Time
}

func NewMemoryBucket(c clock.Clock) *MemoryBucket {
	if c == nil {
		c = clock.System()
	}
	return &MemoryBucket{
		clock:    c,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (m *MemoryBucket) Allow(_ context.Context, key string, perSecond float64, burst int) (*RateLimitResult, error) {
	if err := validateBucketArgs(key, perSecond, burst); err != nil {
		return &RateLimitResult{Allowed: false}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	m.sweep(now)

	limit := rate.Limit(perSecond)
	lim, ok := m.limiters[key]
	if !ok {
		lim = rate.NewLimiter(limit, burst)
		m.limiters[key] = lim
	} else {
		if lim.Limit() != limit {
			lim.SetLimitAt(now, limit)
		}
		if lim.Burst() != burst {
			lim.SetBurstAt(now, burst)
		}
	}

	allowed := lim.AllowN(now, 1)
	remaining := lim.TokensAt(now)
	if remaining < 0 {
		remaining = 0
	}

	retryAfter := refillDelay(allowed, remaining, perSecond)
	return &RateLimitResult{
		Allowed:    allowed,
		Limit:      burst,
		Remaining:  int(remaining),
		ResetTime:  now.Add(retryAfter),
		RetryAfter: retryAfter,
	}, nil
}

// sweep drops limiters that have refilled to capacity. A full limiter is
// indistinguishable from a fresh one, so eviction never grants extra tokens.
func (m *MemoryBucket) sweep(now time.Time) {
	if !m.lastSweep.IsZero() && now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now

	for key, lim := range m.limiters {
		if lim.TokensAt(now) >= float64(lim.Burst()) {
			delete(m.limiters, key)
		}
	}
}
