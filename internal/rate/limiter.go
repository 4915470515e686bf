// Package rate implements per-client token-bucket rate limiting for the HTTP
// layer. Each client key gets a lazily created bucket with capacity
// requestsPerMinute + burst, refilled continuously at requestsPerMinute per
// 60 seconds. Idle buckets are evicted by an opportunistic sweep so the
// bucket map does not grow without bound.
package rate

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/planifi/backend/internal/config"
	"github.com/planifi/backend/internal/logger"
	xrate "golang.org/x/time/rate"
)

// Decision is the outcome of one admission check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Limit is the bucket capacity, surfaced in X-RateLimit-Limit.
	Limit int

	// Remaining is the whole number of tokens left after this request,
	// surfaced in X-RateLimit-Remaining. Zero when rejected.
	Remaining int

	// RetryAfter is how long a rejected client should wait before retrying,
	// whole seconds, never less than one. Zero when allowed.
	RetryAfter time.Duration
}

type bucket struct {
	limiter    *xrate.Limiter
	lastAccess atomic.Int64 // unix nanos of the most recent admission check
}

// Limiter holds one token bucket per client key.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	refill   xrate.Limit
	capacity int

	ttl           time.Duration
	sweepInterval time.Duration
	lastSweep     atomic.Int64 // unix nanos of the last sweep; CAS-guarded

	logger *logger.Logger
}

// NewLimiter constructs a [Limiter] from the rate-limit configuration.
func NewLimiter(cfg config.RateLimit, log *logger.Logger) *Limiter {
	log.Debug().
		Int("rpm", cfg.RequestsPerMinute).
		Int("burst", cfg.Burst).
		Msg("creating rate limiter")

	return &Limiter{
		buckets:       make(map[string]*bucket),
		refill:        xrate.Limit(float64(cfg.RequestsPerMinute) / 60.0),
		capacity:      cfg.RequestsPerMinute + cfg.Burst,
		ttl:           cfg.BucketTTL,
		sweepInterval: cfg.SweepInterval,
		logger:        log,
	}
}

// Admit checks whether the client identified by key may make a request now,
// consuming one token on success.
func (l *Limiter) Admit(key string) Decision {
	return l.admitAt(key, time.Now())
}

// admitAt is [Admit] with an explicit clock, for deterministic tests.
func (l *Limiter) admitAt(key string, now time.Time) Decision {
	l.maybeSweep(now)

	b := l.getOrCreate(key, now)
	b.lastAccess.Store(now.UnixNano())

	reservation := b.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		// Not enough tokens: give the token back and tell the client when
		// the next one accrues. The wait is rounded up so a client that
		// honors the hint never retries before the token exists.
		reservation.CancelAt(now)

		seconds := int64((delay + time.Second - 1) / time.Second)
		if seconds < 1 {
			seconds = 1
		}

		return Decision{
			Allowed:    false,
			Limit:      l.capacity,
			Remaining:  0,
			RetryAfter: time.Duration(seconds) * time.Second,
		}
	}

	remaining := int(b.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   true,
		Limit:     l.capacity,
		Remaining: remaining,
	}
}

func (l *Limiter) getOrCreate(key string, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		return b
	}

	b := &bucket{limiter: xrate.NewLimiter(l.refill, l.capacity)}
	b.lastAccess.Store(now.UnixNano())
	l.buckets[key] = b
	return b
}

// maybeSweep evicts buckets idle longer than the TTL. At most one caller per
// sweep interval wins the CAS on lastSweep and performs the scan; everyone
// else proceeds without blocking on eviction work.
func (l *Limiter) maybeSweep(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < l.sweepInterval.Nanoseconds() {
		return
	}
	if !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-l.ttl).UnixNano()

	l.mu.Lock()
	defer l.mu.Unlock()

	var evicted int
	for key, b := range l.buckets {
		if b.lastAccess.Load() < cutoff {
			delete(l.buckets, key)
			evicted++
		}
	}

	if evicted > 0 {
		l.logger.Debug().Int("evicted", evicted).Msg("swept idle rate limit buckets")
	}
}

// Size reports the current number of live buckets.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
