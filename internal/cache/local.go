package cache

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// localLimiterEntry holds a token bucket and tracks its last usage.
type localLimiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// LocalLimiter is an in-process token bucket per key, used when no Redis
// is configured. Idle buckets are dropped by a background sweep.
type LocalLimiter struct {
	rps      rate.Limit
	burst    int
	idleTTL  time.Duration
	limiters map[string]*localLimiterEntry
	mu       sync.Mutex

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewLocalLimiter creates a limiter refilling rps tokens per second up to
// burst. Buckets unused for idleTTL are evicted.
func NewLocalLimiter(rps float64, burst int, idleTTL time.Duration) *LocalLimiter {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	l := &LocalLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		idleTTL:  idleTTL,
		limiters: make(map[string]*localLimiterEntry),
		stopCh:   make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Allow consumes one token from the key's bucket. It never fails.
func (l *LocalLimiter) Allow(_ context.Context, key string) (*RateLimitResult, error) {
	now := time.Now()
	lim := l.limiterFor(key, now)

	res := lim.ReserveN(now, 1)
	if !res.OK() {
		return &RateLimitResult{Allowed: false, Limit: l.burst, ResetAt: now.Add(time.Second), RetryAfter: time.Second}, nil
	}

	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		retry := time.Duration(math.Ceil(delay.Seconds())) * time.Second
		return &RateLimitResult{
			Allowed:    false,
			Limit:      l.burst,
			Remaining:  0,
			ResetAt:    now.Add(delay),
			RetryAfter: retry,
		}, nil
	}

	remaining := int64(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return &RateLimitResult{
		Allowed:   true,
		Limit:     l.burst,
		Remaining: remaining,
		ResetAt:   now.Add(time.Duration(float64(time.Second) / float64(l.rps))),
	}, nil
}

func (l *LocalLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[key]
	if !ok {
		entry = &localLimiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastUsed = now
	return entry.limiter
}

// Cleanup removes buckets idle for longer than the idle TTL.
func (l *LocalLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-l.idleTTL)
	for key, entry := range l.limiters {
		if entry.lastUsed.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}

func (l *LocalLimiter) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Cleanup()
		case <-l.stopCh:
			return
		}
	}
}

// Stop stops the cleanup goroutine and waits for it to finish.
func (l *LocalLimiter) Stop() {
	close(l.stopCh)
	l.wg.Wait()
}

// Len returns the number of live buckets.
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
