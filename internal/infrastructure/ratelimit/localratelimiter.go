package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LocalRateLimiter is the single-instance fallback used when Redis is
// disabled: one token bucket per key and window, refilled continuously.
type LocalRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*bucket
	idleTTL  time.Duration
}

type bucket struct {
	limiters []*rate.Limiter
	lastSeen time.Time
}

func NewLocalRateLimiter() *LocalRateLimiter {
	return &LocalRateLimiter{
		limiters: make(map[string]*bucket),
		idleTTL:  2 * time.Hour,
	}
}

func (l *LocalRateLimiter) Allow(_ context.Context, key string, config RateLimitConfig) (bool, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.limiters[key]
	if !ok {
		b = &bucket{}
		for _, w := range config.windows() {
			if w.limit <= 0 {
				continue
			}
			every := rate.Every(w.duration / time.Duration(w.limit))
			b.limiters = append(b.limiters, rate.NewLimiter(every, w.limit))
		}
		l.limiters[key] = b
	}
	b.lastSeen = now

	reservations := make([]*rate.Reservation, 0, len(b.limiters))
	for _, lim := range b.limiters {
		r := lim.ReserveN(now, 1)
		if !r.OK() || r.DelayFrom(now) > 0 {
			r.CancelAt(now)
			for _, prev := range reservations {
				prev.CancelAt(now)
			}
			return false, nil
		}
		reservations = append(reservations, r)
	}

	l.evictIdle(now)
	return true, nil
}

func (l *LocalRateLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.limiters, key)
	l.mu.Unlock()
	return nil
}

func (l *LocalRateLimiter) evictIdle(now time.Time) {
	for k, b := range l.limiters {
		if now.Sub(b.lastSeen) > l.idleTTL {
			delete(l.limiters, k)
		}
	}
}
