// Package ratelimit provides a keyed token-bucket rate limiter. Each key
// (a client IP, typically) gets its own independent limiter.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

type KeyedLimiter struct {
	mu sync.RWMutex
	limiters map[string]*rate.Limiter
	limit rate.Limit
	burst int
}

func New(rps float64, burst int) *KeyedLimiter {
	return &KeyedLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit: rate.Limit(rps),
		burst: burst,
	}
}

// Allow reports whether a request for the key may proceed right now.
func (l *KeyedLimiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

func (l *KeyedLimiter) getLimiter(key string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[key]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists = l.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.limit, l.burst)
	l.limiters[key] = limiter
	return limiter
}
