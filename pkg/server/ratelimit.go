package server

import (
	"sync"
	"time"
)

// RateLimiter is a fixed-window per-client request counter. It is an
// explicitly owned component: create it once at startup and inject it
// into the server. Expired entries are pruned on each call, keeping the
// map bounded by the number of clients seen in one window.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	entries map[string]*rateEntry

	now func() time.Time // overridable in tests
}

type rateEntry struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates a limiter allowing max requests per window
// per key.
func NewRateLimiter(window time.Duration, max int) *RateLimiter {
	return &RateLimiter{
		window:  window,
		max:     max,
		entries: make(map[string]*rateEntry),
		now:     time.Now,
	}
}

// Allow records one request for key and reports whether it is within
// the limit.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, entry := range l.entries {
		if now.After(entry.resetAt) || now.Equal(entry.resetAt) {
			delete(l.entries, k)
		}
	}

	entry, ok := l.entries[key]
	if !ok {
		l.entries[key] = &rateEntry{count: 1, resetAt: now.Add(l.window)}
		return true
	}

	entry.count++
	return entry.count <= l.max
}
