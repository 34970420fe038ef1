// Package ratelimit implements fixed-window request counting keyed by an
// arbitrary string (typically client IP). Buckets live behind an injected
// Store so the in-memory default can be swapped for a shared cache;
// expiry is lazy, checked on read rather than swept by a background
// goroutine.
package ratelimit

import (
	"sync"
	"time"
)

// Bucket is one key's counter for the current window.
type Bucket struct {
	WindowStart time.Time
	Count       int
}

// Store holds rate-limit buckets. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(key string) (Bucket, bool)
	Set(key string, b Bucket)
	Delete(key string)
}

// MemoryStore is the default in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]Bucket
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: map[string]Bucket{}}
}

func (s *MemoryStore) Get(key string) (Bucket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[key]
	return b, ok
}

func (s *MemoryStore) Set(key string, b Bucket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[key] = b
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
}

// Limiter counts requests per key in fixed windows. A request in an
// expired window starts a fresh one.
type Limiter struct {
	store    Store
	window   time.Duration
	capacity int
}

// NewLimiter creates a limiter allowing capacity requests per window.
// A nil store gets an in-memory default.
func NewLimiter(store Store, window time.Duration, capacity int) *Limiter {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Limiter{store: store, window: window, capacity: capacity}
}

// Allow reports whether one more request for key fits in the current
// window, counting it if so.
func (l *Limiter) Allow(key string, now time.Time) bool {
	b, ok := l.store.Get(key)
	if !ok || now.Sub(b.WindowStart) >= l.window {
		b = Bucket{WindowStart: now}
	}
	if b.Count >= l.capacity {
		return false
	}
	b.Count++
	l.store.Set(key, b)
	return true
}

// RetryAfter returns how long until key's current window resets. Zero
// when the key has no live bucket.
func (l *Limiter) RetryAfter(key string, now time.Time) time.Duration {
	b, ok := l.store.Get(key)
	if !ok {
		return 0
	}
	remaining := l.window - now.Sub(b.WindowStart)
	if remaining <= 0 {
		l.store.Delete(key)
		return 0
	}
	return remaining
}
