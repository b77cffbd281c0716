// Package ratelimit provides a keyed token bucket limiter for inbound
// request protection. Each key (client IP) gets its own bucket.
package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	// sweepInterval is how often idle buckets are evicted.
	sweepInterval = time.Minute
	// idleAfter is how long a key may go unused before its bucket is dropped.
	idleAfter = 3 * time.Minute
)

// entry pairs a limiter with its last use so idle buckets can be evicted.
// lastSeen holds unix nanoseconds and is updated lock-free on the hot path.
type entry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// KeyedLimiter manages per-key rate limiting. Keys that stay idle are
// evicted by a background sweep, so the map does not grow with every client
// IP ever seen.
type KeyedLimiter struct {
	mu      sync.RWMutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a keyed limiter allowing rps requests per second with the
// given burst per key, and starts the eviction sweep.
func New(rps float64, burst int) *KeyedLimiter {
	kl := &KeyedLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		done:    make(chan struct{}),
	}

	go kl.sweep()

	return kl
}

// Allow reports whether a request for the given key should be admitted.
// Returns immediately without blocking.
func (kl *KeyedLimiter) Allow(key string) bool {
	e := kl.getEntry(key)
	e.lastSeen.Store(time.Now().UnixNano())
	return e.limiter.Allow()
}

// Len returns the number of tracked keys.
func (kl *KeyedLimiter) Len() int {
	kl.mu.RLock()
	defer kl.mu.RUnlock()
	return len(kl.entries)
}

// Stop shuts down the eviction sweep.
func (kl *KeyedLimiter) Stop() {
	kl.stopOnce.Do(func() {
		close(kl.done)
	})
}

// getEntry returns the entry for a key, creating one if needed.
func (kl *KeyedLimiter) getEntry(key string) *entry {
	// Fast path: read lock.
	kl.mu.RLock()
	e, exists := kl.entries[key]
	kl.mu.RUnlock()

	if exists {
		return e
	}

	// Slow path: write lock to create.
	kl.mu.Lock()
	defer kl.mu.Unlock()

	// Double-check after acquiring write lock.
	if e, exists = kl.entries[key]; exists {
		return e
	}

	e = &entry{limiter: rate.NewLimiter(kl.limit, kl.burst)}
	kl.entries[key] = e
	return e
}

// sweep periodically evicts idle buckets until Stop is called.
func (kl *KeyedLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-kl.done:
			return
		case now := <-ticker.C:
			kl.evictIdle(now)
		}
	}
}

// evictIdle removes every bucket not used since now minus the idle window.
// It returns the number of evicted keys.
func (kl *KeyedLimiter) evictIdle(now time.Time) int {
	cutoff := now.Add(-idleAfter).UnixNano()

	kl.mu.Lock()
	defer kl.mu.Unlock()

	evicted := 0
	for key, e := range kl.entries {
		if e.lastSeen.Load() < cutoff {
			delete(kl.entries, key)
			evicted++
		}
	}
	return evicted
}
