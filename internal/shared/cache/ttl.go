package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a concurrency-safe map whose entries expire after a per-entry lifetime.
// Expired entries are dropped lazily on Get; there is no background sweep.
type TTL[K comparable, V any] struct {
	mu    sync.Mutex
	items map[K]entry[V]
	now   func() time.Time
}

// New creates an empty cache driven by the wall clock.
func New[K comparable, V any]() *TTL[K, V] {
	return NewWithClock[K, V](time.Now)
}

// NewWithClock creates an empty cache that reads time from now.
func NewWithClock[K comparable, V any](now func() time.Time) *TTL[K, V] {
	return &TTL[K, V]{
		items: make(map[K]entry[V]),
		now:   now,
	}
}

// Get returns the live value stored under key.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.items, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for ttl. A non-positive ttl removes the key.
func (c *TTL[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		delete(c.items, key)
		return
	}
	c.items[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
}

// Len reports the number of stored entries, including ones that expired but were not read yet.
func (c *TTL[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
