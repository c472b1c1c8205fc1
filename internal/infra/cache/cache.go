// Package cache provides a thread-safe in-memory TTL cache. Report
// results are keyed by store version, so superseded entries are never
// served; the background sweep only reclaims their memory.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value    T
	deadline int64 // unix nanos
}

// InMemory is a generic TTL cache guarded by a RWMutex.
type InMemory[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
	ttl   time.Duration
}

// New creates a cache whose entries expire after ttl. A background
// goroutine sweeps expired entries at the same interval.
func New[T any](ttl time.Duration) *InMemory[T] {
	c := &InMemory[T]{
		items: make(map[string]entry[T]),
		ttl:   ttl,
	}
	go c.sweep()
	return c
}

// Get returns the cached value, or false if absent or expired.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || time.Now().UnixNano() > e.deadline {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the configured TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{
		value:    value,
		deadline: time.Now().Add(c.ttl).UnixNano(),
	}
}

// Delete removes key from the cache.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

func (c *InMemory[T]) sweep() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now().UnixNano()
		c.mu.Lock()
		for k, e := range c.items {
			if now > e.deadline {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}
