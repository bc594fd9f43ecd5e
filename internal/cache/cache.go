package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value   T
	expires time.Time
}

// Cache is a process-wide TTL cache used by the external-store and content
// clients to avoid redundant network calls within a short window. Entries are
// overwritten last-write-wins; a racing miss only costs a redundant fetch.
type Cache[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry[T]
	nowTime func() time.Time // injectable for testing
}

// Option modifies a Cache instance.
type Option[T any] func(*Cache[T])

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime[T any](nowFunc func() time.Time) Option[T] {
	return func(c *Cache[T]) {
		c.nowTime = nowFunc
	}
}

// New creates a cache whose entries expire ttl after being set.
func New[T any](ttl time.Duration, options ...Option[T]) *Cache[T] {
	c := &Cache[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		var zero T
		return zero, false
	}
	if c.nowTime().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[T]{value: value, expires: c.nowTime().Add(c.ttl)}
}

// Clear removes all entries.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[T])
}

// Len returns the number of entries, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the current cache keys, for debugging.
func (c *Cache[T]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}
