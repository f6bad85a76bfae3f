// Package cache holds generated chat replies keyed by (query, language,
// style). The policy is fixed: bounded capacity with a TTL, evicting the
// oldest entry when full. Entries are never persisted and die with the
// process.
package cache

import (
	"strings"
	"sync"
	"time"
)

// Key identifies one cached reply.
type Key struct {
	Query    string
	Language string
	Style    string
}

// NewKey normalizes the query (trimmed, lowercased) so trivially different
// spellings of the same question share an entry.
func NewKey(query, language, style string) Key {
	return Key{
		Query:    strings.ToLower(strings.TrimSpace(query)),
		Language: language,
		Style:    style,
	}
}

type entry struct {
	value     string
	createdAt time.Time
	expiresAt time.Time
}

// ResponseCache is a concurrency-safe bounded TTL cache.
type ResponseCache struct {
	mu         sync.RWMutex
	entries    map[Key]*entry
	maxEntries int
	ttl        time.Duration

	// now is swappable for expiry tests.
	now func() time.Time
}

// New creates a cache with the given capacity and TTL.
func New(maxEntries int, ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		entries:    make(map[Key]*entry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Get returns the cached value for key, if present and not expired.
func (c *ResponseCache) Get(key Key) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

// Put stores value under key, evicting the oldest entry at capacity.
func (c *ResponseCache) Put(key Key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	now := c.now()
	c.entries[key] = &entry{
		value:     value,
		createdAt: now,
		expiresAt: now.Add(c.ttl),
	}
}

// Len returns the number of stored entries, expired or not.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictOldest removes the entry with the earliest creation time.
// Caller holds the write lock.
func (c *ResponseCache) evictOldest() {
	var oldestKey Key
	var oldest time.Time
	first := true
	for k, e := range c.entries {
		if first || e.createdAt.Before(oldest) {
			oldestKey = k
			oldest = e.createdAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
