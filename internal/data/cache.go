package data

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// CacheEntry is a cached publication body.
type CacheEntry struct {
	Body      []byte
	ExpiresAt time.Time
}

// ResponseCache keeps downloaded publications for a TTL so that refreshes
// within the TTL do not hit the source again. A nil cache is valid and
// never hits.
type ResponseCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewResponseCache returns a cache, or nil when ttl disables caching.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		return nil
	}
	return &ResponseCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a cached body if available and not expired.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists || c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Body, true
}

// Set stores body and drops any expired entries.
func (c *ResponseCache) Set(key string, body []byte) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, k)
		}
	}
	c.store[key] = &CacheEntry{
		Body:      body,
		ExpiresAt: now.Add(c.ttl),
	}
}

// Clear removes all entries from the cache.
func (c *ResponseCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

// GenerateCacheKey hashes the source URL into a cache key.
func GenerateCacheKey(sourceURL string) string {
	hash := sha256.Sum256([]byte(sourceURL))
	return hex.EncodeToString(hash[:])
}
