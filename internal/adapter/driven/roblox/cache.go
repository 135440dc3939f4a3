package roblox

import (
	"sync"

	"github.com/gregjones/httpcache"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Compile-time interface satisfaction check.
var _ httpcache.Cache = (*LRUCache)(nil)

const (
	// DefaultCacheMaxBytes caps the bytes held by the response cache.
	DefaultCacheMaxBytes int64 = 32 << 20

	maxCacheEntries = 1024
)

// LRUCache is an httpcache.Cache holding at most maxBytes of serialized
// responses. The least recently used entries are evicted first, and a
// response larger than the whole budget is never stored.
type LRUCache struct {
	mu       sync.Mutex
	entries  *simplelru.LRU[string, []byte]
	size     int64
	maxBytes int64
}

// NewLRUCache creates an LRUCache bounded to maxBytes.
func NewLRUCache(maxBytes int64) *LRUCache {
	if maxBytes <= 0 {
		maxBytes = DefaultCacheMaxBytes
	}
	c := &LRUCache{maxBytes: maxBytes}
	// NewLRU only fails on a non-positive size.
	c.entries, _ = simplelru.NewLRU[string, []byte](maxCacheEntries, func(_ string, value []byte) {
		c.size -= int64(len(value))
	})
	return c
}

// Get returns the cached response for key.
func (c *LRUCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Get(key)
}

// Set stores resp under key, evicting old entries until it fits.
func (c *LRUCache) Set(key string, resp []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Remove(key)
	if int64(len(resp)) > c.maxBytes {
		return
	}
	for c.size+int64(len(resp)) > c.maxBytes {
		if _, _, ok := c.entries.RemoveOldest(); !ok {
			break
		}
	}
	c.entries.Add(key, resp)
	c.size += int64(len(resp))
}

// Delete removes key from the cache.
func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Remove(key)
}

// Size returns the bytes currently held.
func (c *LRUCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}
