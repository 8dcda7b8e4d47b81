package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type cacheItem struct {
	Value     string
	ExpiresAt time.Time
}

// Cache is an in-memory TTL cache keyed by URL hash, used to avoid
// re-scraping article bodies inside one process lifetime.
type Cache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
}

func New() *Cache {
	c := &Cache{
		items: make(map[string]cacheItem),
	}

	// Cleanup expired items every hour
	go c.cleanupLoop()

	return c
}

func (c *Cache) Set(key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
	}
}

func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || time.Now().After(item.ExpiresAt) {
		return "", false
	}
	return item.Value, true
}

func GenerateKey(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *Cache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, item := range c.items {
		if now.After(item.ExpiresAt) {
			delete(c.items, key)
		}
	}
}
