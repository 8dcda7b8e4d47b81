package cache

import (
	"testing"
	"time"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New()
	c.Set("k", "article body", time.Minute)

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected a hit")
	}
	if got != "article body" {
		t.Errorf("got %q, want %q", got, "article body")
	}
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c := New()
	if _, ok := c.Get("absent"); ok {
		t.Error("expected a miss")
	}
}

func TestCache_ExpiredEntryMisses(t *testing.T) {
	c := New()
	c.Set("k", "v", -time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry should miss")
	}
}

func TestCache_CleanupDropsExpired(t *testing.T) {
	c := New()
	c.Set("stale", "v", -time.Second)
	c.Set("fresh", "v", time.Minute)

	c.cleanup()

	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.items["stale"]; ok {
		t.Error("cleanup left an expired entry")
	}
	if _, ok := c.items["fresh"]; !ok {
		t.Error("cleanup dropped a live entry")
	}
}

func TestGenerateKey_StableAndDistinct(t *testing.T) {
	a := GenerateKey("https://example.com/a")
	b := GenerateKey("https://example.com/b")
	if a == b {
		t.Error("distinct urls must produce distinct keys")
	}
	if a != GenerateKey("https://example.com/a") {
		t.Error("key must be stable for the same url")
	}
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(a))
	}
}
