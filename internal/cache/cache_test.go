package cache

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := NewCache()
	defer c.Stop()

	c.Set("en-fr", "opus-mt-en-fr", time.Minute)

	value, ok := c.Get("en-fr")
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if value != "opus-mt-en-fr" {
		t.Errorf("Expected 'opus-mt-en-fr', got %v", value)
	}
}

func TestCache_Miss(t *testing.T) {
	c := NewCache()
	defer c.Stop()

	if _, ok := c.Get("absent"); ok {
		t.Error("Expected cache miss")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := NewCache()
	defer c.Stop()

	c.Set("key", "value", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("key"); ok {
		t.Error("Expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry removed on access, len=%d", c.Len())
	}
}

func TestCache_Overwrite(t *testing.T) {
	c := NewCache()
	defer c.Stop()

	c.Set("key", "old", time.Minute)
	c.Set("key", "new", time.Minute)

	value, _ := c.Get("key")
	if value != "new" {
		t.Errorf("Expected 'new', got %v", value)
	}
	if c.Len() != 1 {
		t.Errorf("Expected single entry after overwrite, len=%d", c.Len())
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCacheWithCapacity(2)
	defer c.Stop()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Get("a") // refresh a
	c.Set("c", 3, time.Minute)

	if _, ok := c.Get("b"); ok {
		t.Error("Expected 'b' to be evicted as least recently used")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("Expected 'a' to survive eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("Expected 'c' to be present")
	}
}
