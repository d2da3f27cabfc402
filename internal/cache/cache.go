// Package cache provides a small thread-safe LRU cache with expiration,
// used to avoid re-reading model configuration files on every request.
package cache

import (
	"context"
	"sync"
	"time"

	"translateapi/internal/core"
)

// LRUCache is a thread-safe LRU cache with expiration
type LRUCache struct {
	capacity int
	items    map[string]*cacheItem
	mu       sync.RWMutex
	head     *cacheItem
	tail     *cacheItem
	ctx      context.Context
	cancel   context.CancelFunc
}

type cacheItem struct {
	value      any
	expiration int64
	key        string
	prev       *cacheItem
	next       *cacheItem
}

// NewCache creates a new LRU cache with the default capacity.
func NewCache() *LRUCache {
	return NewCacheWithCapacity(core.CacheDefaultCapacity)
}

// NewCacheWithCapacity creates a new LRU cache holding at most capacity
// entries.
func NewCacheWithCapacity(capacity int) *LRUCache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &LRUCache{
		capacity: capacity,
		items:    make(map[string]*cacheItem),
		ctx:      ctx,
		cancel:   cancel,
	}

	c.head = &cacheItem{}
	c.tail = &cacheItem{}
	c.head.next = c.tail
	c.tail.prev = c.head

	go c.startCleanupWorker()
	return c
}

func (c *LRUCache) startCleanupWorker() {
	ticker := time.NewTicker(core.CacheCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-c.ctx.Done():
			return
		}
	}
}

// Stop terminates the cache cleanup worker goroutine.
func (c *LRUCache) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Set stores a value in the cache with the given TTL.
func (c *LRUCache) Set(key string, value any, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiration := time.Now().Add(duration).UnixNano()

	if item, exists := c.items[key]; exists {
		item.value = value
		item.expiration = expiration
		c.moveToFront(item)
		return
	}

	item := &cacheItem{
		value:      value,
		expiration: expiration,
		key:        key,
	}
	c.items[key] = item
	c.addToFront(item)

	if len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// Get returns the cached value for key if present and unexpired.
func (c *LRUCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[key]
	if !exists {
		return nil, false
	}
	if time.Now().UnixNano() > item.expiration {
		c.removeItem(item)
		return nil, false
	}
	c.moveToFront(item)
	return item.value, true
}

// Len returns the number of entries currently cached.
func (c *LRUCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *LRUCache) cleanupExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for _, item := range c.items {
		if now > item.expiration {
			c.removeItem(item)
		}
	}
}

func (c *LRUCache) addToFront(item *cacheItem) {
	item.prev = c.head
	item.next = c.head.next
	c.head.next.prev = item
	c.head.next = item
}

func (c *LRUCache) moveToFront(item *cacheItem) {
	c.unlink(item)
	c.addToFront(item)
}

func (c *LRUCache) unlink(item *cacheItem) {
	item.prev.next = item.next
	item.next.prev = item.prev
}

func (c *LRUCache) removeItem(item *cacheItem) {
	c.unlink(item)
	delete(c.items, item.key)
}

func (c *LRUCache) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.removeItem(oldest)
}

var _ core.Cache = (*LRUCache)(nil)
