package cache

import (
	"context"
	"sync"
	"time"
)

// memoryItem is one stored entry with its expiry deadline.
type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

func (i *memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// MemoryCache is an in-process cache with TTL eviction. Safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	items   map[string]*memoryItem
	stopCh  chan struct{}
	stopped sync.Once
}

// NewMemoryCache creates a memory cache and starts its cleanup loop.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		items:  make(map[string]*memoryItem),
		stopCh: make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.cleanupLoop(cleanupInterval)
	}
	return c
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *MemoryCache) removeExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, item := range c.items {
		if item.expired(now) {
			delete(c.items, key)
		}
	}
}

// Get retrieves a value from cache by key
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || item.expired(time.Now()) {
		return nil, ErrCacheMiss
	}

	// Return a copy so callers cannot mutate cached bytes.
	value := make([]byte, len(item.value))
	copy(value, item.value)
	return value, nil
}

// Set stores a value in cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	item := &memoryItem{value: stored}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.items[key] = item
	c.mu.Unlock()
	return nil
}

// Delete removes a value from cache by key
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

// Exists checks if a key exists in cache
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	return ok && !item.expired(time.Now()), nil
}

// Close stops the cleanup loop and releases stored entries
func (c *MemoryCache) Close() error {
	c.stopped.Do(func() { close(c.stopCh) })
	c.mu.Lock()
	c.items = make(map[string]*memoryItem)
	c.mu.Unlock()
	return nil
}
