package cache

import (
	"context"
	"errors"
	"time"
)

// Cache defines the generic cache interface for all cache implementations
type Cache interface {
	// Get retrieves a value from cache by key
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from cache by key
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// Close closes the cache connection
	Close() error
}

// CacheType identifies the cache backend
type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

// Config holds configuration for cache instances
type Config struct {
	Enabled         bool
	Backend         CacheType
	Prefix          string
	TTL             time.Duration
	CleanupInterval time.Duration
	RedisAddress    string
	RedisPassword   string
	RedisDatabase   int
	RedisPoolSize   int
}

// Common cache errors
var (
	ErrCacheMiss     = errors.New("cache: key not found")
	ErrCacheDisabled = errors.New("cache: caching is disabled")
)
