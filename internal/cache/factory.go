package cache

import (
	"context"
	"fmt"
)

// NewCache creates a cache backend from configuration
func NewCache(ctx context.Context, config *Config) (Cache, error) {
	if config == nil || !config.Enabled {
		return nil, ErrCacheDisabled
	}

	switch config.Backend {
	case CacheTypeMemory, "":
		return NewMemoryCache(config.CleanupInterval), nil
	case CacheTypeRedis:
		return NewRedisCache(ctx, config)
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", config.Backend)
	}
}
