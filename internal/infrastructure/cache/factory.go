package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/studio/backend/internal/application/settings"
	"github.com/studio/backend/internal/infrastructure/config"
)

// ViewCacheFactory creates settings view caches based on configuration
type ViewCacheFactory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ViewCacheFactoryOption is a functional option for configuring the factory
type ViewCacheFactoryOption func(*ViewCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ViewCacheFactoryOption {
	return func(f *ViewCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// cache when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) ViewCacheFactoryOption {
	return func(f *ViewCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewViewCacheFactory creates a new factory
func NewViewCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...ViewCacheFactoryOption) *ViewCacheFactory {
	f := &ViewCacheFactory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create builds the configured cache backend. Returns nil when caching
// is disabled; callers treat a nil cache as cache-off.
func (f *ViewCacheFactory) Create() (settings.ViewCache, error) {
	if !f.cacheConfig.Enabled {
		return nil, nil
	}

	switch f.cacheConfig.Backend {
	case "memory":
		return NewInMemorySettingsViewCache(
			WithInMemoryTTL(f.cacheConfig.TTL),
			WithInMemoryLogger(f.logger),
		), nil

	case "redis":
		cache, err := NewRedisSettingsViewCache(RedisConfig{
			Host:     f.redisConfig.Host,
			Port:     f.redisConfig.Port,
			Password: f.redisConfig.Password,
			DB:       f.redisConfig.DB,
		},
			WithViewTTL(f.cacheConfig.TTL),
			WithCacheLogger(f.logger),
		)
		if err == nil {
			return cache, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("creating redis settings view cache: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory settings view cache",
			zap.Error(err))
		return NewInMemorySettingsViewCache(
			WithInMemoryTTL(f.cacheConfig.TTL),
			WithInMemoryLogger(f.logger),
		), nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", f.cacheConfig.Backend)
	}
}
