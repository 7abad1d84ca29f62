package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/studio/backend/internal/application/settings/dto"
	"github.com/studio/backend/internal/domain/course"
)

// RedisConfig holds the connection settings for a Redis-backed cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisSettingsViewCache caches full settings views in Redis. Lookups
// are best effort: any Redis failure reads as a miss and writes are
// dropped with a log line, so the settings API never fails on cache
// trouble.
type RedisSettingsViewCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisSettingsViewCacheOption is a functional option for configuring the cache
type RedisSettingsViewCacheOption func(*RedisSettingsViewCache)

// WithViewTTL sets the cache entry lifetime
func WithViewTTL(ttl time.Duration) RedisSettingsViewCacheOption {
	return func(c *RedisSettingsViewCache) {
		c.ttl = ttl
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisSettingsViewCacheOption {
	return func(c *RedisSettingsViewCache) {
		c.logger = logger
	}
}

// NewRedisSettingsViewCache creates a new Redis-based settings view cache
func NewRedisSettingsViewCache(cfg RedisConfig, opts ...RedisSettingsViewCacheOption) (*RedisSettingsViewCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisSettingsViewCache{
		client:     client,
		ownsClient: true,
		ttl:        5 * time.Minute,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisSettingsViewCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisSettingsViewCacheWithClient(client *redis.Client, opts ...RedisSettingsViewCacheOption) *RedisSettingsViewCache {
	cache := &RedisSettingsViewCache{
		client:     client,
		ownsClient: false,
		ttl:        5 * time.Minute,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// viewCacheKey generates the cache key for a course's settings view
func (c *RedisSettingsViewCache) viewCacheKey(key course.Key) string {
	return "settings_view:" + key.String()
}

// Get retrieves a cached settings view
func (c *RedisSettingsViewCache) Get(ctx context.Context, key course.Key) (dto.SettingsView, bool) {
	data, err := c.client.Get(ctx, c.viewCacheKey(key)).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for settings view", zap.String("course_key", key.String()))
		return nil, false
	}
	if err != nil {
		c.logger.Error("Failed to get settings view from cache",
			zap.String("course_key", key.String()),
			zap.Error(err))
		return nil, false
	}

	var view dto.SettingsView
	if err := json.Unmarshal(data, &view); err != nil {
		c.logger.Error("Failed to unmarshal cached settings view",
			zap.String("course_key", key.String()),
			zap.Error(err))
		return nil, false
	}
	return view, true
}

// Set stores a settings view
func (c *RedisSettingsViewCache) Set(ctx context.Context, key course.Key, view dto.SettingsView) {
	data, err := json.Marshal(view)
	if err != nil {
		c.logger.Error("Failed to marshal settings view for cache",
			zap.String("course_key", key.String()),
			zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, c.viewCacheKey(key), data, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to store settings view in cache",
			zap.String("course_key", key.String()),
			zap.Error(err))
	}
}

// Invalidate removes a course's cached view
func (c *RedisSettingsViewCache) Invalidate(ctx context.Context, key course.Key) {
	if err := c.client.Del(ctx, c.viewCacheKey(key)).Err(); err != nil {
		c.logger.Error("Failed to invalidate cached settings view",
			zap.String("course_key", key.String()),
			zap.Error(err))
	}
}

// Close closes the Redis client if this cache owns it
func (c *RedisSettingsViewCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}
