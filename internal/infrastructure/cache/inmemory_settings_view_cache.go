package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/studio/backend/internal/application/settings/dto"
	"github.com/studio/backend/internal/domain/course"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
)

// InMemorySettingsViewCache caches settings views in process memory.
// Suited to single-instance deployments and tests; multi-instance
// deployments want the Redis variant so invalidations are shared.
type InMemorySettingsViewCache struct {
	views   sync.Map // map[string]*viewEntry
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	// Stats for monitoring
	hits   int64
	misses int64
}

// viewEntry wraps a cached view with expiration time
type viewEntry struct {
	view      dto.SettingsView
	expiresAt time.Time
}

func (e *viewEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemorySettingsViewCacheOption is a functional option for configuring the cache
type InMemorySettingsViewCacheOption func(*InMemorySettingsViewCache)

// WithInMemoryTTL sets the cache entry lifetime
func WithInMemoryTTL(ttl time.Duration) InMemorySettingsViewCacheOption {
	return func(c *InMemorySettingsViewCache) {
		c.ttl = ttl
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemorySettingsViewCacheOption {
	return func(c *InMemorySettingsViewCache) {
		c.logger = logger
	}
}

// NewInMemorySettingsViewCache creates a new in-memory settings view cache
func NewInMemorySettingsViewCache(opts ...InMemorySettingsViewCacheOption) *InMemorySettingsViewCache {
	cache := &InMemorySettingsViewCache{
		ttl:    5 * time.Minute,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	// Start background cleanup goroutine
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a cached settings view
func (c *InMemorySettingsViewCache) Get(_ context.Context, key course.Key) (dto.SettingsView, bool) {
	raw, ok := c.views.Load(key.String())
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	entry := raw.(*viewEntry)
	if entry.isExpired() {
		c.views.Delete(key.String())
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	atomic.AddInt64(&c.hits, 1)
	return entry.view, true
}

// Set stores a settings view
func (c *InMemorySettingsViewCache) Set(_ context.Context, key course.Key, view dto.SettingsView) {
	c.views.Store(key.String(), &viewEntry{
		view:      view,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Invalidate removes a course's cached view
func (c *InMemorySettingsViewCache) Invalidate(_ context.Context, key course.Key) {
	c.views.Delete(key.String())
}

// Stats returns hit and miss counters
func (c *InMemorySettingsViewCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Stop terminates the background cleanup goroutine
func (c *InMemorySettingsViewCache) Stop() {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
}

// cleanupExpired periodically drops expired entries so long-idle
// courses don't pin memory.
func (c *InMemorySettingsViewCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			removed := 0
			c.views.Range(func(key, raw any) bool {
				if raw.(*viewEntry).isExpired() {
					c.views.Delete(key)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("Evicted expired settings views", zap.Int("count", removed))
			}
		}
	}
}
