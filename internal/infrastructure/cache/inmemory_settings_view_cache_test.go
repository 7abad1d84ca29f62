package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studio/backend/internal/application/settings/dto"
	"github.com/studio/backend/internal/domain/course"
)

var cacheTestKey = course.MustParseKey("course-v1:edX+DemoX+Demo_2026")

func testView() dto.SettingsView {
	return dto.SettingsView{
		"invitation_only": course.SettingsField{
			Value:       true,
			DisplayName: "Invitation Only",
		},
	}
}

func TestInMemorySettingsViewCache_SetAndGet(t *testing.T) {
	cache := NewInMemorySettingsViewCache()
	defer cache.Stop()
	ctx := context.Background()

	t.Run("miss before set", func(t *testing.T) {
		_, ok := cache.Get(ctx, cacheTestKey)
		assert.False(t, ok)
	})

	t.Run("hit after set", func(t *testing.T) {
		cache.Set(ctx, cacheTestKey, testView())

		view, ok := cache.Get(ctx, cacheTestKey)
		require.True(t, ok)
		assert.Equal(t, true, view["invitation_only"].Value)
	})

	t.Run("stats count hits and misses", func(t *testing.T) {
		hits, misses := cache.Stats()
		assert.GreaterOrEqual(t, hits, int64(1))
		assert.GreaterOrEqual(t, misses, int64(1))
	})
}

func TestInMemorySettingsViewCache_Invalidate(t *testing.T) {
	cache := NewInMemorySettingsViewCache()
	defer cache.Stop()
	ctx := context.Background()

	cache.Set(ctx, cacheTestKey, testView())
	cache.Invalidate(ctx, cacheTestKey)

	_, ok := cache.Get(ctx, cacheTestKey)
	assert.False(t, ok)
}

func TestInMemorySettingsViewCache_TTLExpiry(t *testing.T) {
	cache := NewInMemorySettingsViewCache(WithInMemoryTTL(10 * time.Millisecond))
	defer cache.Stop()
	ctx := context.Background()

	cache.Set(ctx, cacheTestKey, testView())
	time.Sleep(30 * time.Millisecond)

	_, ok := cache.Get(ctx, cacheTestKey)
	assert.False(t, ok)
}

func TestInMemorySettingsViewCache_StopIsIdempotent(t *testing.T) {
	cache := NewInMemorySettingsViewCache()
	cache.Stop()
	cache.Stop()
}
