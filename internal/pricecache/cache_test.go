package pricecache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisCache(rdb, time.Hour), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()
	stamp := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	_, ok := cache.Get(ctx)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, bundleAt(stamp)))
	got, ok := cache.Get(ctx)
	require.True(t, ok)
	assert.True(t, got.UpdatedAt.Equal(stamp))
	assert.Equal(t, int64(1500), got.PriceFor(model.ScopeSpecialty, "Cardiología", model.TierBase))

	require.NoError(t, cache.Invalidate(ctx))
	_, ok = cache.Get(ctx)
	assert.False(t, ok)
}

func TestRedisCacheMalformedPayloadIsMiss(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	mr.Set(redisCacheKey, "not json")
	_, ok := cache.Get(ctx)
	assert.False(t, ok)

	// Decodable but shaped wrong (missing maps, zero stamp).
	mr.Set(redisCacheKey, `{"updated_at":"0001-01-01T00:00:00Z"}`)
	_, ok = cache.Get(ctx)
	assert.False(t, ok)
}

func TestRedisCacheDownIsMiss(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	mr.Close()

	_, ok := cache.Get(context.Background())
	assert.False(t, ok)
}

func TestMemoryCacheRejectsInvalidSnapshot(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	require.NoError(t, cache.Set(ctx, &model.PriceBundle{}))
	_, ok := cache.Get(ctx)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, bundleAt(time.Now().UTC())))
	_, ok = cache.Get(ctx)
	assert.True(t, ok)
}
