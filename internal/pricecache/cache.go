// Package pricecache keeps a local, durable snapshot of the price
// bundle fresh without blocking reads on the network. The client
// reads whatever cache exists synchronously, then revalidates in the
// background against the catalog's cheap version endpoint, falling
// back to full-bundle polling when that endpoint is unavailable.
package pricecache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
)

// Cache is the durable snapshot store injected into the client. A
// missing or malformed snapshot is a miss, never an error: the
// client simply proceeds as if nothing were cached.
type Cache interface {
	Get(ctx context.Context) (*model.PriceBundle, bool)
	Set(ctx context.Context, b *model.PriceBundle) error
	Invalidate(ctx context.Context) error
}

// validBundle checks the snapshot shape before trusting it. Bundles
// read back from a cache may predate the current format.
func validBundle(b *model.PriceBundle) bool {
	return b != nil &&
		b.Laboratory != nil && b.Specialty != nil &&
		b.LaboratoryNames != nil && b.SpecialtyNames != nil &&
		!b.UpdatedAt.IsZero()
}

// MemoryCache is an in-process Cache, used in tests and as a
// fallback when no redis client is configured.
type MemoryCache struct {
	mu sync.Mutex
	b  *model.PriceBundle
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache { return &MemoryCache{} }

func (m *MemoryCache) Get(ctx context.Context) (*model.PriceBundle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !validBundle(m.b) {
		return nil, false
	}
	return m.b, true
}

func (m *MemoryCache) Set(ctx context.Context, b *model.PriceBundle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.b = b
	return nil
}

func (m *MemoryCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.b = nil
	return nil
}

// redisCacheKey namespaces the snapshot in redis.
const redisCacheKey = "pricecache:bundle"

// RedisCache stores the snapshot as JSON under a single redis key so
// it survives process restarts and is shared between workers.
type RedisCache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisCache returns a RedisCache. A zero ttl keeps the snapshot
// until the next Set or Invalidate.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, key: redisCacheKey, ttl: ttl}
}

// Get reads and validates the cached snapshot. Any redis error or
// malformed payload is treated as a miss.
func (c *RedisCache) Get(ctx context.Context) (*model.PriceBundle, bool) {
	bs, err := c.rdb.Get(ctx, c.key).Bytes()
	if err != nil {
		return nil, false
	}
	var b model.PriceBundle
	if err := json.Unmarshal(bs, &b); err != nil {
		return nil, false
	}
	if !validBundle(&b) {
		return nil, false
	}
	return &b, true
}

func (c *RedisCache) Set(ctx context.Context, b *model.PriceBundle) error {
	bs, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key, bs, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, c.key).Err()
}
