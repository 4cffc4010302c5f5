package pricecache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
)

type fakeFetcher struct {
	mu           sync.Mutex
	version      time.Time
	versionErr   error
	bundle       *model.PriceBundle
	bundleErr    error
	versionCalls int
	bundleCalls  int

	// gate, when set, blocks Version until it is closed.
	gate chan struct{}
}

func (f *fakeFetcher) Version(ctx context.Context) (time.Time, error) {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versionCalls++
	return f.version, f.versionErr
}

func (f *fakeFetcher) Bundle(ctx context.Context) (*model.PriceBundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bundleCalls++
	if f.bundleErr != nil {
		return nil, f.bundleErr
	}
	return f.bundle, nil
}

func (f *fakeFetcher) calls() (version, bundle int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.versionCalls, f.bundleCalls
}

func bundleAt(stamp time.Time) *model.PriceBundle {
	return model.BuildPriceBundle([]model.PriceEntry{
		{Scope: model.ScopeSpecialty, Name: "Cardiología", Tier: model.TierBase, Amount: 1500, UpdatedAt: stamp},
		{Scope: model.ScopeLaboratory, Name: "Hemograma", Tier: model.TierBase, Amount: 700, UpdatedAt: stamp},
	})
}

func waitIdle(t *testing.T, c *Client) {
	t.Helper()
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return !c.revalidating && !c.loading
	}, 2*time.Second, 5*time.Millisecond)
}

func TestWarmCacheServesWithoutBlocking(t *testing.T) {
	stamp := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	require.NoError(t, cache.Set(context.Background(), bundleAt(stamp)))
	fetcher := &fakeFetcher{version: stamp}

	c := New(fetcher, cache)
	defer c.Close()

	assert.False(t, c.Loading())
	require.NotNil(t, c.Bundle())
	assert.Equal(t, int64(1500), c.PriceFor(model.ScopeSpecialty, "Cardiología", model.TierBase))
	assert.Equal(t, []string{"Hemograma"}, c.Options(model.ScopeLaboratory))
}

func TestUnchangedVersionSkipsBundleFetch(t *testing.T) {
	stamp := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	require.NoError(t, cache.Set(context.Background(), bundleAt(stamp)))
	fetcher := &fakeFetcher{version: stamp}

	c := New(fetcher, cache)
	defer c.Close()
	waitIdle(t, c)

	c.Refresh(context.Background())
	versions, bundles := fetcher.calls()
	assert.GreaterOrEqual(t, versions, 2)
	assert.Zero(t, bundles, "matching stamps must not trigger a bundle fetch")
	assert.NoError(t, c.Err())
}

func TestColdCacheLoadsBundle(t *testing.T) {
	stamp := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	fetcher := &fakeFetcher{version: stamp, bundle: bundleAt(stamp)}

	c := New(fetcher, cache)
	defer c.Close()

	assert.True(t, c.Loading() || c.Bundle() != nil)
	waitIdle(t, c)

	require.NotNil(t, c.Bundle())
	assert.False(t, c.Loading())
	assert.Equal(t, int64(700), c.PriceFor(model.ScopeLaboratory, "Hemograma", model.TierBase))

	// The fresh snapshot is persisted for the next startup.
	persisted, ok := cache.Get(context.Background())
	require.True(t, ok)
	assert.True(t, persisted.UpdatedAt.Equal(stamp))
}

func TestVersionUnsupportedFallsBackToBundlePolling(t *testing.T) {
	stamp := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{versionErr: ErrVersionUnsupported, bundle: bundleAt(stamp)}

	c := New(fetcher, NewMemoryCache())
	defer c.Close()
	waitIdle(t, c)

	require.NotNil(t, c.Bundle())
	versionsBefore, bundlesBefore := fetcher.calls()
	assert.Equal(t, 1, versionsBefore)

	// Once unsupported, later refreshes go straight to the bundle.
	c.Refresh(context.Background())
	versions, bundles := fetcher.calls()
	assert.Equal(t, versionsBefore, versions)
	assert.Equal(t, bundlesBefore+1, bundles)
	assert.NoError(t, c.Err())
}

func TestFailedRevalidationKeepsSnapshot(t *testing.T) {
	stamp := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	require.NoError(t, cache.Set(context.Background(), bundleAt(stamp)))
	fetcher := &fakeFetcher{versionErr: errors.New("connection refused")}

	c := New(fetcher, cache)
	defer c.Close()
	waitIdle(t, c)

	assert.Error(t, c.Err())
	require.NotNil(t, c.Bundle(), "stale snapshot outlives a failed refresh")
	assert.False(t, c.Loading())
	assert.Equal(t, int64(1500), c.PriceFor(model.ScopeSpecialty, "Cardiología", model.TierBase))
}

func TestMalformedFetchedBundleRejected(t *testing.T) {
	stamp := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{version: stamp, bundle: &model.PriceBundle{UpdatedAt: stamp}}

	c := New(fetcher, NewMemoryCache())
	defer c.Close()
	waitIdle(t, c)

	assert.Error(t, c.Err())
	assert.Nil(t, c.Bundle())
}

func TestConcurrentRefreshSingleFlight(t *testing.T) {
	stamp := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	require.NoError(t, cache.Set(context.Background(), bundleAt(stamp)))
	gate := make(chan struct{})
	fetcher := &fakeFetcher{version: stamp, gate: gate}

	c := New(fetcher, cache)
	defer c.Close()

	// Wait for the startup refresh to park on the gate; extra calls
	// must then collapse into it instead of stacking fetches.
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.revalidating
	}, 2*time.Second, 5*time.Millisecond)
	c.Refresh(context.Background())
	c.Refresh(context.Background())
	close(gate)
	waitIdle(t, c)

	versions, _ := fetcher.calls()
	assert.Equal(t, 1, versions)
}

func TestIntervalClampedAtFloor(t *testing.T) {
	c := New(&fakeFetcher{version: time.Now()}, NewMemoryCache(), WithInterval(time.Millisecond))
	defer c.Close()
	assert.Equal(t, MinInterval, c.interval)
}
