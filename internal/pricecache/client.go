package pricecache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
)

const (
	// DefaultInterval is the revalidation period.
	DefaultInterval = 120 * time.Second
	// MinInterval is the floor for configured intervals.
	MinInterval = 10 * time.Second

	fetchTimeout = 15 * time.Second
)

// capability tracks what we know about the catalog's version
// endpoint. It starts unknown, becomes supported after the first
// successful poll, and becomes unsupported permanently for the
// session only on the distinct ErrVersionUnsupported signal.
type capability int

const (
	capabilityUnknown capability = iota
	capabilitySupported
	capabilityUnsupported
)

// Client is the cache-first price bundle reader. Construction reads
// the injected Cache synchronously and starts a background loop that
// revalidates immediately and then on every tick. At most one
// revalidation is in flight; a failed one records the error, keeps
// the previous snapshot and waits for the next tick. No caller of
// Bundle, Options or PriceFor ever blocks on the network.
type Client struct {
	fetcher  Fetcher
	cache    Cache
	interval time.Duration
	logger   zerolog.Logger

	mu           sync.Mutex
	bundle       *model.PriceBundle
	stamp        time.Time
	hasStamp     bool
	loading      bool
	lastErr      error
	capState     capability
	revalidating bool

	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures the Client.
type Option func(*Client)

// WithInterval sets the revalidation period, clamped at MinInterval.
func WithInterval(d time.Duration) Option {
	return func(c *Client) {
		if d < MinInterval {
			d = MinInterval
		}
		c.interval = d
	}
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New builds a Client, reads the cache synchronously and starts the
// revalidation loop. Callers must Close the client when the consuming
// view goes away so the timer is torn down.
func New(fetcher Fetcher, cache Cache, opts ...Option) *Client {
	c := &Client{
		fetcher:  fetcher,
		cache:    cache,
		interval: DefaultInterval,
		logger:   zerolog.Nop(),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	if b, ok := cache.Get(ctx); ok {
		c.bundle = b
		c.stamp = b.UpdatedAt
		c.hasStamp = true
	} else {
		// Loading is surfaced only on this first load with an empty
		// cache; later revalidations are silent.
		c.loading = true
	}

	go c.loop()
	return c
}

func (c *Client) loop() {
	c.Refresh(context.Background())
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.Refresh(context.Background())
		}
	}
}

// Close tears down the revalidation timer. In-flight fetches are not
// cancelled; a late result still lands through the normal diffing.
func (c *Client) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Refresh runs one revalidation. Concurrent calls collapse into the
// in-flight one (the extra call returns immediately).
func (c *Client) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.revalidating {
		c.mu.Unlock()
		return
	}
	c.revalidating = true
	capState := c.capState
	hasStamp := c.hasStamp
	stamp := c.stamp
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.revalidating = false
		c.loading = false
		c.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	if capState != capabilityUnsupported {
		remote, err := c.fetcher.Version(ctx)
		switch {
		case err == nil:
			c.setCapability(capabilitySupported)
			if hasStamp && remote.Equal(stamp) {
				c.recordSuccess()
				return
			}
		case errors.Is(err, ErrVersionUnsupported):
			// Permanent for the session: poll the full bundle from
			// now on and diff by its embedded stamp.
			c.setCapability(capabilityUnsupported)
		default:
			c.recordError(err)
			return
		}
	}

	b, err := c.fetcher.Bundle(ctx)
	if err != nil {
		c.recordError(err)
		return
	}
	if !validBundle(b) {
		c.recordError(errors.New("fetched bundle is malformed"))
		return
	}
	c.store(ctx, b)
}

func (c *Client) store(ctx context.Context, b *model.PriceBundle) {
	c.mu.Lock()
	if c.hasStamp && b.UpdatedAt.Equal(c.stamp) {
		// Late or redundant response carrying what we already hold.
		c.lastErr = nil
		c.mu.Unlock()
		return
	}
	c.bundle = b
	c.stamp = b.UpdatedAt
	c.hasStamp = true
	c.lastErr = nil
	c.mu.Unlock()

	if err := c.cache.Set(ctx, b); err != nil {
		c.logger.Warn().Err(err).Msg("pricecache: persist snapshot failed")
	}
}

func (c *Client) setCapability(s capability) {
	c.mu.Lock()
	c.capState = s
	c.mu.Unlock()
}

func (c *Client) recordSuccess() {
	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()
}

func (c *Client) recordError(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	c.logger.Warn().Err(err).Msg("pricecache: revalidation failed")
}

// Bundle returns the current snapshot, or nil before the first
// successful load.
func (c *Client) Bundle() *model.PriceBundle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bundle
}

// Loading reports whether the very first load is still in progress.
// It is false as soon as any snapshot exists or the first attempt
// has finished, so revalidations never flicker consumers.
func (c *Client) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last revalidation error, if any. A non-nil value
// coexists with a usable (stale) snapshot.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Options returns the sorted service-name list for a scope, or an
// empty list before the first load.
func (c *Client) Options(scope model.Scope) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bundle == nil {
		return []string{}
	}
	switch scope {
	case model.ScopeLaboratory:
		return c.bundle.LaboratoryNames
	case model.ScopeSpecialty:
		return c.bundle.SpecialtyNames
	}
	return []string{}
}

// PriceFor resolves a price from the snapshot, falling back to the
// BASE tier and to 0 for unknown names. It returns 0 before the
// first load.
func (c *Client) PriceFor(scope model.Scope, name string, tier model.Tier) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bundle == nil {
		return 0
	}
	return c.bundle.PriceFor(scope, name, tier)
}
