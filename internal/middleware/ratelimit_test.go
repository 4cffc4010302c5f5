package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/config"
)

func rateLimitConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

func TestTokenBucketExhaustion(t *testing.T) {
	rdb := newTestRedis(t)
	h := NewTokenBucket(rateLimitConfig(2), rdb)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	e := echo.New()
	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/appointments", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/appointments")
		require.NoError(t, h(c))
		return rec
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)

	third := do()
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "2", third.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, third.Header().Get("Retry-After"))
}

func TestTokenBucketKeysPerClient(t *testing.T) {
	rdb := newTestRedis(t)
	h := NewTokenBucket(rateLimitConfig(1), rdb)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	e := echo.New()
	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/appointments", nil)
		req.RemoteAddr = ip + ":5000"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/appointments")
		require.NoError(t, h(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	// A different client gets its own bucket.
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}

func TestBuildRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cash/state", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/cash/state")

	cfg := rateLimitConfig(1)
	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:10.0.0.1", buildRateKey(cfg, c))

	cfg.KeyStrategy = "route"
	assert.Equal(t, "rl:route:GET /v1/cash/state", buildRateKey(cfg, c))

	cfg.KeyStrategy = "ip_route"
	assert.Equal(t, "rl:ip:10.0.0.1:route:GET /v1/cash/state", buildRateKey(cfg, c))
}
