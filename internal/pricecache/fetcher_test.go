package pricecache

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
)

func TestHTTPFetcherVersion(t *testing.T) {
	stamp := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/prices/version", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"updated_at": stamp})
	}))
	defer srv.Close()

	v, err := NewHTTPFetcher(srv.URL, srv.Client()).Version(context.Background())
	require.NoError(t, err)
	assert.True(t, v.Equal(stamp))
}

func TestHTTPFetcherVersionUnsupported(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusNotImplemented} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))
		_, err := NewHTTPFetcher(srv.URL, srv.Client()).Version(context.Background())
		assert.ErrorIs(t, err, ErrVersionUnsupported)
		srv.Close()
	}

	// Other failures stay generic so the client keeps retrying the
	// version endpoint.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	_, err := NewHTTPFetcher(srv.URL, srv.Client()).Version(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrVersionUnsupported)
}

func TestHTTPFetcherBundle(t *testing.T) {
	stamp := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/prices/bundle", r.URL.Path)
		_ = json.NewEncoder(w).Encode(bundleAt(stamp))
	}))
	defer srv.Close()

	b, err := NewHTTPFetcher(srv.URL, srv.Client()).Bundle(context.Background())
	require.NoError(t, err)
	assert.True(t, b.UpdatedAt.Equal(stamp))
	assert.Equal(t, int64(700), b.PriceFor(model.ScopeLaboratory, "Hemograma", model.TierBase))
}
