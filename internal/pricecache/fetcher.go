package pricecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
)

// ErrVersionUnsupported is the distinct signal that the catalog does
// not expose the cheap version endpoint. Only this error flips the
// client into full-bundle polling; generic network failures do not.
var ErrVersionUnsupported = errors.New("version endpoint unsupported")

// Fetcher retrieves catalog data from the price service.
type Fetcher interface {
	// Version returns the catalog version stamp.
	Version(ctx context.Context) (time.Time, error)
	// Bundle returns the full catalog snapshot.
	Bundle(ctx context.Context) (*model.PriceBundle, error)
}

// HTTPFetcher talks to the price endpoints of a TurnWeb server.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher returns a fetcher for the given base URL. A nil
// client uses a default with a 10s timeout.
func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPFetcher{baseURL: baseURL, client: client}
}

// Version polls GET /v1/prices/version. A 404 or 501 response maps
// to ErrVersionUnsupported.
func (f *HTTPFetcher) Version(ctx context.Context) (time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/v1/prices/version", nil)
	if err != nil {
		return time.Time{}, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return time.Time{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusNotImplemented:
		return time.Time{}, ErrVersionUnsupported
	default:
		return time.Time{}, fmt.Errorf("version endpoint: unexpected status %d", resp.StatusCode)
	}
	var body struct {
		UpdatedAt time.Time `json:"updated_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return time.Time{}, err
	}
	return body.UpdatedAt, nil
}

// Bundle fetches GET /v1/prices/bundle.
func (f *HTTPFetcher) Bundle(ctx context.Context) (*model.PriceBundle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/v1/prices/bundle", nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bundle endpoint: unexpected status %d", resp.StatusCode)
	}
	var b model.PriceBundle
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}
