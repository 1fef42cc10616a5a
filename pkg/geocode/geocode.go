// Package geocode resolves street addresses to coordinates using a list of
// Nominatim-compatible endpoints tried in sequence. Geocoding is best-effort:
// callers are expected to proceed without coordinates when every endpoint
// fails.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Result holds the coordinates of a successfully geocoded address.
type Result struct {
	Latitude  float64
	Longitude float64
}

// Client queries forward-geocoding endpoints.
type Client struct {
	endpoints  []string
	httpClient *http.Client
}

// NewClient creates a geocoding client over the given endpoints.
func NewClient(endpoints []string) *Client {
	return &Client{
		endpoints: endpoints,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// nominatimHit is one entry of a Nominatim search response. Coordinates come
// back as strings.
type nominatimHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Forward resolves a free-form address to coordinates. Endpoints are tried in
// order; the first one that returns a hit wins. When all endpoints fail, the
// last error is returned.
func (c *Client) Forward(ctx context.Context, query string) (*Result, error) {
	if len(c.endpoints) == 0 {
		return nil, fmt.Errorf("no geocoding endpoints configured")
	}

	var lastErr error
	for _, endpoint := range c.endpoints {
		result, err := c.lookup(ctx, endpoint, query)
		if err != nil {
			lastErr = err
			continue
		}
		return result, nil
	}
	return nil, fmt.Errorf("all geocoding endpoints failed: %w", lastErr)
}

func (c *Client) lookup(ctx context.Context, endpoint, query string) (*Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode endpoint %s returned status %d", endpoint, resp.StatusCode)
	}

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response from %s: %w", endpoint, err)
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("no geocode results from %s", endpoint)
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in geocode response: %w", err)
	}
	lon, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in geocode response: %w", err)
	}

	return &Result{Latitude: lat, Longitude: lon}, nil
}
