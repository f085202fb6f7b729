// Package geocode provides an HTTP-backed address geocoder with an optional
// Redis caching layer in front of it (§4.3 of the expanded design: Step B
// geocodes the shipping address before warehouse selection can run).
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/orderforge/orderforge/internal/application/ports"
)

// HTTPGeocoder resolves addresses against a Nominatim-compatible HTTP
// geocoding service (no API key required, the simplest contract to simulate
// in tests via httptest.Server).
type HTTPGeocoder struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPGeocoder creates a geocoder against baseURL, e.g.
// "https://nominatim.openstreetmap.org".
func NewHTTPGeocoder(baseURL string, httpClient *http.Client) *HTTPGeocoder {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPGeocoder{baseURL: baseURL, httpClient: httpClient}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves address to coordinates via a single GET request.
func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", g.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocode service returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no geocode match for address %q", address)
	}

	var lat, lng float64
	if _, err := fmt.Sscanf(results[0].Lat, "%f", &lat); err != nil {
		return 0, 0, fmt.Errorf("malformed latitude in geocode response: %w", err)
	}
	if _, err := fmt.Sscanf(results[0].Lon, "%f", &lng); err != nil {
		return 0, 0, fmt.Errorf("malformed longitude in geocode response: %w", err)
	}

	return lat, lng, nil
}

var _ ports.Geocoder = (*HTTPGeocoder)(nil)
