package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/orderforge/orderforge/internal/application/ports"
)

// cacheClient abstracts the minimal Redis surface the cache needs. Real
// callers wire *redis.Client (github.com/redis/go-redis/v9), which already
// satisfies this interface; tests can supply an in-memory fake.
type cacheClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// ErrCacheMiss is returned by cacheClient.Get when the key is absent.
var ErrCacheMiss = fmt.Errorf("geocode: cache miss")

type cachedCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CachedGeocoder wraps a ports.Geocoder with a Redis-backed response cache,
// keyed on the raw address string. Geocoding results for a street address
// never change meaningfully within the cache TTL, so this avoids paying the
// upstream HTTP round trip on every repeated checkout against the same
// shipping address.
type CachedGeocoder struct {
	inner  ports.Geocoder
	cache  cacheClient
	ttl    time.Duration
	prefix string
}

// NewCachedGeocoder wraps inner with a cache client and TTL.
func NewCachedGeocoder(inner ports.Geocoder, cache cacheClient, ttl time.Duration) *CachedGeocoder {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedGeocoder{inner: inner, cache: cache, ttl: ttl, prefix: "geocode:"}
}

// Geocode serves from cache when possible, falling back to inner and
// populating the cache on a miss.
func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	key := g.prefix + address

	cached, err := g.cache.Get(ctx, key)
	if err == nil {
		var coord cachedCoordinate
		if unmarshalErr := json.Unmarshal([]byte(cached), &coord); unmarshalErr == nil {
			return coord.Latitude, coord.Longitude, nil
		}
	}

	lat, lng, err := g.inner.Geocode(ctx, address)
	if err != nil {
		return 0, 0, err
	}

	payload, marshalErr := json.Marshal(cachedCoordinate{Latitude: lat, Longitude: lng})
	if marshalErr == nil {
		_ = g.cache.Set(ctx, key, string(payload), g.ttl)
	}

	return lat, lng, nil
}

var _ ports.Geocoder = (*CachedGeocoder)(nil)
