package geocoding

import (
	"context"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/roadwatch/roadwatch/pkg/geo"
	"github.com/roadwatch/roadwatch/pkg/redis_client"
	"github.com/rs/zerolog/log"
)

// Ring points barely move between monitor passes so their names are heavily
// cacheable. A "N/A" sentinel remembers lookups that came back empty.
type CachedGeocoder struct {
	Geocoder Geocoder

	cache *cache.Cache[string]
}

func NewCachedGeocoder(geocoder Geocoder) *CachedGeocoder {
	redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(24*time.Hour))

	return &CachedGeocoder{
		Geocoder: geocoder,

		cache: cache.New[string](redisStore),
	}
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, point geo.Coordinates) (string, error) {
	cacheKey := fmt.Sprintf("GEOCODE:%s", point.String())

	cachedName, err := c.cache.Get(ctx, cacheKey)
	if err == nil {
		if cachedName == "N/A" {
			return "", nil
		}

		return cachedName, nil
	}

	name, err := c.Geocoder.ReverseGeocode(ctx, point)
	if err != nil {
		return "", err
	}

	cacheValue := name
	if cacheValue == "" {
		cacheValue = "N/A"
	}

	if err := c.cache.Set(ctx, cacheKey, cacheValue); err != nil {
		log.Debug().Err(err).Str("key", cacheKey).Msg("Failed to cache geocode result")
	}

	return name, nil
}
