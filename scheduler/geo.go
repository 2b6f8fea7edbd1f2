package scheduler

import (
	"math"
	"sync"

	"github.com/courtside-dev/ref-scheduler/types"
)

const earthRadiusMiles = 3958.8

// geoKey is a discretized, order-normalized coordinate pair. Rounding to four
// decimal places (~11m) keeps floating-point noise from fragmenting the cache.
type geoKey struct {
	aLat, aLng, bLat, bLng int64
}

func discretize(v float64) int64 {
	return int64(math.Round(v * 1e4))
}

func newGeoKey(a, b types.Coordinates) geoKey {
	k := geoKey{discretize(a.Latitude), discretize(a.Longitude), discretize(b.Latitude), discretize(b.Longitude)}
	// Distance is symmetric; normalize so (a,b) and (b,a) share an entry.
	if k.aLat > k.bLat || (k.aLat == k.bLat && k.aLng > k.bLng) {
		k.aLat, k.bLat = k.bLat, k.aLat
		k.aLng, k.bLng = k.bLng, k.aLng
	}
	return k
}

// distanceCache memoizes haversine distances. Entries are append-only and
// idempotent, so sync.Map needs no extra locking.
type distanceCache struct {
	entries sync.Map // geoKey -> float64
}

func newDistanceCache() *distanceCache {
	return &distanceCache{}
}

// Miles returns the great-circle distance between two coordinates in miles.
func (c *distanceCache) Miles(a, b types.Coordinates) float64 {
	key := newGeoKey(a, b)
	if cached, ok := c.entries.Load(key); ok {
		return cached.(float64)
	}
	miles := haversineMiles(a, b)
	c.entries.Store(key, miles)
	return miles
}

func haversineMiles(a, b types.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
