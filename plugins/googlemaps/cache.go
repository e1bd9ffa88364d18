package googlemaps

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/va6996/routebot/geo"
	"github.com/va6996/routebot/log"
	"github.com/va6996/routebot/routing"
)

// purgeThreshold is the size at which expired entries are swept on insert
const purgeThreshold = 1024

type cacheItem struct {
	coord      geo.Coordinate
	expiryTime time.Time
}

// CachedGeocoder remembers successful forward lookups for a while so a
// place mentioned again in a conversation is not geocoded twice. Misses
// and reverse lookups always go to the wrapped geocoder.
type CachedGeocoder struct {
	next routing.Geocoder
	ttl  time.Duration
	now  func() time.Time

	mu   sync.RWMutex
	data map[string]cacheItem
}

func NewCachedGeocoder(next routing.Geocoder, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		next: next,
		ttl:  ttl,
		now:  time.Now,
		data: make(map[string]cacheItem),
	}
}

func cacheKey(place string) string {
	return strings.ToLower(strings.Join(strings.Fields(place), " "))
}

func (c *CachedGeocoder) Geocode(ctx context.Context, place string) (geo.Coordinate, bool) {
	key := cacheKey(place)

	c.mu.RLock()
	item, found := c.data[key]
	c.mu.RUnlock()
	if found && c.now().Before(item.expiryTime) {
		log.Debugf(ctx, "Geocode cache hit for %q", place)
		return item.coord, true
	}

	coord, ok := c.next.Geocode(ctx, place)
	if !ok {
		return coord, false
	}

	c.mu.Lock()
	if len(c.data) >= purgeThreshold {
		c.purgeLocked()
	}
	c.data[key] = cacheItem{coord: coord, expiryTime: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return coord, true
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, coord geo.Coordinate) string {
	return c.next.ReverseGeocode(ctx, coord)
}

// Purge drops expired entries
func (c *CachedGeocoder) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeLocked()
}

func (c *CachedGeocoder) purgeLocked() {
	now := c.now()
	for k, item := range c.data {
		if !now.Before(item.expiryTime) {
			delete(c.data, k)
		}
	}
}

// Len reports how many entries are held, expired or not
func (c *CachedGeocoder) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
