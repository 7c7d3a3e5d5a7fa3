// Package refdata caches backend reference data (shipping cities, categories,
// collections) behind a TTL. Concurrent misses for the same dataset collapse
// into one backend call.
package refdata

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/maryamhelal/yaqeen-storefront/internal/backend"
)

const (
	keyCities      = "cities"
	keyCategories  = "categories"
	keyCollections = "collections"
)

type entry struct {
	tags    []backend.Tag
	cities  []backend.City
	fetched time.Time
}

type syncMap struct {
	m sync.Map
}

func (s *syncMap) load(key string) (*entry, bool) {
	v, ok := s.m.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*entry), true
}

func (s *syncMap) store(key string, e *entry) { s.m.Store(key, e) }
func (s *syncMap) delete(key string)          { s.m.Delete(key) }

type Cache struct {
	api *backend.Client
	ttl time.Duration
	sfg singleflight.Group // prevents thundering refetch on expiry

	entries syncMap
}

func NewCache(api *backend.Client, ttl time.Duration) *Cache {
	return &Cache{api: api, ttl: ttl}
}

// Cities returns the shipping city list, refetching after the TTL.
func (c *Cache) Cities(ctx context.Context) ([]backend.City, error) {
	e, err := c.get(ctx, keyCities)
	if err != nil {
		return nil, err
	}
	return e.cities, nil
}

// CityByID resolves a city from the cached list; nil when the id is unknown.
func (c *Cache) CityByID(ctx context.Context, id string) (*backend.City, error) {
	cities, err := c.Cities(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cities {
		if cities[i].ID == id {
			return &cities[i], nil
		}
	}
	return nil, nil
}

// Areas returns a city's area names in backend order.
func (c *Cache) Areas(ctx context.Context, cityID string) ([]string, error) {
	city, err := c.CityByID(ctx, cityID)
	if err != nil {
		return nil, err
	}
	if city == nil {
		return nil, nil
	}
	return city.Areas, nil
}

func (c *Cache) Categories(ctx context.Context) ([]backend.Tag, error) {
	e, err := c.get(ctx, keyCategories)
	if err != nil {
		return nil, err
	}
	return e.tags, nil
}

func (c *Cache) Collections(ctx context.Context) ([]backend.Tag, error) {
	e, err := c.get(ctx, keyCollections)
	if err != nil {
		return nil, err
	}
	return e.tags, nil
}

// Invalidate drops a dataset so the next read refetches, e.g. after an admin
// edits cities or tags.
func (c *Cache) Invalidate(key string) {
	c.entries.delete(key)
}

func (c *Cache) get(ctx context.Context, key string) (*entry, error) {
	if e, ok := c.entries.load(key); ok && time.Since(e.fetched) < c.ttl {
		return e, nil
	}

	v, err, _ := c.sfg.Do(key, func() (any, error) {
		// Re-check under singleflight: a concurrent caller may have
		// refreshed the entry already.
		if e, ok := c.entries.load(key); ok && time.Since(e.fetched) < c.ttl {
			return e, nil
		}
		e, err := c.fetch(ctx, key)
		if err != nil {
			return nil, err
		}
		c.entries.store(key, e)
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entry), nil
}

func (c *Cache) fetch(ctx context.Context, key string) (*entry, error) {
	e := &entry{fetched: time.Now()}
	var err error
	switch key {
	case keyCities:
		e.cities, err = c.api.ListCities(ctx)
	case keyCategories:
		e.tags, err = c.api.Categories(ctx)
	case keyCollections:
		e.tags, err = c.api.Collections(ctx)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}
