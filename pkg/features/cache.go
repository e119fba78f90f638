package features

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrUnknownDorm = errors.New("unknown dorm")

// Fetcher retrieves a dorm page's features
type Fetcher interface {
	Scrape(ctx context.Context, url string) ([]string, error)
}

// Store shared second-level cache, keyed by dorm slug
type Store interface {
	GetFeatures(ctx context.Context, slug string) ([]string, bool, error)
	SetFeatures(ctx context.Context, slug string, features []string) error
}

// Cache process-wide dorm feature cache. Entries are filled on first
// request and kept for the process lifetime.
type Cache struct {
	catalog *Catalog
	fetcher Fetcher
	store   Store
	logger  *zap.Logger

	mu      sync.RWMutex
	entries map[string][]string
	group   singleflight.Group
}

// NewCache store may be nil
func NewCache(catalog *Catalog, fetcher Fetcher, store Store, logger *zap.Logger) *Cache {
	return &Cache{
		catalog: catalog,
		fetcher: fetcher,
		store:   store,
		logger:  logger,
		entries: make(map[string][]string),
	}
}

// Get returns the features of the named dorm, scraping once on miss.
// Concurrent misses for the same dorm share a single fetch.
func (c *Cache) Get(ctx context.Context, dormName string) ([]string, error) {
	dorm, ok := c.catalog.Lookup(dormName)
	if !ok {
		return nil, ErrUnknownDorm
	}

	if feats, ok := c.cached(dorm.Slug); ok {
		return feats, nil
	}

	v, err, _ := c.group.Do(dorm.Slug, func() (interface{}, error) {
		if feats, ok := c.cached(dorm.Slug); ok {
			return feats, nil
		}
		feats, err := c.load(ctx, dorm)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[dorm.Slug] = feats
		c.mu.Unlock()
		return feats, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(v.([]string)), nil
}

func (c *Cache) cached(slug string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	feats, ok := c.entries[slug]
	if !ok {
		return nil, false
	}
	return clone(feats), true
}

func (c *Cache) load(ctx context.Context, dorm Dorm) ([]string, error) {
	if c.store != nil {
		feats, ok, err := c.store.GetFeatures(ctx, dorm.Slug)
		if err != nil {
			c.logger.Warn("feature store read failed", zap.String("dorm", dorm.Slug), zap.Error(err))
		} else if ok {
			return feats, nil
		}
	}

	feats, err := c.fetcher.Scrape(ctx, dorm.URL)
	if err != nil {
		return nil, err
	}
	c.logger.Info("dorm features scraped", zap.String("dorm", dorm.Slug), zap.Int("count", len(feats)))

	if c.store != nil {
		if err := c.store.SetFeatures(ctx, dorm.Slug, feats); err != nil {
			c.logger.Warn("feature store write failed", zap.String("dorm", dorm.Slug), zap.Error(err))
		}
	}
	return feats, nil
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
