// Package cache holds the read-side snapshot of the catalog. It is the
// service's equivalent of the subscription-updated copy a client keeps:
// refreshed whenever a change event arrives, last write wins.
package cache

import (
	"sync"
	"time"

	"github.com/ammstro/service-pricing/internal/domain/catalog"
)

// CatalogCache is a thread-safe holder for the latest catalog aggregate.
// The cached aggregate is read-only once installed: writers clone it,
// mutate the clone, and install the clone via Set, so readers never share
// an aggregate with an in-flight mutation.
type CatalogCache struct {
	mu        sync.RWMutex
	current   *catalog.Catalog
	refreshed time.Time
}

// NewCatalogCache creates an empty cache.
func NewCatalogCache() *CatalogCache {
	return &CatalogCache{}
}

// Get returns the cached catalog, if any. Callers must treat it as
// read-only; mutations go through Clone and Set.
func (c *CatalogCache) Get() (*catalog.Catalog, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current, c.current != nil
}

// Set replaces the cached catalog.
func (c *CatalogCache) Set(cat *catalog.Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = cat
	c.refreshed = time.Now().UTC()
}

// Invalidate drops the cached catalog so the next read goes to the store.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
}

// RefreshedAt returns the time of the last Set.
func (c *CatalogCache) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshed
}
