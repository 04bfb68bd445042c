package mapview

import (
	"context"
	"sync"

	"tambohub/pkg/models"
)

// Lister is the read side of the classification record store.
type Lister interface {
	List(ctx context.Context) ([]models.Mapping, error)
}

// Cache is the single owned copy of the classification collection. It
// starts stale, refetches on the first read after an Invalidate, and
// otherwise serves the held snapshot. A failed refetch leaves the
// cache stale so the next read retries.
type Cache struct {
	mu      sync.Mutex
	source  Lister
	records []models.Mapping
	stale   bool
}

func NewCache(source Lister) *Cache {
	return &Cache{source: source, stale: true}
}

// Records returns the current snapshot, refetching first when stale.
// Callers get their own copy; the cached collection only changes
// through Invalidate and refetch.
func (c *Cache) Records(ctx context.Context) ([]models.Mapping, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale {
		records, err := c.source.List(ctx)
		if err != nil {
			return nil, err
		}
		c.records = records
		c.stale = false
	}

	out := make([]models.Mapping, len(c.records))
	copy(out, c.records)
	return out, nil
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}

func (c *Cache) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale
}

// ListerFunc adapts a function to the Lister interface.
type ListerFunc func(ctx context.Context) ([]models.Mapping, error)

func (f ListerFunc) List(ctx context.Context) ([]models.Mapping, error) {
	return f(ctx)
}
