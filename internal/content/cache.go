package content

import (
	"context"
	"sync"
	"time"

	"github.com/example/signalcards/pkg/models"
)

// CategoryCache memoizes the per-category question counts behind the
// category browser. It is an explicit struct with a TTL and an Invalidate
// hook, owned by whoever constructs it; there is deliberately no package
// level cache state.
type CategoryCache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu        sync.RWMutex
	entries   []models.CategoryCount
	fetchedAt time.Time
}

// NewCategoryCache creates a cache over the given store. A non-positive ttl
// disables caching and every Get hits the store.
func NewCategoryCache(store Store, ttl time.Duration) *CategoryCache {
	return &CategoryCache{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the category counts, refreshing from the store when the cached
// copy is older than the TTL.
func (c *CategoryCache) Get(ctx context.Context) ([]models.CategoryCount, error) {
	c.mu.RLock()
	if c.fresh() {
		entries := c.entries
		c.mu.RUnlock()
		return entries, nil
	}
	c.mu.RUnlock()
	return c.Refresh(ctx)
}

// Refresh reloads the counts from the store unconditionally.
func (c *CategoryCache) Refresh(ctx context.Context) ([]models.CategoryCount, error) {
	entries, err := c.store.Categories(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries = entries
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return entries, nil
}

// Invalidate drops the cached copy; the next Get refetches.
func (c *CategoryCache) Invalidate() {
	c.mu.Lock()
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

func (c *CategoryCache) fresh() bool {
	if c.ttl <= 0 || c.fetchedAt.IsZero() {
		return false
	}
	return c.now().Sub(c.fetchedAt) < c.ttl
}
