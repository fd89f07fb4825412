package content

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/signalcards/pkg/models"
)

type countingStore struct {
	Store
	calls  int
	counts []models.CategoryCount
}

func (c *countingStore) Categories(_ context.Context) ([]models.CategoryCount, error) {
	c.calls++
	return c.counts, nil
}

func TestCategoryCacheServesWithinTTL(t *testing.T) {
	store := &countingStore{counts: []models.CategoryCount{{Category: models.CategorySignals, Questions: 12}}}
	cache := NewCategoryCache(store, time.Minute)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	first, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 1)

	_, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls, "second read inside the TTL is served from cache")

	now = now.Add(2 * time.Minute)
	_, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls, "expired cache refetches")
}

func TestCategoryCacheInvalidate(t *testing.T) {
	store := &countingStore{}
	cache := NewCategoryCache(store, time.Hour)

	ctx := context.Background()
	_, err := cache.Get(ctx)
	require.NoError(t, err)
	cache.Invalidate()
	_, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}

func TestCategoryCacheZeroTTLDisablesCaching(t *testing.T) {
	store := &countingStore{}
	cache := NewCategoryCache(store, 0)

	ctx := context.Background()
	_, _ = cache.Get(ctx)
	_, _ = cache.Get(ctx)
	assert.Equal(t, 2, store.calls)
}
