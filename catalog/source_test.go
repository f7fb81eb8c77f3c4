package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"heritage/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	products []models.Product
	lists    int
	err      error
}

func (f *fakeFetcher) ListProducts(context.Context) ([]models.Product, error) {
	f.lists++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeFetcher) GetProduct(_ context.Context, id string) (models.Product, error) {
	if p, ok := FindByID(f.products, id); ok {
		return p, nil
	}
	return models.Product{}, models.ErrNotFound
}

type memCache struct {
	data map[string]string
	ttl  time.Duration
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (c *memCache) RdxGet(_ context.Context, key string) (string, error) {
	return c.data[key], nil
}

func (c *memCache) SetWithExpiry(_ context.Context, key, value string, ttl time.Duration) error {
	c.data[key] = value
	c.ttl = ttl
	return nil
}

func (c *memCache) RdxDel(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func TestStaticSource(t *testing.T) {
	src := NewStaticSource(Seed)
	ctx := context.Background()

	all, err := src.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(Seed))

	all[0].Name = "mutated"
	again, _ := src.Products(ctx)
	assert.Equal(t, "Sabz Sitara", again[0].Name)

	p, err := src.Product(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, "Rangeen Khayal", p.Name)

	_, err = src.Product(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRemoteSourceCachesList(t *testing.T) {
	fetch := &fakeFetcher{products: Seed[:2]}
	cache := newMemCache()
	src := NewRemoteSource(fetch, cache, time.Minute, zerolog.Nop())
	ctx := context.Background()

	first, err := src.Products(ctx)
	require.NoError(t, err)
	second, err := src.Products(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetch.lists, "second read served from cache")
	assert.Equal(t, time.Minute, cache.ttl)

	require.NoError(t, src.Invalidate(ctx))
	_, err = src.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fetch.lists)
}

func TestRemoteSourceIgnoresCorruptCache(t *testing.T) {
	fetch := &fakeFetcher{products: Seed}
	cache := newMemCache()
	cache.data[productListKey] = "{not json"
	src := NewRemoteSource(fetch, cache, time.Minute, zerolog.Nop())

	got, err := src.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, len(Seed))
	assert.Equal(t, 1, fetch.lists)
}

func TestRemoteSourceWithoutCache(t *testing.T) {
	fetch := &fakeFetcher{err: errors.New("backend down")}
	src := NewRemoteSource(fetch, nil, time.Minute, zerolog.Nop())

	_, err := src.Products(context.Background())
	assert.ErrorContains(t, err, "backend down")
	assert.NoError(t, src.Invalidate(context.Background()))
}

func TestRemoteSourceProductNotFound(t *testing.T) {
	src := NewRemoteSource(&fakeFetcher{products: Seed}, nil, 0, zerolog.Nop())
	_, err := src.Product(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
