package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"heritage/models"

	"github.com/rs/zerolog"
)

const productListKey = "catalog:products"

// Source supplies the product catalog. Implementations return errors
// wrapping models.ErrNotFound for unknown ids.
type Source interface {
	Products(ctx context.Context) ([]models.Product, error)
	Product(ctx context.Context, id string) (models.Product, error)
}

type StaticSource struct {
	products []models.Product
}

func NewStaticSource(products []models.Product) *StaticSource {
	return &StaticSource{products: slices.Clone(products)}
}

func (s *StaticSource) Products(context.Context) ([]models.Product, error) {
	return slices.Clone(s.products), nil
}

func (s *StaticSource) Product(_ context.Context, id string) (models.Product, error) {
	p, ok := FindByID(s.products, id)
	if !ok {
		return models.Product{}, fmt.Errorf("product %q: %w", id, models.ErrNotFound)
	}
	return p, nil
}

// Fetcher is the part of the backend client the catalog reads through.
type Fetcher interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
}

// Cache is the key/value store holding the serialized product list.
// RdxGet returns "" and no error on a miss.
type Cache interface {
	RdxGet(ctx context.Context, key string) (string, error)
	SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error
	RdxDel(ctx context.Context, keys ...string) error
}

// RemoteSource reads the catalog from the backend, keeping the list in a
// cache-aside copy for ttl.
type RemoteSource struct {
	fetch Fetcher
	cache Cache
	ttl   time.Duration
	log   zerolog.Logger
}

func NewRemoteSource(fetch Fetcher, cache Cache, ttl time.Duration, log zerolog.Logger) *RemoteSource {
	return &RemoteSource{fetch: fetch, cache: cache, ttl: ttl, log: log}
}

func (s *RemoteSource) Products(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		raw, err := s.cache.RdxGet(ctx, productListKey)
		if err != nil {
			s.log.Warn().Err(err).Msg("catalog cache read failed")
		} else if raw != "" {
			var cached []models.Product
			uerr := json.Unmarshal([]byte(raw), &cached)
			if uerr == nil {
				return cached, nil
			}
			s.log.Warn().Err(uerr).Msg("catalog cache entry corrupt")
		}
	}

	products, err := s.fetch.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if s.cache != nil {
		data, _ := json.Marshal(products)
		if err := s.cache.SetWithExpiry(ctx, productListKey, string(data), s.ttl); err != nil {
			s.log.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return products, nil
}

func (s *RemoteSource) Product(ctx context.Context, id string) (models.Product, error) {
	p, err := s.fetch.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("get product %q: %w", id, err)
	}
	return p, nil
}

// Invalidate drops the cached list so the next read goes to the backend.
func (s *RemoteSource) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.RdxDel(ctx, productListKey)
}
