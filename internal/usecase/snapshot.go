package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kazen/backend/internal/domain"
)

const (
	snapshotCacheKey   = "catalog:snapshot"
	analyticsCacheKey  = "analytics:report"
	generationCacheKey = "catalog:generation"
	defaultCacheTTL    = 5 * time.Minute
	generationTTL      = 24 * time.Hour
)

// CatalogSnapshot is a consistent read of the reference data
type CatalogSnapshot struct {
	Products []domain.Product  `json:"products"`
	Stores   []domain.Store    `json:"stores"`
	Prices   domain.PriceTable `json:"prices"`
}

// product returns the product with the given ID
func (s *CatalogSnapshot) product(id string) (domain.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// store returns the store with the given ID
func (s *CatalogSnapshot) store(id string) (domain.Store, bool) {
	for _, st := range s.Stores {
		if st.ID == id {
			return st, true
		}
	}
	return domain.Store{}, false
}

// CatalogProviders groups the injected reference data sources. Lists is
// optional; when set, deleted products are removed from shopping lists.
type CatalogProviders struct {
	Products domain.ProductRepository
	Stores   domain.StoreRepository
	Prices   domain.PriceRepository
	Lists    domain.ShoppingListRepository
}

// snapshotLoader reads the catalog through a cache. A nil cache disables caching.
type snapshotLoader struct {
	providers CatalogProviders
	cache     domain.CacheRepository
	ttl       time.Duration
	logger    *slog.Logger
}

func newSnapshotLoader(
	providers CatalogProviders,
	cache domain.CacheRepository,
	ttl time.Duration,
	logger *slog.Logger,
) *snapshotLoader {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &snapshotLoader{
		providers: providers,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
	}
}

// Load returns the current snapshot, from cache when possible
func (l *snapshotLoader) Load(ctx context.Context) (*CatalogSnapshot, error) {
	var snap CatalogSnapshot
	if l.getCached(ctx, snapshotCacheKey, &snap) {
		return &snap, nil
	}

	gen := l.generation(ctx)

	products, err := l.providers.Products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	stores, err := l.providers.Stores.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	prices, err := l.providers.Prices.PriceTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("load price table: %w", err)
	}

	snap = CatalogSnapshot{Products: products, Stores: stores, Prices: prices}
	l.setCached(ctx, snapshotCacheKey, snap, gen)

	return &snap, nil
}

// Invalidate drops every cached view derived from the catalog. It first
// moves the generation on, so a load that read the catalog before the
// write cannot cache its result afterwards.
func (l *snapshotLoader) Invalidate(ctx context.Context) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Set(ctx, generationCacheKey, []byte(uuid.NewString()), generationTTL); err != nil {
		l.logger.Warn("cache generation write failed", "error", err)
	}
	for _, key := range []string{snapshotCacheKey, analyticsCacheKey} {
		if err := l.cache.Delete(ctx, key); err != nil {
			l.logger.Warn("cache delete failed", "key", key, "error", err)
		}
	}
}

func (l *snapshotLoader) getCached(ctx context.Context, key string, dst any) bool {
	if l.cache == nil {
		return false
	}
	raw, err := l.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			l.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		l.logger.Warn("cached value is corrupt", "key", key, "error", err)
		return false
	}
	return true
}

// generation returns the current catalog generation token, empty when
// nothing has been invalidated yet
func (l *snapshotLoader) generation(ctx context.Context) string {
	if l.cache == nil {
		return ""
	}
	raw, err := l.cache.Get(ctx, generationCacheKey)
	if err != nil {
		return ""
	}
	return string(raw)
}

// setCached stores a value computed under generation gen. A value whose
// generation has moved on is not kept. Failures are logged and otherwise
// ignored.
func (l *snapshotLoader) setCached(ctx context.Context, key string, value any, gen string) {
	if l.cache == nil || l.generation(ctx) != gen {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		l.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := l.cache.Set(ctx, key, raw, l.ttl); err != nil {
		l.logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	// an Invalidate between the check and the write
	if l.generation(ctx) != gen {
		if err := l.cache.Delete(ctx, key); err != nil {
			l.logger.Warn("cache delete failed", "key", key, "error", err)
		}
	}
}
