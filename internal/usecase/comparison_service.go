package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kazen/backend/internal/domain"
)

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	CacheTTL       time.Duration
	CheapestPolicy domain.CheapestPolicy
}

// ComparisonService prices shopping lists against the store directory.
// It only reads: list snapshots come from the list repository and
// reference data from a cached catalog snapshot.
type ComparisonService struct {
	lists    domain.ShoppingListRepository
	snapshot *snapshotLoader
	policy   domain.CheapestPolicy
	logger   *slog.Logger
}

// NewComparisonService creates a new comparison service with dependencies
func NewComparisonService(
	lists domain.ShoppingListRepository,
	providers CatalogProviders,
	cache domain.CacheRepository,
	config ComparisonServiceConfig,
	logger *slog.Logger,
) *ComparisonService {
	if logger == nil {
		logger = slog.Default()
	}
	policy := config.CheapestPolicy
	if !policy.Valid() {
		policy = domain.PolicyCompat
	}

	logger = logger.With("component", "comparison")
	return &ComparisonService{
		lists:    lists,
		snapshot: newSnapshotLoader(providers, cache, config.CacheTTL, logger),
		policy:   policy,
		logger:   logger,
	}
}

// Policy returns the cheapest-store policy in effect
func (s *ComparisonService) Policy() domain.CheapestPolicy {
	return s.policy
}

// CompareList ranks the stores for a stored shopping list
func (s *ComparisonService) CompareList(ctx context.Context, listID string) (*domain.ComparisonResult, error) {
	if err := validateListID(listID); err != nil {
		return nil, err
	}

	items, err := s.lists.Load(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("load list %s: %w", listID, err)
	}

	snap, err := s.snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}

	return s.rank(items, snap), nil
}

// CompareItems ranks the stores for an ad-hoc list. Repeated product IDs
// are merged by summing their quantities; the merged quantity must stay
// within MaxItemQuantity.
func (s *ComparisonService) CompareItems(ctx context.Context, requests []domain.ItemRequest) (*domain.ComparisonResult, error) {
	snap, err := s.snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ShoppingListItem, 0, len(requests))
	index := make(map[string]int, len(requests))
	for _, req := range requests {
		if req.Quantity < 1 || req.Quantity > domain.MaxItemQuantity {
			return nil, fmt.Errorf("%w: product %s", domain.ErrInvalidQuantity, req.ProductID)
		}
		if i, ok := index[req.ProductID]; ok {
			if items[i].Quantity > domain.MaxItemQuantity-req.Quantity {
				return nil, fmt.Errorf("%w: product %s", domain.ErrInvalidQuantity, req.ProductID)
			}
			items[i].Quantity += req.Quantity
			continue
		}
		product, ok := snap.product(req.ProductID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, req.ProductID)
		}
		index[req.ProductID] = len(items)
		items = append(items, domain.ShoppingListItem{
			ProductID: req.ProductID,
			Product:   product,
			Quantity:  req.Quantity,
		})
	}

	return s.rank(items, snap), nil
}

// Quote returns the checkout total of a stored list at one store,
// counting in-stock entries only
func (s *ComparisonService) Quote(ctx context.Context, listID, storeID string) (*domain.Quote, error) {
	if err := validateListID(listID); err != nil {
		return nil, err
	}

	items, err := s.lists.Load(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("load list %s: %w", listID, err)
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyList
	}

	snap, err := s.snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}

	store, ok := snap.store(storeID)
	if !ok {
		return nil, domain.ErrStoreNotFound
	}

	comparison := priceAtStore(items, store, snap.Prices)
	return &domain.Quote{
		ListID: listID,
		Store:  store,
		Total:  comparison.Total,
		Items:  comparison.PricedItems(),
	}, nil
}

func (s *ComparisonService) rank(items []domain.ShoppingListItem, snap *CatalogSnapshot) *domain.ComparisonResult {
	ranked := Compare(items, snap.Stores, snap.Prices)
	summary := Summarize(ranked, s.policy)

	s.logger.Debug("comparison computed",
		"items", len(items),
		"stores", len(ranked),
		"cheapest", summary.CheapestStoreID,
		"savings", summary.Savings,
	)

	return &domain.ComparisonResult{
		Comparisons: ranked,
		Summary:     summary,
	}
}
