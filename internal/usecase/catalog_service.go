package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kazen/backend/internal/domain"
	"golang.org/x/text/unicode/norm"
)

// Package-level compiled regex patterns for performance
var (
	hexColorRegex      = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
	imageNameRegex     = regexp.MustCompile(`[^a-z0-9]`)
	combiningMarkRegex = regexp.MustCompile(`\p{Mn}`)
)

// ProductInput is an admin create or update of a product
type ProductInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	ImageURL string `json:"imageUrl"`
}

// StoreInput is an admin create or update of a store
type StoreInput struct {
	Name     string `json:"name"`
	ColorHex string `json:"colorHex"`
	LogoURL  string `json:"logoUrl"`
}

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL time.Duration
}

// CatalogService is the back-office surface over products, stores and prices
type CatalogService struct {
	providers CatalogProviders
	snapshot  *snapshotLoader
	events    domain.PriceEventPublisher
	feed      domain.PriceFeed
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewCatalogService creates a new catalog service. events and feed may be nil.
func NewCatalogService(
	providers CatalogProviders,
	cache domain.CacheRepository,
	events domain.PriceEventPublisher,
	feed domain.PriceFeed,
	config CatalogServiceConfig,
	logger *slog.Logger,
) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "catalog")
	return &CatalogService{
		providers: providers,
		snapshot:  newSnapshotLoader(providers, cache, config.CacheTTL, logger),
		events:    events,
		feed:      feed,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Snapshot returns the current catalog, cached
func (s *CatalogService) Snapshot(ctx context.Context) (*CatalogSnapshot, error) {
	return s.snapshot.Load(ctx)
}

// ListProducts returns products whose name, category or brand contains query
func (s *CatalogService) ListProducts(ctx context.Context, query string) ([]domain.Product, error) {
	snap, err := s.snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return snap.Products, nil
	}
	out := make([]domain.Product, 0)
	for _, p := range snap.Products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			strings.Contains(strings.ToLower(p.Brand), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetProduct returns a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.providers.Products.GetProduct(ctx, id)
}

// CreateProduct adds a product with a generated ID
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	p := buildProduct(s.newID(), in)
	if err := s.providers.Products.SaveProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.snapshot.Invalidate(ctx)
	s.logger.Info("product created", "product_id", p.ID, "name", p.Name)
	return &p, nil
}

// UpdateProduct replaces an existing product's fields
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	if _, err := s.providers.Products.GetProduct(ctx, id); err != nil {
		return nil, err
	}
	p := buildProduct(id, in)
	if err := s.providers.Products.SaveProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.snapshot.Invalidate(ctx)
	s.logger.Info("product updated", "product_id", id)
	return &p, nil
}

// DeleteProduct removes a product, its price entries and its shopping
// list lines
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.providers.Products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	if err := s.providers.Prices.DeleteProductPrices(ctx, id); err != nil {
		return fmt.Errorf("delete prices of product %s: %w", id, err)
	}
	if s.providers.Lists != nil {
		if err := s.providers.Lists.RemoveProduct(ctx, id); err != nil {
			return fmt.Errorf("remove product %s from lists: %w", id, err)
		}
	}
	s.snapshot.Invalidate(ctx)
	s.logger.Info("product deleted", "product_id", id)
	return nil
}

// Categories returns the distinct product categories, sorted
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, func(p domain.Product) string { return p.Category })
}

// Brands returns the distinct product brands, sorted
func (s *CatalogService) Brands(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, func(p domain.Product) string { return p.Brand })
}

func (s *CatalogService) distinct(ctx context.Context, field func(domain.Product) string) ([]string, error) {
	snap, err := s.snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0)
	for _, p := range snap.Products {
		if v := field(p); v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out, nil
}

// ListStores returns stores whose name contains query
func (s *CatalogService) ListStores(ctx context.Context, query string) ([]domain.Store, error) {
	snap, err := s.snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return snap.Stores, nil
	}
	out := make([]domain.Store, 0)
	for _, st := range snap.Stores {
		if strings.Contains(strings.ToLower(st.Name), q) {
			out = append(out, st)
		}
	}
	return out, nil
}

// GetStore returns a store by ID
func (s *CatalogService) GetStore(ctx context.Context, id string) (*domain.Store, error) {
	return s.providers.Stores.GetStore(ctx, id)
}

// CreateStore adds a store with a generated ID
func (s *CatalogService) CreateStore(ctx context.Context, in StoreInput) (*domain.Store, error) {
	if err := validateStore(in); err != nil {
		return nil, err
	}
	st := domain.Store{
		ID:       "store-" + s.newID(),
		Name:     strings.TrimSpace(in.Name),
		ColorHex: in.ColorHex,
		LogoURL:  in.LogoURL,
	}
	if err := s.providers.Stores.SaveStore(ctx, st); err != nil {
		return nil, fmt.Errorf("save store: %w", err)
	}
	s.snapshot.Invalidate(ctx)
	s.logger.Info("store created", "store_id", st.ID, "name", st.Name)
	return &st, nil
}

// UpdateStore replaces an existing store's fields. An empty logo keeps the old one.
func (s *CatalogService) UpdateStore(ctx context.Context, id string, in StoreInput) (*domain.Store, error) {
	if err := validateStore(in); err != nil {
		return nil, err
	}
	existing, err := s.providers.Stores.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}
	st := domain.Store{
		ID:       id,
		Name:     strings.TrimSpace(in.Name),
		ColorHex: in.ColorHex,
		LogoURL:  existing.LogoURL,
	}
	if in.LogoURL != "" {
		st.LogoURL = in.LogoURL
	}
	if err := s.providers.Stores.SaveStore(ctx, st); err != nil {
		return nil, fmt.Errorf("save store: %w", err)
	}
	s.snapshot.Invalidate(ctx)
	s.logger.Info("store updated", "store_id", id)
	return &st, nil
}

// DeleteStore removes a store and its price entries
func (s *CatalogService) DeleteStore(ctx context.Context, id string) error {
	if err := s.providers.Stores.DeleteStore(ctx, id); err != nil {
		return err
	}
	if err := s.providers.Prices.DeleteStorePrices(ctx, id); err != nil {
		return fmt.Errorf("delete prices at store %s: %w", id, err)
	}
	s.snapshot.Invalidate(ctx)
	s.logger.Info("store deleted", "store_id", id)
	return nil
}

// PriceTable returns the full price table
func (s *CatalogService) PriceTable(ctx context.Context) (domain.PriceTable, error) {
	snap, err := s.snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Prices, nil
}

// ProductPrices returns one product's entries keyed by store ID
func (s *CatalogService) ProductPrices(ctx context.Context, productID string) (map[string]domain.PriceEntry, error) {
	if _, err := s.providers.Products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.providers.Prices.ProductPrices(ctx, productID)
}

// SetProductPrices applies an admin price edit for one product. Any
// negative price rejects the whole edit. Zero prices are not stored.
// The entries are written in one repository call, all or nothing, and
// the ones stored are returned.
func (s *CatalogService) SetProductPrices(
	ctx context.Context,
	productID string,
	inputs map[string]domain.PriceInput,
) (map[string]domain.PriceEntry, error) {
	if _, err := s.providers.Products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	for storeID, in := range inputs {
		if in.Price < 0 {
			return nil, fmt.Errorf("%w: store %s", domain.ErrNegativePrice, storeID)
		}
		if _, err := s.providers.Stores.GetStore(ctx, storeID); err != nil {
			return nil, fmt.Errorf("%w: %s", err, storeID)
		}
	}

	stored := make(map[string]domain.PriceEntry, len(inputs))
	for storeID, in := range inputs {
		if in.Price == 0 {
			continue
		}
		stored[storeID] = domain.PriceEntry{
			Price:   in.Price,
			IsPromo: in.IsPromo,
			InStock: in.InStock == nil || *in.InStock,
		}
	}

	// a failed write may still have reached storage, so cached views go either way
	defer s.snapshot.Invalidate(ctx)
	if err := s.providers.Prices.SetPrices(ctx, productID, stored); err != nil {
		return nil, fmt.Errorf("set prices of %s: %w", productID, err)
	}

	changedAt := s.now().UnixMilli()
	changes := make([]domain.PriceChange, 0, len(stored))
	for _, storeID := range sortedKeys(stored) {
		changes = append(changes, domain.PriceChange{
			ProductID: productID,
			StoreID:   storeID,
			Entry:     stored[storeID],
			ChangedAt: changedAt,
		})
	}
	s.publish(ctx, changes)
	s.logger.Info("prices updated", "product_id", productID, "entries", len(stored))

	return stored, nil
}

// PriceRange returns the lowest and highest in-stock price of a product
func (s *CatalogService) PriceRange(ctx context.Context, productID string) (*domain.PriceRange, error) {
	entries, err := s.ProductPrices(ctx, productID)
	if err != nil {
		return nil, err
	}
	return priceRange(productID, entries), nil
}

// ImportResult summarizes a price feed import
type ImportResult struct {
	Applied  int `json:"applied"`
	Skipped  int `json:"skipped"`
	Products int `json:"products"`
}

// ImportPrices pulls the remote price feed and applies it through the
// same validation as an admin edit. Rows for unknown products or stores
// are skipped.
func (s *CatalogService) ImportPrices(ctx context.Context) (*ImportResult, error) {
	if s.feed == nil {
		return nil, fmt.Errorf("%w: no price feed configured", domain.ErrPriceFeedFailure)
	}

	rows, err := s.feed.FetchPrices(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[string]map[string]domain.PriceInput)
	result := &ImportResult{}
	for _, row := range rows {
		if _, ok := snap.product(row.ProductID); !ok {
			result.Skipped++
			continue
		}
		if _, ok := snap.store(row.StoreID); !ok {
			result.Skipped++
			continue
		}
		if row.Price < 0 {
			result.Skipped++
			continue
		}
		if byProduct[row.ProductID] == nil {
			byProduct[row.ProductID] = make(map[string]domain.PriceInput)
		}
		inStock := row.InStock
		byProduct[row.ProductID][row.StoreID] = domain.PriceInput{
			Price:   row.Price,
			IsPromo: row.IsPromo,
			InStock: &inStock,
		}
	}

	for _, productID := range sortedKeys(byProduct) {
		stored, err := s.SetProductPrices(ctx, productID, byProduct[productID])
		if err != nil {
			return nil, err
		}
		result.Applied += len(stored)
		result.Skipped += len(byProduct[productID]) - len(stored)
		result.Products++
	}

	s.logger.Info("price feed imported",
		"applied", result.Applied,
		"skipped", result.Skipped,
		"products", result.Products,
	)
	return result, nil
}

// publish sends price events; a broker outage does not fail the edit
func (s *CatalogService) publish(ctx context.Context, changes []domain.PriceChange) {
	if s.events == nil || len(changes) == 0 {
		return
	}
	if err := s.events.PublishPriceChanges(ctx, changes); err != nil {
		s.logger.Error("publish price changes failed", "changes", len(changes), "error", err)
	}
}

func priceRange(productID string, entries map[string]domain.PriceEntry) *domain.PriceRange {
	r := &domain.PriceRange{ProductID: productID}
	first := true
	for _, e := range entries {
		if !e.InStock {
			continue
		}
		if first || e.Price < r.Min {
			r.Min = e.Price
		}
		if first || e.Price > r.Max {
			r.Max = e.Price
		}
		first = false
	}
	return r
}

func validateProduct(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("%w: name and category are required", domain.ErrInvalidRequest)
	}
	return nil
}

func validateStore(in StoreInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: store name is required", domain.ErrInvalidRequest)
	}
	if !hexColorRegex.MatchString(in.ColorHex) {
		return domain.ErrInvalidColor
	}
	return nil
}

func buildProduct(id string, in ProductInput) domain.Product {
	p := domain.Product{
		ID:       id,
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
		Brand:    strings.TrimSpace(in.Brand),
		ImageURL: in.ImageURL,
	}
	if p.ImageURL == "" {
		p.ImageURL = ImagePath(p.Name)
	}
	return p
}

// ImagePath derives a local image path from the first word of a product
// name, with accents stripped: "Hambúrguer Artesanal" -> /images/hamburguer.png
func ImagePath(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return ""
	}
	first := combiningMarkRegex.ReplaceAllString(norm.NFD.String(fields[0]), "")
	return "/images/" + imageNameRegex.ReplaceAllString(first, "_") + ".png"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
