package usecase

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/kazen/backend/internal/domain"
)

const topSavingsLimit = 5

// ProductSpread is the in-stock price range of one product
type ProductSpread struct {
	ProductID string  `json:"productId"`
	Product   string  `json:"product"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Diff      float64 `json:"diff"`
}

// AnalyticsReport is the back-office dashboard summary
type AnalyticsReport struct {
	TotalProducts   int             `json:"totalProducts"`
	TotalStores     int             `json:"totalStores"`
	TotalPrices     int             `json:"totalPrices"`
	PromoCount      int             `json:"promoCount"`
	OverallAvgPrice float64         `json:"overallAvgPrice"`
	TotalSavings    float64         `json:"totalSavings"`
	TopSavings      []ProductSpread `json:"topSavings"`
	GeneratedAt     time.Time       `json:"generatedAt"`
}

// AnalyticsService builds dashboard reports over the catalog
type AnalyticsService struct {
	snapshot *snapshotLoader
	logger   *slog.Logger
	now      func() time.Time
}

// NewAnalyticsService creates a new analytics service with dependencies
func NewAnalyticsService(
	providers CatalogProviders,
	cache domain.CacheRepository,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "analytics")
	return &AnalyticsService{
		snapshot: newSnapshotLoader(providers, cache, cacheTTL, logger),
		logger:   logger,
		now:      time.Now,
	}
}

// Report returns the dashboard report, cached
func (s *AnalyticsService) Report(ctx context.Context) (*AnalyticsReport, error) {
	var report AnalyticsReport
	if s.snapshot.getCached(ctx, analyticsCacheKey, &report) {
		return &report, nil
	}

	gen := s.snapshot.generation(ctx)
	snap, err := s.snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}

	report = BuildReport(snap)
	report.GeneratedAt = s.now().UTC()
	s.snapshot.setCached(ctx, analyticsCacheKey, report, gen)

	return &report, nil
}

// BuildReport computes the dashboard figures from a snapshot.
//
// The average price is the mean of per-product in-stock averages over
// every product that has a price row. Potential savings add up, per
// product, the gap between its dearest and cheapest in-stock price when
// at least two stores have it in stock.
func BuildReport(snap *CatalogSnapshot) AnalyticsReport {
	report := AnalyticsReport{
		TotalProducts: len(snap.Products),
		TotalStores:   len(snap.Stores),
		TotalPrices:   len(snap.Prices) * len(snap.Stores),
		TopSavings:    []ProductSpread{},
	}

	names := make(map[string]string, len(snap.Products))
	for _, p := range snap.Products {
		names[p.ID] = p.Name
	}

	var avgSum float64
	for _, productID := range sortedKeys(snap.Prices) {
		inStock := make([]float64, 0, len(snap.Prices[productID]))
		for _, entry := range snap.Prices[productID] {
			if entry.IsPromo {
				report.PromoCount++
			}
			if entry.InStock {
				inStock = append(inStock, entry.Price)
			}
		}

		if len(inStock) == 0 {
			continue
		}

		var sum float64
		for _, p := range inStock {
			sum += p
		}
		avgSum += sum / float64(len(inStock))

		lo, hi := slices.Min(inStock), slices.Max(inStock)
		if len(inStock) > 1 {
			report.TotalSavings += hi - lo
		}

		name, ok := names[productID]
		if !ok {
			name = "Unknown"
		}
		report.TopSavings = append(report.TopSavings, ProductSpread{
			ProductID: productID,
			Product:   name,
			Min:       lo,
			Max:       hi,
			Diff:      hi - lo,
		})
	}

	if len(snap.Prices) > 0 {
		report.OverallAvgPrice = avgSum / float64(len(snap.Prices))
	}

	slices.SortStableFunc(report.TopSavings, func(a, b ProductSpread) int {
		return cmp.Compare(b.Diff, a.Diff)
	})
	if len(report.TopSavings) > topSavingsLimit {
		report.TopSavings = report.TopSavings[:topSavingsLimit]
	}

	return report
}
