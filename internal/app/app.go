// Package app wires repositories, adapters and use cases from config.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kazen/backend/config"
	"github.com/kazen/backend/internal/domain"
	"github.com/kazen/backend/internal/infrastructure/cache"
	"github.com/kazen/backend/internal/infrastructure/events"
	"github.com/kazen/backend/internal/infrastructure/memory"
	"github.com/kazen/backend/internal/infrastructure/postgres"
	"github.com/kazen/backend/internal/infrastructure/pricefeed"
	"github.com/kazen/backend/internal/usecase"
)

type seeder interface {
	Seed(ctx context.Context, products []domain.Product, stores []domain.Store, prices domain.PriceTable) error
}

// App is the assembled backend
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Lists      *usecase.ShoppingListService
	Comparison *usecase.ComparisonService
	Catalog    *usecase.CatalogService
	Analytics  *usecase.AnalyticsService

	seeder  seeder
	closers []func()
}

// New builds the application. Close releases everything it opened.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	providers, lists, err := a.initStorage(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	providers.Lists = lists

	memCache := cache.NewMemoryCacheWithCleanup(time.Minute)
	a.closers = append(a.closers, memCache.Close)

	publisher, err := a.initEvents(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	feed := a.initPriceFeed()

	a.Lists = usecase.NewShoppingListService(lists, providers.Products, logger)
	a.Comparison = usecase.NewComparisonService(lists, providers, memCache, usecase.ComparisonServiceConfig{
		CacheTTL:       cfg.Cache.TTL,
		CheapestPolicy: domain.CheapestPolicy(cfg.Comparison.CheapestPolicy),
	}, logger)
	a.Catalog = usecase.NewCatalogService(providers, memCache, publisher, feed, usecase.CatalogServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	}, logger)
	a.Analytics = usecase.NewAnalyticsService(providers, memCache, cfg.Cache.TTL, logger)

	return a, nil
}

func (a *App) initStorage(ctx context.Context) (usecase.CatalogProviders, domain.ShoppingListRepository, error) {
	cfg := a.Config.Storage

	if cfg.Driver != "postgres" {
		catalog := memory.NewDemoCatalog()
		a.Logger.Info("using in-memory storage with demo catalog")
		return usecase.CatalogProviders{Products: catalog, Stores: catalog, Prices: catalog}, memory.NewShoppingLists(), nil
	}

	if cfg.Migrate {
		if err := postgres.Migrate(cfg.DatabaseURL, a.Logger); err != nil {
			return usecase.CatalogProviders{}, nil, err
		}
	}

	pool, err := postgres.Connect(ctx, postgres.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.MaxConns})
	if err != nil {
		return usecase.CatalogProviders{}, nil, err
	}
	a.closers = append(a.closers, pool.Close)
	a.Logger.Info("connected to postgres", "max_conns", pool.Config().MaxConns)

	catalog := postgres.NewCatalog(pool)
	a.seeder = catalog
	return usecase.CatalogProviders{Products: catalog, Stores: catalog, Prices: catalog}, postgres.NewShoppingLists(pool), nil
}

func (a *App) initEvents(ctx context.Context) (domain.PriceEventPublisher, error) {
	cfg := a.Config.Events
	if len(cfg.Brokers) == 0 {
		a.Logger.Info("no kafka brokers configured, price events are dropped")
		return events.NoopPublisher{}, nil
	}

	cl, err := events.NewKafkaClient(ctx, cfg.Brokers, cfg.Topic)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	producer := events.NewPriceProducer(cl, a.Logger)
	a.closers = append(a.closers, producer.Close)
	a.Logger.Info("publishing price events", "topic", cfg.Topic, "brokers", cfg.Brokers)
	return producer, nil
}

func (a *App) initPriceFeed() domain.PriceFeed {
	cfg := a.Config.PriceFeed
	if cfg.BaseURL == "" {
		return nil
	}

	client := pricefeed.NewClient(cfg.APIKey, cfg.BaseURL, cfg.RequestsPerSecond, a.Logger)
	if !a.Config.IsProduction() {
		client.SetDebug(true)
	}
	a.Logger.Info("price feed configured", "base_url", cfg.BaseURL)
	return client
}

// SeedDemo writes the demo catalog to persistent storage. In-memory
// storage already starts seeded.
func (a *App) SeedDemo(ctx context.Context) error {
	if a.seeder == nil {
		return nil
	}
	return a.seeder.Seed(ctx, memory.SeedProducts(), memory.SeedStores(), memory.SeedPrices())
}

// Close releases resources in reverse order of acquisition
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
