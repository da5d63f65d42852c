package app

import (
	"context"
	"testing"
	"time"

	"github.com/kazen/backend/config"
	"github.com/kazen/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Server:     config.ServerConfig{Environment: "test"},
		Storage:    config.StorageConfig{Driver: "memory"},
		Cache:      config.CacheConfig{TTL: time.Minute},
		Comparison: config.ComparisonConfig{CheapestPolicy: "priced-only"},
	}
}

func TestNew_MemoryStorage(t *testing.T) {
	ctx := context.Background()

	a, err := New(ctx, memoryConfig(), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, domain.PolicyPricedOnly, a.Comparison.Policy())

	_, err = a.Lists.Add(ctx, "l", "1")
	require.NoError(t, err)

	result, err := a.Comparison.CompareList(ctx, "l")
	require.NoError(t, err)
	assert.Equal(t, "store-1", result.Summary.CheapestStoreID)

	// memory storage is seeded already
	require.NoError(t, a.SeedDemo(ctx))

	_, err = a.Catalog.ImportPrices(ctx)
	assert.ErrorIs(t, err, domain.ErrPriceFeedFailure)
}

func TestNew_WithPriceFeed(t *testing.T) {
	cfg := memoryConfig()
	cfg.PriceFeed = config.PriceFeedConfig{BaseURL: "http://127.0.0.1:0", RequestsPerSecond: 5}

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Catalog)
}

func TestClose_Idempotent(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), nil)
	require.NoError(t, err)

	a.Close()
	a.Close()
}
