package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/kazen/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_ProductLifecycle(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog()

	_, err := c.GetProduct(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	require.NoError(t, c.SaveProduct(ctx, domain.Product{ID: "p1", Name: "Alcatra", Category: "Churrasco"}))
	require.NoError(t, c.SaveProduct(ctx, domain.Product{ID: "p2", Name: "Bacon", Category: "Churrasco"}))

	got, err := c.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Alcatra", got.Name)

	// replacing keeps position
	require.NoError(t, c.SaveProduct(ctx, domain.Product{ID: "p1", Name: "Alcatra Premium", Category: "Churrasco"}))
	list, err := c.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alcatra Premium", list[0].Name)
	assert.Equal(t, "p2", list[1].ID)

	require.NoError(t, c.DeleteProduct(ctx, "p1"))
	assert.ErrorIs(t, c.DeleteProduct(ctx, "p1"), domain.ErrProductNotFound)

	list, err = c.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCatalog_StoreLifecycle(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog()

	require.NoError(t, c.SaveStore(ctx, domain.Store{ID: "store-1", Name: "Kero"}))

	got, err := c.GetStore(ctx, "store-1")
	require.NoError(t, err)
	assert.Equal(t, "Kero", got.Name)

	_, err = c.GetStore(ctx, "store-9")
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)

	require.NoError(t, c.DeleteStore(ctx, "store-1"))
	assert.ErrorIs(t, c.DeleteStore(ctx, "store-1"), domain.ErrStoreNotFound)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewDemoCatalog()

	products, err := c.ListProducts(ctx)
	require.NoError(t, err)
	products[0].Name = "changed"

	again, err := c.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Picanha Fresca", again[0].Name)

	table, err := c.PriceTable(ctx)
	require.NoError(t, err)
	table["1"]["store-1"] = domain.PriceEntry{Price: 1}

	entries, err := c.ProductPrices(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 8500.0, entries["store-1"].Price)
}

func TestCatalog_Prices(t *testing.T) {
	ctx := context.Background()
	c := NewDemoCatalog()

	require.NoError(t, c.SetPrice(ctx, "1", "store-4", domain.PriceEntry{Price: 9000, InStock: true}))
	entries, err := c.ProductPrices(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	require.NoError(t, c.DeleteStorePrices(ctx, "store-4"))
	entries, err = c.ProductPrices(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	require.NoError(t, c.DeleteProductPrices(ctx, "1"))
	entries, err = c.ProductPrices(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	table, err := c.PriceTable(ctx)
	require.NoError(t, err)
	_, ok := table["1"]
	assert.False(t, ok)
	assert.Len(t, table, 9)
}

func TestCatalog_SetPrices(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog()

	require.NoError(t, c.SetPrices(ctx, "p1", map[string]domain.PriceEntry{
		"s1": {Price: 10, InStock: true},
		"s2": {Price: 12, IsPromo: true},
	}))

	entries, err := c.ProductPrices(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.True(t, entries["s2"].IsPromo)
}

func TestCatalog_DeleteStorePricesDropsEmptyRows(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog()
	require.NoError(t, c.SetPrice(ctx, "p1", "s1", domain.PriceEntry{Price: 10, InStock: true}))

	require.NoError(t, c.DeleteStorePrices(ctx, "s1"))

	table, err := c.PriceTable(ctx)
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestCatalog_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewDemoCatalog()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = c.SetPrice(ctx, "2", "store-1", domain.PriceEntry{Price: 3000, InStock: true})
		}()
		go func() {
			defer wg.Done()
			_, _ = c.PriceTable(ctx)
		}()
	}
	wg.Wait()

	entries, err := c.ProductPrices(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 3000.0, entries["store-1"].Price)
}

func TestSeedData(t *testing.T) {
	products := SeedProducts()
	stores := SeedStores()
	prices := SeedPrices()

	assert.Len(t, products, 10)
	assert.Len(t, stores, 3)

	for _, p := range products {
		row, ok := prices[p.ID]
		require.True(t, ok, "product %s has no prices", p.ID)
		assert.Len(t, row, len(stores))

		// store-1 is always the cheapest in the demo data
		for _, s := range stores[1:] {
			assert.Less(t, row["store-1"].Price, row[s.ID].Price)
		}
	}
}
