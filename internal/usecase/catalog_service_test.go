package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kazen/backend/internal/domain"
	"github.com/kazen/backend/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(events domain.PriceEventPublisher, feed domain.PriceFeed) (*CatalogService, *memory.Catalog, *countingCache) {
	catalog := memory.NewDemoCatalog()
	cache := newCountingCache()
	svc := NewCatalogService(demoProviders(catalog), cache, events, feed, CatalogServiceConfig{CacheTTL: time.Minute}, nil)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	ids := 0
	svc.newID = func() string {
		ids++
		return []string{"id-a", "id-b", "id-c"}[ids-1]
	}
	return svc, catalog, cache
}

func boolPtr(b bool) *bool { return &b }

func TestCatalogService_ListProductsSearch(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCatalogFixture(nil, nil)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"empty query returns all", "", 10},
		{"matches name case-insensitively", "FRANGO", 2},
		{"matches brand", "gourmet", 1},
		{"matches category", "churrasco", 10},
		{"no match", "peixe", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListProducts(ctx, tt.query)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestCatalogService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	svc, catalog, _ := newCatalogFixture(nil, nil)

	p, err := svc.CreateProduct(ctx, ProductInput{Name: " Hambúrguer Duplo ", Category: "Churrasco"})
	require.NoError(t, err)
	assert.Equal(t, "id-a", p.ID)
	assert.Equal(t, "Hambúrguer Duplo", p.Name)
	assert.Equal(t, "/images/hamburguer.png", p.ImageURL)

	stored, err := catalog.GetProduct(ctx, "id-a")
	require.NoError(t, err)
	assert.Equal(t, *p, *stored)

	_, err = svc.CreateProduct(ctx, ProductInput{Name: "Sem categoria"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestCatalogService_UpdateAndDeleteProduct(t *testing.T) {
	ctx := context.Background()
	svc, catalog, _ := newCatalogFixture(nil, nil)

	p, err := svc.UpdateProduct(ctx, "10", ProductInput{Name: "Alcatra Maturada", Category: "Churrasco", Brand: "Gourmet", ImageURL: "/images/alcatra.png"})
	require.NoError(t, err)
	assert.Equal(t, "Alcatra Maturada", p.Name)
	assert.Equal(t, "/images/alcatra.png", p.ImageURL)

	_, err = svc.UpdateProduct(ctx, "404", ProductInput{Name: "x", Category: "y"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	require.NoError(t, svc.DeleteProduct(ctx, "10"))
	entries, err := catalog.ProductPrices(ctx, "10")
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, "10"), domain.ErrProductNotFound)
}

func TestCatalogService_CategoriesAndBrands(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCatalogFixture(nil, nil)

	_, err := svc.CreateProduct(ctx, ProductInput{Name: "Cerveja", Category: "Bebidas"})
	require.NoError(t, err)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bebidas", "Churrasco"}, categories)

	brands, err := svc.Brands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gourmet", "Natural", "Premium", "Tradicional"}, brands)
}

func TestCatalogService_Stores(t *testing.T) {
	ctx := context.Background()
	svc, catalog, _ := newCatalogFixture(nil, nil)

	tests := []struct {
		name    string
		input   StoreInput
		wantErr error
	}{
		{"valid six digit color", StoreInput{Name: "Candando", ColorHex: "#F59E0B"}, nil},
		{"valid three digit color", StoreInput{Name: "Maxi", ColorHex: "#abc"}, nil},
		{"missing name", StoreInput{Name: "  ", ColorHex: "#abc"}, domain.ErrInvalidRequest},
		{"missing hash", StoreInput{Name: "X", ColorHex: "F59E0B"}, domain.ErrInvalidColor},
		{"bad length", StoreInput{Name: "X", ColorHex: "#F59E"}, domain.ErrInvalidColor},
		{"non hex", StoreInput{Name: "X", ColorHex: "#GGGGGG"}, domain.ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := svc.CreateStore(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, st.ID, "store-id-")
		})
	}

	st, err := svc.UpdateStore(ctx, "store-1", StoreInput{Name: "Kero Kilamba", ColorHex: "#14B8A6"})
	require.NoError(t, err)
	assert.Equal(t, "/images/stores/kero.png", st.LogoURL)

	found, err := svc.ListStores(ctx, "kilamba")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "store-1", found[0].ID)

	require.NoError(t, svc.DeleteStore(ctx, "store-1"))
	table, err := catalog.PriceTable(ctx)
	require.NoError(t, err)
	for _, row := range table {
		_, ok := row["store-1"]
		assert.False(t, ok)
	}
}

func TestCatalogService_SetProductPrices(t *testing.T) {
	ctx := context.Background()

	t.Run("stores positive prices and publishes events", func(t *testing.T) {
		pub := new(MockPublisher)
		pub.On("PublishPriceChanges", mock.Anything, mock.MatchedBy(func(cs []domain.PriceChange) bool {
			return len(cs) == 2 && cs[0].StoreID == "store-1" && cs[1].StoreID == "store-2" &&
				cs[0].ChangedAt == 1700000000000
		})).Return(nil).Once()

		svc, catalog, _ := newCatalogFixture(pub, nil)

		stored, err := svc.SetProductPrices(ctx, "1", map[string]domain.PriceInput{
			"store-1": {Price: 8000, IsPromo: true},
			"store-2": {Price: 11000, InStock: boolPtr(false)},
			"store-3": {Price: 0},
		})
		require.NoError(t, err)
		assert.Len(t, stored, 2)
		assert.True(t, stored["store-1"].InStock)
		assert.False(t, stored["store-2"].InStock)

		entries, err := catalog.ProductPrices(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, 8000.0, entries["store-1"].Price)
		// zero price leaves the previous entry untouched
		assert.Equal(t, 10500.0, entries["store-3"].Price)

		pub.AssertExpectations(t)
	})

	t.Run("negative price rejects the whole edit", func(t *testing.T) {
		pub := new(MockPublisher)
		svc, catalog, _ := newCatalogFixture(pub, nil)

		_, err := svc.SetProductPrices(ctx, "1", map[string]domain.PriceInput{
			"store-1": {Price: 7000},
			"store-2": {Price: -1},
		})
		assert.ErrorIs(t, err, domain.ErrNegativePrice)

		entries, err := catalog.ProductPrices(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, 8500.0, entries["store-1"].Price)
		pub.AssertNotCalled(t, "PublishPriceChanges", mock.Anything, mock.Anything)
	})

	t.Run("unknown store", func(t *testing.T) {
		svc, _, _ := newCatalogFixture(nil, nil)
		_, err := svc.SetProductPrices(ctx, "1", map[string]domain.PriceInput{"store-9": {Price: 1}})
		assert.ErrorIs(t, err, domain.ErrStoreNotFound)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, _, _ := newCatalogFixture(nil, nil)
		_, err := svc.SetProductPrices(ctx, "99", map[string]domain.PriceInput{"store-1": {Price: 1}})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("publisher failure does not fail the edit", func(t *testing.T) {
		pub := new(MockPublisher)
		pub.On("PublishPriceChanges", mock.Anything, mock.Anything).Return(errors.New("broker down"))
		svc, _, _ := newCatalogFixture(pub, nil)

		stored, err := svc.SetProductPrices(ctx, "2", map[string]domain.PriceInput{"store-1": {Price: 3000}})
		require.NoError(t, err)
		assert.Len(t, stored, 1)
	})

	t.Run("edit invalidates cached snapshot", func(t *testing.T) {
		svc, _, cache := newCatalogFixture(nil, nil)

		table, err := svc.PriceTable(ctx)
		require.NoError(t, err)
		assert.Equal(t, 8500.0, table["1"]["store-1"].Price)

		_, err = svc.SetProductPrices(ctx, "1", map[string]domain.PriceInput{"store-1": {Price: 100}})
		require.NoError(t, err)
		_, ok := cache.data[snapshotCacheKey]
		assert.False(t, ok)

		table, err = svc.PriceTable(ctx)
		require.NoError(t, err)
		assert.Equal(t, 100.0, table["1"]["store-1"].Price)
	})
}

// partialPrices stores the first entry of a batch and then fails, like a
// store without transactions
type partialPrices struct {
	*memory.Catalog
	err error
}

func (p partialPrices) SetPrices(ctx context.Context, productID string, entries map[string]domain.PriceEntry) error {
	for _, storeID := range sortedKeys(entries) {
		if err := p.Catalog.SetPrice(ctx, productID, storeID, entries[storeID]); err != nil {
			return err
		}
		return p.err
	}
	return nil
}

func TestCatalogService_SetProductPricesStorageFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")
	catalog := memory.NewDemoCatalog()
	cache := newCountingCache()
	pub := new(MockPublisher)
	svc := NewCatalogService(
		CatalogProviders{Products: catalog, Stores: catalog, Prices: partialPrices{Catalog: catalog, err: boom}},
		cache, pub, nil, CatalogServiceConfig{CacheTTL: time.Minute}, nil,
	)

	_, err := svc.PriceTable(ctx)
	require.NoError(t, err)
	_, ok := cache.data[snapshotCacheKey]
	require.True(t, ok)

	_, err = svc.SetProductPrices(ctx, "1", map[string]domain.PriceInput{
		"store-1": {Price: 100},
		"store-2": {Price: 200},
	})
	assert.ErrorIs(t, err, boom)

	_, ok = cache.data[snapshotCacheKey]
	assert.False(t, ok)
	pub.AssertNotCalled(t, "PublishPriceChanges", mock.Anything, mock.Anything)

	// the next read sees what storage actually holds
	table, err := svc.PriceTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, table["1"]["store-1"].Price)
	assert.Equal(t, 12000.0, table["1"]["store-2"].Price)
}

func TestCatalogService_DeleteProductRemovesListLines(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewDemoCatalog()
	lists := memory.NewShoppingLists()
	providers := CatalogProviders{Products: catalog, Stores: catalog, Prices: catalog, Lists: lists}
	svc := NewCatalogService(providers, newCountingCache(), nil, nil, CatalogServiceConfig{}, nil)
	listSvc := NewShoppingListService(lists, catalog, nil)

	_, err := listSvc.Add(ctx, "l", "1")
	require.NoError(t, err)
	_, err = listSvc.Add(ctx, "l", "2")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, "1"))

	list, err := listSvc.Get(ctx, "l")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "2", list.Items[0].ProductID)
}

func TestCatalogService_PriceRange(t *testing.T) {
	ctx := context.Background()
	svc, catalog, _ := newCatalogFixture(nil, nil)
	require.NoError(t, catalog.SetPrice(ctx, "2", "store-1", domain.PriceEntry{Price: 3200, InStock: false}))

	r, err := svc.PriceRange(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 3800.0, r.Min)
	assert.Equal(t, 4500.0, r.Max)

	require.NoError(t, catalog.DeleteProductPrices(ctx, "3"))
	r, err = svc.PriceRange(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Min)
	assert.Equal(t, 0.0, r.Max)
}

func TestCatalogService_ImportPrices(t *testing.T) {
	ctx := context.Background()

	t.Run("applies known rows", func(t *testing.T) {
		feed := new(MockPriceFeed)
		feed.On("FetchPrices", mock.Anything).Return([]domain.PriceSnapshot{
			{ProductID: "1", StoreID: "store-1", Price: 8400, InStock: true},
			{ProductID: "1", StoreID: "store-2", Price: 0, InStock: true},
			{ProductID: "2", StoreID: "store-3", Price: 3700, InStock: false, IsPromo: true},
			{ProductID: "ghost", StoreID: "store-1", Price: 1, InStock: true},
			{ProductID: "2", StoreID: "store-ghost", Price: 1, InStock: true},
			{ProductID: "3", StoreID: "store-1", Price: -5, InStock: true},
		}, nil)

		svc, catalog, _ := newCatalogFixture(nil, feed)

		result, err := svc.ImportPrices(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Applied)
		assert.Equal(t, 4, result.Skipped)
		assert.Equal(t, 2, result.Products)

		entries, err := catalog.ProductPrices(ctx, "2")
		require.NoError(t, err)
		assert.False(t, entries["store-3"].InStock)
		assert.True(t, entries["store-3"].IsPromo)
	})

	t.Run("feed failure", func(t *testing.T) {
		feed := new(MockPriceFeed)
		feed.On("FetchPrices", mock.Anything).Return(nil, domain.ErrPriceFeedFailure)
		svc, _, _ := newCatalogFixture(nil, feed)

		_, err := svc.ImportPrices(ctx)
		assert.ErrorIs(t, err, domain.ErrPriceFeedFailure)
	})

	t.Run("no feed configured", func(t *testing.T) {
		svc, _, _ := newCatalogFixture(nil, nil)
		_, err := svc.ImportPrices(ctx)
		assert.ErrorIs(t, err, domain.ErrPriceFeedFailure)
	})
}

func TestImagePath(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Picanha Fresca", "/images/picanha.png"},
		{"Linguiça Toscana", "/images/linguica.png"},
		{"Hambúrguer", "/images/hamburguer.png"},
		{"X-Tudo Especial", "/images/x_tudo.png"},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ImagePath(tt.name))
		})
	}
}
