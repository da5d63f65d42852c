package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque bytes so implementations can be swapped for Redis.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ProductRepository is the product catalog provider
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	SaveProduct(ctx context.Context, p Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// StoreRepository is the store directory provider
type StoreRepository interface {
	ListStores(ctx context.Context) ([]Store, error)
	GetStore(ctx context.Context, id string) (*Store, error)
	SaveStore(ctx context.Context, s Store) error
	DeleteStore(ctx context.Context, id string) error
}

// PriceRepository is the price table provider
type PriceRepository interface {
	PriceTable(ctx context.Context) (PriceTable, error)
	ProductPrices(ctx context.Context, productID string) (map[string]PriceEntry, error)
	SetPrice(ctx context.Context, productID, storeID string, entry PriceEntry) error
	// SetPrices stores several entries of one product keyed by store ID.
	// Either all of them are stored or none.
	SetPrices(ctx context.Context, productID string, entries map[string]PriceEntry) error
	DeleteProductPrices(ctx context.Context, productID string) error
	DeleteStorePrices(ctx context.Context, storeID string) error
}

// ListMutation derives the new items of a list from its current ones.
// Returning an error leaves the list unchanged.
type ListMutation func(items []ShoppingListItem) ([]ShoppingListItem, error)

// ShoppingListRepository owns stored shopping lists. Load returns an
// empty slice for an unknown list.
//
// Update applies a mutation atomically: concurrent updates of the same
// list run one after the other, each seeing the previous result. Saving
// an empty list deletes it.
type ShoppingListRepository interface {
	Load(ctx context.Context, listID string) ([]ShoppingListItem, error)
	Save(ctx context.Context, listID string, items []ShoppingListItem) error
	Update(ctx context.Context, listID string, mutate ListMutation) ([]ShoppingListItem, error)
	Delete(ctx context.Context, listID string) error
	// RemoveProduct drops a product from every list
	RemoveProduct(ctx context.Context, productID string) error
}

// PriceFeed fetches a price table from an external source
type PriceFeed interface {
	FetchPrices(ctx context.Context) ([]PriceSnapshot, error)
}

// PriceSnapshot is one row of an external price feed
type PriceSnapshot struct {
	ProductID string  `json:"product_id"`
	StoreID   string  `json:"store_id"`
	Price     float64 `json:"price"`
	IsPromo   bool    `json:"is_promo"`
	InStock   bool    `json:"in_stock"`
}

// PriceEventPublisher announces accepted price edits
type PriceEventPublisher interface {
	PublishPriceChanges(ctx context.Context, changes []PriceChange) error
}
