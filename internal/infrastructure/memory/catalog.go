// Package memory holds thread-safe in-memory repositories. They back the
// service when no database is configured and are used by tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/kazen/backend/internal/domain"
)

// Catalog stores products, stores and prices in memory. Products and
// stores keep insertion order.
type Catalog struct {
	mutex    sync.RWMutex
	products []domain.Product
	stores   []domain.Store
	prices   domain.PriceTable
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{prices: make(domain.PriceTable)}
}

// NewSeededCatalog creates a catalog holding the given reference data
func NewSeededCatalog(products []domain.Product, stores []domain.Store, prices domain.PriceTable) *Catalog {
	c := NewCatalog()
	c.products = slices.Clone(products)
	c.stores = slices.Clone(stores)
	if prices != nil {
		c.prices = prices.Clone()
	}
	return c
}

// ListProducts returns all products
func (c *Catalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return slices.Clone(c.products), nil
}

// GetProduct returns a product by ID
func (c *Catalog) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	i := c.productIndex(id)
	if i < 0 {
		return nil, domain.ErrProductNotFound
	}
	p := c.products[i]
	return &p, nil
}

// SaveProduct inserts or replaces a product
func (c *Catalog) SaveProduct(ctx context.Context, p domain.Product) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if i := c.productIndex(p.ID); i >= 0 {
		c.products[i] = p
		return nil
	}
	c.products = append(c.products, p)
	return nil
}

// DeleteProduct removes a product
func (c *Catalog) DeleteProduct(ctx context.Context, id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	i := c.productIndex(id)
	if i < 0 {
		return domain.ErrProductNotFound
	}
	c.products = slices.Delete(c.products, i, i+1)
	return nil
}

// ListStores returns all stores
func (c *Catalog) ListStores(ctx context.Context) ([]domain.Store, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return slices.Clone(c.stores), nil
}

// GetStore returns a store by ID
func (c *Catalog) GetStore(ctx context.Context, id string) (*domain.Store, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	i := c.storeIndex(id)
	if i < 0 {
		return nil, domain.ErrStoreNotFound
	}
	s := c.stores[i]
	return &s, nil
}

// SaveStore inserts or replaces a store
func (c *Catalog) SaveStore(ctx context.Context, s domain.Store) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if i := c.storeIndex(s.ID); i >= 0 {
		c.stores[i] = s
		return nil
	}
	c.stores = append(c.stores, s)
	return nil
}

// DeleteStore removes a store
func (c *Catalog) DeleteStore(ctx context.Context, id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	i := c.storeIndex(id)
	if i < 0 {
		return domain.ErrStoreNotFound
	}
	c.stores = slices.Delete(c.stores, i, i+1)
	return nil
}

// PriceTable returns a copy of the whole price table
func (c *Catalog) PriceTable(ctx context.Context) (domain.PriceTable, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.prices.Clone(), nil
}

// ProductPrices returns the entries of one product keyed by store ID
func (c *Catalog) ProductPrices(ctx context.Context, productID string) (map[string]domain.PriceEntry, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	out := make(map[string]domain.PriceEntry, len(c.prices[productID]))
	for storeID, entry := range c.prices[productID] {
		out[storeID] = entry
	}
	return out, nil
}

// SetPrice stores one price entry
func (c *Catalog) SetPrice(ctx context.Context, productID, storeID string, entry domain.PriceEntry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.prices.Set(productID, storeID, entry)
	return nil
}

// SetPrices stores several entries of one product under a single lock
func (c *Catalog) SetPrices(ctx context.Context, productID string, entries map[string]domain.PriceEntry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for storeID, entry := range entries {
		c.prices.Set(productID, storeID, entry)
	}
	return nil
}

// DeleteProductPrices drops every entry of a product
func (c *Catalog) DeleteProductPrices(ctx context.Context, productID string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.prices, productID)
	return nil
}

// DeleteStorePrices drops every entry at a store
func (c *Catalog) DeleteStorePrices(ctx context.Context, storeID string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for productID, byStore := range c.prices {
		delete(byStore, storeID)
		if len(byStore) == 0 {
			delete(c.prices, productID)
		}
	}
	return nil
}

func (c *Catalog) productIndex(id string) int {
	return slices.IndexFunc(c.products, func(p domain.Product) bool { return p.ID == id })
}

func (c *Catalog) storeIndex(id string) int {
	return slices.IndexFunc(c.stores, func(s domain.Store) bool { return s.ID == id })
}
