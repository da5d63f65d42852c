package usecase

import (
	"context"
	"time"

	"github.com/kazen/backend/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockShoppingListRepository is a testify mock of domain.ShoppingListRepository
type MockShoppingListRepository struct {
	mock.Mock
}

func (m *MockShoppingListRepository) Load(ctx context.Context, listID string) ([]domain.ShoppingListItem, error) {
	args := m.Called(ctx, listID)
	items, _ := args.Get(0).([]domain.ShoppingListItem)
	return items, args.Error(1)
}

func (m *MockShoppingListRepository) Save(ctx context.Context, listID string, items []domain.ShoppingListItem) error {
	args := m.Called(ctx, listID, items)
	return args.Error(0)
}

// Update applies mutate to the items the expectation returns. A non-nil
// error in the expectation is reported as a failed save.
func (m *MockShoppingListRepository) Update(
	ctx context.Context,
	listID string,
	mutate domain.ListMutation,
) ([]domain.ShoppingListItem, error) {
	args := m.Called(ctx, listID, mutate)
	items, _ := args.Get(0).([]domain.ShoppingListItem)
	items, err := mutate(items)
	if err != nil {
		return nil, err
	}
	if err := args.Error(1); err != nil {
		return nil, err
	}
	return items, nil
}

func (m *MockShoppingListRepository) RemoveProduct(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockShoppingListRepository) Delete(ctx context.Context, listID string) error {
	args := m.Called(ctx, listID)
	return args.Error(0)
}

// MockPublisher records published price changes
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishPriceChanges(ctx context.Context, changes []domain.PriceChange) error {
	args := m.Called(ctx, changes)
	return args.Error(0)
}

// MockPriceFeed is a testify mock of domain.PriceFeed
type MockPriceFeed struct {
	mock.Mock
}

func (m *MockPriceFeed) FetchPrices(ctx context.Context) ([]domain.PriceSnapshot, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]domain.PriceSnapshot)
	return rows, args.Error(1)
}

// countingCache wraps a map cache and counts hits
type countingCache struct {
	data map[string][]byte
	gets int
	hits int
	sets int
}

func newCountingCache() *countingCache {
	return &countingCache{data: make(map[string][]byte)}
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	c.hits++
	return v, nil
}

func (c *countingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.sets++
	c.data[key] = value
	return nil
}

func (c *countingCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *countingCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}
