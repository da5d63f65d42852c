package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/kazen/backend/internal/domain"
)

// ShoppingLists keeps shopping lists in memory keyed by list ID
type ShoppingLists struct {
	mutex sync.RWMutex
	lists map[string][]domain.ShoppingListItem
}

// NewShoppingLists creates an empty list store
func NewShoppingLists() *ShoppingLists {
	return &ShoppingLists{lists: make(map[string][]domain.ShoppingListItem)}
}

// Load returns a copy of the list, empty if unknown
func (s *ShoppingLists) Load(ctx context.Context, listID string) ([]domain.ShoppingListItem, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	items, ok := s.lists[listID]
	if !ok {
		return []domain.ShoppingListItem{}, nil
	}
	return slices.Clone(items), nil
}

// Save replaces the list. Saving an empty list deletes it.
func (s *ShoppingLists) Save(ctx context.Context, listID string, items []domain.ShoppingListItem) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(items) == 0 {
		delete(s.lists, listID)
		return nil
	}
	s.lists[listID] = slices.Clone(items)
	return nil
}

// Update applies mutate under the write lock
func (s *ShoppingLists) Update(
	ctx context.Context,
	listID string,
	mutate domain.ListMutation,
) ([]domain.ShoppingListItem, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	items, err := mutate(slices.Clone(s.lists[listID]))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		delete(s.lists, listID)
		return []domain.ShoppingListItem{}, nil
	}
	s.lists[listID] = slices.Clone(items)
	return items, nil
}

// RemoveProduct drops a product from every list. Lists left empty are deleted.
func (s *ShoppingLists) RemoveProduct(ctx context.Context, productID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for listID, items := range s.lists {
		items = slices.DeleteFunc(items, func(it domain.ShoppingListItem) bool {
			return it.ProductID == productID
		})
		if len(items) == 0 {
			delete(s.lists, listID)
			continue
		}
		s.lists[listID] = items
	}
	return nil
}

// Delete removes the list
func (s *ShoppingLists) Delete(ctx context.Context, listID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.lists, listID)
	return nil
}

// Size returns the number of stored lists
func (s *ShoppingLists) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.lists)
}
