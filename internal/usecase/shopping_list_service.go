package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kazen/backend/internal/domain"
)

// ShoppingListService maintains shopping lists through a repository.
// Every mutation is an atomic repository Update.
type ShoppingListService struct {
	lists    domain.ShoppingListRepository
	products domain.ProductRepository
	logger   *slog.Logger
}

// NewShoppingListService creates a new shopping list service with dependencies
func NewShoppingListService(
	lists domain.ShoppingListRepository,
	products domain.ProductRepository,
	logger *slog.Logger,
) *ShoppingListService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShoppingListService{
		lists:    lists,
		products: products,
		logger:   logger.With("component", "shopping_list"),
	}
}

// Get returns the list with its item counters
func (s *ShoppingListService) Get(ctx context.Context, listID string) (*domain.ShoppingList, error) {
	if err := validateListID(listID); err != nil {
		return nil, err
	}

	items, err := s.lists.Load(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("load list %s: %w", listID, err)
	}

	return newShoppingList(listID, items), nil
}

// Add puts one unit of a product on the list. A product already on the
// list has its quantity increased by one.
func (s *ShoppingListService) Add(ctx context.Context, listID, productID string) (*domain.ShoppingList, error) {
	if err := validateListID(listID); err != nil {
		return nil, err
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	return s.update(ctx, listID, func(items []domain.ShoppingListItem) ([]domain.ShoppingListItem, error) {
		for i := range items {
			if items[i].ProductID != productID {
				continue
			}
			if items[i].Quantity >= domain.MaxItemQuantity {
				return nil, fmt.Errorf("%w: product %s", domain.ErrInvalidQuantity, productID)
			}
			items[i].Quantity++
			return items, nil
		}
		return append(items, domain.ShoppingListItem{
			ProductID: productID,
			Product:   *product,
			Quantity:  1,
		}), nil
	})
}

// Remove drops a product from the list. Removing an absent product is a no-op.
func (s *ShoppingListService) Remove(ctx context.Context, listID, productID string) (*domain.ShoppingList, error) {
	if err := validateListID(listID); err != nil {
		return nil, err
	}

	return s.update(ctx, listID, func(items []domain.ShoppingListItem) ([]domain.ShoppingListItem, error) {
		return withoutProduct(items, productID), nil
	})
}

// UpdateQuantity sets the quantity of a list item. A quantity of zero or
// less removes the item.
func (s *ShoppingListService) UpdateQuantity(
	ctx context.Context,
	listID, productID string,
	quantity int,
) (*domain.ShoppingList, error) {
	if quantity <= 0 {
		return s.Remove(ctx, listID, productID)
	}
	if err := validateListID(listID); err != nil {
		return nil, err
	}
	if quantity > domain.MaxItemQuantity {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, quantity)
	}

	return s.update(ctx, listID, func(items []domain.ShoppingListItem) ([]domain.ShoppingListItem, error) {
		for i := range items {
			if items[i].ProductID == productID {
				items[i].Quantity = quantity
				return items, nil
			}
		}
		return nil, domain.ErrItemNotFound
	})
}

// Clear deletes the list
func (s *ShoppingListService) Clear(ctx context.Context, listID string) error {
	if err := validateListID(listID); err != nil {
		return err
	}
	if err := s.lists.Delete(ctx, listID); err != nil {
		return fmt.Errorf("delete list %s: %w", listID, err)
	}
	s.logger.Info("shopping list cleared", "list_id", listID)
	return nil
}

func (s *ShoppingListService) update(
	ctx context.Context,
	listID string,
	mutate domain.ListMutation,
) (*domain.ShoppingList, error) {
	items, err := s.lists.Update(ctx, listID, mutate)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) || errors.Is(err, domain.ErrInvalidQuantity) {
			return nil, err
		}
		return nil, fmt.Errorf("update list %s: %w", listID, err)
	}
	s.logger.Debug("shopping list saved", "list_id", listID, "items", len(items))
	return newShoppingList(listID, items), nil
}

func withoutProduct(items []domain.ShoppingListItem, productID string) []domain.ShoppingListItem {
	out := make([]domain.ShoppingListItem, 0, len(items))
	for _, it := range items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}

func newShoppingList(listID string, items []domain.ShoppingListItem) *domain.ShoppingList {
	if items == nil {
		items = []domain.ShoppingListItem{}
	}
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return &domain.ShoppingList{
		ID:         listID,
		Items:      items,
		TotalItems: total,
		ItemCount:  len(items),
	}
}

func validateListID(listID string) error {
	if strings.TrimSpace(listID) == "" {
		return fmt.Errorf("%w: list id is required", domain.ErrInvalidRequest)
	}
	return nil
}
