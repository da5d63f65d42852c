package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kazen/backend/internal/domain"
)

// ShoppingLists stores list lines in PostgreSQL. Lines follow their
// product, so deleting a product drops it from every list.
type ShoppingLists struct {
	db *pgxpool.Pool
}

func NewShoppingLists(db *pgxpool.Pool) *ShoppingLists {
	return &ShoppingLists{db: db}
}

// querier is satisfied by both the pool and a transaction
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *ShoppingLists) Load(ctx context.Context, listID string) ([]domain.ShoppingListItem, error) {
	return loadItems(ctx, r.db, listID)
}

func loadItems(ctx context.Context, q querier, listID string) ([]domain.ShoppingListItem, error) {
	rows, err := q.Query(ctx, `
		SELECT i.product_id, i.quantity, i.selected_store_id,
		       p.name, p.image_url, p.category, p.brand
		FROM shopping_list_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.list_id = $1
		ORDER BY i.position
	`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.ShoppingListItem{}
	for rows.Next() {
		var item domain.ShoppingListItem
		if err := rows.Scan(
			&item.ProductID, &item.Quantity, &item.SelectedStoreID,
			&item.Product.Name, &item.Product.ImageURL, &item.Product.Category, &item.Product.Brand,
		); err != nil {
			return nil, err
		}
		item.Product.ID = item.ProductID
		items = append(items, item)
	}
	return items, rows.Err()
}

// Save replaces every line of the list in one transaction
func (r *ShoppingLists) Save(ctx context.Context, listID string, items []domain.ShoppingListItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := replaceItems(ctx, tx, listID, items); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update runs load, mutate and save in one transaction. A transaction
// scoped advisory lock on the list ID serialises concurrent updates,
// including updates of a list that has no rows yet.
func (r *ShoppingLists) Update(
	ctx context.Context,
	listID string,
	mutate domain.ListMutation,
) ([]domain.ShoppingListItem, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, listID); err != nil {
		return nil, fmt.Errorf("lock list %s: %w", listID, err)
	}

	items, err := loadItems(ctx, tx, listID)
	if err != nil {
		return nil, err
	}
	items, err = mutate(items)
	if err != nil {
		return nil, err
	}
	if err := replaceItems(ctx, tx, listID, items); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.ShoppingListItem{}
	}
	return items, nil
}

func replaceItems(ctx context.Context, tx pgx.Tx, listID string, items []domain.ShoppingListItem) error {
	if _, err := tx.Exec(ctx, `DELETE FROM shopping_list_items WHERE list_id = $1`, listID); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	rows := make([][]any, len(items))
	for i, item := range items {
		rows[i] = []any{listID, item.ProductID, i, item.Quantity, item.SelectedStoreID}
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"shopping_list_items"},
		[]string{"list_id", "product_id", "position", "quantity", "selected_store_id"},
		pgx.CopyFromRows(rows),
	)
	return err
}

// RemoveProduct drops a product from every list. The foreign key
// cascade already does this when the product row is deleted.
func (r *ShoppingLists) RemoveProduct(ctx context.Context, productID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM shopping_list_items WHERE product_id = $1`, productID)
	return err
}

func (r *ShoppingLists) Delete(ctx context.Context, listID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM shopping_list_items WHERE list_id = $1`, listID)
	return err
}
