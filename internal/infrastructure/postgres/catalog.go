package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kazen/backend/internal/domain"
)

// Catalog stores products, stores and prices in PostgreSQL
type Catalog struct {
	db *pgxpool.Pool
}

// NewCatalog creates a catalog repository over the pool
func NewCatalog(db *pgxpool.Pool) *Catalog {
	return &Catalog{db: db}
}

// --------------------------------------------------
// PRODUCTS
// --------------------------------------------------

func (r *Catalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, image_url, category, brand
		FROM products
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.ImageURL, &p.Category, &p.Brand); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *Catalog) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRow(ctx, `
		SELECT id, name, image_url, category, brand
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.ImageURL, &p.Category, &p.Brand)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Catalog) SaveProduct(ctx context.Context, p domain.Product) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, image_url, category, brand)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    image_url = EXCLUDED.image_url,
		    category = EXCLUDED.category,
		    brand = EXCLUDED.brand
	`, p.ID, p.Name, p.ImageURL, p.Category, p.Brand)
	return err
}

func (r *Catalog) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// --------------------------------------------------
// STORES
// --------------------------------------------------

func (r *Catalog) ListStores(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, logo_url, color_hex
		FROM stores
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := []domain.Store{}
	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.LogoURL, &s.ColorHex); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *Catalog) GetStore(ctx context.Context, id string) (*domain.Store, error) {
	var s domain.Store
	err := r.db.QueryRow(ctx, `
		SELECT id, name, logo_url, color_hex
		FROM stores
		WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.LogoURL, &s.ColorHex)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *Catalog) SaveStore(ctx context.Context, s domain.Store) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO stores (id, name, logo_url, color_hex)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    logo_url = EXCLUDED.logo_url,
		    color_hex = EXCLUDED.color_hex
	`, s.ID, s.Name, s.LogoURL, s.ColorHex)
	return err
}

func (r *Catalog) DeleteStore(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStoreNotFound
	}
	return nil
}

// --------------------------------------------------
// PRICES
// --------------------------------------------------

func (r *Catalog) PriceTable(ctx context.Context) (domain.PriceTable, error) {
	rows, err := r.db.Query(ctx, `
		SELECT product_id, store_id, price, is_promo, in_stock
		FROM prices
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := domain.PriceTable{}
	for rows.Next() {
		var (
			productID, storeID string
			entry              domain.PriceEntry
		)
		if err := rows.Scan(&productID, &storeID, &entry.Price, &entry.IsPromo, &entry.InStock); err != nil {
			return nil, err
		}
		table.Set(productID, storeID, entry)
	}
	return table, rows.Err()
}

func (r *Catalog) ProductPrices(ctx context.Context, productID string) (map[string]domain.PriceEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT store_id, price, is_promo, in_stock
		FROM prices
		WHERE product_id = $1
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]domain.PriceEntry{}
	for rows.Next() {
		var (
			storeID string
			entry   domain.PriceEntry
		)
		if err := rows.Scan(&storeID, &entry.Price, &entry.IsPromo, &entry.InStock); err != nil {
			return nil, err
		}
		out[storeID] = entry
	}
	return out, rows.Err()
}

const upsertPriceSQL = `
	INSERT INTO prices (product_id, store_id, price, is_promo, in_stock, updated_at)
	VALUES ($1, $2, $3, $4, $5, now())
	ON CONFLICT (product_id, store_id) DO UPDATE
	SET price = EXCLUDED.price,
	    is_promo = EXCLUDED.is_promo,
	    in_stock = EXCLUDED.in_stock,
	    updated_at = now()
`

func (r *Catalog) SetPrice(ctx context.Context, productID, storeID string, entry domain.PriceEntry) error {
	_, err := r.db.Exec(ctx, upsertPriceSQL, productID, storeID, entry.Price, entry.IsPromo, entry.InStock)
	return err
}

// SetPrices upserts the entries of one product in one transaction
func (r *Catalog) SetPrices(ctx context.Context, productID string, entries map[string]domain.PriceEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for storeID, e := range entries {
		batch.Queue(upsertPriceSQL, productID, storeID, e.Price, e.IsPromo, e.InStock)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("set prices of %s: %w", productID, err)
	}
	return tx.Commit(ctx)
}

func (r *Catalog) DeleteProductPrices(ctx context.Context, productID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM prices WHERE product_id = $1`, productID)
	return err
}

func (r *Catalog) DeleteStorePrices(ctx context.Context, storeID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM prices WHERE store_id = $1`, storeID)
	return err
}

// Seed upserts the given catalog in one transaction
func (r *Catalog) Seed(ctx context.Context, products []domain.Product, stores []domain.Store, prices domain.PriceTable) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`
			INSERT INTO products (id, name, image_url, category, brand)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, image_url = EXCLUDED.image_url,
			    category = EXCLUDED.category, brand = EXCLUDED.brand
		`, p.ID, p.Name, p.ImageURL, p.Category, p.Brand)
	}
	for _, s := range stores {
		batch.Queue(`
			INSERT INTO stores (id, name, logo_url, color_hex)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, logo_url = EXCLUDED.logo_url, color_hex = EXCLUDED.color_hex
		`, s.ID, s.Name, s.LogoURL, s.ColorHex)
	}
	for productID, row := range prices {
		for storeID, e := range row {
			batch.Queue(`
				INSERT INTO prices (product_id, store_id, price, is_promo, in_stock)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (product_id, store_id) DO UPDATE
				SET price = EXCLUDED.price, is_promo = EXCLUDED.is_promo,
				    in_stock = EXCLUDED.in_stock, updated_at = now()
			`, productID, storeID, e.Price, e.IsPromo, e.InStock)
		}
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return tx.Commit(ctx)
}
