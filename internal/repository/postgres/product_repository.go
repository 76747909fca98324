// internal/repository/postgres/product_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edesaventas/storefront-api/internal/domain"
	"github.com/lib/pq"
)

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *productRepository {
	return &productRepository{db: db}
}

const productColumns = `
	id, sku, name, brand_name, stock, cost_price, price, is_active,
	safety_stock, reorder_point, reorder_quantity, lead_time_days,
	COALESCE(average_monthly_sales, 0) AS average_monthly_sales,
	created_at, updated_at
`

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

func (r *productRepository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = '' OR sku ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%')
		ORDER BY sku ASC
		LIMIT $2 OFFSET $3
	`

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, query, search, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

func (r *productRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::text[])`

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to list products by ids: %w", err)
	}

	return products, nil
}

func (r *productRepository) ListActive(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active ORDER BY sku ASC`

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list active products: %w", err)
	}

	return products, nil
}

func (r *productRepository) ListActiveBelowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active AND stock <= $1
		ORDER BY stock ASC
	`

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, query, threshold); err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}

	return products, nil
}

func (r *productRepository) UpdateAverageMonthlySales(ctx context.Context, id string, avg float64) error {
	query := `UPDATE products SET average_monthly_sales = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, avg)
	if err != nil {
		return fmt.Errorf("failed to update average monthly sales: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *productRepository) UpdateReorderSettings(ctx context.Context, id string, safetyStock, reorderPoint, reorderQuantity int) error {
	query := `
		UPDATE products
		SET safety_stock = $2, reorder_point = $3, reorder_quantity = $4, updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, safetyStock, reorderPoint, reorderQuantity)
	if err != nil {
		return fmt.Errorf("failed to update reorder settings: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}
