// internal/repository/postgres/order_repository.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/edesaventas/storefront-api/internal/domain"
)

type orderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *orderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) SumProductQuantitySince(ctx context.Context, productID string, since time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(oi.quantity), 0)
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE oi.product_id = $1
		  AND o.created_at >= $2
		  AND o.status <> $3
	`

	var total int
	if err := r.db.GetContext(ctx, &total, query, productID, since, domain.OrderStatusCancelled); err != nil {
		return 0, fmt.Errorf("failed to sum order quantities: %w", err)
	}

	return total, nil
}
