// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/edesaventas/storefront-api/internal/domain"
)

type ProductRepository interface {
	// GetByID returns domain.ErrNotFound when the product does not exist.
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, search string, limit, offset int) ([]*domain.Product, error)
	ListByIDs(ctx context.Context, ids []string) ([]*domain.Product, error)
	ListActive(ctx context.Context) ([]*domain.Product, error)
	// ListActiveBelowStock returns active products with stock at or below the
	// threshold, most depleted first.
	ListActiveBelowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
	UpdateAverageMonthlySales(ctx context.Context, id string, avg float64) error
	UpdateReorderSettings(ctx context.Context, id string, safetyStock, reorderPoint, reorderQuantity int) error
}

type SupplierRepository interface {
	// GetByName returns domain.ErrNotFound when no supplier carries the name.
	GetByName(ctx context.Context, name string) (*domain.Supplier, error)
	Create(ctx context.Context, supplier *domain.Supplier) error
	List(ctx context.Context) ([]*domain.Supplier, error)
}

type PurchaseOrderRepository interface {
	// Create persists the order header and its items atomically, assigning the
	// order ID and the next invoice number under the numbering lock.
	Create(ctx context.Context, po *domain.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*domain.PurchaseOrder, error)
	List(ctx context.Context, limit, offset int) ([]*domain.PurchaseOrder, int, error)
	// Confirm transitions a PENDING order to RECEIVED and increments the stock
	// of every referenced product in the same transaction.
	Confirm(ctx context.Context, id string) error
}

// OrderRepository is the read-only view of sales history consumed by the
// demand estimator.
type OrderRepository interface {
	// SumProductQuantitySince totals the order-line quantities for a product
	// across orders created at or after since, excluding cancelled orders.
	SumProductQuantitySince(ctx context.Context, productID string, since time.Time) (int, error)
}

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
