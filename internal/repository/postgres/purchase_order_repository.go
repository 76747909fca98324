// internal/repository/postgres/purchase_order_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/edesaventas/storefront-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// invoiceNumberLockID keys the advisory lock serializing invoice number
// assignment. Two concurrent creates cannot both read the same "last" number.
const invoiceNumberLockID = 421803

type purchaseOrderRepository struct {
	db *DB
}

func NewPurchaseOrderRepository(db *DB) *purchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, po *domain.PurchaseOrder) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, invoiceNumberLockID); err != nil {
			return fmt.Errorf("failed to acquire invoice lock: %w", err)
		}

		var last string
		err := tx.QueryRowContext(ctx, `
			SELECT invoice_number
			FROM purchase_orders
			ORDER BY created_at DESC
			LIMIT 1
		`).Scan(&last)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to read last invoice number: %w", err)
		}

		next, err := domain.NextInvoiceNumber(last)
		if err != nil {
			return err
		}

		po.ID = uuid.New().String()
		po.InvoiceNumber = next
		po.Status = domain.PurchaseOrderPending
		po.CreatedAt = time.Now()

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO purchase_orders (id, invoice_number, supplier_id, status, total_amount, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, po.ID, po.InvoiceNumber, po.SupplierID, po.Status, po.TotalAmount, po.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert purchase order: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO purchase_order_items (id, purchase_order_id, product_id, quantity, unit_cost, total_cost)
			VALUES ($1, $2, $3, $4, $5, $6)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare item statement: %w", err)
		}
		defer stmt.Close()

		for i := range po.Items {
			item := &po.Items[i]
			item.ID = uuid.New().String()
			item.PurchaseOrderID = po.ID

			if _, err := stmt.ExecContext(ctx,
				item.ID, item.PurchaseOrderID, item.ProductID, item.Quantity, item.UnitCost, item.TotalCost,
			); err != nil {
				return fmt.Errorf("failed to insert purchase order item: %w", err)
			}
		}

		return nil
	})
}

func (r *purchaseOrderRepository) GetByID(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	query := `
		SELECT
			po.id, po.invoice_number, po.supplier_id, s.name AS supplier_name,
			po.status, po.total_amount, po.created_at
		FROM purchase_orders po
		JOIN suppliers s ON po.supplier_id = s.id
		WHERE po.id = $1
	`

	var po domain.PurchaseOrder
	if err := r.db.GetContext(ctx, &po, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}

	items, err := r.itemsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	po.Items = items

	return &po, nil
}

func (r *purchaseOrderRepository) itemsFor(ctx context.Context, purchaseOrderID string) ([]domain.PurchaseOrderItem, error) {
	query := `
		SELECT
			i.id, i.purchase_order_id, i.product_id, p.sku AS product_sku,
			p.name AS product_name, i.quantity, i.unit_cost, i.total_cost
		FROM purchase_order_items i
		JOIN products p ON i.product_id = p.id
		WHERE i.purchase_order_id = $1
		ORDER BY p.sku
	`

	var items []domain.PurchaseOrderItem
	if err := sqlx.SelectContext(ctx, r.db, &items, query, purchaseOrderID); err != nil {
		return nil, fmt.Errorf("failed to list purchase order items: %w", err)
	}

	return items, nil
}

func (r *purchaseOrderRepository) List(ctx context.Context, limit, offset int) ([]*domain.PurchaseOrder, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM purchase_orders`); err != nil {
		return nil, 0, fmt.Errorf("failed to count purchase orders: %w", err)
	}

	query := `
		SELECT
			po.id, po.invoice_number, po.supplier_id, s.name AS supplier_name,
			po.status, po.total_amount, po.created_at
		FROM purchase_orders po
		JOIN suppliers s ON po.supplier_id = s.id
		ORDER BY po.created_at DESC
		LIMIT $1 OFFSET $2
	`

	var orders []*domain.PurchaseOrder
	if err := r.db.SelectContext(ctx, &orders, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list purchase orders: %w", err)
	}

	return orders, total, nil
}

func (r *purchaseOrderRepository) Confirm(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRowContext(ctx, `
			SELECT status FROM purchase_orders WHERE id = $1 FOR UPDATE
		`, id).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock purchase order: %w", err)
		}
		if status != domain.PurchaseOrderPending {
			return domain.ErrInvalidState
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE products p
			SET stock = p.stock + i.quantity, updated_at = NOW()
			FROM purchase_order_items i
			WHERE i.purchase_order_id = $1 AND p.id = i.product_id
		`, id); err != nil {
			return fmt.Errorf("failed to receive stock: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE purchase_orders SET status = $2 WHERE id = $1
		`, id, domain.PurchaseOrderReceived); err != nil {
			return fmt.Errorf("failed to update purchase order status: %w", err)
		}

		return nil
	})
}
