// internal/repository/postgres/supplier_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/edesaventas/storefront-api/internal/domain"
	"github.com/google/uuid"
)

type supplierRepository struct {
	db *DB
}

func NewSupplierRepository(db *DB) *supplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) GetByName(ctx context.Context, name string) (*domain.Supplier, error) {
	query := `
		SELECT id, name, contact, email, phone, created_at
		FROM suppliers
		WHERE name = $1
	`

	var supplier domain.Supplier
	if err := r.db.GetContext(ctx, &supplier, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}

	return &supplier, nil
}

func (r *supplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	if supplier.ID == "" {
		supplier.ID = uuid.New().String()
	}
	supplier.CreatedAt = time.Now()

	query := `
		INSERT INTO suppliers (id, name, contact, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := r.db.ExecContext(ctx, query,
		supplier.ID, supplier.Name, supplier.Contact, supplier.Email, supplier.Phone, supplier.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}

	return nil
}

func (r *supplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	query := `
		SELECT id, name, contact, email, phone, created_at
		FROM suppliers
		ORDER BY name
	`

	var suppliers []*domain.Supplier
	if err := r.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	return suppliers, nil
}
