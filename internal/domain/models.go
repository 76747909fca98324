// internal/domain/models.go
package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by repositories when the referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidState is returned when an entity transition is not allowed
// (e.g. confirming a purchase order that is not pending).
var ErrInvalidState = errors.New("invalid state")

// Product is a catalog product with its replenishment settings.
// SafetyStock, ReorderPoint and ReorderQuantity are manual overrides:
// nil (or non-positive) means "derive from demand".
type Product struct {
	ID                  string    `json:"id" db:"id"`
	SKU                 string    `json:"sku" db:"sku"`
	Name                string    `json:"name" db:"name"`
	BrandName           string    `json:"brand" db:"brand_name"`
	Stock               int       `json:"stock" db:"stock"`
	CostPrice           *float64  `json:"cost_price" db:"cost_price"`
	Price               float64   `json:"price" db:"price"`
	IsActive            bool      `json:"is_active" db:"is_active"`
	SafetyStock         *int      `json:"safety_stock" db:"safety_stock"`
	ReorderPoint        *int      `json:"reorder_point" db:"reorder_point"`
	ReorderQuantity     *int      `json:"reorder_quantity" db:"reorder_quantity"`
	LeadTimeDays        int       `json:"lead_time_days" db:"lead_time_days"`
	AverageMonthlySales float64   `json:"average_monthly_sales" db:"average_monthly_sales"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// Supplier is a purchasing counterparty. The fallback supplier is created
// lazily with placeholder contact fields when no supplier is specified.
type Supplier struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Contact   string    `json:"contact" db:"contact"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PurchaseOrder is a replenishment order against a supplier.
// TotalAmount always equals the sum of its items' TotalCost.
type PurchaseOrder struct {
	ID            string              `json:"id" db:"id"`
	InvoiceNumber string              `json:"invoice_number" db:"invoice_number"`
	SupplierID    string              `json:"supplier_id" db:"supplier_id"`
	SupplierName  string              `json:"supplier_name" db:"supplier_name"`
	Status        string              `json:"status" db:"status"`
	TotalAmount   decimal.Decimal     `json:"total_amount" db:"total_amount"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	Items         []PurchaseOrderItem `json:"items" db:"-"`
}

// PurchaseOrderItem is a single product line on a purchase order.
type PurchaseOrderItem struct {
	ID              string          `json:"id" db:"id"`
	PurchaseOrderID string          `json:"purchase_order_id" db:"purchase_order_id"`
	ProductID       string          `json:"product_id" db:"product_id"`
	ProductSKU      string          `json:"product_sku" db:"product_sku"`
	ProductName     string          `json:"product_name" db:"product_name"`
	Quantity        int             `json:"quantity" db:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost" db:"total_cost"`
}

// ReorderCandidate is a product flagged for replenishment, produced by
// either reorder selection strategy. Both strategies emit this same shape.
type ReorderCandidate struct {
	ID                  string   `json:"id"`
	SKU                 string   `json:"sku"`
	Name                string   `json:"name"`
	BrandName           string   `json:"brand"`
	Stock               int      `json:"stock"`
	CostPrice           *float64 `json:"cost_price"`
	Price               float64  `json:"price"`
	AverageMonthlySales float64  `json:"average_monthly_sales"`
	ReorderPoint        int      `json:"reorder_point"`
	SuggestedQuantity   int      `json:"suggested_quantity"`
	SafetyStock         int      `json:"safety_stock"`
	Urgency             Urgency  `json:"urgency"`
}

// InventorySuggestions carries the computed replenishment settings for one product.
type InventorySuggestions struct {
	AverageMonthlySales      float64 `json:"averageMonthlySales"`
	SuggestedSafetyStock     int     `json:"suggestedSafetyStock"`
	SuggestedReorderPoint    int     `json:"suggestedReorderPoint"`
	SuggestedReorderQuantity int     `json:"suggestedReorderQuantity"`
}

// PurchaseRequestItem is a caller-selected product/quantity pair for
// quick and bulk purchase order creation.
type PurchaseRequestItem struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// User is an administrative account. Password holds the bcrypt hash.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Password  string    `json:"-" db:"password"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
