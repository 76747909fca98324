// internal/inventory/generator.go
package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/edesaventas/storefront-api/internal/config"
	"github.com/edesaventas/storefront-api/internal/domain"
	"github.com/edesaventas/storefront-api/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CostValidationError marks a purchase order rejected because a computed cost
// was not a finite, non-negative number. The whole order is rejected; no
// partial order is persisted.
type CostValidationError struct {
	SKU string
}

func (e *CostValidationError) Error() string {
	return fmt.Sprintf("invalid computed cost for product %s", e.SKU)
}

// LineRequest is a product/quantity pair to be priced onto a purchase order.
type LineRequest struct {
	ProductID string
	SKU       string
	Name      string
	CostPrice *float64
	Price     float64
	Quantity  int
}

func LineRequestFromCandidate(c domain.ReorderCandidate) LineRequest {
	return LineRequest{
		ProductID: c.ID,
		SKU:       c.SKU,
		Name:      c.Name,
		CostPrice: c.CostPrice,
		Price:     c.Price,
		Quantity:  c.SuggestedQuantity,
	}
}

func LineRequestFromProduct(p *domain.Product, quantity int) LineRequest {
	return LineRequest{
		ProductID: p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		CostPrice: p.CostPrice,
		Price:     p.Price,
		Quantity:  quantity,
	}
}

// PurchaseOrderGenerator consolidates priced lines into a single pending
// purchase order against the fallback supplier.
type PurchaseOrderGenerator struct {
	suppliers repository.SupplierRepository
	purchases repository.PurchaseOrderRepository
	cfg       config.InventoryConfig
}

func NewPurchaseOrderGenerator(
	suppliers repository.SupplierRepository,
	purchases repository.PurchaseOrderRepository,
	cfg config.InventoryConfig,
) *PurchaseOrderGenerator {
	return &PurchaseOrderGenerator{suppliers: suppliers, purchases: purchases, cfg: cfg}
}

// Generate prices every requested line, validates the costs, and persists one
// consolidated PENDING purchase order. Any invalid cost rejects the whole
// operation before anything is written.
func (g *PurchaseOrderGenerator) Generate(ctx context.Context, requests []LineRequest) (*domain.PurchaseOrder, error) {
	if len(requests) == 0 {
		return nil, errors.New("no purchase lines requested")
	}

	supplier, err := g.resolveFallbackSupplier(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.PurchaseOrderItem, 0, len(requests))
	total := decimal.Zero
	for _, req := range requests {
		item, err := priceLine(req, g.cfg.CostRatioEstimate)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		total = total.Add(item.TotalCost)
	}

	po := &domain.PurchaseOrder{
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		TotalAmount:  total,
		Items:        items,
	}

	if err := g.purchases.Create(ctx, po); err != nil {
		return nil, err
	}

	log.Info().
		Str("invoice_number", po.InvoiceNumber).
		Int("items", len(po.Items)).
		Str("total_amount", po.TotalAmount.String()).
		Msg("purchase order created")

	return po, nil
}

// priceLine computes the unit and total cost for one line. Unit cost falls
// back to a fraction of the sale price when no cost price is set.
func priceLine(req LineRequest, costRatio float64) (domain.PurchaseOrderItem, error) {
	unitCost := req.Price * costRatio
	if req.CostPrice != nil && *req.CostPrice != 0 {
		unitCost = *req.CostPrice
	}

	totalCost := unitCost * float64(req.Quantity)
	if !validCost(unitCost) || !validCost(totalCost) || req.Quantity <= 0 {
		return domain.PurchaseOrderItem{}, &CostValidationError{SKU: req.SKU}
	}

	unit := decimal.NewFromFloat(unitCost)

	return domain.PurchaseOrderItem{
		ProductID:   req.ProductID,
		ProductSKU:  req.SKU,
		ProductName: req.Name,
		Quantity:    req.Quantity,
		UnitCost:    unit,
		TotalCost:   unit.Mul(decimal.NewFromInt(int64(req.Quantity))),
	}, nil
}

func validCost(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// resolveFallbackSupplier looks up the configured fallback supplier, creating
// it with placeholder contact fields on first use.
func (g *PurchaseOrderGenerator) resolveFallbackSupplier(ctx context.Context) (*domain.Supplier, error) {
	supplier, err := g.suppliers.GetByName(ctx, g.cfg.FallbackSupplierName)
	if err == nil {
		return supplier, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	supplier = &domain.Supplier{
		Name:    g.cfg.FallbackSupplierName,
		Contact: "N/A",
		Email:   "purchasing@edesaventas.ec",
		Phone:   "N/A",
	}
	if err := g.suppliers.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create fallback supplier: %w", err)
	}

	log.Info().Str("supplier", supplier.Name).Msg("fallback supplier created")

	return supplier, nil
}
