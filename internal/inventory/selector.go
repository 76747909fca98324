// internal/inventory/selector.go
package inventory

import (
	"context"
	"sort"

	"github.com/edesaventas/storefront-api/internal/config"
	"github.com/edesaventas/storefront-api/internal/domain"
	"github.com/edesaventas/storefront-api/internal/repository"
)

// ReorderSelector finds the products whose stock warrants replenishment.
// Two strategies coexist: the formula-based selector for batch and
// analytical use, and the fixed-threshold selector for interactive actions
// where per-product threshold math is too slow.
type ReorderSelector interface {
	ProductsNeedingReorder(ctx context.Context) ([]domain.ReorderCandidate, error)
}

// FormulaSelector flags active products whose stock has fallen to or below
// their reorder point, using the stored demand estimate and the threshold
// calculator for products without a manual reorder point.
type FormulaSelector struct {
	products repository.ProductRepository
	calc     ThresholdCalculator
}

func NewFormulaSelector(products repository.ProductRepository, calc ThresholdCalculator) *FormulaSelector {
	return &FormulaSelector{products: products, calc: calc}
}

func (s *FormulaSelector) ProductsNeedingReorder(ctx context.Context) ([]domain.ReorderCandidate, error) {
	products, err := s.products.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []domain.ReorderCandidate
	for _, p := range products {
		reorderPoint := 0
		if p.ReorderPoint != nil && *p.ReorderPoint > 0 {
			reorderPoint = *p.ReorderPoint
		} else {
			reorderPoint = s.calc.ReorderPoint(p.AverageMonthlySales, p.LeadTimeDays, p.SafetyStock)
		}

		if p.Stock > reorderPoint {
			continue
		}

		safetyStock := 0
		if p.SafetyStock != nil {
			safetyStock = *p.SafetyStock
		}

		candidates = append(candidates, domain.ReorderCandidate{
			ID:                  p.ID,
			SKU:                 p.SKU,
			Name:                p.Name,
			BrandName:           p.BrandName,
			Stock:               p.Stock,
			CostPrice:           p.CostPrice,
			Price:               p.Price,
			AverageMonthlySales: p.AverageMonthlySales,
			ReorderPoint:        reorderPoint,
			SuggestedQuantity:   s.calc.ReorderQuantity(p.AverageMonthlySales, p.ReorderQuantity),
			SafetyStock:         safetyStock,
			Urgency:             classifyFormula(p.Stock, safetyStock),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Urgency.Rank() < candidates[j].Urgency.Rank()
	})

	return candidates, nil
}

func classifyFormula(stock, safetyStock int) domain.Urgency {
	switch {
	case stock == 0:
		return domain.UrgencyCritical
	case stock < safetyStock:
		return domain.UrgencyHigh
	default:
		return domain.UrgencyMedium
	}
}

// fixedHighUrgencyMax is the stock level at or below which the fixed-threshold
// selector escalates a non-empty product to high urgency.
const fixedHighUrgencyMax = 3

// FixedThresholdSelector flags active products at or below a fixed stock
// threshold with a single query and constant suggested values. It needs no
// sales history, which keeps the interactive "create orders now" path fast.
type FixedThresholdSelector struct {
	products repository.ProductRepository
	cfg      config.InventoryConfig
}

func NewFixedThresholdSelector(products repository.ProductRepository, cfg config.InventoryConfig) *FixedThresholdSelector {
	return &FixedThresholdSelector{products: products, cfg: cfg}
}

func (s *FixedThresholdSelector) ProductsNeedingReorder(ctx context.Context) ([]domain.ReorderCandidate, error) {
	products, err := s.products.ListActiveBelowStock(ctx, s.cfg.LowStockThreshold)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.ReorderCandidate, 0, len(products))
	for _, p := range products {
		candidates = append(candidates, domain.ReorderCandidate{
			ID:                  p.ID,
			SKU:                 p.SKU,
			Name:                p.Name,
			BrandName:           p.BrandName,
			Stock:               p.Stock,
			CostPrice:           p.CostPrice,
			Price:               p.Price,
			AverageMonthlySales: p.AverageMonthlySales,
			ReorderPoint:        s.cfg.LowStockThreshold,
			SuggestedQuantity:   s.cfg.FixedReorderQuantity,
			SafetyStock:         s.cfg.FixedSafetyStock,
			Urgency:             classifyFixed(p.Stock),
		})
	}

	return candidates, nil
}

func classifyFixed(stock int) domain.Urgency {
	switch {
	case stock == 0:
		return domain.UrgencyCritical
	case stock <= fixedHighUrgencyMax:
		return domain.UrgencyHigh
	default:
		return domain.UrgencyMedium
	}
}
