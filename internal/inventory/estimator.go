// internal/inventory/estimator.go
package inventory

import (
	"context"
	"math"
	"time"

	"github.com/edesaventas/storefront-api/internal/config"
	"github.com/edesaventas/storefront-api/internal/repository"
)

// DemandEstimator derives the rolling average monthly sales for a product
// from order-line history over a trailing window.
type DemandEstimator struct {
	orders repository.OrderRepository
	cfg    config.InventoryConfig
}

func NewDemandEstimator(orders repository.OrderRepository, cfg config.InventoryConfig) *DemandEstimator {
	return &DemandEstimator{orders: orders, cfg: cfg}
}

// AverageMonthlySales sums the non-cancelled order-line quantities for the
// product over the trailing window and divides by the fixed window length.
// No qualifying history yields zero, which downstream disables auto
// replenishment for that product; it is not an error.
func (e *DemandEstimator) AverageMonthlySales(ctx context.Context, productID string) (float64, error) {
	since := time.Now().AddDate(0, -e.cfg.DemandWindowMonths, 0)

	total, err := e.orders.SumProductQuantitySince(ctx, productID, since)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	avg := float64(total) / float64(e.cfg.DemandWindowMonths)

	return roundTo2(avg), nil
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
