// internal/inventory/thresholds.go
package inventory

import (
	"math"

	"github.com/edesaventas/storefront-api/internal/config"
)

// ThresholdCalculator derives safety stock, reorder point and reorder
// quantity from a demand estimate and the replenishment constants. All three
// derivations are pure: the same inputs always produce the same outputs.
type ThresholdCalculator struct {
	cfg config.InventoryConfig
}

func NewThresholdCalculator(cfg config.InventoryConfig) ThresholdCalculator {
	return ThresholdCalculator{cfg: cfg}
}

// SafetyStock is the demand expected during the lead time scaled by the
// safety factor, rounded up to whole units.
func (c ThresholdCalculator) SafetyStock(avgMonthlySales float64, leadTimeDays int) int {
	daily := avgMonthlySales / float64(c.cfg.DaysPerMonth)

	return int(math.Ceil(daily * float64(c.leadTime(leadTimeDays)) * c.cfg.SafetyFactor))
}

// ReorderPoint is the lead-time demand plus safety stock. A stored positive
// safety stock wins over the computed one.
func (c ThresholdCalculator) ReorderPoint(avgMonthlySales float64, leadTimeDays int, storedSafetyStock *int) int {
	daily := avgMonthlySales / float64(c.cfg.DaysPerMonth)
	demandDuringLeadTime := int(math.Ceil(daily * float64(c.leadTime(leadTimeDays))))

	safetyStock := 0
	if storedSafetyStock != nil && *storedSafetyStock > 0 {
		safetyStock = *storedSafetyStock
	} else {
		safetyStock = c.SafetyStock(avgMonthlySales, leadTimeDays)
	}

	return demandDuringLeadTime + safetyStock
}

// ReorderQuantity orders ReorderCoverMonths of projected demand, floored at
// the configured minimum. A manually set positive quantity wins unchanged.
func (c ThresholdCalculator) ReorderQuantity(avgMonthlySales float64, manual *int) int {
	if manual != nil && *manual > 0 {
		return *manual
	}

	quantity := int(math.Ceil(avgMonthlySales * c.cfg.ReorderCoverMonths))
	if quantity < c.cfg.MinReorderQuantity {
		quantity = c.cfg.MinReorderQuantity
	}

	return quantity
}

func (c ThresholdCalculator) leadTime(days int) int {
	if days <= 0 {
		return c.cfg.DefaultLeadTimeDays
	}

	return days
}
