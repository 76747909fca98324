// internal/service/inventory_service.go
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/edesaventas/storefront-api/internal/cache"
	"github.com/edesaventas/storefront-api/internal/config"
	"github.com/edesaventas/storefront-api/internal/domain"
	"github.com/edesaventas/storefront-api/internal/inventory"
	"github.com/edesaventas/storefront-api/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// InventoryService drives the replenishment engine: the reorder listings,
// per-product suggestion math, demand metric refreshes, and the batch
// purchase order created from the formula-based reorder list.
type InventoryService struct {
	products  repository.ProductRepository
	estimator *inventory.DemandEstimator
	calc      inventory.ThresholdCalculator
	formula   inventory.ReorderSelector
	fixed     inventory.ReorderSelector
	generator *inventory.PurchaseOrderGenerator
	cache     cache.ReorderCache
	cfg       config.InventoryConfig
}

func NewInventoryService(
	products repository.ProductRepository,
	estimator *inventory.DemandEstimator,
	calc inventory.ThresholdCalculator,
	formula inventory.ReorderSelector,
	fixed inventory.ReorderSelector,
	generator *inventory.PurchaseOrderGenerator,
	reorderCache cache.ReorderCache,
	cfg config.InventoryConfig,
) *InventoryService {
	return &InventoryService{
		products:  products,
		estimator: estimator,
		calc:      calc,
		formula:   formula,
		fixed:     fixed,
		generator: generator,
		cache:     reorderCache,
		cfg:       cfg,
	}
}

// ProductsNeedingReorder returns the formula-based reorder list, served from
// cache when a fresh copy exists. Cache failures degrade to a direct read.
func (s *InventoryService) ProductsNeedingReorder(ctx context.Context) ([]domain.ReorderCandidate, error) {
	if cached, ok, err := s.cache.Get(ctx); err != nil {
		log.Warn().Err(err).Msg("reorder cache read failed, recomputing")
	} else if ok {
		return cached, nil
	}

	candidates, err := s.formula.ProductsNeedingReorder(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, candidates); err != nil {
		log.Warn().Err(err).Msg("reorder cache write failed")
	}

	return candidates, nil
}

// LowStockProducts returns the fixed-threshold reorder list. It never hits
// the cache: the query is a single indexed scan.
func (s *InventoryService) LowStockProducts(ctx context.Context) ([]domain.ReorderCandidate, error) {
	return s.fixed.ProductsNeedingReorder(ctx)
}

// CalculateSuggestions recomputes the demand estimate for one product and
// derives fresh replenishment settings from it. With apply set, both the
// estimate and the derived settings are persisted. An unknown product is
// treated as having no sales history: suggestions come back zeroed at the
// configured floors and nothing is written.
func (s *InventoryService) CalculateSuggestions(ctx context.Context, productID string, apply bool) (*domain.InventorySuggestions, bool, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	avg, err := s.estimator.AverageMonthlySales(ctx, productID)
	if err != nil {
		return nil, false, err
	}

	leadTime := 0
	var storedSafety, storedQuantity *int
	if product != nil {
		leadTime = product.LeadTimeDays
		storedSafety = product.SafetyStock
		storedQuantity = product.ReorderQuantity
	}

	suggestions := &domain.InventorySuggestions{
		AverageMonthlySales:      avg,
		SuggestedSafetyStock:     s.calc.SafetyStock(avg, leadTime),
		SuggestedReorderPoint:    s.calc.ReorderPoint(avg, leadTime, storedSafety),
		SuggestedReorderQuantity: s.calc.ReorderQuantity(avg, storedQuantity),
	}

	if avg == 0 {
		log.Debug().Str("product_id", productID).Msg("no sales history in demand window")
	}

	if !apply || product == nil {
		return suggestions, false, nil
	}

	if err := s.products.UpdateAverageMonthlySales(ctx, product.ID, avg); err != nil {
		return nil, false, err
	}
	if err := s.products.UpdateReorderSettings(ctx, product.ID,
		suggestions.SuggestedSafetyStock,
		suggestions.SuggestedReorderPoint,
		suggestions.SuggestedReorderQuantity,
	); err != nil {
		return nil, false, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("reorder cache invalidation failed")
	}

	return suggestions, true, nil
}

// metricWorkers bounds the refresh fan-out so the nightly run cannot
// saturate the connection pool.
const metricWorkers = 4

// UpdateAllDemandMetrics refreshes the stored average monthly sales for every
// active product, a few products at a time. A failure on one product is
// logged and skipped so a single bad row cannot stall the nightly refresh.
// Returns updated and total counts.
func (s *InventoryService) UpdateAllDemandMetrics(ctx context.Context) (int, int, error) {
	products, err := s.products.ListActive(ctx)
	if err != nil {
		return 0, 0, err
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		updated int
	)
	sem := semaphore.NewWeighted(metricWorkers)

	for _, p := range products {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}

		wg.Add(1)
		go func(p *domain.Product) {
			defer wg.Done()
			defer sem.Release(1)

			avg, err := s.estimator.AverageMonthlySales(ctx, p.ID)
			if err != nil {
				log.Error().Err(err).Str("product_id", p.ID).Msg("demand estimate failed")
				return
			}

			if err := s.products.UpdateAverageMonthlySales(ctx, p.ID, avg); err != nil {
				log.Error().Err(err).Str("product_id", p.ID).Msg("demand metric update failed")
				return
			}

			mu.Lock()
			updated++
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("reorder cache invalidation failed")
	}

	log.Info().Int("updated", updated).Int("total", len(products)).Msg("demand metrics refreshed")

	return updated, len(products), nil
}

// GenerateReorderPurchaseOrder builds one consolidated purchase order from
// every product the formula selector currently flags. When nothing is
// flagged it returns a nil order and zero count without touching the store.
func (s *InventoryService) GenerateReorderPurchaseOrder(ctx context.Context) (*domain.PurchaseOrder, int, error) {
	candidates, err := s.formula.ProductsNeedingReorder(ctx)
	if err != nil {
		return nil, 0, err
	}

	if len(candidates) == 0 {
		return nil, 0, nil
	}

	requests := make([]inventory.LineRequest, 0, len(candidates))
	for _, c := range candidates {
		requests = append(requests, inventory.LineRequestFromCandidate(c))
	}

	po, err := s.generator.Generate(ctx, requests)
	if err != nil {
		return nil, len(candidates), err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("reorder cache invalidation failed")
	}

	return po, len(candidates), nil
}
