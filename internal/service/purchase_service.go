// internal/service/purchase_service.go
package service

import (
	"context"
	"fmt"

	"github.com/edesaventas/storefront-api/internal/cache"
	"github.com/edesaventas/storefront-api/internal/domain"
	"github.com/edesaventas/storefront-api/internal/inventory"
	"github.com/edesaventas/storefront-api/internal/repository"
	"github.com/rs/zerolog/log"
)

// PurchaseService covers the manually driven purchase order flows: one-off
// and multi-line order creation, listing, and receiving confirmation.
type PurchaseService struct {
	products  repository.ProductRepository
	purchases repository.PurchaseOrderRepository
	generator *inventory.PurchaseOrderGenerator
	cache     cache.ReorderCache
}

func NewPurchaseService(
	products repository.ProductRepository,
	purchases repository.PurchaseOrderRepository,
	generator *inventory.PurchaseOrderGenerator,
	reorderCache cache.ReorderCache,
) *PurchaseService {
	return &PurchaseService{products: products, purchases: purchases, generator: generator, cache: reorderCache}
}

// QuickPurchase creates a single-line purchase order for one product.
func (s *PurchaseService) QuickPurchase(ctx context.Context, productID string, quantity int) (*domain.PurchaseOrder, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	return s.generator.Generate(ctx, []inventory.LineRequest{
		inventory.LineRequestFromProduct(product, quantity),
	})
}

// BulkPurchase creates one consolidated purchase order from caller-selected
// product/quantity pairs. Every referenced product must exist; a single
// unknown ID rejects the whole request.
func (s *PurchaseService) BulkPurchase(ctx context.Context, items []domain.PurchaseRequestItem) (*domain.PurchaseOrder, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	requests := make([]inventory.LineRequest, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, domain.ErrNotFound)
		}
		requests = append(requests, inventory.LineRequestFromProduct(product, item.Quantity))
	}

	return s.generator.Generate(ctx, requests)
}

func (s *PurchaseService) ListPurchaseOrders(ctx context.Context, limit, offset int) ([]*domain.PurchaseOrder, int, error) {
	return s.purchases.List(ctx, limit, offset)
}

func (s *PurchaseService) GetPurchaseOrder(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	return s.purchases.GetByID(ctx, id)
}

// ConfirmPurchaseOrder marks a pending order as received and applies its
// stock increments. Returns the refreshed order.
func (s *PurchaseService) ConfirmPurchaseOrder(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	if err := s.purchases.Confirm(ctx, id); err != nil {
		return nil, err
	}

	po, err := s.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Received stock changes the reorder picture.
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("reorder cache invalidation failed")
	}

	log.Info().
		Str("invoice_number", po.InvoiceNumber).
		Int("items", len(po.Items)).
		Msg("purchase order received")

	return po, nil
}
