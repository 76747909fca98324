package service

import (
	"context"
	"errors"
	"testing"

	"github.com/edesaventas/storefront-api/internal/config"
	"github.com/edesaventas/storefront-api/internal/domain"
	"github.com/edesaventas/storefront-api/internal/inventory"
)

func newPurchaseService(products *fakeProductRepo, purchases *fakePurchaseOrderRepo, reorderCache *recordingCache) *PurchaseService {
	cfg := config.DefaultInventoryConfig()
	generator := inventory.NewPurchaseOrderGenerator(newFakeSupplierRepo(), purchases, cfg)

	return NewPurchaseService(products, purchases, generator, reorderCache)
}

func TestQuickPurchase(t *testing.T) {
	products := newFakeProductRepo(activeProduct("p-1", 2, 12))
	purchases := &fakePurchaseOrderRepo{}
	svc := newPurchaseService(products, purchases, &recordingCache{})

	po, err := svc.QuickPurchase(context.Background(), "p-1", 15)
	if err != nil {
		t.Fatal(err)
	}

	if len(po.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(po.Items))
	}
	if po.Items[0].Quantity != 15 {
		t.Errorf("quantity = %d, want 15", po.Items[0].Quantity)
	}
	if po.Status != domain.PurchaseOrderPending {
		t.Errorf("status = %s, want pending", po.Status)
	}
}

func TestQuickPurchaseUnknownProduct(t *testing.T) {
	svc := newPurchaseService(newFakeProductRepo(), &fakePurchaseOrderRepo{}, &recordingCache{})

	if _, err := svc.QuickPurchase(context.Background(), "missing", 5); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
}

func TestBulkPurchase(t *testing.T) {
	products := newFakeProductRepo(
		activeProduct("p-1", 2, 12),
		activeProduct("p-2", 0, 3),
	)
	purchases := &fakePurchaseOrderRepo{}
	svc := newPurchaseService(products, purchases, &recordingCache{})

	po, err := svc.BulkPurchase(context.Background(), []domain.PurchaseRequestItem{
		{ProductID: "p-1", Quantity: 10},
		{ProductID: "p-2", Quantity: 4},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(po.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(po.Items))
	}
	if len(purchases.created) != 1 {
		t.Errorf("created %d orders, want one consolidated order", len(purchases.created))
	}
}

func TestBulkPurchaseUnknownProductRejectsAll(t *testing.T) {
	products := newFakeProductRepo(activeProduct("p-1", 2, 12))
	purchases := &fakePurchaseOrderRepo{}
	svc := newPurchaseService(products, purchases, &recordingCache{})

	_, err := svc.BulkPurchase(context.Background(), []domain.PurchaseRequestItem{
		{ProductID: "p-1", Quantity: 10},
		{ProductID: "ghost", Quantity: 4},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got error %v, want ErrNotFound", err)
	}
	if len(purchases.created) != 0 {
		t.Error("no order should be persisted when any product is unknown")
	}
}

func TestConfirmPurchaseOrder(t *testing.T) {
	products := newFakeProductRepo(activeProduct("p-1", 2, 12))
	purchases := &fakePurchaseOrderRepo{}
	reorderCache := &recordingCache{hasValue: true}
	svc := newPurchaseService(products, purchases, reorderCache)

	created, err := svc.QuickPurchase(context.Background(), "p-1", 15)
	if err != nil {
		t.Fatal(err)
	}

	po, err := svc.ConfirmPurchaseOrder(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if po.Status != domain.PurchaseOrderReceived {
		t.Errorf("status = %s, want received", po.Status)
	}
	if reorderCache.invalidates == 0 {
		t.Error("confirming should invalidate the reorder cache")
	}

	if _, err := svc.ConfirmPurchaseOrder(context.Background(), created.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("second confirmation got %v, want ErrInvalidState", err)
	}
}
