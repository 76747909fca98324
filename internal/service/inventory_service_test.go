package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/edesaventas/storefront-api/internal/config"
	"github.com/edesaventas/storefront-api/internal/domain"
	"github.com/edesaventas/storefront-api/internal/inventory"
)

type fakeProductRepo struct {
	products []*domain.Product

	mu              sync.Mutex
	avgUpdates      map[string]float64
	settingsUpdates map[string][3]int
}

func newFakeProductRepo(products ...*domain.Product) *fakeProductRepo {
	return &fakeProductRepo{
		products:        products,
		avgUpdates:      make(map[string]float64),
		settingsUpdates: make(map[string][3]int),
	}
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProductRepo) List(ctx context.Context, search string, limit, offset int) ([]*domain.Product, error) {
	return f.products, nil
}

func (f *fakeProductRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, id := range ids {
		for _, p := range f.products {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakeProductRepo) ListActive(ctx context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range f.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) ListActiveBelowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range f.products {
		if p.IsActive && p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) UpdateAverageMonthlySales(ctx context.Context, id string, avg float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.avgUpdates[id] = avg
	return nil
}

func (f *fakeProductRepo) UpdateReorderSettings(ctx context.Context, id string, safetyStock, reorderPoint, reorderQuantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settingsUpdates[id] = [3]int{safetyStock, reorderPoint, reorderQuantity}
	return nil
}

type fakeOrderRepo struct {
	totals map[string]int
}

func (f *fakeOrderRepo) SumProductQuantitySince(ctx context.Context, productID string, since time.Time) (int, error) {
	return f.totals[productID], nil
}

type fakeSupplierRepo struct {
	suppliers map[string]*domain.Supplier
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: make(map[string]*domain.Supplier)}
}

func (f *fakeSupplierRepo) GetByName(ctx context.Context, name string) (*domain.Supplier, error) {
	if s, ok := f.suppliers[name]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSupplierRepo) Create(ctx context.Context, supplier *domain.Supplier) error {
	supplier.ID = "sup-" + supplier.Name
	f.suppliers[supplier.Name] = supplier
	return nil
}

func (f *fakeSupplierRepo) List(ctx context.Context) ([]*domain.Supplier, error) {
	var out []*domain.Supplier
	for _, s := range f.suppliers {
		out = append(out, s)
	}
	return out, nil
}

type fakePurchaseOrderRepo struct {
	created []*domain.PurchaseOrder
}

func (f *fakePurchaseOrderRepo) Create(ctx context.Context, po *domain.PurchaseOrder) error {
	po.ID = "po-1"
	po.InvoiceNumber = domain.FormatInvoiceNumber(len(f.created) + 1)
	po.Status = domain.PurchaseOrderPending
	f.created = append(f.created, po)
	return nil
}

func (f *fakePurchaseOrderRepo) GetByID(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	for _, po := range f.created {
		if po.ID == id {
			return po, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePurchaseOrderRepo) List(ctx context.Context, limit, offset int) ([]*domain.PurchaseOrder, int, error) {
	return f.created, len(f.created), nil
}

func (f *fakePurchaseOrderRepo) Confirm(ctx context.Context, id string) error {
	for _, po := range f.created {
		if po.ID == id {
			if po.Status != domain.PurchaseOrderPending {
				return domain.ErrInvalidState
			}
			po.Status = domain.PurchaseOrderReceived
			return nil
		}
	}
	return domain.ErrNotFound
}

type recordingCache struct {
	stored      []domain.ReorderCandidate
	hasValue    bool
	gets        int
	sets        int
	invalidates int
}

func (c *recordingCache) Get(ctx context.Context) ([]domain.ReorderCandidate, bool, error) {
	c.gets++
	if !c.hasValue {
		return nil, false, nil
	}
	return c.stored, true, nil
}

func (c *recordingCache) Set(ctx context.Context, candidates []domain.ReorderCandidate) error {
	c.sets++
	c.stored = candidates
	c.hasValue = true
	return nil
}

func (c *recordingCache) Invalidate(ctx context.Context) error {
	c.invalidates++
	c.hasValue = false
	return nil
}

func activeProduct(id string, stock int, avg float64) *domain.Product {
	return &domain.Product{
		ID:                  id,
		SKU:                 "SKU-" + id,
		Name:                "Product " + id,
		Stock:               stock,
		Price:               20,
		IsActive:            true,
		LeadTimeDays:        7,
		AverageMonthlySales: avg,
	}
}

func newInventoryService(products *fakeProductRepo, orders *fakeOrderRepo, purchases *fakePurchaseOrderRepo, reorderCache *recordingCache) *InventoryService {
	cfg := config.DefaultInventoryConfig()
	estimator := inventory.NewDemandEstimator(orders, cfg)
	calc := inventory.NewThresholdCalculator(cfg)
	formula := inventory.NewFormulaSelector(products, calc)
	fixed := inventory.NewFixedThresholdSelector(products, cfg)
	generator := inventory.NewPurchaseOrderGenerator(newFakeSupplierRepo(), purchases, cfg)

	return NewInventoryService(products, estimator, calc, formula, fixed, generator, reorderCache, cfg)
}

func TestGenerateReorderPurchaseOrderNothingFlagged(t *testing.T) {
	products := newFakeProductRepo(activeProduct("p-1", 100, 12))
	purchases := &fakePurchaseOrderRepo{}
	svc := newInventoryService(products, &fakeOrderRepo{}, purchases, &recordingCache{})

	po, flagged, err := svc.GenerateReorderPurchaseOrder(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if po != nil || flagged != 0 {
		t.Errorf("got order %v with %d flagged, want none", po, flagged)
	}
	if len(purchases.created) != 0 {
		t.Error("no order should be persisted when nothing is flagged")
	}
}

func TestGenerateReorderPurchaseOrderConsolidates(t *testing.T) {
	// avg 12, lead 7 gives reorder point 8: both products are flagged.
	products := newFakeProductRepo(
		activeProduct("p-1", 0, 12),
		activeProduct("p-2", 5, 12),
	)
	purchases := &fakePurchaseOrderRepo{}
	reorderCache := &recordingCache{hasValue: true}
	svc := newInventoryService(products, &fakeOrderRepo{}, purchases, reorderCache)

	po, flagged, err := svc.GenerateReorderPurchaseOrder(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if flagged != 2 {
		t.Errorf("flagged = %d, want 2", flagged)
	}
	if len(purchases.created) != 1 {
		t.Fatalf("created %d orders, want one consolidated order", len(purchases.created))
	}
	if len(po.Items) != 2 {
		t.Errorf("order has %d items, want 2", len(po.Items))
	}
	if reorderCache.invalidates == 0 {
		t.Error("creating an order should invalidate the reorder cache")
	}
}

func TestProductsNeedingReorderUsesCache(t *testing.T) {
	products := newFakeProductRepo(activeProduct("p-1", 0, 12))
	reorderCache := &recordingCache{}
	svc := newInventoryService(products, &fakeOrderRepo{}, &fakePurchaseOrderRepo{}, reorderCache)

	first, err := svc.ProductsNeedingReorder(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if reorderCache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", reorderCache.sets)
	}

	second, err := svc.ProductsNeedingReorder(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if reorderCache.sets != 1 {
		t.Error("second call should be served from cache without a new set")
	}
	if len(first) != len(second) {
		t.Errorf("cached list has %d entries, fresh list %d", len(second), len(first))
	}
}

func TestCalculateSuggestionsApplyPersists(t *testing.T) {
	products := newFakeProductRepo(activeProduct("p-1", 4, 0))
	orders := &fakeOrderRepo{totals: map[string]int{"p-1": 36}}
	svc := newInventoryService(products, orders, &fakePurchaseOrderRepo{}, &recordingCache{})

	suggestions, applied, err := svc.CalculateSuggestions(context.Background(), "p-1", true)
	if err != nil {
		t.Fatal(err)
	}

	if !applied {
		t.Fatal("apply requested but not applied")
	}
	if suggestions.AverageMonthlySales != 12 {
		t.Errorf("average = %v, want 12", suggestions.AverageMonthlySales)
	}
	if suggestions.SuggestedSafetyStock != 5 {
		t.Errorf("safety stock = %d, want 5", suggestions.SuggestedSafetyStock)
	}
	if suggestions.SuggestedReorderPoint != 8 {
		t.Errorf("reorder point = %d, want 8", suggestions.SuggestedReorderPoint)
	}
	if suggestions.SuggestedReorderQuantity != 18 {
		t.Errorf("reorder quantity = %d, want 18", suggestions.SuggestedReorderQuantity)
	}

	if got := products.avgUpdates["p-1"]; got != 12 {
		t.Errorf("persisted average = %v, want 12", got)
	}
	if got := products.settingsUpdates["p-1"]; got != [3]int{5, 8, 18} {
		t.Errorf("persisted settings = %v, want [5 8 18]", got)
	}
}

func TestCalculateSuggestionsUnknownProduct(t *testing.T) {
	products := newFakeProductRepo()
	svc := newInventoryService(products, &fakeOrderRepo{}, &fakePurchaseOrderRepo{}, &recordingCache{})

	suggestions, applied, err := svc.CalculateSuggestions(context.Background(), "missing", true)
	if err != nil {
		t.Fatal(err)
	}

	if applied {
		t.Error("nothing should be applied for an unknown product")
	}
	if suggestions.AverageMonthlySales != 0 {
		t.Errorf("average = %v, want 0", suggestions.AverageMonthlySales)
	}
	if suggestions.SuggestedReorderQuantity != 10 {
		t.Errorf("reorder quantity = %d, want the configured minimum", suggestions.SuggestedReorderQuantity)
	}
	if len(products.avgUpdates) != 0 || len(products.settingsUpdates) != 0 {
		t.Error("unknown product must not produce writes")
	}
}

func TestUpdateAllDemandMetrics(t *testing.T) {
	inactive := activeProduct("p-3", 10, 0)
	inactive.IsActive = false
	products := newFakeProductRepo(
		activeProduct("p-1", 10, 0),
		activeProduct("p-2", 10, 0),
		inactive,
	)
	orders := &fakeOrderRepo{totals: map[string]int{"p-1": 30, "p-2": 9}}
	reorderCache := &recordingCache{hasValue: true}
	svc := newInventoryService(products, orders, &fakePurchaseOrderRepo{}, reorderCache)

	updated, total, err := svc.UpdateAllDemandMetrics(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if updated != 2 || total != 2 {
		t.Errorf("updated/total = %d/%d, want 2/2", updated, total)
	}
	if products.avgUpdates["p-1"] != 10 {
		t.Errorf("p-1 average = %v, want 10", products.avgUpdates["p-1"])
	}
	if products.avgUpdates["p-2"] != 3 {
		t.Errorf("p-2 average = %v, want 3", products.avgUpdates["p-2"])
	}
	if reorderCache.invalidates == 0 {
		t.Error("metric refresh should invalidate the reorder cache")
	}
}
