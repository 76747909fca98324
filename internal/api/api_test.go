package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/edesaventas/storefront-api/internal/api/middleware"
	"github.com/edesaventas/storefront-api/internal/auth"
	"github.com/edesaventas/storefront-api/internal/cache"
	"github.com/edesaventas/storefront-api/internal/config"
	"github.com/edesaventas/storefront-api/internal/domain"
	"github.com/edesaventas/storefront-api/internal/inventory"
	"github.com/edesaventas/storefront-api/internal/service"
	"github.com/gin-gonic/gin"
)

type fakeProductRepo struct {
	products []*domain.Product
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
	return nil
}

func (f *fakeProductRepo) UpdateReorderSettings(ctx context.Context, id string, safetyStock, reorderPoint, reorderQuantity int) error {
	return nil
}

type fakeSupplierRepo struct {
	suppliers map[string]*domain.Supplier
}

func (f *fakeSupplierRepo) GetByName(ctx context.Context, name string) (*domain.Supplier, error) {
	if s, ok := f.suppliers[name]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSupplierRepo) Create(ctx context.Context, supplier *domain.Supplier) error {
	supplier.ID = "sup-1"
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
	po.CreatedAt = time.Now()
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

type fakeOrderRepo struct{}

func (f *fakeOrderRepo) SumProductQuantitySince(ctx context.Context, productID string, since time.Time) (int, error) {
	return 0, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

type testEnv struct {
	router *gin.Engine
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T, products ...*domain.Product) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultInventoryConfig()
	productRepo := &fakeProductRepo{products: products}
	supplierRepo := &fakeSupplierRepo{suppliers: make(map[string]*domain.Supplier)}
	purchaseRepo := &fakePurchaseOrderRepo{}
	orderRepo := &fakeOrderRepo{}

	estimator := inventory.NewDemandEstimator(orderRepo, cfg)
	calc := inventory.NewThresholdCalculator(cfg)
	formula := inventory.NewFormulaSelector(productRepo, calc)
	fixed := inventory.NewFixedThresholdSelector(productRepo, cfg)
	generator := inventory.NewPurchaseOrderGenerator(supplierRepo, purchaseRepo, cfg)
	reorderCache := cache.NewNoopReorderCache()

	inventoryService := service.NewInventoryService(
		productRepo, estimator, calc, formula, fixed, generator, reorderCache, cfg)
	purchaseService := service.NewPurchaseService(productRepo, purchaseRepo, generator, reorderCache)

	tokens := auth.NewTokenManager(config.AuthConfig{JWTSecret: "test-secret", SessionTTLHours: 1})

	hash, err := auth.HashPassword("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	users := &fakeUserRepo{users: map[string]*domain.User{
		"admin@example.com": {ID: "u-1", Email: "admin@example.com", Password: hash, Role: domain.RoleAdmin},
	}}

	router := NewRouter(&Deps{
		InventoryService: inventoryService,
		PurchaseService:  purchaseService,
		Products:         productRepo,
		Suppliers:        supplierRepo,
		Users:            users,
		Tokens:           tokens,
		CronSecret:       "cron-secret",
	})

	return &testEnv{router: router, tokens: tokens}
}

func (e *testEnv) adminRequest(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	token, err := e.tokens.Generate("u-1", "admin@example.com", domain.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	csrf, err := middleware.GenerateCSRFToken()
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	req.AddCookie(&http.Cookie{Name: middleware.CSRFCookieName, Value: csrf})
	req.Header.Set(middleware.CSRFHeaderName, csrf)

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

func lowStockProduct(id string, stock int) *domain.Product {
	return &domain.Product{
		ID:                  id,
		SKU:                 "SKU-" + id,
		Name:                "Product " + id,
		Stock:               stock,
		Price:               20,
		IsActive:            true,
		LeadTimeDays:        7,
		AverageMonthlySales: 12,
	}
}

func TestAdminEndpointsRequireSession(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/inventory/reorder", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("request without session got %d, want 401", w.Code)
	}
}

func TestAdminMutationsRequireCSRF(t *testing.T) {
	env := newTestEnv(t)

	token, err := env.tokens.Generate("u-1", "admin@example.com", domain.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/inventory/reorder", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("mutation without CSRF token got %d, want 403", w.Code)
	}
}

func TestGetReorderProducts(t *testing.T) {
	env := newTestEnv(t, lowStockProduct("p-1", 0), lowStockProduct("p-2", 100))

	w := env.adminRequest(t, http.MethodGet, "/api/admin/inventory/reorder", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}

	body := decodeBody(t, w)
	if body["count"] != float64(1) {
		t.Errorf("count = %v, want 1", body["count"])
	}
}

func TestCreateReorderOrders(t *testing.T) {
	env := newTestEnv(t, lowStockProduct("p-1", 0), lowStockProduct("p-2", 2))

	w := env.adminRequest(t, http.MethodPost, "/api/admin/inventory/reorder", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}

	body := decodeBody(t, w)
	if body["ordersCreated"] != float64(1) {
		t.Errorf("ordersCreated = %v, want 1", body["ordersCreated"])
	}
	if body["totalProducts"] != float64(2) {
		t.Errorf("totalProducts = %v, want 2", body["totalProducts"])
	}
	if body["invoiceNumber"] != "PO-000001" {
		t.Errorf("invoiceNumber = %v, want PO-000001", body["invoiceNumber"])
	}
}

func TestCreateReorderOrdersInvalidCostNamesSKU(t *testing.T) {
	bad := lowStockProduct("p-bad", 0)
	bad.Price = math.Inf(1)
	env := newTestEnv(t, bad)

	w := env.adminRequest(t, http.MethodPost, "/api/admin/inventory/reorder", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	details, ok := body["details"].(string)
	if !ok {
		t.Fatalf("response has no details field: %s", w.Body.String())
	}
	if !strings.Contains(details, "SKU-p-bad") {
		t.Errorf("details = %q, want the offending SKU named", details)
	}
}

func TestCreateReorderOrdersNothingFlagged(t *testing.T) {
	env := newTestEnv(t, lowStockProduct("p-1", 100))

	w := env.adminRequest(t, http.MethodPost, "/api/admin/inventory/reorder", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}

	body := decodeBody(t, w)
	if body["ordersCreated"] != float64(0) {
		t.Errorf("ordersCreated = %v, want 0", body["ordersCreated"])
	}
}

func TestCalculateSuggestionsRequiresProductID(t *testing.T) {
	env := newTestEnv(t)

	w := env.adminRequest(t, http.MethodPost, "/api/admin/inventory/calculate", []byte(`{}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("got %d, want 400", w.Code)
	}
}

func TestQuickPurchaseFlow(t *testing.T) {
	env := newTestEnv(t, lowStockProduct("p-1", 2))

	w := env.adminRequest(t, http.MethodPost, "/api/admin/quick-purchase",
		[]byte(`{"productId":"p-1","quantity":5}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201: %s", w.Code, w.Body.String())
	}

	w = env.adminRequest(t, http.MethodPost, "/api/admin/quick-purchase",
		[]byte(`{"productId":"ghost","quantity":5}`))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown product got %d, want 404", w.Code)
	}

	w = env.adminRequest(t, http.MethodPost, "/api/admin/quick-purchase",
		[]byte(`{"productId":"p-1","quantity":0}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("zero quantity got %d, want 400", w.Code)
	}
}

func TestQuickPurchaseInvalidCost(t *testing.T) {
	bad := lowStockProduct("p-bad", 2)
	bad.Price = math.NaN()
	env := newTestEnv(t, bad)

	w := env.adminRequest(t, http.MethodPost, "/api/admin/quick-purchase",
		[]byte(`{"productId":"p-bad","quantity":5}`))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	details, ok := body["details"].(string)
	if !ok {
		t.Fatalf("response has no details field: %s", w.Body.String())
	}
	if !strings.Contains(details, "SKU-p-bad") {
		t.Errorf("details = %q, want the offending SKU named", details)
	}
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		bytes.NewReader([]byte(`{"email":"admin@example.com","password":"hunter22"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login got %d, want 200: %s", w.Code, w.Body.String())
	}

	var hasSession, hasCSRF bool
	for _, c := range w.Result().Cookies() {
		switch c.Name {
		case middleware.SessionCookieName:
			hasSession = c.Value != ""
		case middleware.CSRFCookieName:
			hasCSRF = c.Value != ""
		}
	}
	if !hasSession || !hasCSRF {
		t.Error("login should set both the session and CSRF cookies")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/auth/login",
		bytes.NewReader([]byte(`{"email":"admin@example.com","password":"wrong"}`)))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password got %d, want 401", w.Code)
	}
}

func TestCronEndpoints(t *testing.T) {
	env := newTestEnv(t, lowStockProduct("p-1", 0))

	req := httptest.NewRequest(http.MethodPost, "/api/cron/update-metrics", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("cron without secret got %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/cron/update-metrics", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("cron with secret got %d, want 200: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cron/stock-alerts", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("stock alerts got %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["count"] != float64(1) {
		t.Errorf("alert count = %v, want 1", body["count"])
	}
}
