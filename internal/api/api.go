// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/edesaventas/storefront-api/internal/api/handlers"
	"github.com/edesaventas/storefront-api/internal/api/middleware"
	"github.com/edesaventas/storefront-api/internal/auth"
	"github.com/edesaventas/storefront-api/internal/repository"
	"github.com/edesaventas/storefront-api/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	InventoryService *service.InventoryService
	PurchaseService  *service.PurchaseService
	Products         repository.ProductRepository
	Suppliers        repository.SupplierRepository
	Users            repository.UserRepository
	Tokens           *auth.TokenManager
	CronSecret       string
	AllowedOrigins   []string
}

func NewRouter(deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.CSRFHeaderName, "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(deps.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(deps.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(deps.Users, deps.Tokens)
	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/auth/login", authHandler.Login)
		apiGroup.POST("/auth/logout", authHandler.Logout)
		apiGroup.GET("/csrf", authHandler.CSRFToken)
	}

	adminGroup := apiGroup.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin(deps.Tokens))
	adminGroup.Use(middleware.RequireCSRFToken())
	{
		inventoryHandler := handlers.NewInventoryHandler(deps.InventoryService)
		inventoryGroup := adminGroup.Group("/inventory")
		{
			inventoryGroup.GET("/reorder", inventoryHandler.GetReorderProducts)
			inventoryGroup.POST("/reorder", inventoryHandler.CreateReorderOrders)
			inventoryGroup.GET("/low-stock", inventoryHandler.GetLowStockProducts)
			inventoryGroup.POST("/calculate", inventoryHandler.CalculateSuggestions)
			inventoryGroup.POST("/update-metrics", inventoryHandler.UpdateMetrics)
		}

		purchaseHandler := handlers.NewPurchaseHandler(deps.PurchaseService)
		adminGroup.POST("/quick-purchase", purchaseHandler.QuickPurchase)
		adminGroup.POST("/bulk-purchase", purchaseHandler.BulkPurchase)
		adminGroup.GET("/purchases", purchaseHandler.ListPurchases)
		adminGroup.GET("/purchases/:id", purchaseHandler.GetPurchase)
		adminGroup.POST("/purchases/:id/confirm", purchaseHandler.ConfirmPurchase)

		catalogHandler := handlers.NewCatalogHandler(deps.Products, deps.Suppliers)
		adminGroup.GET("/products", catalogHandler.ListProducts)
		adminGroup.GET("/suppliers", catalogHandler.ListSuppliers)
	}

	cronHandler := handlers.NewCronHandler(deps.InventoryService, deps.CronSecret)
	cronGroup := apiGroup.Group("/cron")
	cronGroup.Use(cronHandler.RequireSecret())
	{
		cronGroup.POST("/update-metrics", cronHandler.UpdateMetrics)
		cronGroup.GET("/stock-alerts", cronHandler.StockAlerts)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
