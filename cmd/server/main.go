// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edesaventas/storefront-api/internal/api"
	"github.com/edesaventas/storefront-api/internal/auth"
	"github.com/edesaventas/storefront-api/internal/cache"
	"github.com/edesaventas/storefront-api/internal/config"
	"github.com/edesaventas/storefront-api/internal/inventory"
	"github.com/edesaventas/storefront-api/internal/repository/postgres"
	"github.com/edesaventas/storefront-api/internal/service"
	"github.com/edesaventas/storefront-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Repositories
	products := postgres.NewProductRepository(db)
	suppliers := postgres.NewSupplierRepository(db)
	purchases := postgres.NewPurchaseOrderRepository(db)
	orders := postgres.NewOrderRepository(db)
	users := postgres.NewUserRepository(db)

	// Replenishment engine
	estimator := inventory.NewDemandEstimator(orders, cfg.Inventory)
	calc := inventory.NewThresholdCalculator(cfg.Inventory)
	formula := inventory.NewFormulaSelector(products, calc)
	fixed := inventory.NewFixedThresholdSelector(products, cfg.Inventory)
	generator := inventory.NewPurchaseOrderGenerator(suppliers, purchases, cfg.Inventory)

	reorderCache, err := cache.NewReorderCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("cache unavailable, continuing without it")
		reorderCache = cache.NewNoopReorderCache()
	}

	inventoryService := service.NewInventoryService(
		products, estimator, calc, formula, fixed, generator, reorderCache, cfg.Inventory)
	purchaseService := service.NewPurchaseService(products, purchases, generator, reorderCache)

	tokens := auth.NewTokenManager(cfg.Auth)

	router := api.NewRouter(&api.Deps{
		InventoryService: inventoryService,
		PurchaseService:  purchaseService,
		Products:         products,
		Suppliers:        suppliers,
		Users:            users,
		Tokens:           tokens,
		CronSecret:       cfg.Cron.Secret,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
