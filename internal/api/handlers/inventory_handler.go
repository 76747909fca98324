// internal/api/handlers/inventory_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/edesaventas/storefront-api/internal/inventory"
	"github.com/edesaventas/storefront-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type InventoryHandler struct {
	inventoryService *service.InventoryService
}

func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// GetReorderProducts returns the formula-based reorder list, most urgent first.
func (h *InventoryHandler) GetReorderProducts(c *gin.Context) {
	candidates, err := h.inventoryService.ProductsNeedingReorder(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to compute reorder list")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reorder products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(candidates),
		"products": candidates,
	})
}

// CreateReorderOrders creates one consolidated purchase order covering every
// product the reorder formula currently flags.
func (h *InventoryHandler) CreateReorderOrders(c *gin.Context) {
	po, flagged, err := h.inventoryService.GenerateReorderPurchaseOrder(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to create reorder purchase order")

		var costErr *inventory.CostValidationError
		if errors.As(err, &costErr) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "failed to create purchase orders",
				"details": costErr.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create purchase orders"})
		return
	}

	if flagged == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"message":       "No products need reordering",
			"ordersCreated": 0,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Purchase order created",
		"ordersCreated": 1,
		"totalProducts": flagged,
		"invoiceNumber": po.InvoiceNumber,
		"totalAmount":   po.TotalAmount,
	})
}

// GetLowStockProducts returns the fixed-threshold reorder list.
func (h *InventoryHandler) GetLowStockProducts(c *gin.Context) {
	candidates, err := h.inventoryService.LowStockProducts(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch low stock products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch low stock products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(candidates),
		"products": candidates,
	})
}

type calculateRequest struct {
	ProductID string `json:"productId"`
	Apply     bool   `json:"apply"`
}

// CalculateSuggestions recomputes demand and replenishment suggestions for
// one product, optionally persisting them.
func (h *InventoryHandler) CalculateSuggestions(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}

	suggestions, applied, err := h.inventoryService.CalculateSuggestions(c.Request.Context(), req.ProductID, req.Apply)
	if err != nil {
		log.Error().Err(err).Str("product_id", req.ProductID).Msg("failed to calculate suggestions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to calculate suggestions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"productId":   req.ProductID,
		"suggestions": suggestions,
		"applied":     applied,
	})
}

// UpdateMetrics refreshes the stored demand estimate for every active product.
func (h *InventoryHandler) UpdateMetrics(c *gin.Context) {
	updated, total, err := h.inventoryService.UpdateAllDemandMetrics(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to update demand metrics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Demand metrics updated",
		"updated": updated,
		"total":   total,
	})
}
