// internal/api/handlers/purchase_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/edesaventas/storefront-api/internal/domain"
	"github.com/edesaventas/storefront-api/internal/inventory"
	"github.com/edesaventas/storefront-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

type quickPurchaseRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// QuickPurchase creates a single-line purchase order for one product.
func (h *PurchaseHandler) QuickPurchase(c *gin.Context) {
	var req quickPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId and a positive quantity are required"})
		return
	}

	po, err := h.purchaseService.QuickPurchase(c.Request.Context(), req.ProductID, req.Quantity)
	if err != nil {
		h.purchaseError(c, err, "failed to create purchase order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"message":       "Purchase order created",
		"purchaseOrder": po,
	})
}

type bulkPurchaseRequest struct {
	Items []domain.PurchaseRequestItem `json:"items" binding:"required,min=1,dive"`
}

// BulkPurchase creates one consolidated purchase order from the selected
// product/quantity pairs.
func (h *PurchaseHandler) BulkPurchase(c *gin.Context) {
	var req bulkPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items with positive quantities are required"})
		return
	}

	po, err := h.purchaseService.BulkPurchase(c.Request.Context(), req.Items)
	if err != nil {
		h.purchaseError(c, err, "failed to create purchase order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"message":       "Purchase order created",
		"purchaseOrder": po,
	})
}

// ListPurchases returns purchase orders, newest first.
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, total, err := h.purchaseService.ListPurchaseOrders(c.Request.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list purchase orders")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch purchase orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"purchaseOrders": orders,
		"total":          total,
	})
}

// GetPurchase returns one purchase order with its items.
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	po, err := h.purchaseService.GetPurchaseOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.purchaseError(c, err, "failed to fetch purchase order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"purchaseOrder": po,
	})
}

// ConfirmPurchase marks a pending order as received and applies its stock
// increments.
func (h *PurchaseHandler) ConfirmPurchase(c *gin.Context) {
	po, err := h.purchaseService.ConfirmPurchaseOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.purchaseError(c, err, "failed to confirm purchase order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Purchase order received, stock updated",
		"purchaseOrder": po,
	})
}

func (h *PurchaseHandler) purchaseError(c *gin.Context, err error, fallback string) {
	var costErr *inventory.CostValidationError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "purchase order or product not found"})
	case errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "purchase order is not pending"})
	case errors.As(err, &costErr):
		// Cost integrity failures are fatal for the whole order; the SKU is
		// surfaced so the caller knows which product to fix.
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   fallback,
			"details": costErr.Error(),
		})
	default:
		log.Error().Err(err).Msg(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
