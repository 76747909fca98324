// internal/api/handlers/cron_handler.go
package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/edesaventas/storefront-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CronHandler serves the endpoints hit by the external scheduler. They are
// guarded by a shared bearer secret instead of a session.
type CronHandler struct {
	inventoryService *service.InventoryService
	secret           string
}

func NewCronHandler(inventoryService *service.InventoryService, secret string) *CronHandler {
	return &CronHandler{inventoryService: inventoryService, secret: secret}
}

// RequireSecret rejects requests whose Authorization header does not carry
// the configured bearer secret. An empty configured secret disables the
// endpoints entirely rather than leaving them open.
func (h *CronHandler) RequireSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.secret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "cron endpoints disabled"})
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Next()
	}
}

// UpdateMetrics is the scheduled demand metric refresh.
func (h *CronHandler) UpdateMetrics(c *gin.Context) {
	updated, total, err := h.inventoryService.UpdateAllDemandMetrics(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("scheduled metrics update failed")
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

// StockAlerts reports the products currently below the fixed stock threshold.
func (h *CronHandler) StockAlerts(c *gin.Context) {
	candidates, err := h.inventoryService.LowStockProducts(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("stock alert check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check stock alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(candidates),
		"products": candidates,
	})
}
