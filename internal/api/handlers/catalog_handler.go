// internal/api/handlers/catalog_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/edesaventas/storefront-api/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CatalogHandler serves the read-only product and supplier listings the
// purchasing screens are built on.
type CatalogHandler struct {
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
}

func NewCatalogHandler(products repository.ProductRepository, suppliers repository.SupplierRepository) *CatalogHandler {
	return &CatalogHandler{products: products, suppliers: suppliers}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	search := c.Query("search")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	products, err := h.products.List(c.Request.Context(), search, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(products),
		"products": products,
	})
}

func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.suppliers.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list suppliers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch suppliers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"count":     len(suppliers),
		"suppliers": suppliers,
	})
}
