package handlers

import (
	"net/http"

	catalogRepo "classhub/database/repository/catalog"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes the read-only catalog reference data the booking
// form is built from.
type CatalogHandler struct {
	repo catalogRepo.CatalogRepository
}

func NewCatalogHandler(repo catalogRepo.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

// ListItems handles GET /api/catalog/services/:serviceId/items.
func (h *CatalogHandler) ListItems(c *gin.Context) {
	items, err := h.repo.GetItemsByService(c.Param("serviceId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetItem handles GET /api/catalog/items/:id.
func (h *CatalogHandler) GetItem(c *gin.Context) {
	item, err := h.repo.GetItem(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "catalog item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}
