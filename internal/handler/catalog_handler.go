package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ammstro/service-pricing/internal/application"
	"github.com/ammstro/service-pricing/internal/response"
)

// CatalogHandler handles public catalog reads.
type CatalogHandler struct {
	service *application.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers public catalog routes.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/catalog", h.GetCatalog)
}

// GetCatalog handles GET /api/v1/catalog.
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	result, err := h.service.GetPublicCatalog(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
