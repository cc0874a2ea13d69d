package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ammstro/service-pricing/internal/application"
	"github.com/ammstro/service-pricing/internal/auth"
	catalogDomain "github.com/ammstro/service-pricing/internal/domain/catalog"
	discountDomain "github.com/ammstro/service-pricing/internal/domain/discount"
	"github.com/ammstro/service-pricing/internal/middleware"
	"github.com/ammstro/service-pricing/internal/response"
)

// AdminHandler handles admin mutations of catalog, discounts, and
// announcements. All routes require the admin role.
type AdminHandler struct {
	catalogService      *application.CatalogService
	discountService     *application.DiscountService
	announcementService *application.AnnouncementService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	catalogService *application.CatalogService,
	discountService *application.DiscountService,
	announcementService *application.AnnouncementService,
) *AdminHandler {
	return &AdminHandler{
		catalogService:      catalogService,
		discountService:     discountService,
		announcementService: announcementService,
	}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/catalog", h.GetCatalog)
		admin.PUT("/catalog/base-price", h.SetBasePrice)
		admin.POST("/catalog/modules", h.AddModule)
		admin.PATCH("/catalog/modules/:key", h.UpdateModule)
		admin.DELETE("/catalog/modules/:key", h.DeleteModule)
		admin.POST("/catalog/modules/:key/move", h.MoveModule)

		admin.GET("/discounts", h.ListDiscounts)
		admin.POST("/discounts", h.CreateDiscount)
		admin.PATCH("/discounts/:code", h.UpdateDiscount)
		admin.DELETE("/discounts/:code", h.DeleteDiscount)

		admin.GET("/announcements", h.ListAnnouncements)
		admin.POST("/announcements", h.CreateAnnouncement)
		admin.PATCH("/announcements/:id", h.UpdateAnnouncement)
		admin.DELETE("/announcements/:id", h.DeleteAnnouncement)
		admin.POST("/announcements/:id/move", h.MoveAnnouncement)
		admin.POST("/announcements/seed", h.SeedAnnouncements)
	}
}

// --- Catalog ---

// GetCatalog handles GET /api/v1/admin/catalog.
func (h *AdminHandler) GetCatalog(c *gin.Context) {
	result, err := h.catalogService.GetAdminCatalog(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SetBasePrice handles PUT /api/v1/admin/catalog/base-price.
func (h *AdminHandler) SetBasePrice(c *gin.Context) {
	var req application.SetBasePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalogService.SetBasePrice(c.Request.Context(), req)
	if err != nil {
		h.catalogError(c, err)
		return
	}
	response.Success(c, result)
}

// AddModule handles POST /api/v1/admin/catalog/modules.
func (h *AdminHandler) AddModule(c *gin.Context) {
	var req application.AddModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalogService.AddModule(c.Request.Context(), req)
	if err != nil {
		h.catalogError(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateModule handles PATCH /api/v1/admin/catalog/modules/:key.
func (h *AdminHandler) UpdateModule(c *gin.Context) {
	var req application.UpdateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalogService.UpdateModule(c.Request.Context(), c.Param("key"), req)
	if err != nil {
		h.catalogError(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteModule handles DELETE /api/v1/admin/catalog/modules/:key.
func (h *AdminHandler) DeleteModule(c *gin.Context) {
	result, err := h.catalogService.DeleteModule(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.catalogError(c, err)
		return
	}
	response.Success(c, result)
}

// MoveModule handles POST /api/v1/admin/catalog/modules/:key/move.
func (h *AdminHandler) MoveModule(c *gin.Context) {
	var req application.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalogService.MoveModule(c.Request.Context(), c.Param("key"), req)
	if err != nil {
		h.catalogError(c, err)
		return
	}
	response.Success(c, result)
}

// --- Discounts ---

// ListDiscounts handles GET /api/v1/admin/discounts.
func (h *AdminHandler) ListDiscounts(c *gin.Context) {
	result, err := h.discountService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateDiscount handles POST /api/v1/admin/discounts.
func (h *AdminHandler) CreateDiscount(c *gin.Context) {
	var req application.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.discountService.Create(c.Request.Context(), req)
	if err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.Created(c, result)
}

// UpdateDiscount handles PATCH /api/v1/admin/discounts/:code.
func (h *AdminHandler) UpdateDiscount(c *gin.Context) {
	var req application.UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.discountService.Update(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		if errors.Is(err, discountDomain.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.Success(c, result)
}

// DeleteDiscount handles DELETE /api/v1/admin/discounts/:code.
func (h *AdminHandler) DeleteDiscount(c *gin.Context) {
	if err := h.discountService.Delete(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// --- Announcements ---

// ListAnnouncements handles GET /api/v1/admin/announcements.
func (h *AdminHandler) ListAnnouncements(c *gin.Context) {
	result, err := h.announcementService.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateAnnouncement handles POST /api/v1/admin/announcements.
func (h *AdminHandler) CreateAnnouncement(c *gin.Context) {
	var req application.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.announcementService.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateAnnouncement handles PATCH /api/v1/admin/announcements/:id.
func (h *AdminHandler) UpdateAnnouncement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid announcement id")
		return
	}

	var req application.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.announcementService.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, application.ErrAnnouncementNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteAnnouncement handles DELETE /api/v1/admin/announcements/:id.
func (h *AdminHandler) DeleteAnnouncement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid announcement id")
		return
	}

	if err := h.announcementService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MoveAnnouncement handles POST /api/v1/admin/announcements/:id/move.
func (h *AdminHandler) MoveAnnouncement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid announcement id")
		return
	}

	var req application.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.announcementService.Move(c.Request.Context(), id, req); err != nil {
		if errors.Is(err, application.ErrAnnouncementNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SeedAnnouncements handles POST /api/v1/admin/announcements/seed.
func (h *AdminHandler) SeedAnnouncements(c *gin.Context) {
	result, err := h.announcementService.Seed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// catalogError maps catalog domain errors to HTTP responses.
func (h *AdminHandler) catalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalogDomain.ErrModuleNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, catalogDomain.ErrModuleExists):
		response.Conflict(c, err.Error())
	case errors.Is(err, catalogDomain.ErrBaseModuleImmutable):
		response.UnprocessableEntity(c, err.Error())
	default:
		response.Error(c, err)
	}
}
