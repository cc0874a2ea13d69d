package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ammstro/service-pricing/internal/application"
	"github.com/ammstro/service-pricing/internal/response"
)

// AnnouncementHandler handles the public announcement feed.
type AnnouncementHandler struct {
	service *application.AnnouncementService
}

// NewAnnouncementHandler creates a new AnnouncementHandler.
func NewAnnouncementHandler(service *application.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

// RegisterRoutes registers public announcement routes.
func (h *AnnouncementHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/announcements", h.List)
}

// List handles GET /api/v1/announcements.
func (h *AnnouncementHandler) List(c *gin.Context) {
	result, err := h.service.ListVisible(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
