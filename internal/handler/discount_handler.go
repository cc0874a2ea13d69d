package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ammstro/service-pricing/internal/application"
	"github.com/ammstro/service-pricing/internal/middleware"
	"github.com/ammstro/service-pricing/internal/response"
)

// DiscountHandler handles the public discount validation endpoint.
type DiscountHandler struct {
	service *application.DiscountService
	limiter *middleware.RateLimiter
}

// NewDiscountHandler creates a new DiscountHandler.
func NewDiscountHandler(service *application.DiscountService, limiter *middleware.RateLimiter) *DiscountHandler {
	return &DiscountHandler{service: service, limiter: limiter}
}

// RegisterRoutes registers public discount routes.
func (h *DiscountHandler) RegisterRoutes(r *gin.RouterGroup) {
	discounts := r.Group("/discounts")
	discounts.Use(h.limiter.Middleware())
	{
		discounts.POST("/validate", h.Validate)
	}
}

// Validate handles POST /api/v1/discounts/validate. Invalid codes are not
// transport errors: the outcome is reported in the body so the calculator
// stays interactive. The session ID comes from the body, falling back to the
// X-Session-ID header.
func (h *DiscountHandler) Validate(c *gin.Context) {
	var req application.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.SessionID == "" {
		req.SessionID = c.GetHeader("X-Session-ID")
	}
	if req.SessionID == "" {
		response.BadRequest(c, "session_id is required via body or X-Session-ID header")
		return
	}

	result, err := h.service.Apply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
