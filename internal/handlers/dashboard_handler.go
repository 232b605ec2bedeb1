package handlers

import (
	"net/http"

	apierrors "github.com/arriendo-app/api/internal/errors"
	"github.com/arriendo-app/api/internal/middleware"
	"github.com/arriendo-app/api/internal/services"
	"github.com/gin-gonic/gin"
)

// DashboardHandler handles portfolio statistics HTTP requests.
type DashboardHandler struct {
	service services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler instance.
func NewDashboardHandler(service services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats handles GET /api/v1/dashboard/stats.
func (h *DashboardHandler) Stats(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), sess)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
