package handlers

import (
	"net/http"

	apierrors "github.com/arriendo-app/api/internal/errors"
	"github.com/arriendo-app/api/internal/middleware"
	"github.com/arriendo-app/api/internal/models"
	"github.com/arriendo-app/api/internal/repository"
	"github.com/arriendo-app/api/internal/services"
	"github.com/gin-gonic/gin"
)

// TicketHandler handles maintenance ticket HTTP requests.
type TicketHandler struct {
	service services.TicketService
}

// NewTicketHandler creates a new TicketHandler instance.
func NewTicketHandler(service services.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

// CreateTicketRequest represents the ticket creation request body.
type CreateTicketRequest struct {
	PropertyID  string  `json:"property_id" binding:"required,uuid"`
	UnitID      *string `json:"unit_id" binding:"omitempty,uuid"`
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description" binding:"required"`
	Priority    string  `json:"priority" binding:"required,oneof=low medium high emergency"`
}

// UpdateTicketStatusRequest represents the status change request body.
type UpdateTicketStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=in_progress resolved cancelled"`
}

// Create handles POST /api/v1/tickets.
func (h *TicketHandler) Create(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ticket, err := h.service.Create(c.Request.Context(), sess, services.CreateTicketInput{
		PropertyID:  req.PropertyID,
		UnitID:      req.UnitID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    models.TicketPriority(req.Priority),
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// List handles GET /api/v1/tickets.
// Supports optional status, priority, and property_id query filters.
func (h *TicketHandler) List(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	filter := repository.TicketFilter{
		Status:     models.TicketStatus(c.Query("status")),
		Priority:   models.TicketPriority(c.Query("priority")),
		PropertyID: c.Query("property_id"),
	}

	tickets, err := h.service.ListMine(c.Request.Context(), sess, filter)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tickets)
}

// UpdateStatus handles PATCH /api/v1/tickets/:id/status.
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ticket, err := h.service.UpdateStatus(c.Request.Context(), sess, c.Param("id"), models.TicketStatus(req.Status))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}
