package handlers

import (
	"net/http"

	apierrors "github.com/arriendo-app/api/internal/errors"
	"github.com/arriendo-app/api/internal/middleware"
	"github.com/arriendo-app/api/internal/models"
	"github.com/arriendo-app/api/internal/services"
	"github.com/gin-gonic/gin"
)

// PropertyHandler handles property-related HTTP requests.
type PropertyHandler struct {
	service services.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(service services.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// CreateUnitRequest represents one unit in a property creation request.
type CreateUnitRequest struct {
	UnitNumber string   `json:"unit_number" binding:"required"`
	Type       string   `json:"type" binding:"required"`
	BasePrice  float64  `json:"base_price" binding:"required,gt=0"`
	Bedrooms   *int     `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms  *float64 `json:"bathrooms" binding:"omitempty,gte=0"`
	AreaM2     *float64 `json:"area_m2" binding:"omitempty,gt=0"`
}

// CreatePropertyRequest represents the property creation request body.
type CreatePropertyRequest struct {
	Name    string              `json:"name" binding:"required"`
	Type    string              `json:"type" binding:"required,oneof=house building"`
	Address string              `json:"address" binding:"required"`
	City    string              `json:"city" binding:"required"`
	Units   []CreateUnitRequest `json:"units" binding:"required,min=1,dive"`
}

// Create handles POST /api/v1/properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	input := services.CreatePropertyInput{
		Name:    req.Name,
		Type:    models.PropertyType(req.Type),
		Address: req.Address,
		City:    req.City,
	}
	for _, u := range req.Units {
		input.Units = append(input.Units, services.CreateUnitInput{
			UnitNumber: u.UnitNumber,
			Type:       u.Type,
			BasePrice:  u.BasePrice,
			Bedrooms:   u.Bedrooms,
			Bathrooms:  u.Bathrooms,
			AreaM2:     u.AreaM2,
		})
	}

	property, err := h.service.Create(c.Request.Context(), sess, input)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, property)
}

// List handles GET /api/v1/properties.
func (h *PropertyHandler) List(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	properties, err := h.service.ListMine(c.Request.Context(), sess)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, properties)
}

// Get handles GET /api/v1/properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	property, err := h.service.Get(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}
