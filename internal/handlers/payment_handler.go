package handlers

import (
	"net/http"

	apierrors "github.com/arriendo-app/api/internal/errors"
	"github.com/arriendo-app/api/internal/middleware"
	"github.com/arriendo-app/api/internal/models"
	"github.com/arriendo-app/api/internal/services"
	"github.com/gin-gonic/gin"
)

// PaymentHandler handles payment ledger HTTP requests.
type PaymentHandler struct {
	service services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler instance.
func NewPaymentHandler(service services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RecordPaymentRequest represents the payment creation request body.
type RecordPaymentRequest struct {
	ContractID    string  `json:"contract_id" binding:"required,uuid"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" binding:"required,oneof=cash transfer card other"`
	Notes         *string `json:"notes"`
}

// RecordPaymentResponse returns the new payment with the contract's
// updated balance and percent paid.
type RecordPaymentResponse struct {
	Payment     *models.Payment `json:"payment"`
	Balance     float64         `json:"balance"`
	PercentPaid float64         `json:"percent_paid"`
}

// Record handles POST /api/v1/payments.
func (h *PaymentHandler) Record(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	payment, contract, err := h.service.Record(c.Request.Context(), sess, services.RecordPaymentInput{
		ContractID: req.ContractID,
		Amount:     req.Amount,
		Method:     models.PaymentMethod(req.PaymentMethod),
		Notes:      req.Notes,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, RecordPaymentResponse{
		Payment:     payment,
		Balance:     contract.Balance,
		PercentPaid: contract.PercentPaid(),
	})
}

// ListByContract handles GET /api/v1/payments/contract/:id.
func (h *PaymentHandler) ListByContract(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	payments, err := h.service.ListByContract(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// MyHistory handles GET /api/v1/payments/my-history.
func (h *PaymentHandler) MyHistory(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	payments, err := h.service.MyHistory(c.Request.Context(), sess)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}
