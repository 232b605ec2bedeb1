package handlers

import (
	"net/http"
	"time"

	apierrors "github.com/arriendo-app/api/internal/errors"
	"github.com/arriendo-app/api/internal/middleware"
	"github.com/arriendo-app/api/internal/models"
	"github.com/arriendo-app/api/internal/services"
	"github.com/gin-gonic/gin"
)

// dateLayout is the wire format for contract dates.
const dateLayout = "2006-01-02"

// ContractHandler handles lease contract HTTP requests.
type ContractHandler struct {
	service services.ContractService
}

// NewContractHandler creates a new ContractHandler instance.
func NewContractHandler(service services.ContractService) *ContractHandler {
	return &ContractHandler{service: service}
}

// CreateContractRequest represents the contract creation request body.
type CreateContractRequest struct {
	UnitID     string  `json:"unit_id" binding:"required,uuid"`
	TenantID   string  `json:"tenant_id" binding:"required,uuid"`
	StartDate  string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate    string  `json:"end_date" binding:"required,datetime=2006-01-02"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	PaymentDay int     `json:"payment_day" binding:"required,gte=1,lte=31"`
	TotalValue float64 `json:"total_contract_value" binding:"omitempty,gt=0"`
}

// ContractResponse decorates a contract with its percent-paid figure.
type ContractResponse struct {
	*models.Contract
	PercentPaid float64 `json:"percent_paid"`
}

func contractResponse(contract *models.Contract) ContractResponse {
	return ContractResponse{
		Contract:    contract,
		PercentPaid: contract.PercentPaid(),
	}
}

// Create handles POST /api/v1/contracts.
func (h *ContractHandler) Create(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// Layout validity is guaranteed by the datetime binding tag.
	startDate, _ := time.Parse(dateLayout, req.StartDate)
	endDate, _ := time.Parse(dateLayout, req.EndDate)

	contract, err := h.service.Create(c.Request.Context(), sess, services.CreateContractInput{
		UnitID:     req.UnitID,
		TenantID:   req.TenantID,
		StartDate:  startDate,
		EndDate:    endDate,
		Amount:     req.Amount,
		PaymentDay: req.PaymentDay,
		TotalValue: req.TotalValue,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contractResponse(contract))
}

// List handles GET /api/v1/contracts.
func (h *ContractHandler) List(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	contracts, err := h.service.ListMine(c.Request.Context(), sess)
	if err != nil {
		serviceError(c, err)
		return
	}

	responses := make([]ContractResponse, 0, len(contracts))
	for i := range contracts {
		responses = append(responses, contractResponse(&contracts[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// Get handles GET /api/v1/contracts/:id.
func (h *ContractHandler) Get(c *gin.Context) {
	h.respond(c, func(sess authSession, id string) (*models.Contract, error) {
		return h.service.Get(c.Request.Context(), sess, id)
	})
}

// Sign handles POST /api/v1/contracts/:id/sign.
func (h *ContractHandler) Sign(c *gin.Context) {
	h.respond(c, func(sess authSession, id string) (*models.Contract, error) {
		return h.service.Sign(c.Request.Context(), sess, id)
	})
}

// Finalize handles POST /api/v1/contracts/:id/finalize.
func (h *ContractHandler) Finalize(c *gin.Context) {
	h.respond(c, func(sess authSession, id string) (*models.Contract, error) {
		return h.service.Finalize(c.Request.Context(), sess, id)
	})
}

// Terminate handles POST /api/v1/contracts/:id/terminate.
func (h *ContractHandler) Terminate(c *gin.Context) {
	h.respond(c, func(sess authSession, id string) (*models.Contract, error) {
		return h.service.Terminate(c.Request.Context(), sess, id)
	})
}

// Reject handles POST /api/v1/contracts/:id/reject.
func (h *ContractHandler) Reject(c *gin.Context) {
	h.respond(c, func(sess authSession, id string) (*models.Contract, error) {
		return h.service.Reject(c.Request.Context(), sess, id)
	})
}

// respond runs a single-contract operation and writes the common response.
func (h *ContractHandler) respond(c *gin.Context, op func(sess authSession, id string) (*models.Contract, error)) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	contract, err := op(sess, c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contractResponse(contract))
}
