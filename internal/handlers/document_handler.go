package handlers

import (
	"net/http"

	apierrors "github.com/arriendo-app/api/internal/errors"
	"github.com/arriendo-app/api/internal/middleware"
	"github.com/arriendo-app/api/internal/models"
	"github.com/arriendo-app/api/internal/services"
	"github.com/gin-gonic/gin"
)

// maxDocumentSize caps uploaded verification documents at 10 MiB.
const maxDocumentSize = 10 << 20

// DocumentHandler handles verification document HTTP requests.
type DocumentHandler struct {
	service services.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler instance.
func NewDocumentHandler(service services.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// ReviewDocumentRequest represents the review decision request body.
type ReviewDocumentRequest struct {
	Status          string  `json:"status" binding:"required,oneof=verified rejected"`
	RejectionReason *string `json:"rejection_reason"`
}

// Upload handles POST /api/v1/documents/upload.
// Expects multipart form data with a "file" part and a "document_type" field.
func (h *DocumentHandler) Upload(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "A file is required", nil)
		return
	}
	if fileHeader.Size > maxDocumentSize {
		apierrors.BadRequest(c, "File exceeds the 10MB limit", map[string]interface{}{
			"size": fileHeader.Size,
		})
		return
	}

	docType := c.PostForm("document_type")
	if docType == "" {
		apierrors.BadRequest(c, "document_type is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.InternalServerError(c, "Failed to read uploaded file", err)
		return
	}
	defer file.Close()

	doc, err := h.service.Upload(c.Request.Context(), sess, services.UploadDocumentInput{
		DocumentType: models.DocumentType(docType),
		FileName:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		File:         file,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// ListMine handles GET /api/v1/documents/my-documents.
func (h *DocumentHandler) ListMine(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	docs, err := h.service.ListMine(c.Request.Context(), sess)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

// ListForUser handles GET /api/v1/documents/user/:id.
func (h *DocumentHandler) ListForUser(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	docs, err := h.service.ListForUser(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

// Review handles PATCH /api/v1/documents/:id/status.
func (h *DocumentHandler) Review(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	var req ReviewDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	doc, err := h.service.Review(c.Request.Context(), sess, services.ReviewDocumentInput{
		DocumentID: c.Param("id"),
		Decision:   models.DocumentStatus(req.Status),
		Reason:     req.RejectionReason,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}
