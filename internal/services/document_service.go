package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/arriendo-app/api/internal/auth"
	"github.com/arriendo-app/api/internal/logger"
	"github.com/arriendo-app/api/internal/models"
	"github.com/arriendo-app/api/internal/repository"
	"github.com/arriendo-app/api/internal/storage"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Document service errors
var (
	ErrReasonRequired = errors.New("rejection reason is required")
)

const storageKeyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// UploadDocumentInput carries an uploaded verification document.
type UploadDocumentInput struct {
	DocumentType models.DocumentType
	FileName     string
	ContentType  string
	File         io.Reader
}

// ReviewDocumentInput carries a landlord's review decision.
type ReviewDocumentInput struct {
	DocumentID string
	Decision   models.DocumentStatus
	Reason     *string
}

// DocumentService defines the interface for the verification document store
// and the sign-eligibility gate.
type DocumentService interface {
	// Upload stores the file and creates a pending document for the
	// session user.
	Upload(ctx context.Context, sess auth.Session, input UploadDocumentInput) (*models.Document, error)

	// ListMine returns the session user's documents.
	ListMine(ctx context.Context, sess auth.Session) ([]models.Document, error)

	// ListForUser returns another user's documents. Restricted to
	// landlords with at least one contract involving that user.
	ListForUser(ctx context.Context, sess auth.Session, userID string) ([]models.Document, error)

	// Review moves a pending document to verified or rejected. Restricted
	// to landlords associated with the document's owner. A rejection
	// requires a non-empty reason.
	Review(ctx context.Context, sess auth.Session, input ReviewDocumentInput) (*models.Document, error)
}

// documentService is the concrete implementation of DocumentService.
type documentService struct {
	documents repository.DocumentRepository
	contracts repository.ContractRepository
	store     storage.BlobStore
	log       *logger.Logger
}

// NewDocumentService creates a new instance of DocumentService.
func NewDocumentService(
	documents repository.DocumentRepository,
	contracts repository.ContractRepository,
	store storage.BlobStore,
	log *logger.Logger,
) DocumentService {
	return &documentService{
		documents: documents,
		contracts: contracts,
		store:     store,
		log:       log,
	}
}

func (s *documentService) Upload(ctx context.Context, sess auth.Session, input UploadDocumentInput) (*models.Document, error) {
	if !input.DocumentType.Valid() {
		return nil, fmt.Errorf("%w: unknown document type %q", ErrInvalidInput, input.DocumentType)
	}

	key := fmt.Sprintf("%s/%s%s",
		sess.UserID,
		gonanoid.MustGenerate(storageKeyAlphabet, 16),
		strings.ToLower(path.Ext(input.FileName)),
	)

	if _, err := s.store.Upload(ctx, key, input.File, input.ContentType); err != nil {
		s.log.Error("Failed to upload document file", err, map[string]interface{}{
			"user_id": sess.UserID,
			"key":     key,
		})
		return nil, fmt.Errorf("failed to store document file: %w", err)
	}

	doc := &models.Document{
		ID:           uuid.New().String(),
		UserID:       sess.UserID,
		DocumentType: input.DocumentType,
		FileName:     input.FileName,
		StorageKey:   key,
		Status:       models.DocumentPending,
		UploadedAt:   time.Now(),
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		// Best effort: don't leave an orphaned blob behind.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn("Failed to clean up orphaned blob", map[string]interface{}{
				"key":   key,
				"error": delErr.Error(),
			})
		}
		s.log.Error("Failed to create document record", err, map[string]interface{}{
			"user_id": sess.UserID,
		})
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	doc.FileURL = s.store.PublicURL(key)

	s.log.Info("Document uploaded", map[string]interface{}{
		"document_id": doc.ID,
		"user_id":     sess.UserID,
		"type":        doc.DocumentType,
	})

	return doc, nil
}

func (s *documentService) ListMine(ctx context.Context, sess auth.Session) ([]models.Document, error) {
	docs, err := s.documents.ListByUser(ctx, sess.UserID)
	if err != nil {
		s.log.Error("Failed to list documents", err, map[string]interface{}{
			"user_id": sess.UserID,
		})
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	s.attachURLs(docs)
	return docs, nil
}

func (s *documentService) ListForUser(ctx context.Context, sess auth.Session, userID string) ([]models.Document, error) {
	if !sess.IsLandlord() {
		return nil, fmt.Errorf("%w: only landlords can review tenant documents", ErrForbidden)
	}

	associated, err := s.contracts.HasContractBetween(ctx, sess.UserID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check landlord association: %w", err)
	}
	if !associated {
		return nil, fmt.Errorf("%w: no contract with this tenant", ErrForbidden)
	}

	docs, err := s.documents.ListByUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list tenant documents", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	s.attachURLs(docs)
	return docs, nil
}

func (s *documentService) Review(ctx context.Context, sess auth.Session, input ReviewDocumentInput) (*models.Document, error) {
	if !sess.IsLandlord() {
		return nil, fmt.Errorf("%w: only landlords can review documents", ErrForbidden)
	}
	if input.Decision != models.DocumentVerified && input.Decision != models.DocumentRejected {
		return nil, fmt.Errorf("%w: decision must be verified or rejected", ErrInvalidInput)
	}
	if input.Decision == models.DocumentRejected && (input.Reason == nil || strings.TrimSpace(*input.Reason) == "") {
		return nil, ErrReasonRequired
	}

	doc, err := s.documents.FindByID(ctx, input.DocumentID)
	if err != nil {
		s.log.Error("Failed to query document", err, map[string]interface{}{
			"document_id": input.DocumentID,
		})
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	associated, err := s.contracts.HasContractBetween(ctx, sess.UserID, doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check landlord association: %w", err)
	}
	if !associated {
		return nil, fmt.Errorf("%w: no contract with this tenant", ErrForbidden)
	}

	if doc.Status != models.DocumentPending {
		return nil, fmt.Errorf("%w: document is already %s", ErrInvalidStateTransition, doc.Status)
	}

	// Verifications carry no reason; rejections keep theirs.
	reason := input.Reason
	if input.Decision == models.DocumentVerified {
		reason = nil
	}

	now := time.Now()
	if err := s.documents.Review(ctx, doc.ID, input.Decision, reason, now); err != nil {
		if errors.Is(err, repository.ErrGuardFailed) {
			return nil, fmt.Errorf("%w: document is no longer pending", ErrInvalidStateTransition)
		}
		s.log.Error("Failed to review document", err, map[string]interface{}{
			"document_id": doc.ID,
			"decision":    input.Decision,
		})
		return nil, fmt.Errorf("failed to review document: %w", err)
	}

	s.log.Info("Document reviewed", map[string]interface{}{
		"document_id": doc.ID,
		"user_id":     doc.UserID,
		"decision":    input.Decision,
	})

	doc.Status = input.Decision
	doc.RejectionReason = reason
	doc.ReviewedAt = &now
	doc.FileURL = s.store.PublicURL(doc.StorageKey)
	return doc, nil
}

func (s *documentService) attachURLs(docs []models.Document) {
	for i := range docs {
		docs[i].FileURL = s.store.PublicURL(docs[i].StorageKey)
	}
}
