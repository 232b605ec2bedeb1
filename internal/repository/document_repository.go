package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/arriendo-app/api/internal/database"
	"github.com/arriendo-app/api/internal/models"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const documentTable = "documents"

var documentColumns = []string{
	"id",
	"user_id",
	"document_type",
	"file_name",
	"storage_key",
	"status",
	"rejection_reason",
	"uploaded_at",
	"reviewed_at",
}

// DocumentRepository defines the interface for verification document access.
type DocumentRepository interface {
	// Create inserts a new document row.
	Create(ctx context.Context, doc *models.Document) error

	// FindByID finds a document by ID.
	// Returns nil, nil if no document is found (not an error).
	FindByID(ctx context.Context, id string) (*models.Document, error)

	// ListByUser returns a user's documents, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Document, error)

	// Review moves a pending document to verified or rejected. Returns
	// ErrGuardFailed if the document is no longer pending.
	Review(ctx context.Context, id string, status models.DocumentStatus, reason *string, reviewedAt time.Time) error

	// HasVerified reports whether the user has at least one verified
	// document. This is the sign-eligibility gate for lease contracts.
	HasVerified(ctx context.Context, userID string) (bool, error)
}

// documentRepository is the concrete implementation of DocumentRepository.
type documentRepository struct {
	db *database.Database
}

// NewDocumentRepository creates a new instance of DocumentRepository.
func NewDocumentRepository(db *database.Database) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	query, args, err := psql().
		Insert(documentTable).
		Columns(documentColumns...).
		Values(
			doc.ID,
			doc.UserID,
			doc.DocumentType,
			doc.FileName,
			doc.StorageKey,
			doc.Status,
			doc.RejectionReason,
			doc.UploadedAt,
			doc.ReviewedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build document insert: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert document for user %s: %w", doc.UserID, err)
	}
	return nil
}

func (r *documentRepository) FindByID(ctx context.Context, id string) (*models.Document, error) {
	query, args, err := psql().
		Select(documentColumns...).
		From(documentTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build document query: %w", err)
	}

	var doc models.Document
	if err := pgxscan.Get(ctx, r.db.Pool, &doc, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query document %s: %w", id, err)
	}
	return &doc, nil
}

func (r *documentRepository) ListByUser(ctx context.Context, userID string) ([]models.Document, error) {
	query, args, err := psql().
		Select(documentColumns...).
		From(documentTable).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("uploaded_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build document list query: %w", err)
	}

	var docs []models.Document
	if err := pgxscan.Select(ctx, r.db.Pool, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query documents for user %s: %w", userID, err)
	}

	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}

func (r *documentRepository) Review(ctx context.Context, id string, status models.DocumentStatus, reason *string, reviewedAt time.Time) error {
	// Only pending documents may be reviewed; the WHERE guard rejects
	// re-reviews without side effects.
	query, args, err := psql().
		Update(documentTable).
		Set("status", status).
		Set("rejection_reason", reason).
		Set("reviewed_at", reviewedAt).
		Where(squirrel.Eq{"id": id, "status": models.DocumentPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build document review update: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to review document %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGuardFailed
	}
	return nil
}

func (r *documentRepository) HasVerified(ctx context.Context, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM documents
			WHERE user_id = $1 AND status = 'verified'
		)
	`

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check verified documents for user %s: %w", userID, err)
	}
	return exists, nil
}
