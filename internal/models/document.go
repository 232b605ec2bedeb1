package models

import (
	"time"
)

// DocumentType classifies an uploaded verification artifact.
type DocumentType string

const (
	DocumentIdentityCard    DocumentType = "identity_card"
	DocumentBackgroundCheck DocumentType = "background_check"
	DocumentIncomeProof     DocumentType = "income_proof"
	DocumentCreditReport    DocumentType = "credit_report"
	DocumentOther           DocumentType = "other"
)

// Valid reports whether the document type is one of the known types.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentIdentityCard, DocumentBackgroundCheck, DocumentIncomeProof,
		DocumentCreditReport, DocumentOther:
		return true
	}
	return false
}

// DocumentStatus is the review state of an uploaded document.
// Only pending documents may be reviewed; verified and rejected are final.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentVerified DocumentStatus = "verified"
	DocumentRejected DocumentStatus = "rejected"
)

// Document is an identity/financial verification artifact uploaded by a
// user. Verification is scoped to the user identity, not to a contract:
// one verified document makes the identity sign-eligible for all of that
// tenant's leases.
type Document struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	DocumentType    DocumentType   `json:"document_type"`
	FileName        string         `json:"file_name"`
	StorageKey      string         `json:"-"`
	FileURL         string         `json:"file_url,omitempty"`
	Status          DocumentStatus `json:"status"`
	RejectionReason *string        `json:"rejection_reason,omitempty"`
	UploadedAt      time.Time      `json:"uploaded_at"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
}
