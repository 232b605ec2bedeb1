package models

import (
	"time"
)

// PaymentMethod is how a rent payment was made.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCard     PaymentMethod = "card"
	PaymentOther    PaymentMethod = "other"
)

// Valid reports whether the payment method is one of the known methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentCard, PaymentOther:
		return true
	}
	return false
}

// Payment is one recorded transaction against a contract. The ledger is
// append-only: payments are never updated or deleted, and each recording
// decrements the contract balance by Amount (floored at zero).
type Payment struct {
	ID            string        `json:"id"`
	ContractID    string        `json:"contract_id"`
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Reference     string        `json:"reference"`
	PaymentDate   time.Time     `json:"payment_date"`
	Notes         *string       `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
