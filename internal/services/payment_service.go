package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arriendo-app/api/internal/auth"
	"github.com/arriendo-app/api/internal/logger"
	"github.com/arriendo-app/api/internal/models"
	"github.com/arriendo-app/api/internal/repository"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Payment service errors
var (
	ErrInvalidAmount      = errors.New("payment amount must be positive")
	ErrOverpayment        = errors.New("payment exceeds the remaining balance")
	ErrContractNotPayable = errors.New("contract is not active")
)

const (
	referenceAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
	referenceLength   = 10
)

// RecordPaymentInput carries the fields needed to record a payment.
type RecordPaymentInput struct {
	ContractID string
	Amount     float64
	Method     models.PaymentMethod
	Notes      *string
}

// PaymentService defines the interface for the payment ledger.
type PaymentService interface {
	// Record appends a payment against an active contract and returns the
	// payment together with the contract's updated balance. Fails with
	// ErrContractNotPayable, ErrInvalidAmount, or ErrOverpayment when the
	// ledger rules are violated.
	Record(ctx context.Context, sess auth.Session, input RecordPaymentInput) (*models.Payment, *models.Contract, error)

	// ListByContract returns a contract's ledger. Parties only.
	ListByContract(ctx context.Context, sess auth.Session, contractID string) ([]models.Payment, error)

	// MyHistory returns the session tenant's payments across contracts.
	MyHistory(ctx context.Context, sess auth.Session) ([]models.Payment, error)
}

// paymentService is the concrete implementation of PaymentService.
type paymentService struct {
	payments  repository.PaymentRepository
	contracts repository.ContractRepository
	log       *logger.Logger
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(payments repository.PaymentRepository, contracts repository.ContractRepository, log *logger.Logger) PaymentService {
	return &paymentService{
		payments:  payments,
		contracts: contracts,
		log:       log,
	}
}

func (s *paymentService) Record(ctx context.Context, sess auth.Session, input RecordPaymentInput) (*models.Payment, *models.Contract, error) {
	if input.Amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	if !input.Method.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, input.Method)
	}

	contract, err := s.contracts.FindByID(ctx, input.ContractID)
	if err != nil {
		s.log.Error("Failed to query contract for payment", err, map[string]interface{}{
			"contract_id": input.ContractID,
		})
		return nil, nil, fmt.Errorf("failed to query contract: %w", err)
	}
	if contract == nil {
		return nil, nil, ErrNotFound
	}
	if contract.LandlordID != sess.UserID && contract.TenantID != sess.UserID {
		return nil, nil, fmt.Errorf("%w: not a party to this contract", ErrForbidden)
	}
	if contract.Status != models.ContractActive {
		return nil, nil, ErrContractNotPayable
	}
	if input.Amount > contract.Balance {
		return nil, nil, ErrOverpayment
	}

	now := time.Now()
	payment := &models.Payment{
		ID:            uuid.New().String(),
		ContractID:    contract.ID,
		Amount:        input.Amount,
		PaymentMethod: input.Method,
		Reference:     "PAY-" + gonanoid.MustGenerate(referenceAlphabet, referenceLength),
		PaymentDate:   now,
		Notes:         input.Notes,
		CreatedAt:     now,
	}

	if err := s.payments.Record(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrGuardFailed) {
			// A concurrent payment or transition won the race; re-read to
			// report the right violation.
			return nil, nil, s.classifyGuardFailure(ctx, contract.ID, input.Amount)
		}
		s.log.Error("Failed to record payment", err, map[string]interface{}{
			"contract_id": contract.ID,
			"amount":      input.Amount,
		})
		return nil, nil, fmt.Errorf("failed to record payment: %w", err)
	}

	updated, err := s.contracts.FindByID(ctx, contract.ID)
	if err != nil || updated == nil {
		// The payment is committed; fall back to the computed balance.
		contract.Balance = contract.Balance - input.Amount
		if contract.Balance < 0 {
			contract.Balance = 0
		}
		updated = contract
	}

	s.log.Info("Payment recorded", map[string]interface{}{
		"payment_id":  payment.ID,
		"contract_id": contract.ID,
		"amount":      input.Amount,
		"balance":     updated.Balance,
	})

	return payment, updated, nil
}

func (s *paymentService) ListByContract(ctx context.Context, sess auth.Session, contractID string) ([]models.Payment, error) {
	contract, err := s.contracts.FindByID(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contract: %w", err)
	}
	if contract == nil {
		return nil, ErrNotFound
	}
	if contract.LandlordID != sess.UserID && contract.TenantID != sess.UserID {
		return nil, fmt.Errorf("%w: not a party to this contract", ErrForbidden)
	}

	payments, err := s.payments.ListByContract(ctx, contractID)
	if err != nil {
		s.log.Error("Failed to list contract payments", err, map[string]interface{}{
			"contract_id": contractID,
		})
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (s *paymentService) MyHistory(ctx context.Context, sess auth.Session) ([]models.Payment, error) {
	payments, err := s.payments.ListByTenant(ctx, sess.UserID)
	if err != nil {
		s.log.Error("Failed to list payment history", err, map[string]interface{}{
			"user_id": sess.UserID,
		})
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// classifyGuardFailure re-reads the contract after a failed conditional
// update to decide which ledger rule was violated.
func (s *paymentService) classifyGuardFailure(ctx context.Context, contractID string, amount float64) error {
	contract, err := s.contracts.FindByID(ctx, contractID)
	if err != nil || contract == nil {
		return ErrContractNotPayable
	}
	if contract.Status != models.ContractActive {
		return ErrContractNotPayable
	}
	if amount > contract.Balance {
		return ErrOverpayment
	}
	return ErrContractNotPayable
}
