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
)

// Contract service errors
var (
	ErrUnitUnavailable = errors.New("unit is not available")
)

// CreateContractInput carries the fields needed to create a lease contract.
// TotalValue is optional and defaults to Amount when zero.
type CreateContractInput struct {
	UnitID     string
	TenantID   string
	StartDate  time.Time
	EndDate    time.Time
	Amount     float64
	PaymentDay int
	TotalValue float64
}

// ContractService defines the interface for lease lifecycle business logic.
//
// Every state transition re-checks the contract's current status inside a
// database transaction, so a double-submitted sign/finalize/terminate fails
// with ErrInvalidStateTransition instead of being applied twice.
type ContractService interface {
	// Create creates a contract in the pending state. The unit must be
	// available and owned by the landlord session; the tenant must exist
	// with the tenant role.
	Create(ctx context.Context, sess auth.Session, input CreateContractInput) (*models.Contract, error)

	// ListMine returns contracts where the session user is a party.
	ListMine(ctx context.Context, sess auth.Session) ([]models.Contract, error)

	// Get returns one contract. Only the landlord or tenant party may view it.
	Get(ctx context.Context, sess auth.Session, id string) (*models.Contract, error)

	// Sign moves pending -> signed_by_tenant. Only the tenant party may
	// sign, and only if their identity has at least one verified document
	// (ErrPreconditionFailed otherwise).
	Sign(ctx context.Context, sess auth.Session, id string) (*models.Contract, error)

	// Finalize moves signed_by_tenant -> active and marks the unit occupied.
	// Only the landlord party may finalize.
	Finalize(ctx context.Context, sess auth.Session, id string) (*models.Contract, error)

	// Terminate moves active -> terminated and releases the unit back to
	// available. Only the landlord party may terminate. Irreversible.
	Terminate(ctx context.Context, sess auth.Session, id string) (*models.Contract, error)

	// Reject moves pending -> rejected. Either party may reject.
	Reject(ctx context.Context, sess auth.Session, id string) (*models.Contract, error)
}

// contractService is the concrete implementation of ContractService.
type contractService struct {
	contracts  repository.ContractRepository
	properties repository.PropertyRepository
	documents  repository.DocumentRepository
	users      repository.UserRepository
	log        *logger.Logger
}

// NewContractService creates a new instance of ContractService.
func NewContractService(
	contracts repository.ContractRepository,
	properties repository.PropertyRepository,
	documents repository.DocumentRepository,
	users repository.UserRepository,
	log *logger.Logger,
) ContractService {
	return &contractService{
		contracts:  contracts,
		properties: properties,
		documents:  documents,
		users:      users,
		log:        log,
	}
}

func (s *contractService) Create(ctx context.Context, sess auth.Session, input CreateContractInput) (*models.Contract, error) {
	if !sess.IsLandlord() {
		return nil, fmt.Errorf("%w: only landlords can create contracts", ErrForbidden)
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	}
	if input.PaymentDay < 1 || input.PaymentDay > 31 {
		return nil, fmt.Errorf("%w: payment day must be between 1 and 31", ErrInvalidInput)
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	unit, err := s.properties.FindUnit(ctx, input.UnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unit: %w", err)
	}
	if unit == nil {
		return nil, fmt.Errorf("%w: unit does not exist", ErrNotFound)
	}
	if unit.Status != models.UnitAvailable {
		return nil, ErrUnitUnavailable
	}

	property, err := s.properties.FindByID(ctx, unit.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query property: %w", err)
	}
	if property == nil || property.OwnerID != sess.UserID {
		return nil, fmt.Errorf("%w: unit belongs to another landlord", ErrForbidden)
	}

	tenant, err := s.users.FindByID(ctx, input.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenant: %w", err)
	}
	if tenant == nil {
		return nil, fmt.Errorf("%w: tenant does not exist", ErrNotFound)
	}
	if tenant.Role != models.RoleTenant {
		return nil, fmt.Errorf("%w: user is not a tenant", ErrInvalidInput)
	}

	total := input.TotalValue
	if total == 0 {
		total = input.Amount
	}

	now := time.Now()
	contract := &models.Contract{
		ID:         uuid.New().String(),
		UnitID:     input.UnitID,
		TenantID:   input.TenantID,
		LandlordID: sess.UserID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Amount:     input.Amount,
		PaymentDay: input.PaymentDay,
		Status:     models.ContractPending,
		TotalValue: total,
		Balance:    total,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.contracts.Create(ctx, contract); err != nil {
		s.log.Error("Failed to create contract", err, map[string]interface{}{
			"unit_id":   input.UnitID,
			"tenant_id": input.TenantID,
		})
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	s.log.Info("Contract created", map[string]interface{}{
		"contract_id": contract.ID,
		"unit_id":     contract.UnitID,
		"tenant_id":   contract.TenantID,
	})

	return contract, nil
}

func (s *contractService) ListMine(ctx context.Context, sess auth.Session) ([]models.Contract, error) {
	contracts, err := s.contracts.ListByParty(ctx, sess.UserID)
	if err != nil {
		s.log.Error("Failed to list contracts", err, map[string]interface{}{
			"user_id": sess.UserID,
		})
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}

func (s *contractService) Get(ctx context.Context, sess auth.Session, id string) (*models.Contract, error) {
	return s.loadForParty(ctx, sess, id)
}

func (s *contractService) Sign(ctx context.Context, sess auth.Session, id string) (*models.Contract, error) {
	contract, err := s.loadForParty(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if contract.TenantID != sess.UserID {
		return nil, fmt.Errorf("%w: only the tenant can sign", ErrForbidden)
	}
	if !contract.Status.CanTransition(models.ContractSignedByTenant) {
		return nil, fmt.Errorf("%w: cannot sign a %s contract", ErrInvalidStateTransition, contract.Status)
	}

	// Sign-eligibility is identity-scoped: one verified document unlocks
	// signing for all of this tenant's leases.
	verified, err := s.documents.HasVerified(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check verified documents: %w", err)
	}
	if !verified {
		return nil, fmt.Errorf("%w: identity has no verified document", ErrPreconditionFailed)
	}

	return s.applyTransition(ctx, contract, models.ContractSignedByTenant, nil)
}

func (s *contractService) Finalize(ctx context.Context, sess auth.Session, id string) (*models.Contract, error) {
	contract, err := s.loadForParty(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if contract.LandlordID != sess.UserID {
		return nil, fmt.Errorf("%w: only the landlord can finalize", ErrForbidden)
	}
	if !contract.Status.CanTransition(models.ContractActive) {
		return nil, fmt.Errorf("%w: cannot finalize a %s contract", ErrInvalidStateTransition, contract.Status)
	}

	// The unit may have been taken since this contract was created:
	// another contract on it can sign and finalize first. Only one
	// contract may hold the unit while active.
	unit, err := s.properties.FindUnit(ctx, contract.UnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unit: %w", err)
	}
	if unit == nil {
		return nil, fmt.Errorf("%w: unit does not exist", ErrNotFound)
	}
	if unit.Status != models.UnitAvailable {
		return nil, ErrUnitUnavailable
	}

	occupied := models.UnitOccupied
	return s.applyTransition(ctx, contract, models.ContractActive, &occupied)
}

func (s *contractService) Terminate(ctx context.Context, sess auth.Session, id string) (*models.Contract, error) {
	contract, err := s.loadForParty(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if contract.LandlordID != sess.UserID {
		return nil, fmt.Errorf("%w: only the landlord can terminate", ErrForbidden)
	}
	if !contract.Status.CanTransition(models.ContractTerminated) {
		return nil, fmt.Errorf("%w: cannot terminate a %s contract", ErrInvalidStateTransition, contract.Status)
	}

	available := models.UnitAvailable
	return s.applyTransition(ctx, contract, models.ContractTerminated, &available)
}

func (s *contractService) Reject(ctx context.Context, sess auth.Session, id string) (*models.Contract, error) {
	contract, err := s.loadForParty(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if !contract.Status.CanTransition(models.ContractRejected) {
		return nil, fmt.Errorf("%w: cannot reject a %s contract", ErrInvalidStateTransition, contract.Status)
	}

	return s.applyTransition(ctx, contract, models.ContractRejected, nil)
}

// loadForParty fetches a contract and enforces that the session user is
// one of its parties.
func (s *contractService) loadForParty(ctx context.Context, sess auth.Session, id string) (*models.Contract, error) {
	contract, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to query contract", err, map[string]interface{}{
			"contract_id": id,
		})
		return nil, fmt.Errorf("failed to query contract: %w", err)
	}
	if contract == nil {
		return nil, ErrNotFound
	}
	if contract.LandlordID != sess.UserID && contract.TenantID != sess.UserID {
		return nil, fmt.Errorf("%w: not a party to this contract", ErrForbidden)
	}
	return contract, nil
}

// applyTransition performs the guarded status update and returns the
// contract in its new state.
func (s *contractService) applyTransition(ctx context.Context, contract *models.Contract, target models.ContractStatus, unitStatus *models.UnitStatus) (*models.Contract, error) {
	err := s.contracts.Transition(ctx, contract.ID, contract.Status, target, unitStatus)
	if err != nil {
		if errors.Is(err, repository.ErrGuardFailed) {
			// The contract moved on between the read and the update,
			// typically a double-submitted action.
			return nil, fmt.Errorf("%w: contract is no longer %s", ErrInvalidStateTransition, contract.Status)
		}
		s.log.Error("Failed to transition contract", err, map[string]interface{}{
			"contract_id": contract.ID,
			"from":        contract.Status,
			"to":          target,
		})
		return nil, fmt.Errorf("failed to transition contract: %w", err)
	}

	s.log.Info("Contract transitioned", map[string]interface{}{
		"contract_id": contract.ID,
		"from":        contract.Status,
		"to":          target,
	})

	contract.Status = target
	contract.UpdatedAt = time.Now()
	return contract, nil
}
