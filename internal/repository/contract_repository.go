package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/arriendo-app/api/internal/database"
	"github.com/arriendo-app/api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ContractRepository defines the interface for contract data access.
type ContractRepository interface {
	// Create inserts a new contract.
	Create(ctx context.Context, contract *models.Contract) error

	// FindByID finds a contract by ID.
	// Returns nil, nil if no contract is found (not an error).
	FindByID(ctx context.Context, id string) (*models.Contract, error)

	// ListByParty returns contracts where the user is either the landlord
	// or the tenant, newest first. Returns an empty slice if none.
	ListByParty(ctx context.Context, userID string) ([]models.Contract, error)

	// Transition atomically moves a contract from one status to another,
	// optionally setting the referenced unit's status in the same
	// transaction. Returns ErrGuardFailed when the contract is no longer
	// in the expected status, which makes repeated submissions of the
	// same transition fail without side effects.
	Transition(ctx context.Context, id string, from, to models.ContractStatus, unitStatus *models.UnitStatus) error

	// HasContractBetween reports whether the landlord has at least one
	// non-rejected contract involving the tenant. Used to gate document
	// review and tenant document listing.
	HasContractBetween(ctx context.Context, landlordID, tenantID string) (bool, error)
}

// contractRepository is the concrete implementation of ContractRepository.
type contractRepository struct {
	db *database.Database
}

// NewContractRepository creates a new instance of ContractRepository.
func NewContractRepository(db *database.Database) ContractRepository {
	return &contractRepository{db: db}
}

const contractColumns = `
	id, unit_id, tenant_id, landlord_id, start_date, end_date,
	amount, payment_day, status, total_contract_value, balance,
	created_at, updated_at
`

func (r *contractRepository) Create(ctx context.Context, contract *models.Contract) error {
	query := `
		INSERT INTO contracts (
			id, unit_id, tenant_id, landlord_id, start_date, end_date,
			amount, payment_day, status, total_contract_value, balance,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		contract.ID,
		contract.UnitID,
		contract.TenantID,
		contract.LandlordID,
		contract.StartDate,
		contract.EndDate,
		contract.Amount,
		contract.PaymentDay,
		contract.Status,
		contract.TotalValue,
		contract.Balance,
		contract.CreatedAt,
		contract.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contract for unit %s: %w", contract.UnitID, err)
	}

	return nil
}

func (r *contractRepository) FindByID(ctx context.Context, id string) (*models.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`

	contract, err := scanContract(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query contract %s: %w", id, err)
	}
	return contract, nil
}

func (r *contractRepository) ListByParty(ctx context.Context, userID string) ([]models.Contract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE landlord_id = $1 OR tenant_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts for user %s: %w", userID, err)
	}
	defer rows.Close()

	var contracts []models.Contract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract row: %w", err)
		}
		contracts = append(contracts, *contract)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contract rows: %w", err)
	}

	if contracts == nil {
		contracts = []models.Contract{}
	}
	return contracts, nil
}

func (r *contractRepository) Transition(ctx context.Context, id string, from, to models.ContractStatus, unitStatus *models.UnitStatus) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The WHERE clause on the current status is the idempotency guard:
	// a concurrent or repeated transition matches zero rows and fails
	// here instead of being applied twice.
	var unitID string
	err = tx.QueryRow(ctx, `
		UPDATE contracts
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING unit_id
	`, to, id, from).Scan(&unitID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrGuardFailed
		}
		// uq_contracts_active_unit: a second contract activating on the
		// same unit lost the race.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrGuardFailed
		}
		return fmt.Errorf("failed to transition contract %s to %s: %w", id, to, err)
	}

	if unitStatus != nil {
		_, err = tx.Exec(ctx, `UPDATE units SET status = $1 WHERE id = $2`, *unitStatus, unitID)
		if err != nil {
			return fmt.Errorf("failed to update unit %s status: %w", unitID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit contract transition: %w", err)
	}

	return nil
}

func (r *contractRepository) HasContractBetween(ctx context.Context, landlordID, tenantID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM contracts
			WHERE landlord_id = $1 AND tenant_id = $2 AND status <> 'rejected'
		)
	`

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, landlordID, tenantID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check contracts between %s and %s: %w", landlordID, tenantID, err)
	}
	return exists, nil
}

func scanContract(row pgx.Row) (*models.Contract, error) {
	var c models.Contract
	err := row.Scan(
		&c.ID,
		&c.UnitID,
		&c.TenantID,
		&c.LandlordID,
		&c.StartDate,
		&c.EndDate,
		&c.Amount,
		&c.PaymentDay,
		&c.Status,
		&c.TotalValue,
		&c.Balance,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
