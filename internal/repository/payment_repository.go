package repository

import (
	"context"
	"fmt"

	"github.com/arriendo-app/api/internal/database"
	"github.com/arriendo-app/api/internal/models"
	"github.com/jackc/pgx/v5"
)

// PaymentRepository defines the interface for payment ledger data access.
// The ledger is append-only; there are no update or delete operations.
type PaymentRepository interface {
	// Record appends a payment and decrements the contract balance in one
	// transaction. The balance update is conditional on the contract being
	// active with sufficient balance; if that guard fails (a concurrent
	// payment or transition got there first), ErrGuardFailed is returned
	// and nothing is written.
	Record(ctx context.Context, payment *models.Payment) error

	// ListByContract returns a contract's payments, newest first.
	ListByContract(ctx context.Context, contractID string) ([]models.Payment, error)

	// ListByTenant returns all payments across the tenant's contracts,
	// newest first.
	ListByTenant(ctx context.Context, tenantID string) ([]models.Payment, error)
}

// paymentRepository is the concrete implementation of PaymentRepository.
type paymentRepository struct {
	db *database.Database
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db *database.Database) PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `
	id, contract_id, amount, payment_method, reference, payment_date, notes, created_at
`

func (r *paymentRepository) Record(ctx context.Context, payment *models.Payment) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// GREATEST floors the balance at zero; the WHERE guard keeps the sum
	// of payments from ever exceeding the total contract value.
	tag, err := tx.Exec(ctx, `
		UPDATE contracts
		SET balance = GREATEST(balance - $1, 0), updated_at = now()
		WHERE id = $2 AND status = 'active' AND balance >= $1
	`, payment.Amount, payment.ContractID)
	if err != nil {
		return fmt.Errorf("failed to update balance for contract %s: %w", payment.ContractID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGuardFailed
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO payments (id, contract_id, amount, payment_method, reference, payment_date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		payment.ID,
		payment.ContractID,
		payment.Amount,
		payment.PaymentMethod,
		payment.Reference,
		payment.PaymentDate,
		payment.Notes,
		payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment for contract %s: %w", payment.ContractID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit payment: %w", err)
	}

	return nil
}

func (r *paymentRepository) ListByContract(ctx context.Context, contractID string) ([]models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE contract_id = $1
		ORDER BY payment_date DESC, created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for contract %s: %w", contractID, err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

func (r *paymentRepository) ListByTenant(ctx context.Context, tenantID string) ([]models.Payment, error) {
	query := `
		SELECT p.id, p.contract_id, p.amount, p.payment_method, p.reference, p.payment_date, p.notes, p.created_at
		FROM payments p
		JOIN contracts c ON c.id = p.contract_id
		WHERE c.tenant_id = $1
		ORDER BY p.payment_date DESC, p.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

func collectPayments(rows pgx.Rows) ([]models.Payment, error) {
	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		err := rows.Scan(
			&p.ID,
			&p.ContractID,
			&p.Amount,
			&p.PaymentMethod,
			&p.Reference,
			&p.PaymentDate,
			&p.Notes,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}

	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}
