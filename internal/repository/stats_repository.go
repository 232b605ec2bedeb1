package repository

import (
	"context"
	"fmt"

	"github.com/arriendo-app/api/internal/database"
)

// DashboardStats summarizes a landlord's portfolio for the dashboard.
type DashboardStats struct {
	Properties      int     `json:"properties"`
	Units           int     `json:"units"`
	OccupiedUnits   int     `json:"occupied_units"`
	ActiveContracts int     `json:"active_contracts"`
	PendingTickets  int     `json:"pending_tickets"`
	CollectedTotal  float64 `json:"collected_total"`
}

// StatsRepository defines the interface for dashboard aggregate queries.
type StatsRepository interface {
	// ForLandlord computes portfolio statistics for the given landlord.
	ForLandlord(ctx context.Context, landlordID string) (*DashboardStats, error)
}

// statsRepository is the concrete implementation of StatsRepository.
type statsRepository struct {
	db *database.Database
}

// NewStatsRepository creates a new instance of StatsRepository.
func NewStatsRepository(db *database.Database) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) ForLandlord(ctx context.Context, landlordID string) (*DashboardStats, error) {
	query := `
		SELECT
			(SELECT count(*) FROM properties WHERE owner_id = $1),
			(SELECT count(*) FROM units u JOIN properties p ON p.id = u.property_id WHERE p.owner_id = $1),
			(SELECT count(*) FROM units u JOIN properties p ON p.id = u.property_id WHERE p.owner_id = $1 AND u.status = 'occupied'),
			(SELECT count(*) FROM contracts WHERE landlord_id = $1 AND status = 'active'),
			(SELECT count(*) FROM tickets t JOIN properties p ON p.id = t.property_id WHERE p.owner_id = $1 AND t.status = 'pending'),
			(SELECT COALESCE(sum(pay.amount), 0) FROM payments pay JOIN contracts c ON c.id = pay.contract_id WHERE c.landlord_id = $1)
	`

	var stats DashboardStats
	err := r.db.Pool.QueryRow(ctx, query, landlordID).Scan(
		&stats.Properties,
		&stats.Units,
		&stats.OccupiedUnits,
		&stats.ActiveContracts,
		&stats.PendingTickets,
		&stats.CollectedTotal,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard stats for landlord %s: %w", landlordID, err)
	}

	return &stats, nil
}
