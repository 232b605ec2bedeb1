package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/arriendo-app/api/internal/database"
	"github.com/arriendo-app/api/internal/models"
	"github.com/jackc/pgx/v5"
)

// PropertyRepository defines the interface for property and unit data access.
type PropertyRepository interface {
	// Create inserts a property together with its units in one transaction.
	Create(ctx context.Context, property *models.Property) error

	// ListByOwner returns all properties owned by the given landlord,
	// units included. Returns an empty slice if none are found.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Property, error)

	// FindByID finds a property by ID, units included.
	// Returns nil, nil if no property is found (not an error).
	FindByID(ctx context.Context, id string) (*models.Property, error)

	// FindUnit finds a single unit by ID.
	// Returns nil, nil if no unit is found (not an error).
	FindUnit(ctx context.Context, unitID string) (*models.Unit, error)
}

// propertyRepository is the concrete implementation of PropertyRepository.
type propertyRepository struct {
	db *database.Database
}

// NewPropertyRepository creates a new instance of PropertyRepository.
func NewPropertyRepository(db *database.Database) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	propertyQuery := `
		INSERT INTO properties (id, owner_id, name, type, address, city, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.Exec(ctx, propertyQuery,
		property.ID,
		property.OwnerID,
		property.Name,
		property.Type,
		property.Address,
		property.City,
		property.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert property %s: %w", property.Name, err)
	}

	unitQuery := `
		INSERT INTO units (id, property_id, unit_number, type, base_price, bedrooms, bathrooms, area_m2, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for i := range property.Units {
		unit := &property.Units[i]
		_, err = tx.Exec(ctx, unitQuery,
			unit.ID,
			property.ID,
			unit.UnitNumber,
			unit.Type,
			unit.BasePrice,
			unit.Bedrooms,
			unit.Bathrooms,
			unit.AreaM2,
			unit.Status,
			unit.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert unit %s: %w", unit.UnitNumber, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit property insert: %w", err)
	}

	return nil
}

func (r *propertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	query := `
		SELECT id, owner_id, name, type, address, city, created_at
		FROM properties
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Type, &p.Address, &p.City, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}

	for i := range properties {
		units, err := r.unitsByProperty(ctx, properties[i].ID)
		if err != nil {
			return nil, err
		}
		properties[i].Units = units
	}

	if properties == nil {
		properties = []models.Property{}
	}
	return properties, nil
}

func (r *propertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	query := `
		SELECT id, owner_id, name, type, address, city, created_at
		FROM properties
		WHERE id = $1
	`

	var p models.Property
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Type, &p.Address, &p.City, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property %s: %w", id, err)
	}

	units, err := r.unitsByProperty(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Units = units

	return &p, nil
}

func (r *propertyRepository) FindUnit(ctx context.Context, unitID string) (*models.Unit, error) {
	query := `
		SELECT id, property_id, unit_number, type, base_price, bedrooms, bathrooms, area_m2, status, created_at
		FROM units
		WHERE id = $1
	`

	var u models.Unit
	err := r.db.Pool.QueryRow(ctx, query, unitID).Scan(
		&u.ID, &u.PropertyID, &u.UnitNumber, &u.Type, &u.BasePrice,
		&u.Bedrooms, &u.Bathrooms, &u.AreaM2, &u.Status, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query unit %s: %w", unitID, err)
	}

	return &u, nil
}

func (r *propertyRepository) unitsByProperty(ctx context.Context, propertyID string) ([]models.Unit, error) {
	query := `
		SELECT id, property_id, unit_number, type, base_price, bedrooms, bathrooms, area_m2, status, created_at
		FROM units
		WHERE property_id = $1
		ORDER BY unit_number
	`

	rows, err := r.db.Pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query units for property %s: %w", propertyID, err)
	}
	defer rows.Close()

	var units []models.Unit
	for rows.Next() {
		var u models.Unit
		err := rows.Scan(
			&u.ID, &u.PropertyID, &u.UnitNumber, &u.Type, &u.BasePrice,
			&u.Bedrooms, &u.Bathrooms, &u.AreaM2, &u.Status, &u.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit row: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit rows: %w", err)
	}

	if units == nil {
		units = []models.Unit{}
	}
	return units, nil
}
