package services

import (
	"context"
	"fmt"
	"time"

	"github.com/arriendo-app/api/internal/auth"
	"github.com/arriendo-app/api/internal/logger"
	"github.com/arriendo-app/api/internal/models"
	"github.com/arriendo-app/api/internal/repository"
	"github.com/google/uuid"
)

// CreateUnitInput describes one unit inside a property creation request.
type CreateUnitInput struct {
	UnitNumber string
	Type       string
	BasePrice  float64
	Bedrooms   *int
	Bathrooms  *float64
	AreaM2     *float64
}

// CreatePropertyInput carries the fields needed to create a property with
// its units.
type CreatePropertyInput struct {
	Name    string
	Type    models.PropertyType
	Address string
	City    string
	Units   []CreateUnitInput
}

// PropertyService defines the interface for property business logic.
type PropertyService interface {
	// Create creates a property with its units for the landlord session.
	Create(ctx context.Context, sess auth.Session, input CreatePropertyInput) (*models.Property, error)

	// ListMine returns the session landlord's properties with units.
	ListMine(ctx context.Context, sess auth.Session) ([]models.Property, error)

	// Get returns one property. Only the owner may view it.
	Get(ctx context.Context, sess auth.Session, id string) (*models.Property, error)
}

// propertyService is the concrete implementation of PropertyService.
type propertyService struct {
	properties repository.PropertyRepository
	log        *logger.Logger
}

// NewPropertyService creates a new instance of PropertyService.
func NewPropertyService(properties repository.PropertyRepository, log *logger.Logger) PropertyService {
	return &propertyService{
		properties: properties,
		log:        log,
	}
}

func (s *propertyService) Create(ctx context.Context, sess auth.Session, input CreatePropertyInput) (*models.Property, error) {
	if !sess.IsLandlord() {
		return nil, fmt.Errorf("%w: only landlords can create properties", ErrForbidden)
	}
	if len(input.Units) == 0 {
		return nil, fmt.Errorf("%w: a property needs at least one unit", ErrInvalidInput)
	}
	if input.Type != models.PropertyHouse && input.Type != models.PropertyBuilding {
		return nil, fmt.Errorf("%w: type must be house or building", ErrInvalidInput)
	}

	now := time.Now()
	property := &models.Property{
		ID:        uuid.New().String(),
		OwnerID:   sess.UserID,
		Name:      input.Name,
		Type:      input.Type,
		Address:   input.Address,
		City:      input.City,
		CreatedAt: now,
	}

	for _, u := range input.Units {
		property.Units = append(property.Units, models.Unit{
			ID:         uuid.New().String(),
			PropertyID: property.ID,
			UnitNumber: u.UnitNumber,
			Type:       u.Type,
			BasePrice:  u.BasePrice,
			Bedrooms:   u.Bedrooms,
			Bathrooms:  u.Bathrooms,
			AreaM2:     u.AreaM2,
			Status:     models.UnitAvailable,
			CreatedAt:  now,
		})
	}

	if err := s.properties.Create(ctx, property); err != nil {
		s.log.Error("Failed to create property", err, map[string]interface{}{
			"owner_id": sess.UserID,
			"name":     input.Name,
		})
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	s.log.Info("Property created", map[string]interface{}{
		"property_id": property.ID,
		"owner_id":    sess.UserID,
		"units":       len(property.Units),
	})

	return property, nil
}

func (s *propertyService) ListMine(ctx context.Context, sess auth.Session) ([]models.Property, error) {
	properties, err := s.properties.ListByOwner(ctx, sess.UserID)
	if err != nil {
		s.log.Error("Failed to list properties", err, map[string]interface{}{
			"owner_id": sess.UserID,
		})
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func (s *propertyService) Get(ctx context.Context, sess auth.Session, id string) (*models.Property, error) {
	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to query property", err, map[string]interface{}{
			"property_id": id,
		})
		return nil, fmt.Errorf("failed to query property: %w", err)
	}
	if property == nil {
		return nil, ErrNotFound
	}
	if property.OwnerID != sess.UserID {
		return nil, fmt.Errorf("%w: property belongs to another landlord", ErrForbidden)
	}
	return property, nil
}
