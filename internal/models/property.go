package models

import (
	"time"
)

// PropertyType distinguishes a single-unit house from a multi-unit building.
type PropertyType string

const (
	PropertyHouse    PropertyType = "house"
	PropertyBuilding PropertyType = "building"
)

// UnitStatus tracks occupancy. A unit is occupied if and only if an
// active contract currently references it.
type UnitStatus string

const (
	UnitAvailable UnitStatus = "available"
	UnitOccupied  UnitStatus = "occupied"
)

// Property represents a rentable property owned by a landlord.
type Property struct {
	ID        string       `json:"id"`
	OwnerID   string       `json:"owner_id"`
	Name      string       `json:"name"`
	Type      PropertyType `json:"type"`
	Address   string       `json:"address"`
	City      string       `json:"city"`
	Units     []Unit       `json:"units,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Unit is a rentable space within a property.
// Nullable measurements use pointers to distinguish zero values from NULL.
type Unit struct {
	ID         string     `json:"id"`
	PropertyID string     `json:"property_id"`
	UnitNumber string     `json:"unit_number"`
	Type       string     `json:"type"`
	BasePrice  float64    `json:"base_price"`
	Bedrooms   *int       `json:"bedrooms,omitempty"`
	Bathrooms  *float64   `json:"bathrooms,omitempty"`
	AreaM2     *float64   `json:"area_m2,omitempty"`
	Status     UnitStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}
