package models

import (
	"time"
)

// Role identifies what a user is allowed to do. The role gates which
// actions the API permits, and every ownership check re-validates it
// server-side.
type Role string

const (
	RoleLandlord Role = "landlord"
	RoleTenant   Role = "tenant"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleLandlord || r == RoleTenant
}

// User represents a registered account, either a landlord or a tenant.
// PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	PhoneNumber  *string   `json:"phone_number,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
