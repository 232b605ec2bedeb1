package repository

import (
	"errors"

	"github.com/Masterminds/squirrel"
)

// Repository-level sentinel errors. Services translate these into
// domain errors; repositories never return HTTP-shaped errors.
var (
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")

	// ErrGuardFailed is returned when a conditional update matched no rows,
	// meaning the guarded state changed underneath the caller.
	ErrGuardFailed = errors.New("conditional update matched no rows")
)

// psql returns a squirrel statement builder configured for PostgreSQL
// placeholder syntax.
func psql() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
