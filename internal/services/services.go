package services

import (
	"errors"
)

// Sentinel errors shared across services. Handlers map these onto the
// HTTP error taxonomy with errors.Is.
var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the session's role or ownership does
	// not permit the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned for malformed input that passed binding
	// but failed a business-level validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStateTransition is returned when a lifecycle transition is
	// not permitted from the entity's current state, including repeated
	// submissions of an already-applied transition.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrPreconditionFailed is returned when a transition guard is unmet,
	// such as signing without a verified identity document.
	ErrPreconditionFailed = errors.New("precondition failed")
)
