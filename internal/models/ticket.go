package models

import (
	"time"
)

// TicketPriority is the reporter-assigned urgency of a maintenance ticket.
// It does not affect queue ordering; the queue is first-come first-served.
type TicketPriority string

const (
	PriorityLow       TicketPriority = "low"
	PriorityMedium    TicketPriority = "medium"
	PriorityHigh      TicketPriority = "high"
	PriorityEmergency TicketPriority = "emergency"
)

// Valid reports whether the priority is one of the known priorities.
func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityEmergency:
		return true
	}
	return false
}

// TicketStatus is the workflow state of a maintenance ticket.
// pending -> in_progress -> resolved, with cancelled reachable from
// pending or in_progress. resolved and cancelled are terminal.
type TicketStatus string

const (
	TicketPending    TicketStatus = "pending"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketCancelled  TicketStatus = "cancelled"
)

// Valid reports whether the status is one of the known statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketPending, TicketInProgress, TicketResolved, TicketCancelled:
		return true
	}
	return false
}

var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketPending:    {TicketInProgress, TicketCancelled},
	TicketInProgress: {TicketResolved, TicketCancelled},
}

// CanTransition reports whether moving from s to target is allowed.
func (s TicketStatus) CanTransition(target TicketStatus) bool {
	for _, next := range ticketTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Ticket is a maintenance report tied to a property, optionally to a
// specific unit within it.
type Ticket struct {
	ID          string         `json:"id"`
	PropertyID  string         `json:"property_id"`
	UnitID      *string        `json:"unit_id,omitempty"`
	RequesterID string         `json:"requester_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    TicketPriority `json:"priority"`
	Status      TicketStatus   `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
