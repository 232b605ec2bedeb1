package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arriendo-app/api/internal/auth"
	"github.com/arriendo-app/api/internal/logger"
	"github.com/arriendo-app/api/internal/models"
	"github.com/arriendo-app/api/internal/repository"
	"github.com/google/uuid"
)

// CreateTicketInput carries the fields needed to file a maintenance ticket.
type CreateTicketInput struct {
	PropertyID  string
	UnitID      *string
	Title       string
	Description string
	Priority    models.TicketPriority
}

// TicketService defines the interface for the maintenance ticket queue.
type TicketService interface {
	// Create files a ticket. Landlords may file against their own
	// properties; tenants against properties whose landlord they have a
	// contract with.
	Create(ctx context.Context, sess auth.Session, input CreateTicketInput) (*models.Ticket, error)

	// ListMine returns tickets visible to the session: a landlord sees
	// tickets across owned properties, a tenant sees their own reports.
	ListMine(ctx context.Context, sess auth.Session, filter repository.TicketFilter) ([]models.Ticket, error)

	// UpdateStatus advances or cancels a ticket. Only the landlord owning
	// the property may change ticket status.
	UpdateStatus(ctx context.Context, sess auth.Session, ticketID string, target models.TicketStatus) (*models.Ticket, error)
}

// ticketService is the concrete implementation of TicketService.
type ticketService struct {
	tickets    repository.TicketRepository
	properties repository.PropertyRepository
	contracts  repository.ContractRepository
	log        *logger.Logger
}

// NewTicketService creates a new instance of TicketService.
func NewTicketService(
	tickets repository.TicketRepository,
	properties repository.PropertyRepository,
	contracts repository.ContractRepository,
	log *logger.Logger,
) TicketService {
	return &ticketService{
		tickets:    tickets,
		properties: properties,
		contracts:  contracts,
		log:        log,
	}
}

func (s *ticketService) Create(ctx context.Context, sess auth.Session, input CreateTicketInput) (*models.Ticket, error) {
	if !input.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, input.Priority)
	}

	property, err := s.properties.FindByID(ctx, input.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("%w: property does not exist", ErrNotFound)
	}

	if sess.IsLandlord() {
		if property.OwnerID != sess.UserID {
			return nil, fmt.Errorf("%w: property belongs to another landlord", ErrForbidden)
		}
	} else {
		related, err := s.contracts.HasContractBetween(ctx, property.OwnerID, sess.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check tenant association: %w", err)
		}
		if !related {
			return nil, fmt.Errorf("%w: no contract with this property's landlord", ErrForbidden)
		}
	}

	now := time.Now()
	ticket := &models.Ticket{
		ID:          uuid.New().String(),
		PropertyID:  input.PropertyID,
		UnitID:      input.UnitID,
		RequesterID: sess.UserID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      models.TicketPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.log.Error("Failed to create ticket", err, map[string]interface{}{
			"property_id": input.PropertyID,
			"requester":   sess.UserID,
		})
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	s.log.Info("Ticket created", map[string]interface{}{
		"ticket_id":   ticket.ID,
		"property_id": ticket.PropertyID,
		"priority":    ticket.Priority,
	})

	return ticket, nil
}

func (s *ticketService) ListMine(ctx context.Context, sess auth.Session, filter repository.TicketFilter) ([]models.Ticket, error) {
	var (
		tickets []models.Ticket
		err     error
	)
	if sess.IsLandlord() {
		tickets, err = s.tickets.ListByOwner(ctx, sess.UserID, filter)
	} else {
		tickets, err = s.tickets.ListByRequester(ctx, sess.UserID, filter)
	}
	if err != nil {
		s.log.Error("Failed to list tickets", err, map[string]interface{}{
			"user_id": sess.UserID,
		})
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

func (s *ticketService) UpdateStatus(ctx context.Context, sess auth.Session, ticketID string, target models.TicketStatus) (*models.Ticket, error) {
	if !sess.IsLandlord() {
		return nil, fmt.Errorf("%w: only landlords can update ticket status", ErrForbidden)
	}
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, target)
	}

	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		s.log.Error("Failed to query ticket", err, map[string]interface{}{
			"ticket_id": ticketID,
		})
		return nil, fmt.Errorf("failed to query ticket: %w", err)
	}
	if ticket == nil {
		return nil, ErrNotFound
	}

	property, err := s.properties.FindByID(ctx, ticket.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query property: %w", err)
	}
	if property == nil || property.OwnerID != sess.UserID {
		return nil, fmt.Errorf("%w: ticket belongs to another landlord's property", ErrForbidden)
	}

	if !ticket.Status.CanTransition(target) {
		return nil, fmt.Errorf("%w: cannot move a %s ticket to %s", ErrInvalidStateTransition, ticket.Status, target)
	}

	if err := s.tickets.Transition(ctx, ticket.ID, ticket.Status, target); err != nil {
		if errors.Is(err, repository.ErrGuardFailed) {
			return nil, fmt.Errorf("%w: ticket is no longer %s", ErrInvalidStateTransition, ticket.Status)
		}
		s.log.Error("Failed to transition ticket", err, map[string]interface{}{
			"ticket_id": ticket.ID,
			"to":        target,
		})
		return nil, fmt.Errorf("failed to transition ticket: %w", err)
	}

	s.log.Info("Ticket transitioned", map[string]interface{}{
		"ticket_id": ticket.ID,
		"from":      ticket.Status,
		"to":        target,
	})

	ticket.Status = target
	ticket.UpdatedAt = time.Now()
	return ticket, nil
}
