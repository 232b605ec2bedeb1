package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/arriendo-app/api/internal/database"
	"github.com/arriendo-app/api/internal/models"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const ticketTable = "tickets"

var ticketColumns = []string{
	"id",
	"property_id",
	"unit_id",
	"requester_id",
	"title",
	"description",
	"priority",
	"status",
	"created_at",
	"updated_at",
}

// TicketFilter narrows ticket listings. Zero-valued fields are ignored.
type TicketFilter struct {
	Status     models.TicketStatus
	Priority   models.TicketPriority
	PropertyID string
}

// TicketRepository defines the interface for maintenance ticket access.
type TicketRepository interface {
	// Create inserts a new ticket.
	Create(ctx context.Context, ticket *models.Ticket) error

	// FindByID finds a ticket by ID.
	// Returns nil, nil if no ticket is found (not an error).
	FindByID(ctx context.Context, id string) (*models.Ticket, error)

	// ListByRequester returns tickets created by the given user.
	ListByRequester(ctx context.Context, requesterID string, filter TicketFilter) ([]models.Ticket, error)

	// ListByOwner returns tickets across all properties owned by the given
	// landlord.
	ListByOwner(ctx context.Context, ownerID string, filter TicketFilter) ([]models.Ticket, error)

	// Transition moves a ticket from one status to another. Returns
	// ErrGuardFailed if the ticket is no longer in the expected status.
	Transition(ctx context.Context, id string, from, to models.TicketStatus) error
}

// ticketRepository is the concrete implementation of TicketRepository.
type ticketRepository struct {
	db *database.Database
}

// NewTicketRepository creates a new instance of TicketRepository.
func NewTicketRepository(db *database.Database) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	query, args, err := psql().
		Insert(ticketTable).
		Columns(ticketColumns...).
		Values(
			ticket.ID,
			ticket.PropertyID,
			ticket.UnitID,
			ticket.RequesterID,
			ticket.Title,
			ticket.Description,
			ticket.Priority,
			ticket.Status,
			ticket.CreatedAt,
			ticket.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build ticket insert: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert ticket %q: %w", ticket.Title, err)
	}
	return nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id string) (*models.Ticket, error) {
	query, args, err := psql().
		Select(ticketColumns...).
		From(ticketTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build ticket query: %w", err)
	}

	var ticket models.Ticket
	if err := pgxscan.Get(ctx, r.db.Pool, &ticket, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query ticket %s: %w", id, err)
	}
	return &ticket, nil
}

func (r *ticketRepository) ListByRequester(ctx context.Context, requesterID string, filter TicketFilter) ([]models.Ticket, error) {
	builder := psql().
		Select(ticketColumns...).
		From(ticketTable).
		Where(squirrel.Eq{"requester_id": requesterID})

	return r.list(ctx, applyTicketFilter(builder, filter, ""))
}

func (r *ticketRepository) ListByOwner(ctx context.Context, ownerID string, filter TicketFilter) ([]models.Ticket, error) {
	builder := psql().
		Select(prefixColumns("t", ticketColumns)...).
		From(ticketTable + " t").
		Join("properties p ON p.id = t.property_id").
		Where(squirrel.Eq{"p.owner_id": ownerID})

	return r.list(ctx, applyTicketFilter(builder, filter, "t."))
}

func (r *ticketRepository) Transition(ctx context.Context, id string, from, to models.TicketStatus) error {
	query, args, err := psql().
		Update(ticketTable).
		Set("status", to).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build ticket transition update: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to transition ticket %s to %s: %w", id, to, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGuardFailed
	}
	return nil
}

func (r *ticketRepository) list(ctx context.Context, builder squirrel.SelectBuilder) ([]models.Ticket, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build ticket list query: %w", err)
	}

	var tickets []models.Ticket
	if err := pgxscan.Select(ctx, r.db.Pool, &tickets, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}

	if tickets == nil {
		tickets = []models.Ticket{}
	}
	return tickets, nil
}

func applyTicketFilter(builder squirrel.SelectBuilder, filter TicketFilter, prefix string) squirrel.SelectBuilder {
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{prefix + "status": filter.Status})
	}
	if filter.Priority != "" {
		builder = builder.Where(squirrel.Eq{prefix + "priority": filter.Priority})
	}
	if filter.PropertyID != "" {
		builder = builder.Where(squirrel.Eq{prefix + "property_id": filter.PropertyID})
	}
	return builder.OrderBy(prefix + "created_at DESC")
}

func prefixColumns(alias string, columns []string) []string {
	prefixed := make([]string, 0, len(columns))
	for _, col := range columns {
		prefixed = append(prefixed, alias+"."+col)
	}
	return prefixed
}
