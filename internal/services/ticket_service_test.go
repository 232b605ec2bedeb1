package services

import (
	"context"
	"testing"
	"time"

	"github.com/arriendo-app/api/internal/logger"
	"github.com/arriendo-app/api/internal/models"
	"github.com/arriendo-app/api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testTicketID = "1e3c5a7b-9d1f-4b2e-8a4c-6f8a0b2d4e6f"

func newTicketService() (*MockTicketRepository, *MockPropertyRepository, *MockContractRepository, TicketService) {
	tickets := new(MockTicketRepository)
	properties := new(MockPropertyRepository)
	contracts := new(MockContractRepository)
	service := NewTicketService(tickets, properties, contracts, logger.New("test"))
	return tickets, properties, contracts, service
}

func pendingTicket() *models.Ticket {
	return &models.Ticket{
		ID:          testTicketID,
		PropertyID:  testPropertyID,
		RequesterID: testTenantID,
		Title:       "Leaking faucet",
		Description: "The kitchen faucet drips constantly",
		Priority:    models.PriorityMedium,
		Status:      models.TicketPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func TestCreateTicket_LandlordOwnProperty(t *testing.T) {
	// Arrange
	tickets, properties, _, service := newTicketService()
	ctx := context.Background()

	properties.On("FindByID", ctx, testPropertyID).Return(&models.Property{
		ID:      testPropertyID,
		OwnerID: testLandlordID,
	}, nil)
	tickets.On("Create", ctx, mock.AnythingOfType("*models.Ticket")).Return(nil)

	// Act
	ticket, err := service.Create(ctx, landlordSession(), CreateTicketInput{
		PropertyID:  testPropertyID,
		Title:       "Broken gate",
		Description: "The entrance gate does not close",
		Priority:    models.PriorityHigh,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.TicketPending, ticket.Status)
	assert.Equal(t, testLandlordID, ticket.RequesterID)
	tickets.AssertExpectations(t)
}

func TestCreateTicket_LandlordOtherProperty(t *testing.T) {
	// Arrange
	tickets, properties, _, service := newTicketService()
	ctx := context.Background()

	properties.On("FindByID", ctx, testPropertyID).Return(&models.Property{
		ID:      testPropertyID,
		OwnerID: "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d",
	}, nil)

	// Act
	ticket, err := service.Create(ctx, landlordSession(), CreateTicketInput{
		PropertyID:  testPropertyID,
		Title:       "Broken gate",
		Description: "The entrance gate does not close",
		Priority:    models.PriorityHigh,
	})

	// Assert
	assert.Nil(t, ticket)
	assert.ErrorIs(t, err, ErrForbidden)
	tickets.AssertNotCalled(t, "Create")
}

func TestCreateTicket_TenantWithContract(t *testing.T) {
	// Arrange
	tickets, properties, contracts, service := newTicketService()
	ctx := context.Background()

	properties.On("FindByID", ctx, testPropertyID).Return(&models.Property{
		ID:      testPropertyID,
		OwnerID: testLandlordID,
	}, nil)
	contracts.On("HasContractBetween", ctx, testLandlordID, testTenantID).Return(true, nil)
	tickets.On("Create", ctx, mock.AnythingOfType("*models.Ticket")).Return(nil)

	// Act
	ticket, err := service.Create(ctx, tenantSession(), CreateTicketInput{
		PropertyID:  testPropertyID,
		Title:       "Leaking faucet",
		Description: "The kitchen faucet drips constantly",
		Priority:    models.PriorityMedium,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, testTenantID, ticket.RequesterID)
	tickets.AssertExpectations(t)
}

func TestCreateTicket_TenantWithoutContract(t *testing.T) {
	// Arrange
	tickets, properties, contracts, service := newTicketService()
	ctx := context.Background()

	properties.On("FindByID", ctx, testPropertyID).Return(&models.Property{
		ID:      testPropertyID,
		OwnerID: testLandlordID,
	}, nil)
	contracts.On("HasContractBetween", ctx, testLandlordID, testTenantID).Return(false, nil)

	// Act
	ticket, err := service.Create(ctx, tenantSession(), CreateTicketInput{
		PropertyID:  testPropertyID,
		Title:       "Leaking faucet",
		Description: "The kitchen faucet drips constantly",
		Priority:    models.PriorityMedium,
	})

	// Assert
	assert.Nil(t, ticket)
	assert.ErrorIs(t, err, ErrForbidden)
	tickets.AssertNotCalled(t, "Create")
}

func TestCreateTicket_UnknownPriority(t *testing.T) {
	// Arrange
	_, properties, _, service := newTicketService()

	// Act
	ticket, err := service.Create(context.Background(), tenantSession(), CreateTicketInput{
		PropertyID: testPropertyID,
		Priority:   models.TicketPriority("critical"),
	})

	// Assert
	assert.Nil(t, ticket)
	assert.ErrorIs(t, err, ErrInvalidInput)
	properties.AssertNotCalled(t, "FindByID")
}

func TestUpdateTicketStatus_Success(t *testing.T) {
	// Arrange
	tickets, properties, _, service := newTicketService()
	ctx := context.Background()

	tickets.On("FindByID", ctx, testTicketID).Return(pendingTicket(), nil)
	properties.On("FindByID", ctx, testPropertyID).Return(&models.Property{
		ID:      testPropertyID,
		OwnerID: testLandlordID,
	}, nil)
	tickets.On("Transition", ctx, testTicketID, models.TicketPending, models.TicketInProgress).Return(nil)

	// Act
	ticket, err := service.UpdateStatus(ctx, landlordSession(), testTicketID, models.TicketInProgress)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.TicketInProgress, ticket.Status)
	tickets.AssertExpectations(t)
}

func TestUpdateTicketStatus_TenantForbidden(t *testing.T) {
	// Arrange
	tickets, _, _, service := newTicketService()

	// Act
	ticket, err := service.UpdateStatus(context.Background(), tenantSession(), testTicketID, models.TicketInProgress)

	// Assert
	assert.Nil(t, ticket)
	assert.ErrorIs(t, err, ErrForbidden)
	tickets.AssertNotCalled(t, "FindByID")
}

func TestUpdateTicketStatus_IllegalTransition(t *testing.T) {
	// Arrange
	tickets, properties, _, service := newTicketService()
	ctx := context.Background()

	// pending -> resolved skips in_progress
	tickets.On("FindByID", ctx, testTicketID).Return(pendingTicket(), nil)
	properties.On("FindByID", ctx, testPropertyID).Return(&models.Property{
		ID:      testPropertyID,
		OwnerID: testLandlordID,
	}, nil)

	// Act
	ticket, err := service.UpdateStatus(ctx, landlordSession(), testTicketID, models.TicketResolved)

	// Assert
	assert.Nil(t, ticket)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	tickets.AssertNotCalled(t, "Transition")
}

func TestUpdateTicketStatus_TerminalStates(t *testing.T) {
	for _, status := range []models.TicketStatus{models.TicketResolved, models.TicketCancelled} {
		t.Run(string(status), func(t *testing.T) {
			// Arrange
			tickets, properties, _, service := newTicketService()
			ctx := context.Background()

			done := pendingTicket()
			done.Status = status
			tickets.On("FindByID", ctx, testTicketID).Return(done, nil)
			properties.On("FindByID", ctx, testPropertyID).Return(&models.Property{
				ID:      testPropertyID,
				OwnerID: testLandlordID,
			}, nil)

			// Act
			ticket, err := service.UpdateStatus(ctx, landlordSession(), testTicketID, models.TicketInProgress)

			// Assert
			assert.Nil(t, ticket)
			assert.ErrorIs(t, err, ErrInvalidStateTransition)
		})
	}
}

func TestUpdateTicketStatus_GuardFailure(t *testing.T) {
	// Arrange
	tickets, properties, _, service := newTicketService()
	ctx := context.Background()

	tickets.On("FindByID", ctx, testTicketID).Return(pendingTicket(), nil)
	properties.On("FindByID", ctx, testPropertyID).Return(&models.Property{
		ID:      testPropertyID,
		OwnerID: testLandlordID,
	}, nil)
	tickets.On("Transition", ctx, testTicketID, models.TicketPending, models.TicketCancelled).
		Return(repository.ErrGuardFailed)

	// Act
	ticket, err := service.UpdateStatus(ctx, landlordSession(), testTicketID, models.TicketCancelled)

	// Assert
	assert.Nil(t, ticket)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestListMineTickets_RoutesByRole(t *testing.T) {
	// Arrange
	tickets, _, _, service := newTicketService()
	ctx := context.Background()
	filter := repository.TicketFilter{Status: models.TicketPending}

	tickets.On("ListByOwner", ctx, testLandlordID, filter).Return([]models.Ticket{*pendingTicket()}, nil)
	tickets.On("ListByRequester", ctx, testTenantID, filter).Return([]models.Ticket{}, nil)

	// Act
	asLandlord, err1 := service.ListMine(ctx, landlordSession(), filter)
	asTenant, err2 := service.ListMine(ctx, tenantSession(), filter)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Len(t, asLandlord, 1)
	assert.Empty(t, asTenant)
	tickets.AssertExpectations(t)
}
