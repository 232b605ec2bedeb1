package services

import (
	"context"
	"errors"
	"testing"

	"github.com/arriendo-app/api/internal/logger"
	"github.com/arriendo-app/api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDashboardService(stats *MockStatsRepository) DashboardService {
	return NewDashboardService(stats, logger.New("test"))
}

func TestDashboardStats_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockStatsRepository)
	service := newDashboardService(mockRepo)

	mockRepo.On("ForLandlord", mock.Anything, testLandlordID).Return(&repository.DashboardStats{
		Properties:      3,
		Units:           12,
		OccupiedUnits:   9,
		ActiveContracts: 9,
		PendingTickets:  2,
		CollectedTotal:  4350000,
	}, nil)

	// Act
	stats, err := service.Stats(context.Background(), landlordSession())

	// Assert
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 12, stats.Units)
	assert.Equal(t, 9, stats.OccupiedUnits)
	assert.InDelta(t, 4350000, stats.CollectedTotal, 0.001)
	mockRepo.AssertExpectations(t)
}

func TestDashboardStats_TenantForbidden(t *testing.T) {
	// Arrange
	mockRepo := new(MockStatsRepository)
	service := newDashboardService(mockRepo)

	// Act
	stats, err := service.Stats(context.Background(), tenantSession())

	// Assert
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, stats)
	mockRepo.AssertNotCalled(t, "ForLandlord")
}

func TestDashboardStats_RepositoryError(t *testing.T) {
	// Arrange
	mockRepo := new(MockStatsRepository)
	service := newDashboardService(mockRepo)

	mockRepo.On("ForLandlord", mock.Anything, testLandlordID).Return(nil, errors.New("query timeout"))

	// Act
	stats, err := service.Stats(context.Background(), landlordSession())

	// Assert
	assert.Error(t, err)
	assert.Nil(t, stats)
}
