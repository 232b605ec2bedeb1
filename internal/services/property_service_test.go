package services

import (
	"context"
	"errors"
	"testing"

	"github.com/arriendo-app/api/internal/logger"
	"github.com/arriendo-app/api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPropertyService(properties *MockPropertyRepository) PropertyService {
	return NewPropertyService(properties, logger.New("test"))
}

func TestPropertyCreate_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockPropertyRepository)
	service := newPropertyService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Property")).Return(nil)

	bedrooms := 2
	input := CreatePropertyInput{
		Name:    "Edificio Central",
		Type:    models.PropertyBuilding,
		Address: "Av. Providencia 1234",
		City:    "Santiago",
		Units: []CreateUnitInput{
			{UnitNumber: "101", Type: "apartment", BasePrice: 450000, Bedrooms: &bedrooms},
			{UnitNumber: "102", Type: "apartment", BasePrice: 480000},
		},
	}

	// Act
	property, err := service.Create(context.Background(), landlordSession(), input)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, property)
	assert.NotEmpty(t, property.ID)
	assert.Equal(t, testLandlordID, property.OwnerID)
	require.Len(t, property.Units, 2)
	assert.Equal(t, property.ID, property.Units[0].PropertyID)
	assert.Equal(t, models.UnitAvailable, property.Units[0].Status)
	assert.Equal(t, models.UnitAvailable, property.Units[1].Status)
	mockRepo.AssertExpectations(t)
}

func TestPropertyCreate_TenantForbidden(t *testing.T) {
	// Arrange
	mockRepo := new(MockPropertyRepository)
	service := newPropertyService(mockRepo)

	input := CreatePropertyInput{
		Name:    "Casa Nunoa",
		Type:    models.PropertyHouse,
		Address: "Calle Irarrazaval 55",
		City:    "Santiago",
		Units:   []CreateUnitInput{{UnitNumber: "1", Type: "house", BasePrice: 600000}},
	}

	// Act
	property, err := service.Create(context.Background(), tenantSession(), input)

	// Assert
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, property)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestPropertyCreate_NoUnits(t *testing.T) {
	// Arrange
	mockRepo := new(MockPropertyRepository)
	service := newPropertyService(mockRepo)

	input := CreatePropertyInput{
		Name:    "Casa Vacia",
		Type:    models.PropertyHouse,
		Address: "Calle Falsa 123",
		City:    "Valparaiso",
	}

	// Act
	property, err := service.Create(context.Background(), landlordSession(), input)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, property)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestPropertyCreate_UnknownType(t *testing.T) {
	// Arrange
	mockRepo := new(MockPropertyRepository)
	service := newPropertyService(mockRepo)

	input := CreatePropertyInput{
		Name:    "Bodega",
		Type:    models.PropertyType("warehouse"),
		Address: "Camino Industrial 9",
		City:    "Santiago",
		Units:   []CreateUnitInput{{UnitNumber: "1", Type: "storage", BasePrice: 200000}},
	}

	// Act
	property, err := service.Create(context.Background(), landlordSession(), input)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, property)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestPropertyGet_OwnerOnly(t *testing.T) {
	// Arrange
	mockRepo := new(MockPropertyRepository)
	service := newPropertyService(mockRepo)

	mockRepo.On("FindByID", mock.Anything, testPropertyID).Return(&models.Property{
		ID:      testPropertyID,
		OwnerID: "someone-else",
	}, nil)

	// Act
	property, err := service.Get(context.Background(), landlordSession(), testPropertyID)

	// Assert
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, property)
}

func TestPropertyGet_NotFound(t *testing.T) {
	// Arrange
	mockRepo := new(MockPropertyRepository)
	service := newPropertyService(mockRepo)

	mockRepo.On("FindByID", mock.Anything, testPropertyID).Return(nil, nil)

	// Act
	property, err := service.Get(context.Background(), landlordSession(), testPropertyID)

	// Assert
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, property)
}

func TestPropertyListMine(t *testing.T) {
	// Arrange
	mockRepo := new(MockPropertyRepository)
	service := newPropertyService(mockRepo)

	mockRepo.On("ListByOwner", mock.Anything, testLandlordID).Return([]models.Property{
		{ID: testPropertyID, OwnerID: testLandlordID, Name: "Edificio Central"},
	}, nil)

	// Act
	properties, err := service.ListMine(context.Background(), landlordSession())

	// Assert
	require.NoError(t, err)
	require.Len(t, properties, 1)
	assert.Equal(t, testPropertyID, properties[0].ID)
	mockRepo.AssertExpectations(t)
}

func TestPropertyListMine_RepositoryError(t *testing.T) {
	// Arrange
	mockRepo := new(MockPropertyRepository)
	service := newPropertyService(mockRepo)

	mockRepo.On("ListByOwner", mock.Anything, testLandlordID).Return(nil, errors.New("connection lost"))

	// Act
	properties, err := service.ListMine(context.Background(), landlordSession())

	// Assert
	assert.Error(t, err)
	assert.Nil(t, properties)
}
