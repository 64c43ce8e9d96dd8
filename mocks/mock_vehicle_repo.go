package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"remitra/internal/domain"
)

// MockVehicleRepo is a mock implementation of port.VehicleRepository.
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) Create(ctx context.Context, v *domain.VehicleUnit) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VehicleUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleUnit), args.Error(1)
}

func (m *MockVehicleRepo) GetByPlate(ctx context.Context, plate string) (*domain.VehicleUnit, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleUnit), args.Error(1)
}

func (m *MockVehicleRepo) List(ctx context.Context) ([]domain.VehicleUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VehicleUnit), args.Error(1)
}

func (m *MockVehicleRepo) Update(ctx context.Context, v *domain.VehicleUnit) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
