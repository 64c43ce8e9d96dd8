package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"remitra/internal/domain"
)

// MockTariffRepo is a mock implementation of port.TariffRepository.
type MockTariffRepo struct {
	mock.Mock
}

func (m *MockTariffRepo) Create(ctx context.Context, t *domain.TariffEntry) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTariffRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TariffEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TariffEntry), args.Error(1)
}

func (m *MockTariffRepo) List(ctx context.Context) ([]domain.TariffEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TariffEntry), args.Error(1)
}

func (m *MockTariffRepo) Update(ctx context.Context, t *domain.TariffEntry) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTariffRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTariffRepo) DistinctValues(ctx context.Context, field string) ([]domain.CarrierNameCount, error) {
	args := m.Called(ctx, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarrierNameCount), args.Error(1)
}
