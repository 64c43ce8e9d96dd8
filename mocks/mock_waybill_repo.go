package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"remitra/internal/domain"
)

// MockWaybillRepo is a mock implementation of port.WaybillRepository.
type MockWaybillRepo struct {
	mock.Mock
}

func (m *MockWaybillRepo) Create(ctx context.Context, wb *domain.Waybill) error {
	args := m.Called(ctx, wb)
	return args.Error(0)
}

func (m *MockWaybillRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Waybill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Waybill), args.Error(1)
}

func (m *MockWaybillRepo) GetByCode(ctx context.Context, code string) (*domain.Waybill, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Waybill), args.Error(1)
}

func (m *MockWaybillRepo) List(ctx context.Context, filter domain.WaybillFilter) ([]domain.Waybill, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Waybill), args.Int(1), args.Error(2)
}

func (m *MockWaybillRepo) Update(ctx context.Context, wb *domain.Waybill) error {
	args := m.Called(ctx, wb)
	return args.Error(0)
}

func (m *MockWaybillRepo) SetVoided(ctx context.Context, id uuid.UUID, voided bool, updatedBy uuid.UUID) error {
	args := m.Called(ctx, id, voided, updatedBy)
	return args.Error(0)
}

func (m *MockWaybillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWaybillRepo) CarrierNameCounts(ctx context.Context) ([]domain.CarrierNameCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarrierNameCount), args.Error(1)
}

func (m *MockWaybillRepo) PlateCounts(ctx context.Context) ([]domain.PlateCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PlateCount), args.Error(1)
}

func (m *MockWaybillRepo) ListUnregisteredByPlate(ctx context.Context, plate string) ([]domain.Waybill, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Waybill), args.Error(1)
}

func (m *MockWaybillRepo) RenameTariffDimension(ctx context.Context, field, from, to string) (int64, error) {
	args := m.Called(ctx, field, from, to)
	return args.Get(0).(int64), args.Error(1)
}
