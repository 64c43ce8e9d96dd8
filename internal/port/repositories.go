package port

import (
	"context"

	"github.com/google/uuid"

	"remitra/internal/domain"
)

// WaybillRepository defines the contract for waybill persistence.
type WaybillRepository interface {
	Create(ctx context.Context, wb *domain.Waybill) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Waybill, error)
	GetByCode(ctx context.Context, code string) (*domain.Waybill, error)
	List(ctx context.Context, filter domain.WaybillFilter) ([]domain.Waybill, int, error)
	Update(ctx context.Context, wb *domain.Waybill) error
	SetVoided(ctx context.Context, id uuid.UUID, voided bool, updatedBy uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	// CarrierNameCounts returns historical driver names ranked by frequency.
	CarrierNameCounts(ctx context.Context) ([]domain.CarrierNameCount, error)
	// PlateCounts returns historical plates ranked by frequency.
	PlateCounts(ctx context.Context) ([]domain.PlateCount, error)
	// ListUnregisteredByPlate returns completed waybills flagged with an
	// unregistered plate matching the given plate.
	ListUnregisteredByPlate(ctx context.Context, plate string) ([]domain.Waybill, error)
	// RenameTariffDimension propagates a catalog rename onto waybills.
	// field is one of client, origin, destination, material.
	RenameTariffDimension(ctx context.Context, field, from, to string) (int64, error)
}

// TariffRepository defines the contract for tariff catalog persistence.
type TariffRepository interface {
	Create(ctx context.Context, t *domain.TariffEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TariffEntry, error)
	List(ctx context.Context) ([]domain.TariffEntry, error)
	Update(ctx context.Context, t *domain.TariffEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DistinctValues returns the unique values of one dimension with row
	// counts. field is one of client, origin, destination, material.
	DistinctValues(ctx context.Context, field string) ([]domain.CarrierNameCount, error)
}

// VehicleRepository defines the contract for registered unit persistence.
type VehicleRepository interface {
	Create(ctx context.Context, v *domain.VehicleUnit) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VehicleUnit, error)
	GetByPlate(ctx context.Context, plate string) (*domain.VehicleUnit, error)
	List(ctx context.Context) ([]domain.VehicleUnit, error)
	Update(ctx context.Context, v *domain.VehicleUnit) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}
