package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"remitra/internal/domain"
	"remitra/internal/port"
)

type vehicleRepo struct {
	db *sqlx.DB
}

// NewVehicleRepo creates a new PostgreSQL-backed VehicleRepository.
func NewVehicleRepo(db *sqlx.DB) port.VehicleRepository {
	return &vehicleRepo{db: db}
}

func (r *vehicleRepo) Create(ctx context.Context, v *domain.VehicleUnit) error {
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicles (id, plate, carrier_name, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		v.ID, v.Plate, v.CarrierName, v.Status, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicatePlate
		}
		return fmt.Errorf("vehicleRepo.Create: %w", err)
	}
	return nil
}

func (r *vehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VehicleUnit, error) {
	var v domain.VehicleUnit
	err := r.db.GetContext(ctx, &v, "SELECT * FROM vehicles WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("vehicleRepo.GetByID: %w", err)
	}
	return &v, nil
}

func (r *vehicleRepo) GetByPlate(ctx context.Context, plate string) (*domain.VehicleUnit, error) {
	var v domain.VehicleUnit
	err := r.db.GetContext(ctx, &v, "SELECT * FROM vehicles WHERE plate = $1", plate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("vehicleRepo.GetByPlate: %w", err)
	}
	return &v, nil
}

func (r *vehicleRepo) List(ctx context.Context) ([]domain.VehicleUnit, error) {
	var list []domain.VehicleUnit
	err := r.db.SelectContext(ctx, &list, "SELECT * FROM vehicles ORDER BY plate")
	if err != nil {
		return nil, fmt.Errorf("vehicleRepo.List: %w", err)
	}
	return list, nil
}

func (r *vehicleRepo) Update(ctx context.Context, v *domain.VehicleUnit) error {
	v.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET plate = $1, carrier_name = $2, status = $3, updated_at = $4
		 WHERE id = $5`,
		v.Plate, v.CarrierName, v.Status, v.UpdatedAt, v.ID)
	if err != nil {
		return fmt.Errorf("vehicleRepo.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *vehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM vehicles WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("vehicleRepo.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
