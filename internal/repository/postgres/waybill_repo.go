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

type waybillRepo struct {
	db *sqlx.DB
}

// NewWaybillRepo creates a new PostgreSQL-backed WaybillRepository.
func NewWaybillRepo(db *sqlx.DB) port.WaybillRepository {
	return &waybillRepo{db: db}
}

func (r *waybillRepo) Create(ctx context.Context, wb *domain.Waybill) error {
	now := time.Now().UTC()
	wb.CreatedAt = now
	wb.UpdatedAt = now

	query := `INSERT INTO waybills (
		id, file_key, original_name, status,
		code, issue_date, month, week,
		driver_name, plate, carrier_name,
		gross_weight, received_weight, sender_code,
		client, origin, destination, material,
		unit_price, currency, final_price,
		unit_cost, cost_currency, final_cost, margin,
		vehicle_id, plate_unregistered, tariff_missing, voided,
		uploaded_by, updated_by, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8,
		$9, $10, $11,
		$12, $13, $14,
		$15, $16, $17, $18,
		$19, $20, $21,
		$22, $23, $24, $25,
		$26, $27, $28, $29,
		$30, $31, $32, $33
	)`

	_, err := r.db.ExecContext(ctx, query,
		wb.ID, wb.FileKey, wb.OriginalName, wb.Status,
		wb.Code, wb.IssueDate, wb.Month, wb.Week,
		wb.DriverName, wb.Plate, wb.CarrierName,
		wb.GrossWeight, wb.ReceivedWeight, wb.SenderCode,
		wb.Client, wb.Origin, wb.Destination, wb.Material,
		wb.UnitPrice, wb.Currency, wb.FinalPrice,
		wb.UnitCost, wb.CostCurrency, wb.FinalCost, wb.Margin,
		wb.VehicleID, wb.PlateUnregistered, wb.TariffMissing, wb.Voided,
		wb.UploadedBy, wb.UpdatedBy, wb.CreatedAt, wb.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "code") {
			return domain.ErrDuplicateWaybill
		}
		return fmt.Errorf("waybillRepo.Create: %w", err)
	}
	return nil
}

func (r *waybillRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Waybill, error) {
	var wb domain.Waybill
	err := r.db.GetContext(ctx, &wb, "SELECT * FROM waybills WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("waybillRepo.GetByID: %w", err)
	}
	return &wb, nil
}

func (r *waybillRepo) GetByCode(ctx context.Context, code string) (*domain.Waybill, error) {
	var wb domain.Waybill
	err := r.db.GetContext(ctx, &wb, "SELECT * FROM waybills WHERE code = $1", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("waybillRepo.GetByCode: %w", err)
	}
	return &wb, nil
}

func (r *waybillRepo) List(ctx context.Context, filter domain.WaybillFilter) ([]domain.Waybill, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Client != "" {
		where = append(where, "client = "+arg(filter.Client))
	}
	if filter.Origin != "" {
		where = append(where, "origin = "+arg(filter.Origin))
	}
	if filter.Month != "" {
		where = append(where, "month = "+arg(filter.Month))
	}
	if filter.Status != "" {
		where = append(where, "status = "+arg(filter.Status))
	}
	if filter.Voided != nil {
		where = append(where, "voided = "+arg(*filter.Voided))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM waybills WHERE "+cond, args...); err != nil {
		return nil, 0, fmt.Errorf("waybillRepo.List count: %w", err)
	}

	limit := filter.PageSize
	if limit <= 0 {
		limit = 50
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	var list []domain.Waybill
	query := fmt.Sprintf(
		"SELECT * FROM waybills WHERE %s ORDER BY created_at DESC LIMIT %s OFFSET %s",
		cond, arg(limit), arg(offset))
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, 0, fmt.Errorf("waybillRepo.List: %w", err)
	}
	return list, total, nil
}

func (r *waybillRepo) Update(ctx context.Context, wb *domain.Waybill) error {
	wb.UpdatedAt = time.Now().UTC()

	query := `UPDATE waybills SET
		status = $1, code = $2, issue_date = $3, month = $4, week = $5,
		driver_name = $6, plate = $7, carrier_name = $8,
		gross_weight = $9, received_weight = $10, sender_code = $11,
		client = $12, origin = $13, destination = $14, material = $15,
		unit_price = $16, currency = $17, final_price = $18,
		unit_cost = $19, cost_currency = $20, final_cost = $21, margin = $22,
		vehicle_id = $23, plate_unregistered = $24, tariff_missing = $25,
		updated_by = $26, updated_at = $27
	WHERE id = $28`

	res, err := r.db.ExecContext(ctx, query,
		wb.Status, wb.Code, wb.IssueDate, wb.Month, wb.Week,
		wb.DriverName, wb.Plate, wb.CarrierName,
		wb.GrossWeight, wb.ReceivedWeight, wb.SenderCode,
		wb.Client, wb.Origin, wb.Destination, wb.Material,
		wb.UnitPrice, wb.Currency, wb.FinalPrice,
		wb.UnitCost, wb.CostCurrency, wb.FinalCost, wb.Margin,
		wb.VehicleID, wb.PlateUnregistered, wb.TariffMissing,
		wb.UpdatedBy, wb.UpdatedAt, wb.ID)
	if err != nil {
		return fmt.Errorf("waybillRepo.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *waybillRepo) SetVoided(ctx context.Context, id uuid.UUID, voided bool, updatedBy uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE waybills SET voided = $1, updated_by = $2, updated_at = $3 WHERE id = $4",
		voided, updatedBy, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("waybillRepo.SetVoided: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *waybillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM waybills WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("waybillRepo.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *waybillRepo) CarrierNameCounts(ctx context.Context) ([]domain.CarrierNameCount, error) {
	var counts []domain.CarrierNameCount
	err := r.db.SelectContext(ctx, &counts,
		`SELECT driver_name AS name, COUNT(*) AS count
		 FROM waybills
		 WHERE driver_name IS NOT NULL AND voided = FALSE
		 GROUP BY driver_name
		 ORDER BY count DESC`)
	if err != nil {
		return nil, fmt.Errorf("waybillRepo.CarrierNameCounts: %w", err)
	}
	return counts, nil
}

func (r *waybillRepo) PlateCounts(ctx context.Context) ([]domain.PlateCount, error) {
	var counts []domain.PlateCount
	err := r.db.SelectContext(ctx, &counts,
		`SELECT plate, COUNT(*) AS count
		 FROM waybills
		 WHERE plate IS NOT NULL AND voided = FALSE
		 GROUP BY plate
		 ORDER BY count DESC`)
	if err != nil {
		return nil, fmt.Errorf("waybillRepo.PlateCounts: %w", err)
	}
	return counts, nil
}

func (r *waybillRepo) ListUnregisteredByPlate(ctx context.Context, plate string) ([]domain.Waybill, error) {
	var list []domain.Waybill
	err := r.db.SelectContext(ctx, &list,
		`SELECT * FROM waybills
		 WHERE plate_unregistered = TRUE AND plate = $1
		 ORDER BY created_at`, plate)
	if err != nil {
		return nil, fmt.Errorf("waybillRepo.ListUnregisteredByPlate: %w", err)
	}
	return list, nil
}

var renameableFields = map[string]bool{
	"client":      true,
	"origin":      true,
	"destination": true,
	"material":    true,
}

func (r *waybillRepo) RenameTariffDimension(ctx context.Context, field, from, to string) (int64, error) {
	if !renameableFields[field] {
		return 0, fmt.Errorf("waybillRepo.RenameTariffDimension: unknown field %q", field)
	}
	// field is validated against a fixed set, safe to interpolate
	query := fmt.Sprintf("UPDATE waybills SET %s = $1, updated_at = $2 WHERE %s = $3", field, field)
	res, err := r.db.ExecContext(ctx, query, to, time.Now().UTC(), from)
	if err != nil {
		return 0, fmt.Errorf("waybillRepo.RenameTariffDimension: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
