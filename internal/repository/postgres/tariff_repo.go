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

type tariffRepo struct {
	db *sqlx.DB
}

// NewTariffRepo creates a new PostgreSQL-backed TariffRepository.
func NewTariffRepo(db *sqlx.DB) port.TariffRepository {
	return &tariffRepo{db: db}
}

func (r *tariffRepo) Create(ctx context.Context, t *domain.TariffEntry) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	query := `INSERT INTO tariffs (
		id, client, origin, destination, material,
		sell_unit_price, sell_unit_price_igv, sell_currency,
		cost_unit_price, cost_unit_price_igv, cost_currency,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Client, t.Origin, t.Destination, t.Material,
		t.SellUnitPrice, t.SellUnitPriceIGV, t.SellCurrency,
		t.CostUnitPrice, t.CostUnitPriceIGV, t.CostCurrency,
		t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateTariff
		}
		return fmt.Errorf("tariffRepo.Create: %w", err)
	}
	return nil
}

func (r *tariffRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TariffEntry, error) {
	var t domain.TariffEntry
	err := r.db.GetContext(ctx, &t, "SELECT * FROM tariffs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("tariffRepo.GetByID: %w", err)
	}
	return &t, nil
}

func (r *tariffRepo) List(ctx context.Context) ([]domain.TariffEntry, error) {
	var list []domain.TariffEntry
	err := r.db.SelectContext(ctx, &list,
		"SELECT * FROM tariffs ORDER BY client, origin, destination")
	if err != nil {
		return nil, fmt.Errorf("tariffRepo.List: %w", err)
	}
	return list, nil
}

func (r *tariffRepo) Update(ctx context.Context, t *domain.TariffEntry) error {
	t.UpdatedAt = time.Now().UTC()

	query := `UPDATE tariffs SET
		client = $1, origin = $2, destination = $3, material = $4,
		sell_unit_price = $5, sell_unit_price_igv = $6, sell_currency = $7,
		cost_unit_price = $8, cost_unit_price_igv = $9, cost_currency = $10,
		updated_at = $11
	WHERE id = $12`

	res, err := r.db.ExecContext(ctx, query,
		t.Client, t.Origin, t.Destination, t.Material,
		t.SellUnitPrice, t.SellUnitPriceIGV, t.SellCurrency,
		t.CostUnitPrice, t.CostUnitPriceIGV, t.CostCurrency,
		t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("tariffRepo.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *tariffRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tariffs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("tariffRepo.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *tariffRepo) DistinctValues(ctx context.Context, field string) ([]domain.CarrierNameCount, error) {
	if !renameableFields[field] {
		return nil, fmt.Errorf("tariffRepo.DistinctValues: unknown field %q", field)
	}
	var values []domain.CarrierNameCount
	query := fmt.Sprintf(
		`SELECT %s AS name, COUNT(*) AS count FROM tariffs
		 WHERE %s <> '' GROUP BY %s ORDER BY count DESC`, field, field, field)
	if err := r.db.SelectContext(ctx, &values, query); err != nil {
		return nil, fmt.Errorf("tariffRepo.DistinctValues: %w", err)
	}
	return values, nil
}
