package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"remitra/internal/domain"
	"remitra/internal/port"
)

// igvRate is the Peruvian sales tax applied to the taxed price columns.
const igvRate = 0.18

// TariffInput is the DTO for creating or updating a tariff entry. Prices
// are per tonne without IGV; the taxed columns are derived.
type TariffInput struct {
	Client        string   `json:"client" binding:"required"`
	Origin        string   `json:"origin" binding:"required"`
	Destination   string   `json:"destination" binding:"required"`
	Material      string   `json:"material"`
	SellUnitPrice *float64 `json:"sell_unit_price"`
	SellCurrency  string   `json:"sell_currency"`
	CostUnitPrice *float64 `json:"cost_unit_price"`
	CostCurrency  string   `json:"cost_currency"`
}

// TariffService manages the tariff catalog. Renaming a dimension value
// propagates onto the waybills that reference it, keeping the cascade's
// exact-match lookups consistent.
type TariffService interface {
	Create(ctx context.Context, input TariffInput) (*domain.TariffEntry, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.TariffEntry, error)
	List(ctx context.Context) ([]domain.TariffEntry, error)
	Update(ctx context.Context, id uuid.UUID, input TariffInput) (*domain.TariffEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DimensionValues(ctx context.Context, field string) ([]domain.CarrierNameCount, error)
}

type tariffService struct {
	tariffs  port.TariffRepository
	waybills port.WaybillRepository
}

// NewTariffService creates a new TariffService implementation.
func NewTariffService(tariffs port.TariffRepository, waybills port.WaybillRepository) TariffService {
	return &tariffService{tariffs: tariffs, waybills: waybills}
}

func (s *tariffService) Create(ctx context.Context, input TariffInput) (*domain.TariffEntry, error) {
	entry := &domain.TariffEntry{ID: uuid.New()}
	applyTariffInput(entry, input)
	if err := s.tariffs.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *tariffService) Get(ctx context.Context, id uuid.UUID) (*domain.TariffEntry, error) {
	return s.tariffs.GetByID(ctx, id)
}

func (s *tariffService) List(ctx context.Context) ([]domain.TariffEntry, error) {
	return s.tariffs.List(ctx)
}

func (s *tariffService) Update(ctx context.Context, id uuid.UUID, input TariffInput) (*domain.TariffEntry, error) {
	entry, err := s.tariffs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	renames := collectRenames(entry, input)
	applyTariffInput(entry, input)
	if err := s.tariffs.Update(ctx, entry); err != nil {
		return nil, err
	}

	for _, rn := range renames {
		n, err := s.waybills.RenameTariffDimension(ctx, rn.field, rn.from, rn.to)
		if err != nil {
			return nil, fmt.Errorf("tariff.Update: propagating %s rename: %w", rn.field, err)
		}
		if n > 0 {
			log.Printf("service.Tariff: renamed %s %q to %q on %d waybills", rn.field, rn.from, rn.to, n)
		}
	}
	return entry, nil
}

func (s *tariffService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tariffs.Delete(ctx, id)
}

func (s *tariffService) DimensionValues(ctx context.Context, field string) ([]domain.CarrierNameCount, error) {
	return s.tariffs.DistinctValues(ctx, field)
}

type rename struct {
	field, from, to string
}

func collectRenames(current *domain.TariffEntry, input TariffInput) []rename {
	var out []rename
	add := func(field, from, to string) {
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if from != "" && to != "" && from != to {
			out = append(out, rename{field: field, from: from, to: to})
		}
	}
	add("client", current.Client, input.Client)
	add("origin", current.Origin, input.Origin)
	add("destination", current.Destination, input.Destination)
	add("material", current.Material, input.Material)
	return out
}

func applyTariffInput(entry *domain.TariffEntry, input TariffInput) {
	entry.Client = strings.TrimSpace(input.Client)
	entry.Origin = strings.TrimSpace(input.Origin)
	entry.Destination = strings.TrimSpace(input.Destination)
	entry.Material = strings.TrimSpace(input.Material)
	entry.SellUnitPrice = input.SellUnitPrice
	entry.SellUnitPriceIGV = withIGV(input.SellUnitPrice)
	entry.SellCurrency = input.SellCurrency
	entry.CostUnitPrice = input.CostUnitPrice
	entry.CostUnitPriceIGV = withIGV(input.CostUnitPrice)
	entry.CostCurrency = input.CostCurrency
}

func withIGV(price *float64) *float64 {
	if price == nil {
		return nil
	}
	v, _ := decimal.NewFromFloat(*price).
		Mul(decimal.NewFromFloat(1 + igvRate)).
		Round(2).Float64()
	return &v
}
