package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"remitra/internal/domain"
	"remitra/internal/port"
	"remitra/internal/recon"
)

// VehicleInput is the DTO for registering or updating a transport unit.
type VehicleInput struct {
	Plate       string               `json:"plate" binding:"required"`
	CarrierName string               `json:"carrier_name" binding:"required"`
	Status      domain.VehicleStatus `json:"status"`
}

// VehicleService manages the registered fleet. Registering a plate adopts
// the waybills that were previously flagged as carrying an unregistered
// plate, linking them to the new unit.
type VehicleService interface {
	Create(ctx context.Context, input VehicleInput) (*domain.VehicleUnit, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.VehicleUnit, error)
	List(ctx context.Context) ([]domain.VehicleUnit, error)
	Update(ctx context.Context, id uuid.UUID, input VehicleInput) (*domain.VehicleUnit, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type vehicleService struct {
	vehicles port.VehicleRepository
	waybills port.WaybillRepository
}

// NewVehicleService creates a new VehicleService implementation.
func NewVehicleService(vehicles port.VehicleRepository, waybills port.WaybillRepository) VehicleService {
	return &vehicleService{vehicles: vehicles, waybills: waybills}
}

func (s *vehicleService) Create(ctx context.Context, input VehicleInput) (*domain.VehicleUnit, error) {
	plate, ok := recon.NormalizePlate(input.Plate)
	if !ok {
		return nil, fmt.Errorf("vehicle.Create: %w: %q", domain.ErrInvalidPlate, input.Plate)
	}

	status := input.Status
	if status == "" {
		status = domain.VehicleActive
	}
	veh := &domain.VehicleUnit{
		ID:          uuid.New(),
		Plate:       plate,
		CarrierName: input.CarrierName,
		Status:      status,
	}
	if err := s.vehicles.Create(ctx, veh); err != nil {
		return nil, err
	}

	s.adoptUnregistered(ctx, veh)
	return veh, nil
}

// adoptUnregistered links previously flagged waybills to a newly registered
// plate. Failures only log; the unit itself is already created.
func (s *vehicleService) adoptUnregistered(ctx context.Context, veh *domain.VehicleUnit) {
	orphans, err := s.waybills.ListUnregisteredByPlate(ctx, veh.Plate)
	if err != nil {
		log.Printf("service.Vehicle: listing unregistered waybills for %s: %v", veh.Plate, err)
		return
	}
	for i := range orphans {
		wb := &orphans[i]
		wb.VehicleID = &veh.ID
		wb.PlateUnregistered = false
		if wb.CarrierName == nil && veh.CarrierName != "" {
			carrier := veh.CarrierName
			wb.CarrierName = &carrier
		}
		if err := s.waybills.Update(ctx, wb); err != nil {
			log.Printf("service.Vehicle: adopting waybill %s for plate %s: %v", wb.ID, veh.Plate, err)
		}
	}
	if len(orphans) > 0 {
		log.Printf("service.Vehicle: plate %s adopted %d waybills", veh.Plate, len(orphans))
	}
}

func (s *vehicleService) Get(ctx context.Context, id uuid.UUID) (*domain.VehicleUnit, error) {
	return s.vehicles.GetByID(ctx, id)
}

func (s *vehicleService) List(ctx context.Context) ([]domain.VehicleUnit, error) {
	return s.vehicles.List(ctx)
}

func (s *vehicleService) Update(ctx context.Context, id uuid.UUID, input VehicleInput) (*domain.VehicleUnit, error) {
	veh, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	plate, ok := recon.NormalizePlate(input.Plate)
	if !ok {
		return nil, fmt.Errorf("vehicle.Update: %w: %q", domain.ErrInvalidPlate, input.Plate)
	}
	veh.Plate = plate
	veh.CarrierName = input.CarrierName
	if input.Status != "" {
		veh.Status = input.Status
	}
	if err := s.vehicles.Update(ctx, veh); err != nil {
		return nil, err
	}
	return veh, nil
}

func (s *vehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.vehicles.Delete(ctx, id)
}
