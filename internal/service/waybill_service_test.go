package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"remitra/internal/config"
	"remitra/internal/domain"
	"remitra/internal/recon"
	"remitra/internal/service"
	"remitra/mocks"
)

func strPtr(s string) *string { return &s }

type waybillDeps struct {
	waybills *mocks.MockWaybillRepo
	tariffs  *mocks.MockTariffRepo
	vehicles *mocks.MockVehicleRepo
	storage  *mocks.MockObjectStorage
	parser   *mocks.MockDocumentParser
	textex   *mocks.MockTextExtractor
}

func newWaybillService() (service.WaybillService, *waybillDeps) {
	deps := &waybillDeps{
		waybills: new(mocks.MockWaybillRepo),
		tariffs:  new(mocks.MockTariffRepo),
		vehicles: new(mocks.MockVehicleRepo),
		storage:  new(mocks.MockObjectStorage),
		parser:   new(mocks.MockDocumentParser),
		textex:   new(mocks.MockTextExtractor),
	}
	engine := recon.New(recon.DefaultConfig())
	svc := service.NewWaybillService(
		deps.waybills, deps.tariffs, deps.vehicles,
		deps.storage, deps.parser, deps.textex,
		engine, config.S3Config{Bucket: "test-bucket", MaxFileSizeMB: 10, PresignExpiry: 900},
	)
	return svc, deps
}

// mockCatalog wires the four repository reads behind LoadCatalog.
func mockCatalog(deps *waybillDeps, tariffs []domain.TariffEntry) {
	deps.tariffs.On("List", mock.Anything).Return(tariffs, nil)
	deps.vehicles.On("List", mock.Anything).Return([]domain.VehicleUnit{}, nil)
	deps.waybills.On("CarrierNameCounts", mock.Anything).Return([]domain.CarrierNameCount{}, nil)
	deps.waybills.On("PlateCounts", mock.Anything).Return([]domain.PlateCount{}, nil)
}

func testTariffEntries() []domain.TariffEntry {
	return []domain.TariffEntry{
		{
			ID:            uuid.New(),
			Client:        "PALTARUMI",
			Origin:        "CHALA",
			Destination:   "CALLAO",
			Material:      "ZINC",
			SellUnitPrice: floatPtr(85),
			SellCurrency:  "USD",
			CostUnitPrice: floatPtr(60),
			CostCurrency:  "USD",
		},
	}
}

func TestWaybillService_Update_RepricesFinancials(t *testing.T) {
	svc, deps := newWaybillService()

	id := uuid.New()
	stored := &domain.Waybill{
		ID:          id,
		Status:      domain.StatusCompleted,
		Client:      strPtr("PALTARUMI"),
		Origin:      strPtr("CHALA"),
		Destination: strPtr("CALLAO"),
		Material:    strPtr("ZINC"),
		CarrierName: strPtr("TRANSPORTES PUMA S.A.C."),
	}
	deps.waybills.On("GetByID", mock.Anything, id).Return(stored, nil)
	mockCatalog(deps, testTariffEntries())
	deps.waybills.On("Update", mock.Anything, mock.AnythingOfType("*domain.Waybill")).Return(nil)

	updatedBy := uuid.New()
	wb, err := svc.Update(context.Background(), id, service.UpdateWaybillInput{
		ReceivedWeight: floatPtr(30),
		Week:           strPtr("SEMANA 03"),
		UpdatedBy:      updatedBy,
	})

	assert.NoError(t, err)
	assert.False(t, wb.TariffMissing)
	assert.Equal(t, "3", *wb.Week)
	assert.InDelta(t, 85, *wb.UnitPrice, 1e-9)
	assert.InDelta(t, 2550.00, *wb.FinalPrice, 1e-9)
	assert.InDelta(t, 1800.00, *wb.FinalCost, 1e-9)
	assert.InDelta(t, 750.00, *wb.Margin, 1e-9)
	assert.Equal(t, "USD", *wb.Currency)
	assert.Equal(t, &updatedBy, wb.UpdatedBy)
	deps.waybills.AssertExpectations(t)
}

func TestWaybillService_Update_TariffMissNullsFinancials(t *testing.T) {
	svc, deps := newWaybillService()

	id := uuid.New()
	stored := &domain.Waybill{
		ID:             id,
		Status:         domain.StatusCompleted,
		Client:         strPtr("DESCONOCIDO SAC"),
		Origin:         strPtr("NAZCA"),
		Destination:    strPtr("LIMA"),
		ReceivedWeight: floatPtr(30),
		UnitPrice:      floatPtr(85),
		FinalPrice:     floatPtr(2550),
	}
	deps.waybills.On("GetByID", mock.Anything, id).Return(stored, nil)
	mockCatalog(deps, testTariffEntries())
	deps.waybills.On("Update", mock.Anything, mock.AnythingOfType("*domain.Waybill")).Return(nil)

	wb, err := svc.Update(context.Background(), id, service.UpdateWaybillInput{
		Material:  strPtr("ORO"),
		UpdatedBy: uuid.New(),
	})

	assert.NoError(t, err)
	assert.True(t, wb.TariffMissing)
	assert.Nil(t, wb.UnitPrice)
	assert.Nil(t, wb.FinalPrice)
	assert.Nil(t, wb.FinalCost)
	assert.Nil(t, wb.Margin)
}

func TestWaybillService_Update_ZeroCostCarrier(t *testing.T) {
	svc, deps := newWaybillService()

	id := uuid.New()
	stored := &domain.Waybill{
		ID:          id,
		Status:      domain.StatusCompleted,
		Client:      strPtr("PALTARUMI"),
		Origin:      strPtr("CHALA"),
		Destination: strPtr("CALLAO"),
		Material:    strPtr("ZINC"),
		CarrierName: strPtr("ECOTRANSPORTE PERU S.A.C."),
	}
	deps.waybills.On("GetByID", mock.Anything, id).Return(stored, nil)
	mockCatalog(deps, testTariffEntries())
	deps.waybills.On("Update", mock.Anything, mock.AnythingOfType("*domain.Waybill")).Return(nil)

	wb, err := svc.Update(context.Background(), id, service.UpdateWaybillInput{
		ReceivedWeight: floatPtr(30),
		UpdatedBy:      uuid.New(),
	})

	assert.NoError(t, err)
	assert.InDelta(t, 2550.00, *wb.FinalPrice, 1e-9)
	assert.InDelta(t, 0, *wb.FinalCost, 1e-9)
	assert.InDelta(t, 2550.00, *wb.Margin, 1e-9)
}

func TestWaybillService_Update_MatchedTariffOverridesRoute(t *testing.T) {
	svc, deps := newWaybillService()

	id := uuid.New()
	// Destination missing; the (client, origin, material) step should fill
	// it in from the catalog entry.
	stored := &domain.Waybill{
		ID:       id,
		Status:   domain.StatusCompleted,
		Client:   strPtr("PALTARUMI"),
		Origin:   strPtr("CHALA"),
		Material: strPtr("ZINC"),
	}
	deps.waybills.On("GetByID", mock.Anything, id).Return(stored, nil)
	mockCatalog(deps, testTariffEntries())
	deps.waybills.On("Update", mock.Anything, mock.AnythingOfType("*domain.Waybill")).Return(nil)

	wb, err := svc.Update(context.Background(), id, service.UpdateWaybillInput{
		ReceivedWeight: floatPtr(10),
		UpdatedBy:      uuid.New(),
	})

	assert.NoError(t, err)
	assert.Equal(t, "CALLAO", *wb.Destination)
	assert.False(t, wb.TariffMissing)
}

func TestWaybillService_Update_VoidedRejected(t *testing.T) {
	svc, deps := newWaybillService()

	id := uuid.New()
	stored := &domain.Waybill{ID: id, Status: domain.StatusCompleted, Voided: true}
	deps.waybills.On("GetByID", mock.Anything, id).Return(stored, nil)

	wb, err := svc.Update(context.Background(), id, service.UpdateWaybillInput{UpdatedBy: uuid.New()})

	assert.Nil(t, wb)
	assert.ErrorIs(t, err, domain.ErrWaybillVoided)
	deps.waybills.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestWaybillService_Upload_UnsupportedType(t *testing.T) {
	svc, _ := newWaybillService()

	wb, err := svc.Upload(context.Background(), service.UploadInput{
		FileName:    "notes.txt",
		ContentType: "text/plain",
		FileBytes:   []byte("hello"),
		UploadedBy:  uuid.New(),
	})

	assert.Nil(t, wb)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestWaybillService_Upload_FileTooLarge(t *testing.T) {
	svc, _ := newWaybillService()

	wb, err := svc.Upload(context.Background(), service.UploadInput{
		FileName:    "big.pdf",
		ContentType: "application/pdf",
		FileBytes:   make([]byte, 11*1024*1024),
		UploadedBy:  uuid.New(),
	})

	assert.Nil(t, wb)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestWaybillService_Delete_RemovesStoredFile(t *testing.T) {
	svc, deps := newWaybillService()

	id := uuid.New()
	stored := &domain.Waybill{ID: id, FileKey: "waybills/x/doc.pdf"}
	deps.waybills.On("GetByID", mock.Anything, id).Return(stored, nil)
	deps.storage.On("Delete", mock.Anything, "test-bucket", "waybills/x/doc.pdf").Return(nil)
	deps.waybills.On("Delete", mock.Anything, id).Return(nil)

	err := svc.Delete(context.Background(), id)

	assert.NoError(t, err)
	deps.storage.AssertExpectations(t)
	deps.waybills.AssertExpectations(t)
}

func TestWaybillService_FileURL(t *testing.T) {
	svc, deps := newWaybillService()

	id := uuid.New()
	stored := &domain.Waybill{ID: id, FileKey: "waybills/x/doc.pdf"}
	deps.waybills.On("GetByID", mock.Anything, id).Return(stored, nil)
	deps.storage.On("GetPresignedURL", mock.Anything, "test-bucket", "waybills/x/doc.pdf", int64(900)).
		Return("https://signed.example/doc.pdf", nil)

	url, err := svc.FileURL(context.Background(), id)

	assert.NoError(t, err)
	assert.Equal(t, "https://signed.example/doc.pdf", url)
}
