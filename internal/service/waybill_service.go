package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"remitra/internal/config"
	"remitra/internal/domain"
	"remitra/internal/port"
	"remitra/internal/recon"
)

// UploadInput is the DTO for a waybill upload.
type UploadInput struct {
	FileName    string
	ContentType string
	FileBytes   []byte
	UploadedBy  uuid.UUID
}

// UpdateWaybillInput carries operator corrections. Nil pointers leave the
// stored value alone; setting ReceivedWeight recomputes the financials.
type UpdateWaybillInput struct {
	Code           *string  `json:"code"`
	IssueDate      *string  `json:"issue_date"`
	Month          *string  `json:"month"`
	Week           *string  `json:"week"`
	DriverName     *string  `json:"driver_name"`
	CarrierName    *string  `json:"carrier_name"`
	GrossWeight    *float64 `json:"gross_weight"`
	ReceivedWeight *float64 `json:"received_weight"`
	SenderCode     *string  `json:"sender_code"`
	Client         *string  `json:"client"`
	Origin         *string  `json:"origin"`
	Destination    *string  `json:"destination"`
	Material       *string  `json:"material"`
	UpdatedBy      uuid.UUID
}

// WaybillService drives the upload pipeline and waybill lifecycle.
type WaybillService interface {
	Upload(ctx context.Context, input UploadInput) (*domain.Waybill, error)
	Reprocess(ctx context.Context, id uuid.UUID, updatedBy uuid.UUID) (*domain.Waybill, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Waybill, error)
	List(ctx context.Context, filter domain.WaybillFilter) ([]domain.Waybill, int, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateWaybillInput) (*domain.Waybill, error)
	SetVoided(ctx context.Context, id uuid.UUID, voided bool, updatedBy uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	FileURL(ctx context.Context, id uuid.UUID) (string, error)
	// LoadCatalog builds the reference snapshot one reconciliation runs
	// against. Exported for the reprocess and report paths.
	LoadCatalog(ctx context.Context) (*recon.Catalog, error)
}

type waybillService struct {
	waybills port.WaybillRepository
	tariffs  port.TariffRepository
	vehicles port.VehicleRepository
	storage  port.ObjectStorage
	parser   port.DocumentParser
	textex   port.TextExtractor
	engine   *recon.Engine
	s3cfg    config.S3Config
}

// NewWaybillService creates a new WaybillService implementation.
func NewWaybillService(
	waybills port.WaybillRepository,
	tariffs port.TariffRepository,
	vehicles port.VehicleRepository,
	storage port.ObjectStorage,
	docParser port.DocumentParser,
	textex port.TextExtractor,
	engine *recon.Engine,
	s3cfg config.S3Config,
) WaybillService {
	return &waybillService{
		waybills: waybills,
		tariffs:  tariffs,
		vehicles: vehicles,
		storage:  storage,
		parser:   docParser,
		textex:   textex,
		engine:   engine,
		s3cfg:    s3cfg,
	}
}

var allowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

func (s *waybillService) Upload(ctx context.Context, input UploadInput) (*domain.Waybill, error) {
	if !allowedContentTypes[input.ContentType] {
		return nil, domain.ErrUnsupportedFileType
	}
	if int64(len(input.FileBytes)) > s.s3cfg.MaxFileSizeMB*1024*1024 {
		return nil, domain.ErrFileTooLarge
	}

	id := uuid.New()
	key := fmt.Sprintf("waybills/%s/%s", id, sanitizeFileName(input.FileName))
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(input.FileBytes),
		ContentType: input.ContentType,
		Size:        int64(len(input.FileBytes)),
	})
	if err != nil {
		return nil, fmt.Errorf("waybill.Upload: storing file: %w", err)
	}

	wb := &domain.Waybill{
		ID:           id,
		FileKey:      key,
		OriginalName: input.FileName,
		Status:       domain.StatusProcessing,
		UploadedBy:   input.UploadedBy,
	}
	if err := s.waybills.Create(ctx, wb); err != nil {
		return nil, fmt.Errorf("waybill.Upload: %w", err)
	}

	if err := s.process(ctx, wb, input.FileBytes, input.ContentType); err != nil {
		wb.Status = failureStatus(err)
		if uerr := s.waybills.Update(ctx, wb); uerr != nil {
			log.Printf("service.Waybill: persisting %s status for %s: %v", wb.Status, wb.ID, uerr)
		}
		return wb, fmt.Errorf("waybill.Upload: %w", err)
	}

	if err := s.waybills.Update(ctx, wb); err != nil {
		return nil, fmt.Errorf("waybill.Upload: %w", err)
	}
	return wb, nil
}

// process runs extraction and reconciliation and folds the result into wb.
func (s *waybillService) process(ctx context.Context, wb *domain.Waybill, fileBytes []byte, contentType string) error {
	sourceText := ""
	if contentType == "application/pdf" {
		text, err := s.textex.ExtractText(fileBytes)
		if err != nil {
			log.Printf("service.Waybill: text extraction for %s failed, continuing without text layer: %v", wb.ID, err)
		} else {
			sourceText = text
		}
	}

	parsed, err := s.parser.Parse(ctx, port.ParseInput{
		FileBytes:   fileBytes,
		ContentType: contentType,
		SourceText:  sourceText,
	})
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}

	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return err
	}

	res := s.engine.Reconcile(parsed.Fields, sourceText, catalog)
	s.applyResult(ctx, wb, res)
	wb.Status = domain.StatusCompleted
	return nil
}

// applyResult copies an engine result onto the persistence model.
func (s *waybillService) applyResult(ctx context.Context, wb *domain.Waybill, res *recon.Result) {
	f := res.Fields
	wb.Code = f.Code
	wb.IssueDate = f.IssueDate
	wb.Month = f.Month
	wb.Week = f.Week
	wb.DriverName = f.DriverName
	wb.CarrierName = f.CarrierName
	wb.GrossWeight = f.GrossWeight
	wb.ReceivedWeight = f.ReceivedWeight
	wb.SenderCode = f.SenderCode
	wb.Client = f.Client
	wb.Origin = f.Origin
	wb.Destination = f.Destination
	wb.Material = f.Material

	wb.UnitPrice = res.Financials.UnitPrice
	wb.Currency = res.Financials.Currency
	wb.FinalPrice = res.Financials.FinalPrice
	wb.UnitCost = res.Financials.UnitCost
	wb.CostCurrency = res.Financials.CostCurrency
	wb.FinalCost = res.Financials.FinalCost
	wb.Margin = res.Financials.Margin

	wb.TariffMissing = res.TariffNotFound != nil
	wb.VehicleID = nil
	wb.PlateUnregistered = false

	switch {
	case f.Plate != nil:
		wb.Plate = f.Plate
		if veh, err := s.vehicles.GetByPlate(ctx, *f.Plate); err == nil {
			wb.VehicleID = &veh.ID
		}
	case res.PlateUnregistered != nil:
		// keep the plate visible for the operator, flagged as unlinked
		wb.Plate = res.PlateUnregistered
		wb.PlateUnregistered = true
	default:
		wb.Plate = nil
	}

	if len(res.Overridden) > 0 {
		keys := make([]string, 0, len(res.Overridden))
		for k := range res.Overridden {
			keys = append(keys, k)
		}
		log.Printf("service.Waybill: %s deterministic extractor overrode %s", wb.ID, strings.Join(keys, ", "))
	}
	if res.TariffNotFound != nil {
		q := res.TariffNotFound
		log.Printf("service.Waybill: %s no tariff for client=%q origin=%q destination=%q material=%q",
			wb.ID, q.Client, q.Origin, q.Destination, q.Material)
	}
}

// Reprocess reruns extraction and reconciliation over the stored file,
// against the current catalog.
func (s *waybillService) Reprocess(ctx context.Context, id uuid.UUID, updatedBy uuid.UUID) (*domain.Waybill, error) {
	wb, err := s.waybills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wb.Voided {
		return nil, domain.ErrWaybillVoided
	}

	fileBytes, err := s.storage.Download(ctx, s.s3cfg.Bucket, wb.FileKey)
	if err != nil {
		return nil, fmt.Errorf("waybill.Reprocess: fetching file: %w", err)
	}

	contentType := contentTypeForKey(wb.FileKey)
	wb.Status = domain.StatusProcessing
	wb.UpdatedBy = &updatedBy
	if err := s.process(ctx, wb, fileBytes, contentType); err != nil {
		wb.Status = failureStatus(err)
		if uerr := s.waybills.Update(ctx, wb); uerr != nil {
			log.Printf("service.Waybill: persisting %s status for %s: %v", wb.Status, wb.ID, uerr)
		}
		return wb, fmt.Errorf("waybill.Reprocess: %w", err)
	}
	if err := s.waybills.Update(ctx, wb); err != nil {
		return nil, fmt.Errorf("waybill.Reprocess: %w", err)
	}
	return wb, nil
}

func (s *waybillService) Get(ctx context.Context, id uuid.UUID) (*domain.Waybill, error) {
	return s.waybills.GetByID(ctx, id)
}

func (s *waybillService) List(ctx context.Context, filter domain.WaybillFilter) ([]domain.Waybill, int, error) {
	return s.waybills.List(ctx, filter)
}

// Update applies operator corrections and reprices the document through the
// tariff cascade, so a corrected weight or route immediately reflects in the
// financial columns.
func (s *waybillService) Update(ctx context.Context, id uuid.UUID, input UpdateWaybillInput) (*domain.Waybill, error) {
	wb, err := s.waybills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wb.Voided {
		return nil, domain.ErrWaybillVoided
	}

	if input.Code != nil {
		wb.Code = input.Code
	}
	if input.IssueDate != nil {
		wb.IssueDate = input.IssueDate
	}
	if input.Month != nil {
		wb.Month = input.Month
	}
	if input.Week != nil {
		w := recon.NormalizeWeek(*input.Week)
		wb.Week = &w
	}
	if input.DriverName != nil {
		wb.DriverName = input.DriverName
	}
	if input.CarrierName != nil {
		wb.CarrierName = input.CarrierName
	}
	if input.GrossWeight != nil {
		wb.GrossWeight = input.GrossWeight
	}
	if input.ReceivedWeight != nil {
		wb.ReceivedWeight = input.ReceivedWeight
	}
	if input.SenderCode != nil {
		wb.SenderCode = input.SenderCode
	}
	if input.Client != nil {
		wb.Client = input.Client
	}
	if input.Origin != nil {
		wb.Origin = input.Origin
	}
	if input.Destination != nil {
		wb.Destination = input.Destination
	}
	if input.Material != nil {
		wb.Material = input.Material
	}
	wb.UpdatedBy = &input.UpdatedBy

	if err := s.reprice(ctx, wb); err != nil {
		return nil, fmt.Errorf("waybill.Update: %w", err)
	}

	if err := s.waybills.Update(ctx, wb); err != nil {
		return nil, fmt.Errorf("waybill.Update: %w", err)
	}
	return wb, nil
}

// reprice reruns only the tariff cascade and financial math over the stored
// field values.
func (s *waybillService) reprice(ctx context.Context, wb *domain.Waybill) error {
	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return err
	}

	q := recon.TariffQuery{
		Client:      strDeref(wb.Client),
		Origin:      strDeref(wb.Origin),
		Destination: strDeref(wb.Destination),
		Material:    strDeref(wb.Material),
	}
	entry := recon.ResolveTariff(catalog.Tariffs, q)
	if entry == nil {
		wb.TariffMissing = true
		wb.UnitPrice, wb.Currency, wb.FinalPrice = nil, nil, nil
		wb.UnitCost, wb.CostCurrency, wb.FinalCost, wb.Margin = nil, nil, nil, nil
		return nil
	}

	wb.TariffMissing = false
	wb.Client = &entry.Client
	wb.Destination = &entry.Destination

	carrier := strDeref(wb.CarrierName)
	if carrier == "" {
		carrier = strDeref(wb.DriverName)
	}
	fin := recon.ComputeFinancials(entry, wb.ReceivedWeight, carrier, s.engine.Config().ZeroCostCarrier)
	wb.UnitPrice = fin.UnitPrice
	wb.Currency = fin.Currency
	wb.FinalPrice = fin.FinalPrice
	wb.UnitCost = fin.UnitCost
	wb.CostCurrency = fin.CostCurrency
	wb.FinalCost = fin.FinalCost
	wb.Margin = fin.Margin
	return nil
}

func (s *waybillService) SetVoided(ctx context.Context, id uuid.UUID, voided bool, updatedBy uuid.UUID) error {
	return s.waybills.SetVoided(ctx, id, voided, updatedBy)
}

func (s *waybillService) Delete(ctx context.Context, id uuid.UUID) error {
	wb, err := s.waybills.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, s.s3cfg.Bucket, wb.FileKey); err != nil {
		log.Printf("service.Waybill: deleting stored file %s: %v", wb.FileKey, err)
	}
	return s.waybills.Delete(ctx, id)
}

func (s *waybillService) FileURL(ctx context.Context, id uuid.UUID) (string, error) {
	wb, err := s.waybills.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, wb.FileKey, s.s3cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("waybill.FileURL: %w", err)
	}
	return url, nil
}

func (s *waybillService) LoadCatalog(ctx context.Context) (*recon.Catalog, error) {
	tariffs, err := s.tariffs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("waybill.LoadCatalog: %w", err)
	}
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("waybill.LoadCatalog: %w", err)
	}
	names, err := s.waybills.CarrierNameCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("waybill.LoadCatalog: %w", err)
	}
	plates, err := s.waybills.PlateCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("waybill.LoadCatalog: %w", err)
	}

	cat := &recon.Catalog{}
	for _, t := range tariffs {
		cat.Tariffs = append(cat.Tariffs, recon.Tariff{
			Client:        t.Client,
			Origin:        t.Origin,
			Destination:   t.Destination,
			Material:      t.Material,
			SellUnitPrice: t.SellUnitPrice,
			SellCurrency:  t.SellCurrency,
			CostUnitPrice: t.CostUnitPrice,
			CostCurrency:  t.CostCurrency,
		})
	}
	for _, v := range vehicles {
		cat.Vehicles = append(cat.Vehicles, recon.Vehicle{Plate: v.Plate, CarrierName: v.CarrierName})
	}
	for _, n := range names {
		cat.DriverNames = append(cat.DriverNames, recon.CatalogValue{Value: n.Name, Count: n.Count})
	}
	for _, p := range plates {
		cat.PlateHistory = append(cat.PlateHistory, recon.CatalogValue{Value: p.Plate, Count: p.Count})
	}
	return cat, nil
}

// failureStatus distinguishes a parser rejection (not a waybill at all) from
// an operational failure worth retrying.
func failureStatus(err error) domain.ParsingStatus {
	if errors.Is(err, domain.ErrDocumentRejected) {
		return domain.StatusRejected
	}
	return domain.StatusFailed
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = "waybill.pdf"
	}
	return name
}

func contentTypeForKey(key string) string {
	switch {
	case strings.HasSuffix(key, ".jpg"), strings.HasSuffix(key, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(key, ".png"):
		return "image/png"
	default:
		return "application/pdf"
	}
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
