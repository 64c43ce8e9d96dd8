package recon

// Field keys reported in Result.Overridden.
const (
	FieldKeyCode        = "code"
	FieldKeyDriverName  = "driver_name"
	FieldKeyPlate       = "plate"
	FieldKeyGrossWeight = "gross_weight"
	FieldKeyClient      = "client"
	FieldKeyOrigin      = "origin"
	FieldKeyDestination = "destination"
)

// Engine runs the full reconciliation pipeline for one document. Safe for
// concurrent use, one call per document.
type Engine struct {
	cfg      Config
	resolver *Resolver
}

func New(cfg Config) *Engine {
	return &Engine{cfg: cfg, resolver: NewResolver(cfg)}
}

func (e *Engine) Config() Config { return e.cfg }

// Reconcile cross-checks the AI extraction against the source text, cleans
// and canonicalizes every field against the catalog, then runs the pricing
// cascade. raw is not mutated; sourceText may be empty when the PDF had no
// text layer, which skips hallucination checks and deterministic overrides.
func (e *Engine) Reconcile(raw Extraction, sourceText string, cat *Catalog) *Result {
	res := &Result{Fields: raw, Overridden: make(map[string]bool)}
	f := &res.Fields

	if sourceText != "" {
		*f = ValidateAgainstSource(*f, sourceText)
		e.applyOverrides(f, ExtractCriticalFields(sourceText), res.Overridden)
	}

	if f.Client != nil {
		v := CollapseLegalForm(*f.Client)
		f.Client = &v
	}
	if f.CarrierName != nil {
		v := CollapseLegalForm(*f.CarrierName)
		f.CarrierName = &v
	}
	if f.Material != nil {
		v := CleanMaterialDescription(*f.Material)
		f.Material = &v
	}
	if f.Week != nil {
		v := NormalizeWeek(*f.Week)
		f.Week = &v
	}

	e.resolveText(&f.Client, cat.clients(), FieldClient)
	e.resolveText(&f.Origin, cat.origins(), FieldRoute)
	e.resolveText(&f.Destination, cat.destinations(), FieldRoute)
	e.resolveText(&f.Material, cat.materials(), FieldMaterial)
	e.resolveText(&f.DriverName, cat.DriverNames, FieldPersonName)

	e.reconcilePlate(res, cat)
	e.reconcileTariff(res, cat)
	return res
}

// applyOverrides lets deterministic label matches replace AI values. A field
// found by both extractors is trusted from the labels; only replacements of
// a differing non-nil value are reported as overrides.
func (e *Engine) applyOverrides(f *Extraction, det Extraction, overridden map[string]bool) {
	overrideString(&f.Code, det.Code, FieldKeyCode, overridden)
	overrideString(&f.DriverName, det.DriverName, FieldKeyDriverName, overridden)
	overrideString(&f.Plate, det.Plate, FieldKeyPlate, overridden)
	overrideString(&f.Client, det.Client, FieldKeyClient, overridden)
	overrideString(&f.Origin, det.Origin, FieldKeyOrigin, overridden)
	overrideString(&f.Destination, det.Destination, FieldKeyDestination, overridden)
	if det.GrossWeight != nil {
		if f.GrossWeight != nil && *f.GrossWeight != *det.GrossWeight {
			overridden[FieldKeyGrossWeight] = true
		}
		f.GrossWeight = det.GrossWeight
	}
}

func overrideString(dst **string, det *string, key string, overridden map[string]bool) {
	if det == nil {
		return
	}
	if *dst != nil && **dst != *det {
		overridden[key] = true
	}
	*dst = det
}

// resolveText canonicalizes a field when the catalog resolves it, always
// re-pointing so the caller's extraction stays untouched. Unresolved values
// keep their cleaned form; the operator sees what the document said rather
// than a guess.
func (e *Engine) resolveText(field **string, values []CatalogValue, kind FieldKind) {
	if *field == nil || **field == "" {
		return
	}
	if resolved, ok := e.resolver.Resolve(**field, values, kind); ok {
		*field = &resolved
	}
}

// reconcilePlate validates the plate format, canonicalizes OCR misreads
// against the known plate pool and links the registered unit. A valid plate
// with no registered unit is nulled and surfaced as an advisory; malformed
// plates are dropped outright.
func (e *Engine) reconcilePlate(res *Result, cat *Catalog) {
	f := &res.Fields
	if f.Plate == nil {
		return
	}
	plate, ok := NormalizePlate(*f.Plate)
	if !ok {
		f.Plate = nil
		return
	}
	if resolved, known := e.resolver.ResolvePlate(plate, cat.plateValues()); known {
		plate = resolved
	}
	veh := cat.vehicleByPlate(plate)
	if veh == nil {
		res.PlateUnregistered = &plate
		f.Plate = nil
		return
	}
	f.Plate = &plate
	if f.CarrierName == nil && veh.CarrierName != "" {
		carrier := veh.CarrierName
		f.CarrierName = &carrier
	}
}

// reconcileTariff runs the pricing cascade. A matched entry is authoritative
// for client and destination, covering the cascade steps that relaxed those
// dimensions. On a miss the query is echoed as an advisory and the
// financial block stays empty.
func (e *Engine) reconcileTariff(res *Result, cat *Catalog) {
	f := &res.Fields
	q := TariffQuery{
		Client:      deref(f.Client),
		Origin:      deref(f.Origin),
		Destination: deref(f.Destination),
		Material:    deref(f.Material),
	}
	entry := ResolveTariff(cat.Tariffs, q)
	if entry == nil {
		res.TariffNotFound = &q
		return
	}
	res.Tariff = entry
	client, dest := entry.Client, entry.Destination
	f.Client = &client
	f.Destination = &dest

	carrier := deref(f.CarrierName)
	if carrier == "" {
		carrier = deref(f.DriverName)
	}
	res.Financials = ComputeFinancials(entry, f.ReceivedWeight, carrier, e.cfg.ZeroCostCarrier)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
