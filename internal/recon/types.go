package recon

// Extraction is the field set pulled out of one waybill, either by the AI
// parser or by the deterministic extractor. Nil means the field was not
// found. Weights are tonnes, dates are kept as printed.
type Extraction struct {
	Code           *string  `json:"code"`
	IssueDate      *string  `json:"issue_date"`
	Month          *string  `json:"month"`
	Week           *string  `json:"week"`
	DriverName     *string  `json:"driver_name"`
	Plate          *string  `json:"plate"`
	CarrierName    *string  `json:"carrier_name"`
	GrossWeight    *float64 `json:"gross_weight"`
	ReceivedWeight *float64 `json:"received_weight"`
	SenderCode     *string  `json:"sender_code"`
	Client         *string  `json:"client"`
	Origin         *string  `json:"origin"`
	Destination    *string  `json:"destination"`
	Material       *string  `json:"material"`
}

// CatalogValue is one canonical value of a catalog dimension together with
// its occurrence count. Counts break ties between similarity candidates.
type CatalogValue struct {
	Value string
	Count int
}

// Vehicle is a registered transport unit as seen by the engine.
type Vehicle struct {
	Plate       string
	CarrierName string
}

// Catalog is the reference snapshot one reconciliation runs against. The
// engine never mutates it, so a snapshot may be shared across goroutines.
type Catalog struct {
	// Tariffs drives client, origin, destination and material resolution
	// as well as the pricing cascade.
	Tariffs []Tariff
	// Vehicles are the registered units keyed by plate.
	Vehicles []Vehicle
	// DriverNames are historical carrier and driver names with their
	// accepted-waybill frequency.
	DriverNames []CatalogValue
	// PlateHistory are plates seen on previously accepted waybills. They
	// widen plate canonicalization beyond the registered fleet.
	PlateHistory []CatalogValue
}

// dimensionValues collects the distinct values of one tariff dimension with
// row counts, skipping empties.
func (c *Catalog) dimensionValues(pick func(*Tariff) string) []CatalogValue {
	counts := make(map[string]int)
	order := make([]string, 0, len(c.Tariffs))
	for i := range c.Tariffs {
		v := pick(&c.Tariffs[i])
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	out := make([]CatalogValue, 0, len(order))
	for _, v := range order {
		out = append(out, CatalogValue{Value: v, Count: counts[v]})
	}
	return out
}

func (c *Catalog) clients() []CatalogValue {
	return c.dimensionValues(func(t *Tariff) string { return t.Client })
}

func (c *Catalog) origins() []CatalogValue {
	return c.dimensionValues(func(t *Tariff) string { return t.Origin })
}

func (c *Catalog) destinations() []CatalogValue {
	return c.dimensionValues(func(t *Tariff) string { return t.Destination })
}

func (c *Catalog) materials() []CatalogValue {
	return c.dimensionValues(func(t *Tariff) string { return t.Material })
}

// plateValues merges registered plates with the historical plate pool.
// Registered plates count at least once so they never lose a tie to noise.
func (c *Catalog) plateValues() []CatalogValue {
	counts := make(map[string]int)
	order := make([]string, 0, len(c.Vehicles)+len(c.PlateHistory))
	for _, v := range c.Vehicles {
		if v.Plate == "" {
			continue
		}
		if _, seen := counts[v.Plate]; !seen {
			order = append(order, v.Plate)
		}
		counts[v.Plate]++
	}
	for _, p := range c.PlateHistory {
		if p.Value == "" {
			continue
		}
		if _, seen := counts[p.Value]; !seen {
			order = append(order, p.Value)
		}
		counts[p.Value] += p.Count
	}
	out := make([]CatalogValue, 0, len(order))
	for _, v := range order {
		out = append(out, CatalogValue{Value: v, Count: counts[v]})
	}
	return out
}

func (c *Catalog) vehicleByPlate(plate string) *Vehicle {
	for i := range c.Vehicles {
		if c.Vehicles[i].Plate == plate {
			return &c.Vehicles[i]
		}
	}
	return nil
}

// Result is the outcome of reconciling one document.
type Result struct {
	// Fields holds the reconciled field values.
	Fields Extraction
	// Financials holds the pricing derived from the matched tariff.
	Financials Financials
	// Tariff is the matched catalog entry, nil when the cascade found none.
	Tariff *Tariff
	// Overridden names the fields where the deterministic extractor
	// replaced a conflicting AI value.
	Overridden map[string]bool
	// PlateUnregistered carries a syntactically valid plate that matched
	// no registered unit. The field itself is left nil.
	PlateUnregistered *string
	// TariffNotFound echoes the lookup dimensions when the cascade failed.
	TariffNotFound *TariffQuery
}
