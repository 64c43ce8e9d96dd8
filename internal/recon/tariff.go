package recon

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Tariff is one catalog pricing entry as seen by the engine. Prices are per
// tonne without IGV; nil means the side is not priced.
type Tariff struct {
	Client        string
	Origin        string
	Destination   string
	Material      string
	SellUnitPrice *float64
	SellCurrency  string
	CostUnitPrice *float64
	CostCurrency  string
}

// TariffQuery carries the four lookup dimensions of a cascade run.
type TariffQuery struct {
	Client      string `json:"client"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Material    string `json:"material"`
}

// Financials is the pricing block derived from a matched tariff. Totals are
// only present when a received quantity exists; the margin needs both.
type Financials struct {
	UnitPrice    *float64 `json:"unit_price"`
	Currency     *string  `json:"currency"`
	FinalPrice   *float64 `json:"final_price"`
	UnitCost     *float64 `json:"unit_cost"`
	CostCurrency *string  `json:"cost_currency"`
	FinalCost    *float64 `json:"final_cost"`
	Margin       *float64 `json:"margin"`
}

// ResolveTariff walks the lookup cascade and returns the first entry whose
// populated dimensions all match exactly, or nil. The cascade relaxes one
// dimension at a time: full route, then client plus origin with material,
// then client plus origin, then origin and destination with material, then
// the bare origin-destination pair. Empty query dimensions skip the steps
// that require them.
func ResolveTariff(tariffs []Tariff, q TariffQuery) *Tariff {
	find := func(match func(*Tariff) bool) *Tariff {
		for i := range tariffs {
			if match(&tariffs[i]) {
				return &tariffs[i]
			}
		}
		return nil
	}

	if q.Client != "" && q.Origin != "" {
		if q.Destination != "" {
			if t := find(func(t *Tariff) bool {
				return t.Client == q.Client && t.Origin == q.Origin && t.Destination == q.Destination
			}); t != nil {
				return t
			}
		}
		if q.Material != "" {
			if t := find(func(t *Tariff) bool {
				return t.Client == q.Client && t.Origin == q.Origin && t.Material == q.Material
			}); t != nil {
				return t
			}
		}
		if t := find(func(t *Tariff) bool {
			return t.Client == q.Client && t.Origin == q.Origin
		}); t != nil {
			return t
		}
	}
	if q.Origin != "" && q.Destination != "" {
		if q.Material != "" {
			if t := find(func(t *Tariff) bool {
				return t.Origin == q.Origin && t.Destination == q.Destination && t.Material == q.Material
			}); t != nil {
				return t
			}
		}
		if t := find(func(t *Tariff) bool {
			return t.Origin == q.Origin && t.Destination == q.Destination
		}); t != nil {
			return t
		}
	}
	return nil
}

// ComputeFinancials prices a document from a matched tariff. Totals round
// half up to two decimals. A carrier name containing the zero-cost marker
// forces the final cost to zero regardless of the tariff's cost side.
func ComputeFinancials(entry *Tariff, receivedQty *float64, carrierName, zeroCostMarker string) Financials {
	var fin Financials
	if entry == nil {
		return fin
	}

	if entry.SellUnitPrice != nil {
		fin.UnitPrice = ptrFloat(*entry.SellUnitPrice)
		if entry.SellCurrency != "" {
			fin.Currency = ptrString(entry.SellCurrency)
		}
		if receivedQty != nil {
			fin.FinalPrice = ptrFloat(roundMul(*entry.SellUnitPrice, *receivedQty))
		}
	}

	zeroCost := zeroCostMarker != "" &&
		strings.Contains(strings.ToUpper(carrierName), strings.ToUpper(zeroCostMarker))

	if entry.CostUnitPrice != nil {
		fin.UnitCost = ptrFloat(*entry.CostUnitPrice)
		if entry.CostCurrency != "" {
			fin.CostCurrency = ptrString(entry.CostCurrency)
		}
	}
	switch {
	case zeroCost:
		fin.FinalCost = ptrFloat(0)
	case entry.CostUnitPrice != nil && receivedQty != nil:
		fin.FinalCost = ptrFloat(roundMul(*entry.CostUnitPrice, *receivedQty))
	}

	if fin.FinalPrice != nil && fin.FinalCost != nil {
		m, _ := decimal.NewFromFloat(*fin.FinalPrice).
			Sub(decimal.NewFromFloat(*fin.FinalCost)).
			Round(2).Float64()
		fin.Margin = &m
	}
	return fin
}

func roundMul(a, b float64) float64 {
	v, _ := decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).Round(2).Float64()
	return v
}

func ptrFloat(f float64) *float64 { return &f }

func ptrString(s string) *string { return &s }
