// Package recon reconciles AI-extracted waybill fields against reference
// catalogs. It is pure computation: callers load the catalog snapshot and
// source text, the engine normalizes, cross-checks and resolves every field,
// and the result carries canonical values plus review advisories.
package recon

// FieldKind selects the similarity threshold and ladder rungs used when
// resolving a value against a catalog dimension.
type FieldKind int

const (
	// FieldClient is a company name. Gets legal-suffix-insensitive matching.
	FieldClient FieldKind = iota
	// FieldRoute is an origin or destination location.
	FieldRoute
	// FieldMaterial is a cargo description. Gets containment matching.
	FieldMaterial
	// FieldPlate is a vehicle plate. Strict threshold plus OCR variants.
	FieldPlate
	// FieldPersonName is a driver or carrier personal name.
	FieldPersonName
)

// Config carries the tunables of the reconciliation engine. Thresholds are
// fractions in [0,1]; DefaultConfig returns the values calibrated against
// production waybill scans.
type Config struct {
	// TextThreshold applies to clients, routes and materials.
	TextThreshold float64 `mapstructure:"text_threshold"`
	// PlateThreshold applies to vehicle plates.
	PlateThreshold float64 `mapstructure:"plate_threshold"`
	// NameThreshold applies to driver and carrier personal names.
	NameThreshold float64 `mapstructure:"name_threshold"`
	// OCRCost is the edit cost charged for a substitution or transposition
	// inside an OCR confusion set, replacing the standard cost of 1.
	OCRCost float64 `mapstructure:"ocr_cost"`
	// MaxLengthDiff gates similarity scoring; strings whose lengths differ
	// by more than this are never compared.
	MaxLengthDiff int `mapstructure:"max_length_diff"`
	// ZeroCostCarrier marks in-house transport. When the resolved carrier
	// name contains this marker the final cost is forced to zero.
	ZeroCostCarrier string `mapstructure:"zero_cost_carrier"`
	// ConfusionSets lists OCR-confusable character groups. Each entry is
	// one group; a character may belong to several groups.
	ConfusionSets []string `mapstructure:"confusion_sets"`
}

// DefaultConfusionSets groups characters that OCR and vision models commonly
// misread for one another on stamped plates and dot-matrix waybills.
var DefaultConfusionSets = []string{
	"0OQD",
	"8B",
	"1IL",
	"5S",
	"6G",
	"2Z",
	"CG",
	"UVY",
}

func DefaultConfig() Config {
	return Config{
		TextThreshold:   0.75,
		PlateThreshold:  0.83,
		NameThreshold:   0.85,
		OCRCost:         0.3,
		MaxLengthDiff:   5,
		ZeroCostCarrier: "ECOTRANSPORTE",
		ConfusionSets:   DefaultConfusionSets,
	}
}
