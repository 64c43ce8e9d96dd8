package recon

import (
	"sort"
	"strings"
)

// Resolver maps noisy extracted values onto canonical catalog values. It
// tries progressively looser rungs and only falls back to similarity scoring
// when every exact form fails. Immutable after construction.
type Resolver struct {
	cfg    Config
	scorer *Scorer
}

func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg, scorer: NewScorer(cfg.ConfusionSets, cfg.OCRCost)}
}

func (r *Resolver) threshold(kind FieldKind) float64 {
	switch kind {
	case FieldPlate:
		return r.cfg.PlateThreshold
	case FieldPersonName:
		return r.cfg.NameThreshold
	default:
		return r.cfg.TextThreshold
	}
}

type scored struct {
	value string
	score float64
	count int
}

// pickBest orders similarity candidates by occurrence count, then score.
// Frequency wins ties so a common catalog value beats a rare lookalike.
func pickBest(matches []scored) string {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].count != matches[j].count {
			return matches[i].count > matches[j].count
		}
		return matches[i].score > matches[j].score
	})
	return matches[0].value
}

// Resolve finds the canonical catalog value for a candidate, or reports
// false when nothing clears the bar. The ladder, first success wins:
// mild-normalized equality, aggressive-normalized equality, legal-suffix
// insensitive equality for clients, containment for materials, then
// OCR-aware similarity gated by length difference and the kind's threshold.
func (r *Resolver) Resolve(candidate string, values []CatalogValue, kind FieldKind) (string, bool) {
	if strings.TrimSpace(candidate) == "" || len(values) == 0 {
		return "", false
	}
	mild := NormalizeMild(candidate)
	aggr := NormalizeAggressive(candidate)
	if aggr == "" {
		return "", false
	}

	for _, cv := range values {
		if NormalizeMild(cv.Value) == mild {
			return cv.Value, true
		}
	}
	for _, cv := range values {
		if NormalizeAggressive(cv.Value) == aggr {
			return cv.Value, true
		}
	}
	if kind == FieldClient {
		stripped := StripLegalSuffix(mild)
		if stripped != "" {
			for _, cv := range values {
				if cs := StripLegalSuffix(NormalizeMild(cv.Value)); cs != "" && cs == stripped {
					return cv.Value, true
				}
			}
		}
	}
	if kind == FieldMaterial {
		for _, cv := range values {
			if ca := NormalizeAggressive(cv.Value); ca != "" && strings.Contains(aggr, ca) {
				return cv.Value, true
			}
		}
	}

	threshold := r.threshold(kind)
	var matches []scored
	for _, cv := range values {
		ca := NormalizeAggressive(cv.Value)
		if ca == "" || lengthDiff(aggr, ca) > r.cfg.MaxLengthDiff {
			continue
		}
		if score := r.scorer.Similarity(aggr, ca); score >= threshold {
			matches = append(matches, scored{value: cv.Value, score: score, count: cv.Count})
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	return pickBest(matches), true
}

// ResolvePlate canonicalizes a syntactically valid plate against the known
// plate pool. Plates skip text normalization; instead the OCR misread
// neighborhood is checked for exact membership before similarity scoring.
func (r *Resolver) ResolvePlate(plate string, plates []CatalogValue) (string, bool) {
	if plate == "" || len(plates) == 0 {
		return "", false
	}
	for _, cv := range plates {
		if cv.Value == plate {
			return cv.Value, true
		}
	}
	variants := r.scorer.Variants(plate)
	var members []scored
	for _, cv := range plates {
		if _, ok := variants[cv.Value]; !ok {
			continue
		}
		if score := r.scorer.Similarity(plate, cv.Value); score >= r.cfg.PlateThreshold {
			members = append(members, scored{value: cv.Value, score: score, count: cv.Count})
		}
	}
	if len(members) > 0 {
		return pickBest(members), true
	}

	// No neighbor in the single-misread set; fall back to scoring the whole
	// pool so multi-character misreads can still match.
	var matches []scored
	for _, cv := range plates {
		if score := r.scorer.Similarity(plate, cv.Value); score >= r.cfg.PlateThreshold {
			matches = append(matches, scored{value: cv.Value, score: score, count: cv.Count})
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	return pickBest(matches), true
}

func lengthDiff(a, b string) int {
	d := len(a) - len(b)
	if d < 0 {
		return -d
	}
	return d
}
