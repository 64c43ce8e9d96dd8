package recon

import "strings"

// ValidateAgainstSource nulls extracted fields that cannot be located in the
// source text. Vision models occasionally invent plausible codes and names;
// a value the document never printed is worse than no value. Only fields
// with verbatim expectations are checked, numeric fields are left alone.
func ValidateAgainstSource(fields Extraction, sourceText string) Extraction {
	upper := strings.ToUpper(sourceText)
	out := fields

	if out.Code != nil && !strings.Contains(upper, strings.ToUpper(*out.Code)) {
		out.Code = nil
	}
	if out.DriverName != nil && !nameSupported(*out.DriverName, upper) {
		out.DriverName = nil
	}
	if out.CarrierName != nil && !nameSupported(StripLegalSuffix(*out.CarrierName), upper) {
		out.CarrierName = nil
	}
	if out.Client != nil && !nameSupported(StripLegalSuffix(*out.Client), upper) {
		out.Client = nil
	}
	return out
}

// nameSupported checks that a multi-word name is anchored in the text.
// Words of four letters or more are the significant ones; at least two of
// them must appear verbatim, or all of them when there are fewer than two.
func nameSupported(name, upperText string) bool {
	var words []string
	for _, w := range strings.Fields(name) {
		if len([]rune(w)) > 3 {
			words = append(words, strings.ToUpper(w))
		}
	}
	if len(words) == 0 {
		return true
	}
	need := 2
	if len(words) < need {
		need = len(words)
	}
	found := 0
	for _, w := range words {
		if strings.Contains(upperText, w) {
			found++
			if found >= need {
				return true
			}
		}
	}
	return false
}
