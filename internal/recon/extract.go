package recon

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns anchored to the fixed labels of the electronic waybill layout.
// Accented label variants appear when the PDF text layer keeps diacritics.
var (
	waybillCodeRe  = regexp.MustCompile(`(?i)ELECTR[OÓ]NICA\s+"?([A-Z0-9]+-\d+)"?`)
	driverLabelRe  = regexp.MustCompile(`(?i)CONDUCTOR PRINCIPAL\s*:\s*DNI\s+\d+\s*-\s*(.+)`)
	vehicleLabelRe = regexp.MustCompile(`(?i)VEH[IÍ]CULO PRINCIPAL\s*:\s*([A-Z0-9]{2,3}-?[A-Z0-9]{3,4})(?:\b|\s)`)
	grossWeightRe  = regexp.MustCompile(`(?i)PESO BRUTO TOTAL\s*\(TNE\)\s*:?\s*([\d.]+)`)
	clientLabelRe  = regexp.MustCompile(`(?i)DENOMINACI[OÓ]N\s*:\s*(.+)`)
	originLabelRe  = regexp.MustCompile(`(?i)PUNTO DE PARTIDA\s*:\s*\(\d+\)\s*(.+)`)
	destLabelRe    = regexp.MustCompile(`(?i)PUNTO DE LLEGADA\s*:\s*\(\d+\)\s*(.+)`)
	hierSplitRe    = regexp.MustCompile(`\s+-\s+`)
	trailingAddrRe = regexp.MustCompile(`\s+[A-Z]{2,}\..*$`)
)

// ExtractCriticalFields runs the deterministic label-anchored extractor over
// the raw PDF text. Fields whose label is absent stay nil; a found field is
// authoritative over any AI-extracted value.
func ExtractCriticalFields(text string) Extraction {
	var out Extraction

	if m := waybillCodeRe.FindStringSubmatch(text); m != nil {
		v := strings.ToUpper(strings.TrimSpace(m[1]))
		out.Code = &v
	}
	if m := driverLabelRe.FindStringSubmatch(text); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			out.DriverName = &v
		}
	}
	if m := vehicleLabelRe.FindStringSubmatch(text); m != nil {
		v := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(m[1]), "-", ""))
		out.Plate = &v
	}
	if m := grossWeightRe.FindStringSubmatch(text); m != nil {
		if f, err := strconv.ParseFloat(strings.TrimRight(m[1], "."), 64); err == nil {
			out.GrossWeight = &f
		}
	}
	if m := clientLabelRe.FindStringSubmatch(text); m != nil {
		if v := CollapseLegalForm(strings.TrimSpace(m[1])); v != "" {
			out.Client = &v
		}
	}
	if m := originLabelRe.FindStringSubmatch(text); m != nil {
		if v := joinLocationHierarchy(m[1], false); v != "" {
			out.Origin = &v
		}
	}
	if m := destLabelRe.FindStringSubmatch(text); m != nil {
		if v := joinLocationHierarchy(m[1], true); v != "" {
			out.Destination = &v
		}
	}
	return out
}

// joinLocationHierarchy turns the printed "DEPARTMENT - PROVINCE - DISTRICT"
// line into a hyphen-joined location. Destination lines often run into the
// street address, so the district level gets the trailing address stripped.
func joinLocationHierarchy(line string, stripAddress bool) string {
	parts := hierSplitRe.Split(strings.TrimSpace(line), -1)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) >= 3 {
		district := parts[2]
		if stripAddress {
			district = strings.TrimSpace(trailingAddrRe.ReplaceAllString(district, ""))
		}
		return strings.Join([]string{parts[0], parts[1], district}, "-")
	}
	joined := strings.Join(parts, "-")
	if stripAddress {
		joined = strings.TrimSpace(trailingAddrRe.ReplaceAllString(joined, ""))
	}
	return joined
}
