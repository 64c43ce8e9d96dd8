package recon

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legalSuffixTokens are Peruvian company legal-form suffixes, spelled as the
// bare letter sequence. The strip pattern tolerates dots and spaces between
// letters, so "sac" also matches "S.A.C." and "S A C".
var legalSuffixTokens = []string{"eirl", "sac", "srl", "ltda", "ltd", "cia", "sa"}

var (
	mildDropRe       = regexp.MustCompile(`[^a-z0-9\s-]`)
	aggressiveDropRe = regexp.MustCompile(`[^a-z0-9]`)
	hyphenSpaceRe    = regexp.MustCompile(`\s*-\s*`)
	wsRe             = regexp.MustCompile(`\s+`)

	legalSuffixRe = buildLegalSuffixRe(legalSuffixTokens)

	dashPartRe     = regexp.MustCompile(`\s+-\s+`)
	legalShortRe   = regexp.MustCompile(`(?i)\b(?:S\.?\s?A\.?\s?C?\.?|S\.?\s?R\.?\s?L\.?|E\.?\s?I\.?\s?R\.?\s?L\.?)`)
	ocrSociedadRe  = regexp.MustCompile(`(?i)\bS\.?C\.?IEDAD\b`)
	sacLongRe      = regexp.MustCompile(`(?i)\s*\bSOCIEDAD\s+ANONIMA\s+CERRADA\b\s*`)
	saLongRe       = regexp.MustCompile(`(?i)\s*\bSOCIEDAD\s+ANONIMA\b\s*`)
	srlLongRe      = regexp.MustCompile(`(?i)\s*\bSOCIEDAD\s+COMERCIAL\s+DE\s+RESPONSABILIDAD\s+LIMITADA\b\s*`)
	eirlLongRe     = regexp.MustCompile(`(?i)\s*\bEMPRESA\s+INDIVIDUAL\s+DE\s+RESPONSABILIDAD\s+LIMITADA\b\s*`)

	porPrefixRe   = regexp.MustCompile(`(?i)^(?:POR\s+)+`)
	hazardCodeRe  = regexp.MustCompile(`(?i)\s*/?\s*\b(?:CLASE|UN)\s*:?\s*\d+`)
	lotCodeRe     = regexp.MustCompile(`\s*\b\d{4}-\d{4,}\b`)
	bulkSuffixRe  = regexp.MustCompile(`(?i)\s*[-/]\s*GRANEL\s*$`)
	trailingSepRe = regexp.MustCompile(`\s*[-/:]\s*$`)

	plateFormatRe = regexp.MustCompile(`^[A-Z0-9]{3}\d{3}$`)
	plateSepRe    = regexp.MustCompile(`[\s-]`)
)

// buildLegalSuffixRe expands each suffix token into a pattern tolerant of
// interleaved dots and spaces and anchors the alternation to the end of the
// name, allowing trailing punctuation.
func buildLegalSuffixRe(tokens []string) *regexp.Regexp {
	alts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		letters := strings.Split(tok, "")
		alts = append(alts, strings.Join(letters, `[\s.]*`))
	}
	return regexp.MustCompile(`(?i)[\s-]+(?:` + strings.Join(alts, "|") + `)[\s.]*$`)
}

// removeDiacritics maps accented letters onto their base form, so "Ñaña"
// compares equal to "Nana". The transformer chain is built per call because
// transform chains are not safe for concurrent use.
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeMild produces the primary comparison key: lowercase, deaccented,
// punctuation dropped, hyphen spacing and whitespace collapsed. Hyphens are
// kept because route names carry meaningful hyphenation.
func NormalizeMild(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = removeDiacritics(out)
	out = mildDropRe.ReplaceAllString(out, "")
	out = hyphenSpaceRe.ReplaceAllString(out, "-")
	out = wsRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// NormalizeAggressive produces the fallback comparison key: lowercase,
// deaccented, every non-alphanumeric dropped.
func NormalizeAggressive(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = removeDiacritics(out)
	return aggressiveDropRe.ReplaceAllString(out, "")
}

// StripLegalSuffix removes trailing legal-form suffixes from a company name.
// It strips repeatedly until stable, so "MINERA CHALA S.A.C." and
// "MINERA CHALA SAC SA" both reduce to "MINERA CHALA". Used only as a
// secondary comparison key; canonical catalog names keep their suffix.
func StripLegalSuffix(name string) string {
	out := strings.TrimSpace(name)
	for {
		next := strings.Trim(legalSuffixRe.ReplaceAllString(out, ""), " \t-")
		if next == out {
			return out
		}
		out = next
	}
}

// CollapseLegalForm canonicalizes the legal-form spelling of a company name.
// Waybills often print the long registered name followed by the short form
// after a dash; when the trailing dash segment carries a legal-form marker it
// is kept and the rest dropped. Spelled-out forms are abbreviated and the
// common OCR corruption of "SOCIEDAD" is repaired first.
func CollapseLegalForm(name string) string {
	out := strings.TrimSpace(name)
	if out == "" {
		return out
	}
	if parts := dashPartRe.Split(out, -1); len(parts) >= 2 {
		last := strings.TrimSpace(parts[len(parts)-1])
		if last != "" && legalShortRe.MatchString(last) {
			out = last
		}
	}
	out = ocrSociedadRe.ReplaceAllString(out, "SOCIEDAD")
	out = sacLongRe.ReplaceAllString(out, " S.A.C. ")
	out = srlLongRe.ReplaceAllString(out, " S.R.L. ")
	out = eirlLongRe.ReplaceAllString(out, " E.I.R.L. ")
	out = saLongRe.ReplaceAllString(out, " S.A. ")
	out = wsRe.ReplaceAllString(out, " ")
	return strings.Trim(out, " -")
}

// CleanMaterialDescription strips transport boilerplate from a cargo
// description: the "POR" preamble, hazard class annotations and everything
// after them, lot numbers and the bulk-cargo suffix. Output is uppercase.
// Stripping repeats until stable, since removing one layer can expose
// another (a lot number in front of "POR", a doubled bulk suffix).
func CleanMaterialDescription(text string) string {
	out := strings.ToUpper(strings.TrimSpace(text))
	for {
		next := out
		next = porPrefixRe.ReplaceAllString(next, "")
		if loc := hazardCodeRe.FindStringIndex(next); loc != nil {
			next = next[:loc[0]]
		}
		next = lotCodeRe.ReplaceAllString(next, "")
		next = bulkSuffixRe.ReplaceAllString(next, "")
		next = trailingSepRe.ReplaceAllString(next, "")
		next = wsRe.ReplaceAllString(next, " ")
		next = strings.TrimSpace(next)
		if next == out {
			return out
		}
		out = next
	}
}

// NormalizePlate uppercases a plate, removes separators and validates the
// national format of three alphanumerics followed by three digits. The
// second return is false when the cleaned value is not a syntactic plate.
func NormalizePlate(raw string) (string, bool) {
	plate := strings.ToUpper(plateSepRe.ReplaceAllString(strings.TrimSpace(raw), ""))
	if !plateFormatRe.MatchString(plate) {
		return plate, false
	}
	return plate, true
}

// NormalizeWeek reduces a week label to its bare number, dropping padding
// zeros and a "SEMANA" prefix if the extractor carried one over.
func NormalizeWeek(raw string) string {
	out := strings.ToUpper(strings.TrimSpace(raw))
	out = strings.TrimSpace(strings.TrimPrefix(out, "SEMANA"))
	trimmed := strings.TrimLeft(out, "0")
	if trimmed == "" && out != "" {
		return "0"
	}
	return trimmed
}
