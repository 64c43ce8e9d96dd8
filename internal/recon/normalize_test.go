package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMild(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases and trims", "  LIMA  ", "lima"},
		{"strips accents", "Cañete - Cañete", "canete-canete"},
		{"drops punctuation", "S.A.C.", "sac"},
		{"collapses hyphen spacing", "LIMA -  CALLAO", "lima-callao"},
		{"collapses whitespace", "a   b\tc", "a b c"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMild(tt.input))
		})
	}
}

func TestNormalizeAggressive(t *testing.T) {
	assert.Equal(t, "limacallao", NormalizeAggressive("LIMA - CALLAO"))
	assert.Equal(t, "minerachalasac", NormalizeAggressive("Minera Chala S.A.C."))
	assert.Equal(t, "", NormalizeAggressive(" -.- "))
}

func TestStripLegalSuffix(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"sac with dots", "MINERA CHALA S.A.C.", "MINERA CHALA"},
		{"sac bare", "minera chala sac", "minera chala"},
		{"sa spaced", "ECO GOLD S A", "ECO GOLD"},
		{"eirl", "TRANSPORTES PUMA E.I.R.L.", "TRANSPORTES PUMA"},
		{"srl", "ANDINA SRL", "ANDINA"},
		{"no suffix untouched", "PALTARUMI", "PALTARUMI"},
		{"stacked suffixes", "MINERA CHALA SAC SA", "MINERA CHALA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripLegalSuffix(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, StripLegalSuffix(got), "must be idempotent")
		})
	}
}

func TestCollapseLegalForm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"keeps short form after dash",
			"PALTARUMI SOCIEDAD ANONIMA CERRADA - PALTARUMI S.A.C.",
			"PALTARUMI S.A.C.",
		},
		{
			"abbreviates spelled-out sac",
			"MINERA VETA DORADA SOCIEDAD ANONIMA CERRADA",
			"MINERA VETA DORADA S.A.C.",
		},
		{
			"abbreviates spelled-out sa",
			"VOTORANTIM SOCIEDAD ANONIMA",
			"VOTORANTIM S.A.",
		},
		{
			"repairs ocr sociedad",
			"CHALA ONE SCIEDAD ANONIMA CERRADA",
			"CHALA ONE S.A.C.",
		},
		{
			"dash segment without legal form kept whole",
			"LAS LOMAS - DORADAS",
			"LAS LOMAS - DORADAS",
		},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollapseLegalForm(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CollapseLegalForm(got), "must be idempotent")
		})
	}
}

func TestCleanMaterialDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"cuts at un code",
			"POR CONCENTRADO DE ZN UN 3077 CLASE 9 MISCELANEOS",
			"CONCENTRADO DE ZN",
		},
		{
			"cuts at clase code",
			"CONCENTRADO DE COBRE CLASE: 9 UN: 3077",
			"CONCENTRADO DE COBRE",
		},
		{
			"strips bulk suffix",
			"POR CONCENTRADO DE PLATA Y ORO - GRANEL",
			"CONCENTRADO DE PLATA Y ORO",
		},
		{
			"strips lot codes",
			"CONCENTRADO DE ORO 0012-21416",
			"CONCENTRADO DE ORO",
		},
		{
			"doubled bulk suffix",
			"CONCENTRADO DE ZN - GRANEL - GRANEL",
			"CONCENTRADO DE ZN",
		},
		{
			"lot code hides the preamble",
			"0012-21416 POR CONCENTRADO DE ORO",
			"CONCENTRADO DE ORO",
		},
		{"uppercases", "concentrado de zinc", "CONCENTRADO DE ZINC"},
		{"granel mid-phrase kept", "ARROZ A GRANEL EN SACOS", "ARROZ A GRANEL EN SACOS"},
		{"empty", "  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanMaterialDescription(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CleanMaterialDescription(got), "must be idempotent")
		})
	}
}

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		isValid bool
	}{
		{"separators removed", "cbs-840", "CBS840", true},
		{"spaces removed", "CBS 840", "CBS840", true},
		{"digit prefix ok", "4BS840", "4BS840", true},
		{"letters in digit block rejected", "CBS84O", "CBS84O", false},
		{"too short", "CB840", "CB840", false},
		{"too long", "CBS8400", "CBS8400", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizePlate(tt.input)
			require.Equal(t, tt.isValid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeWeek(t *testing.T) {
	assert.Equal(t, "7", NormalizeWeek("07"))
	assert.Equal(t, "32", NormalizeWeek("SEMANA 32"))
	assert.Equal(t, "0", NormalizeWeek("000"))
	assert.Equal(t, "", NormalizeWeek(""))
}
