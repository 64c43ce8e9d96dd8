package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestValidateAgainstSource(t *testing.T) {
	t.Run("verbatim code survives", func(t *testing.T) {
		got := ValidateAgainstSource(Extraction{Code: strPtr("T001-4821")}, sampleWaybillText)
		assert.NotNil(t, got.Code)
	})

	t.Run("invented code is nulled", func(t *testing.T) {
		got := ValidateAgainstSource(Extraction{Code: strPtr("T009-0001")}, sampleWaybillText)
		assert.Nil(t, got.Code)
	})

	t.Run("code check is case insensitive", func(t *testing.T) {
		got := ValidateAgainstSource(Extraction{Code: strPtr("t001-4821")}, sampleWaybillText)
		assert.NotNil(t, got.Code)
	})

	t.Run("driver with two anchored words survives", func(t *testing.T) {
		got := ValidateAgainstSource(Extraction{DriverName: strPtr("JUAN QUISPE MAMANI")}, sampleWaybillText)
		assert.NotNil(t, got.DriverName)
	})

	t.Run("invented driver is nulled", func(t *testing.T) {
		got := ValidateAgainstSource(Extraction{DriverName: strPtr("GARCIA FERNANDEZ PEDRO")}, sampleWaybillText)
		assert.Nil(t, got.DriverName)
	})

	t.Run("single significant word needs only itself", func(t *testing.T) {
		got := ValidateAgainstSource(Extraction{DriverName: strPtr("QUISPE J. M.")}, sampleWaybillText)
		assert.NotNil(t, got.DriverName)
	})

	t.Run("client checked without legal suffix", func(t *testing.T) {
		got := ValidateAgainstSource(Extraction{Client: strPtr("PALTARUMI S.A.C.")}, sampleWaybillText)
		assert.NotNil(t, got.Client)
	})

	t.Run("invented client is nulled", func(t *testing.T) {
		got := ValidateAgainstSource(Extraction{Client: strPtr("MINERA AURORA ANDINA S.A.C.")}, sampleWaybillText)
		assert.Nil(t, got.Client)
	})

	t.Run("no significant words passes", func(t *testing.T) {
		got := ValidateAgainstSource(Extraction{DriverName: strPtr("A. B.")}, sampleWaybillText)
		assert.NotNil(t, got.DriverName)
	})

	t.Run("numeric fields untouched", func(t *testing.T) {
		w := 99.9
		got := ValidateAgainstSource(Extraction{GrossWeight: &w}, sampleWaybillText)
		assert.NotNil(t, got.GrossWeight)
	})
}
