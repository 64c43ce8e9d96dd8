package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWaybillText = `GUIA DE REMISION ELECTRÓNICA T001-4821
FECHA DE EMISION: 14/03/2025
DENOMINACIÓN: PALTARUMI SOCIEDAD ANONIMA CERRADA - PALTARUMI S.A.C.
PUNTO DE PARTIDA: (040302) AREQUIPA - CARAVELI - CHALA
PUNTO DE LLEGADA: (150101) LIMA - LIMA - CALLAO AV. NESTOR GAMBETTA 1265
CONDUCTOR PRINCIPAL : DNI 45782913 - QUISPE MAMANI JUAN CARLOS
VEHÍCULO PRINCIPAL : CBS-840
PESO BRUTO TOTAL (TNE) : 32.115
`

func TestExtractCriticalFields(t *testing.T) {
	got := ExtractCriticalFields(sampleWaybillText)

	t.Run("waybill code", func(t *testing.T) {
		require.NotNil(t, got.Code)
		assert.Equal(t, "T001-4821", *got.Code)
	})

	t.Run("driver after dni", func(t *testing.T) {
		require.NotNil(t, got.DriverName)
		assert.Equal(t, "QUISPE MAMANI JUAN CARLOS", *got.DriverName)
	})

	t.Run("plate without separator", func(t *testing.T) {
		require.NotNil(t, got.Plate)
		assert.Equal(t, "CBS840", *got.Plate)
	})

	t.Run("gross weight", func(t *testing.T) {
		require.NotNil(t, got.GrossWeight)
		assert.Equal(t, 32.115, *got.GrossWeight)
	})

	t.Run("client collapses to short legal form", func(t *testing.T) {
		require.NotNil(t, got.Client)
		assert.Equal(t, "PALTARUMI S.A.C.", *got.Client)
	})

	t.Run("origin joins hierarchy", func(t *testing.T) {
		require.NotNil(t, got.Origin)
		assert.Equal(t, "AREQUIPA-CARAVELI-CHALA", *got.Origin)
	})

	t.Run("destination drops trailing address", func(t *testing.T) {
		require.NotNil(t, got.Destination)
		assert.Equal(t, "LIMA-LIMA-CALLAO", *got.Destination)
	})
}

func TestExtractCriticalFieldsVariants(t *testing.T) {
	t.Run("unaccented labels", func(t *testing.T) {
		got := ExtractCriticalFields("GUIA ELECTRONICA \"T002-77\"\nVEHICULO PRINCIPAL: ABC-123\n")
		require.NotNil(t, got.Code)
		assert.Equal(t, "T002-77", *got.Code)
		require.NotNil(t, got.Plate)
		assert.Equal(t, "ABC123", *got.Plate)
	})

	t.Run("missing labels stay nil", func(t *testing.T) {
		got := ExtractCriticalFields("sin etiquetas reconocibles")
		assert.Nil(t, got.Code)
		assert.Nil(t, got.DriverName)
		assert.Nil(t, got.Plate)
		assert.Nil(t, got.GrossWeight)
		assert.Nil(t, got.Client)
		assert.Nil(t, got.Origin)
		assert.Nil(t, got.Destination)
	})

	t.Run("two level location joined as is", func(t *testing.T) {
		got := ExtractCriticalFields("PUNTO DE PARTIDA: (04) AREQUIPA - CARAVELI\n")
		require.NotNil(t, got.Origin)
		assert.Equal(t, "AREQUIPA-CARAVELI", *got.Origin)
	})

	t.Run("weight with trailing dot", func(t *testing.T) {
		got := ExtractCriticalFields("PESO BRUTO TOTAL (TNE) : 30.\n")
		require.NotNil(t, got.GrossWeight)
		assert.Equal(t, 30.0, *got.GrossWeight)
	})
}
