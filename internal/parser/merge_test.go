package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"remitra/internal/recon"
)

func strPtr(s string) *string { return &s }

func TestMergeMissing(t *testing.T) {
	t.Run("retry fills gaps only", func(t *testing.T) {
		primary := recon.Extraction{
			Code:   strPtr("T001-4821"),
			Client: strPtr("PALTARUMI S.A.C."),
		}
		retry := recon.Extraction{
			Code:       strPtr("T999-0000"),
			DriverName: strPtr("QUISPE MAMANI JUAN"),
		}

		got := MergeMissing(primary, retry)

		assert.Equal(t, "T001-4821", *got.Code, "primary value kept")
		assert.Equal(t, "PALTARUMI S.A.C.", *got.Client)
		assert.Equal(t, "QUISPE MAMANI JUAN", *got.DriverName, "gap filled from retry")
	})

	t.Run("empty retry changes nothing", func(t *testing.T) {
		primary := recon.Extraction{Code: strPtr("T001-1")}
		got := MergeMissing(primary, recon.Extraction{})
		assert.Equal(t, primary, got)
	})
}

func TestMissingCritical(t *testing.T) {
	t.Run("complete extraction has none", func(t *testing.T) {
		w := 30.0
		e := recon.Extraction{
			Code:        strPtr("T001-1"),
			Client:      strPtr("X"),
			Plate:       strPtr("ABC123"),
			DriverName:  strPtr("Y"),
			GrossWeight: &w,
			Origin:      strPtr("A"),
			Destination: strPtr("B"),
		}
		assert.Empty(t, MissingCritical(e))
	})

	t.Run("names each gap", func(t *testing.T) {
		got := MissingCritical(recon.Extraction{Code: strPtr("T001-1")})
		assert.Contains(t, got, "client")
		assert.Contains(t, got, "plate")
		assert.NotContains(t, got, "code")
	})
}
