package xlsxexport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"remitra/internal/domain"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestWrite(t *testing.T) {
	waybills := []domain.Waybill{
		{
			Code:       strPtr("T001-4821"),
			Client:     strPtr("PALTARUMI S.A.C."),
			Plate:      strPtr("CBS840"),
			FinalPrice: floatPtr(2729.78),
			Status:     domain.StatusCompleted,
		},
		{
			Code:   strPtr("T001-4822"),
			Status: domain.StatusFailed,
			Voided: true,
		},
	}

	data, err := Write(waybills)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two data rows")

	assert.Equal(t, "Code", rows[0][0])
	assert.Equal(t, "T001-4821", rows[1][0])
	assert.Equal(t, "PALTARUMI S.A.C.", rows[1][4])
	assert.Equal(t, "CBS840", rows[1][9])
	assert.Equal(t, "T001-4822", rows[2][0])
}

func TestWriteEmpty(t *testing.T) {
	data, err := Write(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
