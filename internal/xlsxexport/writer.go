// Package xlsxexport renders waybill listings as XLSX workbooks for the
// commercial team's weekly settlement sheet.
package xlsxexport

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"remitra/internal/domain"
)

const sheetName = "Waybills"

var headers = []string{
	"Code", "Issue Date", "Month", "Week",
	"Client", "Origin", "Destination", "Material",
	"Driver", "Plate", "Carrier",
	"Gross (t)", "Received (t)",
	"Unit Price", "Currency", "Final Price",
	"Unit Cost", "Cost Currency", "Final Cost", "Margin",
	"Status", "Voided",
}

// Write renders the waybills into a single-sheet workbook and returns the
// serialized file.
func Write(waybills []domain.Waybill) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("xlsxexport.Write: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsxexport.Write: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("xlsxexport.Write: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("xlsxexport.Write: %w", err)
		}
	}

	for i := range waybills {
		if err := writeRow(f, i+2, &waybills[i]); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsxexport.Write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, wb *domain.Waybill) error {
	values := []interface{}{
		cellStr(wb.Code), cellStr(wb.IssueDate), cellStr(wb.Month), cellStr(wb.Week),
		cellStr(wb.Client), cellStr(wb.Origin), cellStr(wb.Destination), cellStr(wb.Material),
		cellStr(wb.DriverName), cellStr(wb.Plate), cellStr(wb.CarrierName),
		cellFloat(wb.GrossWeight), cellFloat(wb.ReceivedWeight),
		cellFloat(wb.UnitPrice), cellStr(wb.Currency), cellFloat(wb.FinalPrice),
		cellFloat(wb.UnitCost), cellStr(wb.CostCurrency), cellFloat(wb.FinalCost), cellFloat(wb.Margin),
		string(wb.Status), wb.Voided,
	}
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("xlsxexport.writeRow: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("xlsxexport.writeRow: %w", err)
		}
	}
	return nil
}

func cellStr(s *string) interface{} {
	if s == nil {
		return ""
	}
	return *s
}

func cellFloat(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
