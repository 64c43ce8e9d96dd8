// Command seedtariffs converts a tariff catalog Excel file into a SQL seed
// file. The workbook's first sheet is expected to carry one route per row:
// client, origin, destination, material, sell price, sell currency, cost
// price, cost currency. Prices are per tonne without IGV.
// Usage: go run ./cmd/seedtariffs [tariffs.xlsx]
// Output: db/seeds/tariffs.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"remitra/internal/recon"
)

const batchSize = 200

type tariffRow struct {
	client       string
	origin       string
	destination  string
	material     string
	sellPrice    *float64
	sellCurrency string
	costPrice    *float64
	costCurrency string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := "tariffs.xlsx"
	if len(os.Args) > 1 {
		xlsxPath = os.Args[1]
	}
	outPath := "db/seeds/tariffs.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return fmt.Errorf("read sheet: %w", err)
	}

	seen := make(map[string]bool)
	var entries []tariffRow
	skipped := 0

	// Row 0 is the header.
	for i := 1; i < len(rows); i++ {
		entry, ok := parseRow(rows[i])
		if !ok {
			skipped++
			continue
		}
		key := strings.Join([]string{entry.client, entry.origin, entry.destination, entry.material}, "|")
		if seen[key] {
			skipped++
			continue
		}
		seen[key] = true
		entries = append(entries, entry)
	}
	log.Printf("parsed %d tariff entries (%d rows skipped)", len(entries), skipped)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	fmt.Fprintln(out, "-- Tariff catalog seed data generated from Excel.")
	fmt.Fprintf(out, "-- %d entries in batches of %d.\n", len(entries), batchSize)
	fmt.Fprintln(out, "-- Run: make seed-tariffs")
	fmt.Fprintln(out, "BEGIN;")
	fmt.Fprintln(out)

	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := writeBatch(out, entries[i:end]); err != nil {
			return fmt.Errorf("write batch at offset %d: %w", i, err)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "COMMIT;")

	log.Printf("Generated %d entries (%d batches) in %s",
		len(entries), (len(entries)+batchSize-1)/batchSize, outPath)
	return nil
}

// parseRow converts one sheet row into a tariff entry. Rows without the
// three route dimensions are skipped. Dimension values are cleaned the
// same way reconciliation cleans extracted fields so catalog lookups
// match.
func parseRow(row []string) (tariffRow, bool) {
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	entry := tariffRow{
		client:       recon.CollapseLegalForm(strings.ToUpper(cell(0))),
		origin:       strings.ToUpper(cell(1)),
		destination:  strings.ToUpper(cell(2)),
		material:     recon.CleanMaterialDescription(cell(3)),
		sellCurrency: strings.ToUpper(cell(5)),
		costCurrency: strings.ToUpper(cell(7)),
	}
	if entry.client == "" || entry.origin == "" || entry.destination == "" {
		return tariffRow{}, false
	}

	entry.sellPrice = parsePrice(cell(4))
	entry.costPrice = parsePrice(cell(6))
	if entry.sellPrice != nil && entry.sellCurrency == "" {
		entry.sellCurrency = "USD"
	}
	if entry.costPrice != nil && entry.costCurrency == "" {
		entry.costCurrency = "USD"
	}
	return entry, true
}

func parsePrice(s string) *float64 {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

func writeBatch(out *os.File, batch []tariffRow) error {
	var b strings.Builder
	b.WriteString("INSERT INTO tariffs (id, client, origin, destination, material, sell_unit_price, sell_currency, cost_unit_price, cost_currency, created_at, updated_at) VALUES\n")

	for i, e := range batch {
		b.WriteString(fmt.Sprintf("(gen_random_uuid(), %s, %s, %s, %s, %s, %s, %s, %s, NOW(), NOW())",
			sqlStr(e.client), sqlStr(e.origin), sqlStr(e.destination), sqlStr(e.material),
			sqlFloat(e.sellPrice), sqlStrOrNull(e.sellCurrency),
			sqlFloat(e.costPrice), sqlStrOrNull(e.costCurrency)))
		if i < len(batch)-1 {
			b.WriteString(",\n")
		}
	}
	b.WriteString("\nON CONFLICT (client, origin, destination, material) DO NOTHING;\n")

	_, err := fmt.Fprintln(out, b.String())
	return err
}

func sqlStr(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sqlStrOrNull(s string) string {
	if s == "" {
		return "NULL"
	}
	return sqlStr(s)
}

func sqlFloat(v *float64) string {
	if v == nil {
		return "NULL"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
