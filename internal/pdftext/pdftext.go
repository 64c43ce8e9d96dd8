// Package pdftext extracts the embedded text layer from PDF files. Scanned
// waybills without a text layer yield an empty string; the pipeline then
// relies on the vision parser alone.
package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor implements port.TextExtractor for PDF files.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

// ExtractText returns the concatenated text of every page. Malformed or
// encrypted files produce an error; a well-formed file with no text layer
// produces an empty string.
func (e *Extractor) ExtractText(fileBytes []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return "", fmt.Errorf("pdftext.ExtractText: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// pages with broken font maps are skipped, not fatal
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}
