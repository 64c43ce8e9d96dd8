package port

import (
	"context"

	"remitra/internal/recon"
)

// ParseInput carries the data needed for document parsing.
type ParseInput struct {
	FileBytes   []byte
	ContentType string
	// SourceText is the PDF text layer, passed so a retry can anchor the
	// stricter prompt to the document's own wording.
	SourceText string
}

// ParseOutput contains the structured result from an LLM parser.
type ParseOutput struct {
	Fields    recon.Extraction
	ModelUsed string
}

// DocumentParser abstracts LLM-based waybill field extraction.
type DocumentParser interface {
	Parse(ctx context.Context, input ParseInput) (*ParseOutput, error)
}
