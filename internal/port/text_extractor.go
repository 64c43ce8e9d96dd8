package port

// TextExtractor pulls the embedded text layer out of a document file.
// Implementations return an empty string, not an error, for scanned files
// without a text layer.
type TextExtractor interface {
	ExtractText(fileBytes []byte) (string, error)
}
