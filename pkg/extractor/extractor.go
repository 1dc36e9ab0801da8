package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
)

// Registry maps a declared document format to the extractor that
// handles it. Unknown formats are rejected before any parsing.
type Registry struct {
	extractors map[models.Format]types.Extractor
}

func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[models.Format]types.Extractor),
	}
}

func (r *Registry) Register(format models.Format, e types.Extractor) {
	r.extractors[format] = e
}

// Extract dispatches to the extractor for the document's declared
// format and returns the normalized text.
func (r *Registry) Extract(doc models.Document) (string, error) {
	e, ok := r.extractors[doc.Format]
	if !ok {
		return "", fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, doc.Format)
	}
	return e.Extract(doc)
}

// DefaultRegistry returns a registry with all supported formats
// registered.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(models.FormatText, &TextExtractor{})
	reg.Register(models.FormatPDF, &PDFExtractor{})
	reg.Register(models.FormatDocx, &DocxExtractor{})
	reg.Register(models.FormatHTML, &HTMLExtractor{})
	return reg
}

// FormatFromPath guesses the document format from a file extension.
// The second return value is false when the extension is unknown.
func FormatFromPath(path string) (models.Format, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "txt", "text", "md":
		return models.FormatText, true
	case "pdf":
		return models.FormatPDF, true
	case "docx":
		return models.FormatDocx, true
	case "html", "htm":
		return models.FormatHTML, true
	default:
		return "", false
	}
}
