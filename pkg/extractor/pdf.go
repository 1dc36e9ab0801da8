package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
)

// PDFExtractor extracts text page by page, concatenated in page order
// with a separating newline. A PDF with no extractable text (scanned
// pages) yields an empty string, not an error.
type PDFExtractor struct{}

func (e *PDFExtractor) Extract(doc models.Document) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", types.ErrCorruptFile, doc.Name, err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		// Pages that fail text extraction are skipped rather than
		// failing the whole document; image-only pages have no text.
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
	}

	return builder.String(), nil
}
