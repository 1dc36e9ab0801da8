package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
)

// DocxExtractor extracts paragraph text from Word documents in
// document order, separated by newlines. Tables and images are
// ignored.
type DocxExtractor struct{}

func (e *DocxExtractor) Extract(doc models.Document) (string, error) {
	parsed, err := docx.Parse(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", types.ErrCorruptFile, doc.Name, err)
	}

	var builder strings.Builder
	for _, item := range parsed.Document.Body.Items {
		paragraph, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		text := paragraph.String()
		if text == "" {
			continue
		}

		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
	}

	return builder.String(), nil
}
