package extractor

import (
	"fmt"
	"unicode/utf8"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
)

// TextExtractor handles plain text files. The bytes must already be
// valid UTF-8; anything else is treated as a corrupt upload.
type TextExtractor struct{}

func (e *TextExtractor) Extract(doc models.Document) (string, error) {
	if !utf8.Valid(doc.Data) {
		return "", fmt.Errorf("%w: invalid UTF-8 in %s", types.ErrCorruptFile, doc.Name)
	}
	return string(doc.Data), nil
}
