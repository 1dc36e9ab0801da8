package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
)

// HTMLExtractor extracts the visible text of an HTML document. Script
// and style contents are removed first.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(doc models.Document) (string, error) {
	parsed, err := goquery.NewDocumentFromReader(bytes.NewReader(doc.Data))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", types.ErrCorruptFile, doc.Name, err)
	}

	parsed.Find("script, style, noscript").Remove()

	text := parsed.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = parsed.Text()
	}

	// Collapse runs of blank lines left behind by removed markup.
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n"), nil
}
