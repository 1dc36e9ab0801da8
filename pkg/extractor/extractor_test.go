package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
	"github.com/rimsha-sudo/RAG-Chatbot/pkg/extractor"
)

func TestRegistry_UnsupportedFormat(t *testing.T) {
	reg := extractor.DefaultRegistry()

	_, err := reg.Extract(models.Document{
		Name:   "slides.pptx",
		Format: models.Format("pptx"),
		Data:   []byte("irrelevant"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUnsupportedFormat)
}

func TestTextExtractor_Plain(t *testing.T) {
	reg := extractor.DefaultRegistry()

	text, err := reg.Extract(models.Document{
		Name:   "notes.txt",
		Format: models.FormatText,
		Data:   []byte("The capital of France is Paris.\n"),
	})

	require.NoError(t, err)
	assert.Equal(t, "The capital of France is Paris.\n", text)
}

func TestTextExtractor_InvalidUTF8(t *testing.T) {
	reg := extractor.DefaultRegistry()

	_, err := reg.Extract(models.Document{
		Name:   "broken.txt",
		Format: models.FormatText,
		Data:   []byte{0xff, 0xfe, 0x41},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrCorruptFile)
}

func TestPDFExtractor_CorruptFile(t *testing.T) {
	reg := extractor.DefaultRegistry()

	_, err := reg.Extract(models.Document{
		Name:   "fake.pdf",
		Format: models.FormatPDF,
		Data:   []byte("this is not a pdf"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrCorruptFile)
}

func TestHTMLExtractor_StripsMarkup(t *testing.T) {
	reg := extractor.DefaultRegistry()

	html := `<html><head><style>body { color: red }</style></head>
<body><h1>Title</h1><script>alert("hi")</script><p>Body text.</p></body></html>`

	text, err := reg.Extract(models.Document{
		Name:   "page.html",
		Format: models.FormatHTML,
		Data:   []byte(html),
	})

	require.NoError(t, err)
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "Body text.")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color: red")
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path   string
		format models.Format
		ok     bool
	}{
		{"report.pdf", models.FormatPDF, true},
		{"notes.TXT", models.FormatText, true},
		{"thesis.docx", models.FormatDocx, true},
		{"index.html", models.FormatHTML, true},
		{"archive.zip", "", false},
		{"noextension", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format, ok := extractor.FormatFromPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.format, format)
		})
	}
}
