package types

import (
	"context"
	"errors"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
)

// Error kinds surfaced by the pipeline. Components wrap these with
// fmt.Errorf("...: %w", ...); callers test with errors.Is.
var (
	ErrUnsupportedFormat    = errors.New("unsupported document format")
	ErrCorruptFile          = errors.New("corrupt document")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrModelUnavailable     = errors.New("model unavailable")
	ErrNotReady             = errors.New("no document ingested")
)

// Extractor converts a raw uploaded file into normalized text.
type Extractor interface {
	Extract(doc models.Document) (string, error)
}

// Chunker splits normalized text into ordered, overlapping chunks.
type Chunker interface {
	Chunk(text string) ([]models.Chunk, error)
}

// Embedder maps text into a fixed-dimension vector space. Chunk text
// and query text go through the same embedder so their vectors are
// directly comparable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// VectorIndex stores chunk vectors and answers top-k similarity
// queries. Build replaces the whole index; Search never observes a
// partially built one.
type VectorIndex interface {
	Build(ctx context.Context, chunks []models.Chunk) error
	Search(ctx context.Context, vector []float32, k int) ([]models.SearchResult, error)
}

// AnswerModel extracts a contiguous answer span from assembled
// context text, with a confidence in [0,1].
type AnswerModel interface {
	ExtractSpan(ctx context.Context, question, context string) (span string, confidence float64, err error)
}
