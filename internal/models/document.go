package models

// Format is the declared format of an uploaded document.
type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	FormatHTML Format = "html"
)

// Document holds the raw bytes of an uploaded file together with its
// declared format. It only lives for the duration of an ingestion.
type Document struct {
	Name   string
	Format Format
	Data   []byte
}

// Chunk is a bounded, possibly overlapping substring of a source
// document. Immutable once created; owned by the active index.
type Chunk struct {
	ID       int
	Text     string
	Position int
	Vector   []float32
}

// SearchResult pairs a chunk with its similarity score to a query.
type SearchResult struct {
	Chunk Chunk
	Score float32
}

// Answer is the extracted answer span for a question.
type Answer struct {
	Text          string
	Confidence    float64
	SourceChunkID int
	// LowConfidence is set when Confidence fell below the configured
	// threshold. The answer is still returned; the caller decides.
	LowConfidence bool
}

// NoAnswerText is returned when retrieval produced no context.
const NoAnswerText = "No answer found in the document."

// NoAnswer is the sentinel result for empty retrieval.
func NoAnswer() Answer {
	return Answer{Text: NoAnswerText, Confidence: 0, SourceChunkID: -1, LowConfidence: true}
}
