package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
	"github.com/rimsha-sudo/RAG-Chatbot/pkg/llm"
)

type Config struct {
	TopK int
	// EmbedBatchSize is how many chunk texts go to the embedder per
	// call during ingestion.
	EmbedBatchSize int
	// OnProgress, when set, is called after each embedded batch with
	// the number of chunks done and the total.
	OnProgress func(done, total int)
}

// Pipeline is a single question-answering session over one document.
// It starts empty; a successful Ingest makes it ready and a later
// Ingest replaces the document wholesale. Each session owns its own
// pipeline; nothing here is process-wide.
type Pipeline struct {
	mu        sync.Mutex
	config    Config
	extractor types.Extractor
	chunker   types.Chunker
	embedder  types.Embedder
	index     types.VectorIndex
	answerer  *llm.AnswerExtractor
	ready     bool
}

func New(extractor types.Extractor, chunker types.Chunker, embedder types.Embedder,
	index types.VectorIndex, answerer *llm.AnswerExtractor, config Config) *Pipeline {
	if config.TopK == 0 {
		config.TopK = 4
	}
	if config.EmbedBatchSize == 0 {
		config.EmbedBatchSize = 16
	}

	return &Pipeline{
		config:    config,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		answerer:  answerer,
	}
}

// Ready reports whether a document has been ingested.
func (p *Pipeline) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// Ingest runs extract, chunk, embed and index build for the document.
// Any failure leaves the pipeline in its prior state; the index is
// only replaced after every chunk embedded successfully.
func (p *Pipeline) Ingest(ctx context.Context, doc models.Document) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	text, err := p.extractor.Extract(doc)
	if err != nil {
		return err
	}

	chunks, err := p.chunker.Chunk(text)
	if err != nil {
		return err
	}

	if p.config.OnProgress != nil {
		p.config.OnProgress(0, len(chunks))
	}

	for start := 0; start < len(chunks); start += p.config.EmbedBatchSize {
		end := start + p.config.EmbedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, end-start)
		for i, chunk := range chunks[start:end] {
			texts[i] = chunk.Text
		}

		vectors, err := p.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return err
		}
		if len(vectors) != end-start {
			return fmt.Errorf("%w: got %d embeddings for %d chunks",
				types.ErrModelUnavailable, len(vectors), end-start)
		}

		for i := range vectors {
			chunks[start+i].Vector = vectors[i]
		}

		if p.config.OnProgress != nil {
			p.config.OnProgress(end, len(chunks))
		}
	}

	// Build replaces the whole index in one step; on failure the
	// previous index stays active.
	if err := p.index.Build(ctx, chunks); err != nil {
		return err
	}

	p.ready = true
	return nil
}

// Ask answers a question against the ingested document.
func (p *Pipeline) Ask(ctx context.Context, question string) (models.Answer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ready {
		return models.Answer{}, types.ErrNotReady
	}

	vector, err := p.embedder.Embed(ctx, question)
	if err != nil {
		return models.Answer{}, err
	}

	retrieved, err := p.index.Search(ctx, vector, p.config.TopK)
	if err != nil {
		return models.Answer{}, err
	}

	return p.answerer.Answer(ctx, question, retrieved)
}
