package llm

import (
	"context"
	"fmt"
	"math"

	"github.com/tmc/langchaingo/llms/ollama"
	"golang.org/x/time/rate"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
)

type OllamaEmbedderConfig struct {
	Model     string
	BaseURL   string // Ollama server URL
	Dimension int
	BatchSize int
	// RateLimit caps embedding requests per second against the model
	// server.
	RateLimit float64
}

// OllamaEmbedder maps text into a fixed-dimension vector space using
// a pretrained embedding model served by Ollama. The same instance is
// used for chunk text at indexing time and query text at ask time.
type OllamaEmbedder struct {
	config  OllamaEmbedderConfig
	llm     *ollama.LLM
	limiter *rate.Limiter
}

func NewOllamaEmbedder(config OllamaEmbedderConfig) (*OllamaEmbedder, error) {
	if config.Model == "" {
		config.Model = "nomic-embed-text:latest"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.Dimension == 0 {
		config.Dimension = 768
	}
	if config.BatchSize == 0 {
		config.BatchSize = 16
	}
	if config.RateLimit == 0 {
		config.RateLimit = 10.0
	}

	emb, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrModelUnavailable, err)
	}

	return &OllamaEmbedder{
		config:  config,
		llm:     emb,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	vectors, err := e.llm.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrModelUnavailable, err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("%w: empty embedding returned", types.ErrModelUnavailable)
	}

	vector := vectors[0]
	Normalize(vector)
	return vector, nil
}

// EmbedBatch embeds chunk texts in rate-limited sub-batches. Results
// are identical to per-item Embed calls; batching is only a
// throughput optimization.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += e.config.BatchSize {
		end := start + e.config.BatchSize
		if end > len(texts) {
			end = len(texts)
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		vectors, err := e.llm.CreateEmbedding(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrModelUnavailable, err)
		}
		if len(vectors) != end-start {
			return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
				types.ErrModelUnavailable, len(vectors), end-start)
		}

		for _, vector := range vectors {
			Normalize(vector)
			results = append(results, vector)
		}
	}

	return results, nil
}

func (e *OllamaEmbedder) Dimension() int {
	return e.config.Dimension
}

// Normalize scales a vector to unit length in place, so plain
// inner-product ranking equals cosine ranking.
func Normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
