package llm

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
)

type OpenAIEmbedderConfig struct {
	Model  string
	APIKey string
}

// OpenAIEmbedder is the hosted alternative to the Ollama embedder.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	dim    int
}

func NewOpenAIEmbedder(config OpenAIEmbedderConfig) (*OpenAIEmbedder, error) {
	if config.Model == "" {
		config.Model = "text-embedding-3-small"
	}
	if config.APIKey == "" {
		config.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", types.ErrModelUnavailable)
	}

	dim := 1536 // text-embedding-3-small
	if config.Model == "text-embedding-3-large" {
		dim = 3072
	}

	return &OpenAIEmbedder{
		client: openai.NewClient(config.APIKey),
		model:  config.Model,
		dim:    dim,
	}, nil
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrModelUnavailable, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
			types.ErrModelUnavailable, len(resp.Data), len(texts))
	}

	results := make([][]float32, len(texts))
	for i, data := range resp.Data {
		vector := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vector[j] = float32(v)
		}
		Normalize(vector)
		results[i] = vector
	}

	return results, nil
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.dim
}
