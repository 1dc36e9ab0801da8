package pipeline

import (
	"fmt"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
	"github.com/rimsha-sudo/RAG-Chatbot/pkg/config"
	"github.com/rimsha-sudo/RAG-Chatbot/pkg/extractor"
	"github.com/rimsha-sudo/RAG-Chatbot/pkg/llm"
	"github.com/rimsha-sudo/RAG-Chatbot/pkg/processor"
	"github.com/rimsha-sudo/RAG-Chatbot/pkg/store"
)

// FromConfig assembles a pipeline with the components the
// configuration selects. The returned cleanup function releases any
// backend connections and is safe to call once.
func FromConfig(cfg *config.Config, onProgress func(done, total int)) (*Pipeline, func(), error) {
	chunker := processor.NewWithConfig(processor.ChunkerConfig{
		ChunkSize:    cfg.Processor.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap(),
		SnapLookback: cfg.Processor.SnapLookback,
	})

	embedder, err := embedderFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	index, cleanup, err := indexFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	model, err := answerModelFromConfig(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	answerer := llm.NewAnswerExtractor(model, llm.AnswerExtractorConfig{
		MaxContextChars: cfg.Retrieval.MaxContextChars,
		MinConfidence:   cfg.MinConfidence(),
	})

	p := New(extractor.DefaultRegistry(), &chunker, embedder, index, answerer, Config{
		TopK:       cfg.Retrieval.TopK,
		OnProgress: onProgress,
	})

	return p, cleanup, nil
}

func embedderFromConfig(cfg *config.Config) (types.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "ollama":
		return llm.NewOllamaEmbedder(llm.OllamaEmbedderConfig{
			Model:     cfg.Embedding.Model,
			BaseURL:   cfg.LLM.BaseURL,
			Dimension: cfg.Embedding.Dimension,
			RateLimit: cfg.Embedding.RateLimit,
		})
	case "openai":
		return llm.NewOpenAIEmbedder(llm.OpenAIEmbedderConfig{
			Model: cfg.Embedding.Model,
		})
	case "local":
		return llm.NewLocalEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %s",
			types.ErrInvalidConfiguration, cfg.Embedding.Provider)
	}
}

func indexFromConfig(cfg *config.Config) (types.VectorIndex, func(), error) {
	switch cfg.Index.Backend {
	case "memory":
		return store.NewMemoryIndex(), func() {}, nil
	case "pgvector":
		idx, err := store.NewWithConfig(store.PgIndexConfig{
			ConnString: cfg.Index.URL,
			TableName:  cfg.Index.TableName,
			VectorDim:  cfg.Embedding.Dimension,
		})
		if err != nil {
			return nil, nil, err
		}
		return idx, idx.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown index backend %s",
			types.ErrInvalidConfiguration, cfg.Index.Backend)
	}
}

func answerModelFromConfig(cfg *config.Config) (types.AnswerModel, error) {
	switch cfg.LLM.Mode {
	case "span":
		return llm.NewSpanExtractor(), nil
	case "chat":
		return llm.NewChatAnswerModel(llm.ChatConfig{
			Model:       cfg.LLM.Model,
			Temperature: cfg.Temperature(),
			MaxTokens:   cfg.LLM.MaxTokens,
			BaseURL:     cfg.LLM.BaseURL,
		})
	default:
		return nil, fmt.Errorf("%w: unknown llm mode %s",
			types.ErrInvalidConfiguration, cfg.LLM.Mode)
	}
}
