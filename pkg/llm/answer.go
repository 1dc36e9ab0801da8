package llm

import (
	"context"
	"sort"
	"strings"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
)

type AnswerExtractorConfig struct {
	// MaxContextChars bounds the assembled context; chunks past the
	// budget are dropped lowest-similarity first.
	MaxContextChars int
	// MinConfidence marks answers below it as low confidence. They
	// are still returned; the policy belongs to the caller. Zero
	// disables the flag.
	MinConfidence float64
}

// AnswerExtractor assembles retrieved chunks into a context window
// and runs an extractive QA model over it. Surviving chunks are
// reordered by document position before concatenation so the model
// sees coherent running text.
type AnswerExtractor struct {
	config AnswerExtractorConfig
	model  types.AnswerModel
}

func NewAnswerExtractor(model types.AnswerModel, config AnswerExtractorConfig) *AnswerExtractor {
	if config.MaxContextChars == 0 {
		config.MaxContextChars = 2000
	}

	return &AnswerExtractor{
		config: config,
		model:  model,
	}
}

func (ae *AnswerExtractor) Answer(ctx context.Context, question string, retrieved []models.SearchResult) (models.Answer, error) {
	if len(retrieved) == 0 {
		return models.NoAnswer(), nil
	}

	kept := ae.fitBudget(retrieved)

	ordered := make([]models.SearchResult, len(kept))
	copy(ordered, kept)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Chunk.Position < ordered[j].Chunk.Position
	})

	texts := make([]string, len(ordered))
	for i, result := range ordered {
		texts[i] = result.Chunk.Text
	}
	contextText := strings.Join(texts, "\n")

	span, confidence, err := ae.model.ExtractSpan(ctx, question, contextText)
	if err != nil {
		return models.Answer{}, err
	}
	if span == "" {
		return models.NoAnswer(), nil
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return models.Answer{
		Text:          span,
		Confidence:    confidence,
		SourceChunkID: ae.sourceChunk(kept, span),
		LowConfidence: confidence < ae.config.MinConfidence,
	}, nil
}

// fitBudget keeps the highest-similarity chunks that fit the context
// budget. The best chunk always survives, even if oversized.
func (ae *AnswerExtractor) fitBudget(retrieved []models.SearchResult) []models.SearchResult {
	var kept []models.SearchResult
	used := 0

	for _, result := range retrieved {
		cost := len(result.Chunk.Text) + 1
		if len(kept) > 0 && used+cost > ae.config.MaxContextChars {
			break
		}
		kept = append(kept, result)
		used += cost
	}

	return kept
}

// sourceChunk finds the retrieved chunk the winning span came from.
// Highest-similarity chunks are checked first; when no chunk contains
// the full span (it crossed a boundary) the best chunk is credited.
func (ae *AnswerExtractor) sourceChunk(kept []models.SearchResult, span string) int {
	for _, result := range kept {
		if strings.Contains(result.Chunk.Text, span) {
			return result.Chunk.ID
		}
	}
	return kept[0].Chunk.ID
}
