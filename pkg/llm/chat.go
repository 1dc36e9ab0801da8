package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
)

// ChatConfig represents the configuration for the LLM-backed answer
// model.
type ChatConfig struct {
	Model          string
	Temperature    float64
	MaxTokens      int
	SystemTemplate string
	BaseURL        string // Ollama server URL
}

// ChatAnswerModel asks a chat model to copy the answer span verbatim
// out of the supplied context. It is the heavier alternative to
// SpanExtractor for documents where lexical matching is not enough.
type ChatAnswerModel struct {
	config ChatConfig
	llm    llms.Model
}

const defaultSystemTemplate = "You answer questions using only the provided context. " +
	"Reply with the shortest contiguous span of the context that answers the question, " +
	"copied verbatim. If the context does not contain the answer, reply with NO_ANSWER."

// NewChatAnswerModel creates a ChatAnswerModel with the given configuration.
func NewChatAnswerModel(config ChatConfig) (*ChatAnswerModel, error) {
	if config.Model == "" {
		config.Model = "mistral"
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("%w: temperature must be between 0 and 2", types.ErrInvalidConfiguration)
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("%w: max tokens cannot be negative", types.ErrInvalidConfiguration)
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 256
	}
	if config.SystemTemplate == "" {
		config.SystemTemplate = defaultSystemTemplate
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}

	llm, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrModelUnavailable, err)
	}

	return &ChatAnswerModel{
		config: config,
		llm:    llm,
	}, nil
}

func (m *ChatAnswerModel) ExtractSpan(ctx context.Context, question, contextText string) (string, float64, error) {
	prompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, question)

	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, m.config.SystemTemplate),
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}

	response, err := m.llm.GenerateContent(ctx, content,
		llms.WithTemperature(m.config.Temperature),
		llms.WithMaxTokens(m.config.MaxTokens))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", types.ErrModelUnavailable, err)
	}
	if len(response.Choices) == 0 {
		return "", 0, fmt.Errorf("%w: empty response", types.ErrModelUnavailable)
	}

	span := strings.TrimSpace(response.Choices[0].Content)
	if span == "" || span == "NO_ANSWER" {
		return "", 0, nil
	}

	// A span copied verbatim from the context is trustworthy; a
	// paraphrase is not, but it is still returned as low confidence.
	confidence := 0.3
	if strings.Contains(contextText, span) {
		confidence = 0.9
	}

	return span, confidence, nil
}
