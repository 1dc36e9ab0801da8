package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	if c.LLM.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "Ollama base URL is required",
		})
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 4096 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 4096",
		})
	}

	if c.Temperature() < 0 || c.Temperature() > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	switch c.LLM.Mode {
	case "span", "chat":
	default:
		errors = append(errors, ValidationError{
			Field:   "llm.mode",
			Message: fmt.Sprintf("unknown mode: %s", c.LLM.Mode),
		})
	}

	// Validate Embedding config
	switch c.Embedding.Provider {
	case "ollama", "openai", "local":
	default:
		errors = append(errors, ValidationError{
			Field:   "embedding.provider",
			Message: fmt.Sprintf("unknown provider: %s", c.Embedding.Provider),
		})
	}

	if c.Embedding.Dimension < 1 {
		errors = append(errors, ValidationError{
			Field:   "embedding.dimension",
			Message: "dimension must be positive",
		})
	}

	if c.Embedding.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "embedding.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	// Validate Index config
	switch c.Index.Backend {
	case "memory":
	case "pgvector":
		if c.Index.URL == "" {
			errors = append(errors, ValidationError{
				Field:   "index.url",
				Message: "database URL is required for the pgvector backend",
			})
		} else if _, err := url.Parse(c.Index.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "index.url",
				Message: "invalid database URL",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "index.backend",
			Message: fmt.Sprintf("unknown backend: %s", c.Index.Backend),
		})
	}

	// Validate Processor config
	if c.Processor.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "processor.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	if c.ChunkOverlap() < 0 || c.ChunkOverlap() >= c.Processor.ChunkSize {
		errors = append(errors, ValidationError{
			Field:   "processor.chunk_overlap",
			Message: "chunk_overlap must be non-negative and less than chunk_size",
		})
	}

	// Validate Retrieval config
	if c.Retrieval.TopK < 1 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.top_k",
			Message: "top_k must be positive",
		})
	}

	if c.Retrieval.MaxContextChars < 1 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.max_context_chars",
			Message: "max_context_chars must be positive",
		})
	}

	if c.MinConfidence() < 0 || c.MinConfidence() > 1 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.min_confidence",
			Message: "min_confidence must be between 0 and 1",
		})
	}

	// Validate base URL format
	if _, err := url.Parse(c.LLM.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "invalid Ollama base URL",
		})
	}

	return errors
}
