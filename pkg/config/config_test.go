package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
llm:
  base_url: "http://localhost:11434"
  model: "mistral"
  max_tokens: 1000
  temperature: 0.5

embedding:
  provider: "ollama"
  model: "nomic-embed-text:latest"
  dimension: 768
  rate_limit: 5.0

index:
  backend: "pgvector"
  url: "postgres://localhost:5432/test"
  table_name: "test_chunks"

processor:
  chunk_size: 400
  chunk_overlap: 40
  snap_lookback: 16

retrieval:
  top_k: 3
  max_context_chars: 1500
  min_confidence: 0.2

ui:
  streaming: false
  theme: "dark"
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	// Test loading config
	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	// Verify loaded values
	assert.Equal(t, "http://localhost:11434", config.LLM.BaseURL)
	assert.Equal(t, "mistral", config.LLM.Model)
	assert.Equal(t, 1000, config.LLM.MaxTokens)
	assert.Equal(t, 0.5, config.Temperature())
	assert.Equal(t, "ollama", config.Embedding.Provider)
	assert.Equal(t, 768, config.Embedding.Dimension)
	assert.Equal(t, "pgvector", config.Index.Backend)
	assert.Equal(t, "test_chunks", config.Index.TableName)
	assert.Equal(t, 400, config.Processor.ChunkSize)
	assert.Equal(t, 40, config.ChunkOverlap())
	assert.Equal(t, 3, config.Retrieval.TopK)
	assert.False(t, config.UI.Streaming)
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := getDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, 500, config.Processor.ChunkSize)
	assert.Equal(t, 50, config.ChunkOverlap())
	assert.Equal(t, 4, config.Retrieval.TopK)
	assert.Equal(t, 0.1, config.MinConfidence())
	assert.Equal(t, "memory", config.Index.Backend)
	assert.Equal(t, "ollama", config.Embedding.Provider)

	// Defaults must pass their own validation
	assert.Empty(t, config.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*Config)
		errorMessages []string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name: "overlap at least chunk size",
			mutate: func(c *Config) {
				c.Processor.ChunkSize = 50
				c.Processor.ChunkOverlap = intPtr(50)
			},
			errorMessages: []string{
				"processor.chunk_overlap: chunk_overlap must be non-negative and less than chunk_size",
			},
		},
		{
			name: "unknown backends and bad bounds",
			mutate: func(c *Config) {
				c.Embedding.Provider = "anthropic"
				c.Index.Backend = "faiss"
				c.Retrieval.TopK = 0
				c.Retrieval.MinConfidence = floatPtr(1.5)
			},
			errorMessages: []string{
				"embedding.provider: unknown provider: anthropic",
				"index.backend: unknown backend: faiss",
				"retrieval.top_k: top_k must be positive",
				"retrieval.min_confidence: min_confidence must be between 0 and 1",
			},
		},
		{
			name: "pgvector requires a database URL",
			mutate: func(c *Config) {
				c.Index.Backend = "pgvector"
				c.Index.URL = ""
			},
			errorMessages: []string{
				"index.url: database URL is required for the pgvector backend",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := getDefaultConfig()
			require.NoError(t, err)
			config.Index.URL = ""
			tt.mutate(config)

			errors := config.Validate()
			assert.Len(t, errors, len(tt.errorMessages))

			for i, msg := range tt.errorMessages {
				assert.Contains(t, errors[i].Error(), msg)
			}
		})
	}
}

func TestExplicitZeroValuesPreserved(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Zero is a deliberate setting for these fields, not an absence.
	configData := `
llm:
  temperature: 0

processor:
  chunk_size: 400
  chunk_overlap: 0

retrieval:
  min_confidence: 0
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 0.0, config.Temperature())
	assert.Equal(t, 0, config.ChunkOverlap())
	assert.Equal(t, 0.0, config.MinConfidence())
	assert.Empty(t, config.Validate())
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestEnvironmentOverrides(t *testing.T) {
	// Set environment variables
	os.Setenv("OLLAMA_BASE_URL", "http://env-ollama:11434")
	os.Setenv("DATABASE_URL", "postgres://env-db:5432/test")
	defer func() {
		os.Unsetenv("OLLAMA_BASE_URL")
		os.Unsetenv("DATABASE_URL")
	}()

	config := &Config{}
	mergeWithEnv(config)

	assert.Equal(t, "http://env-ollama:11434", config.LLM.BaseURL)
	assert.Equal(t, "postgres://env-db:5432/test", config.Index.URL)
}
