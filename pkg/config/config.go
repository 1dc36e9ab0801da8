package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM struct {
		// Mode picks the answer model: span (built-in extractive
		// scorer) or chat (Ollama-backed).
		Mode      string `yaml:"mode"`
		BaseURL   string `yaml:"base_url"`
		Model     string `yaml:"model"`
		MaxTokens int    `yaml:"max_tokens"`
		// Pointer so an explicit 0 survives defaulting.
		Temperature *float64 `yaml:"temperature"`
	} `yaml:"llm"`

	Embedding struct {
		Provider  string  `yaml:"provider"` // ollama, openai or local
		Model     string  `yaml:"model"`
		Dimension int     `yaml:"dimension"`
		RateLimit float64 `yaml:"rate_limit"` // embedding requests per second
	} `yaml:"embedding"`

	Index struct {
		Backend   string `yaml:"backend"` // memory or pgvector
		URL       string `yaml:"url"`
		TableName string `yaml:"table_name"`
	} `yaml:"index"`

	Processor struct {
		ChunkSize int `yaml:"chunk_size"`
		// Pointer so an explicit 0 survives defaulting.
		ChunkOverlap *int `yaml:"chunk_overlap"`
		SnapLookback int  `yaml:"snap_lookback"`
	} `yaml:"processor"`

	Retrieval struct {
		TopK            int `yaml:"top_k"`
		MaxContextChars int `yaml:"max_context_chars"`
		// Pointer so an explicit 0 survives defaulting.
		MinConfidence *float64 `yaml:"min_confidence"`
	} `yaml:"retrieval"`

	UI struct {
		Streaming bool   `yaml:"streaming"`
		Theme     string `yaml:"theme"`
	} `yaml:"ui"`
}

const (
	defaultTemperature   = 0.1
	defaultChunkOverlap  = 50
	defaultMinConfidence = 0.1
)

// Temperature resolves llm.temperature, falling back to the default
// when the field was never set. An explicit 0 is preserved.
func (c *Config) Temperature() float64 {
	if c.LLM.Temperature == nil {
		return defaultTemperature
	}
	return *c.LLM.Temperature
}

// ChunkOverlap resolves processor.chunk_overlap; an explicit 0 means
// no overlap and is preserved.
func (c *Config) ChunkOverlap() int {
	if c.Processor.ChunkOverlap == nil {
		return defaultChunkOverlap
	}
	return *c.Processor.ChunkOverlap
}

// MinConfidence resolves retrieval.min_confidence; an explicit 0
// disables the low-confidence flag and is preserved.
func (c *Config) MinConfidence() float64 {
	if c.Retrieval.MinConfidence == nil {
		return defaultMinConfidence
	}
	return *c.Retrieval.MinConfidence
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/rag-chatbot/config.yaml"),
			"/etc/rag-chatbot/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Mode == "" {
		config.LLM.Mode = "span"
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "mistral"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 2000
	}
	if config.LLM.Temperature == nil {
		v := defaultTemperature
		config.LLM.Temperature = &v
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://localhost:11434"
	}

	if config.Embedding.Provider == "" {
		config.Embedding.Provider = "ollama"
	}
	if config.Embedding.Model == "" {
		config.Embedding.Model = "nomic-embed-text:latest"
	}
	if config.Embedding.Dimension == 0 {
		config.Embedding.Dimension = 768
	}
	if config.Embedding.RateLimit == 0 {
		config.Embedding.RateLimit = 10.0
	}

	if config.Index.Backend == "" {
		config.Index.Backend = "memory"
	}
	if config.Index.TableName == "" {
		config.Index.TableName = "chunks"
	}

	if config.Processor.ChunkSize == 0 {
		config.Processor.ChunkSize = 500
	}
	if config.Processor.ChunkOverlap == nil {
		v := defaultChunkOverlap
		config.Processor.ChunkOverlap = &v
	}
	if config.Processor.SnapLookback == 0 {
		config.Processor.SnapLookback = 32
	}

	if config.Retrieval.TopK == 0 {
		config.Retrieval.TopK = 4
	}
	if config.Retrieval.MaxContextChars == 0 {
		config.Retrieval.MaxContextChars = 2000
	}
	if config.Retrieval.MinConfidence == nil {
		v := defaultMinConfidence
		config.Retrieval.MinConfidence = &v
	}

	if config.UI.Theme == "" {
		config.UI.Theme = "default"
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Index.URL = dbURL
	}
	if os.Getenv("OPENAI_API_KEY") != "" && config.Embedding.Provider == "" {
		config.Embedding.Provider = "openai"
	}
}
