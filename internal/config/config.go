package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingRequired = errors.New("missing required configuration")

type Config struct {
	APIHost string `envconfig:"API_HOST" default:"0.0.0.0"`
	APIPort int    `envconfig:"API_PORT" default:"8000"`

	// Provider selection: "mistral" (default) or "gemini"
	Provider      string `envconfig:"PROVIDER" default:"mistral"`
	MistralAPIKey string `envconfig:"MISTRAL_API_KEY"`
	MistralAPIURL string `envconfig:"MISTRAL_API_URL" default:"https://api.mistral.ai/v1"`
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`

	EmbeddingModel     string `envconfig:"EMBEDDING_MODEL" default:"mistral-embed"`
	EmbeddingDimension int    `envconfig:"EMBEDDING_DIMENSION" default:"1024"`
	LLMModel           string `envconfig:"LLM_MODEL" default:"mistral-large-latest"`

	VectorStorePath string `envconfig:"VECTOR_STORE_PATH" default:"data/vector_store/index.gob"`

	ChunkSize     int    `envconfig:"CHUNK_SIZE" default:"512"`
	ChunkOverlap  int    `envconfig:"CHUNK_OVERLAP" default:"64"`
	DocsDirectory string `envconfig:"DOCS_DIRECTORY" default:"data/docs"`

	QueryLogPath string `envconfig:"QUERY_LOG_PATH" default:"data/logs/query.log"`

	RetrievalTopK int           `envconfig:"RETRIEVAL_TOP_K" default:"3"`
	MaxNewTokens  int           `envconfig:"MAX_NEW_TOKENS" default:"512"`
	Temperature   float32       `envconfig:"TEMPERATURE" default:"0.7"`
	TopP          float32       `envconfig:"TOP_P" default:"0.9"`
	PacingDelay   time.Duration `envconfig:"PACING_DELAY" default:"2s"`
}

func Load() (*Config, error) {
	// Ignore errors, env vars might be set in the shell
	_ = godotenv.Load(".env")

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Provider {
	case "mistral":
		if c.MistralAPIKey == "" {
			return fmt.Errorf("%w: MISTRAL_API_KEY", ErrMissingRequired)
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY", ErrMissingRequired)
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be positive, got %d", c.EmbeddingDimension)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("CHUNK_OVERLAP must not be negative, got %d", c.ChunkOverlap)
	}
	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("RETRIEVAL_TOP_K must be positive, got %d", c.RetrievalTopK)
	}
	return nil
}
