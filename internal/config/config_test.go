package config_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ragdocs/internal/config"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("MISTRAL_API_KEY", "test-key")
	os.Setenv("EMBEDDING_DIMENSION", "8")
	defer os.Unsetenv("MISTRAL_API_KEY")
	defer os.Unsetenv("EMBEDDING_DIMENSION")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, "test-key", cfg.MistralAPIKey)
	assert.Equal(t, 8, cfg.EmbeddingDimension)
}

func TestLoadConfig_Defaults(t *testing.T) {
	os.Setenv("MISTRAL_API_KEY", "test-key")
	defer os.Unsetenv("MISTRAL_API_KEY")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, "mistral", cfg.Provider)
	assert.Equal(t, "mistral-embed", cfg.EmbeddingModel)
	assert.Equal(t, "mistral-large-latest", cfg.LLMModel)
	assert.Equal(t, 1024, cfg.EmbeddingDimension)
	assert.Equal(t, 3, cfg.RetrievalTopK)
	assert.Equal(t, 512, cfg.MaxNewTokens)
	assert.Equal(t, float32(0.7), cfg.Temperature)
	assert.Equal(t, float32(0.9), cfg.TopP)
	assert.Equal(t, 2*time.Second, cfg.PacingDelay)
	assert.Equal(t, "data/vector_store/index.gob", cfg.VectorStorePath)
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	content := []byte("MISTRAL_API_KEY=loaded-from-file")
	err := os.WriteFile(".env", content, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(".env")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, "loaded-from-file", cfg.MistralAPIKey)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Provider:           "mistral",
			MistralAPIKey:      "key",
			EmbeddingDimension: 1024,
			ChunkSize:          512,
			ChunkOverlap:       64,
			RetrievalTopK:      3,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
		errIs   error
	}{
		{
			name:   "Valid Config",
			mutate: func(c *config.Config) {},
		},
		{
			name:    "Missing Mistral Key",
			mutate:  func(c *config.Config) { c.MistralAPIKey = "" },
			wantErr: true,
			errIs:   config.ErrMissingRequired,
		},
		{
			name: "Missing Gemini Key",
			mutate: func(c *config.Config) {
				c.Provider = "gemini"
				c.GeminiAPIKey = ""
			},
			wantErr: true,
			errIs:   config.ErrMissingRequired,
		},
		{
			name: "Gemini Provider Valid",
			mutate: func(c *config.Config) {
				c.Provider = "gemini"
				c.GeminiAPIKey = "key"
			},
		},
		{
			name:    "Unknown Provider",
			mutate:  func(c *config.Config) { c.Provider = "watson" },
			wantErr: true,
		},
		{
			name:    "Zero Dimension",
			mutate:  func(c *config.Config) { c.EmbeddingDimension = 0 },
			wantErr: true,
		},
		{
			name:    "Negative Overlap",
			mutate:  func(c *config.Config) { c.ChunkOverlap = -1 },
			wantErr: true,
		},
		{
			name:    "Zero TopK",
			mutate:  func(c *config.Config) { c.RetrievalTopK = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errIs != nil {
					assert.True(t, errors.Is(err, tt.errIs))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
