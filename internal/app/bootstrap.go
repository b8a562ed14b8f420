package app

import (
	"context"
	"fmt"

	"ragdocs/internal/adapter/gemini"
	"ragdocs/internal/adapter/mistral"
	"ragdocs/internal/config"
	"ragdocs/internal/pace"
	"ragdocs/internal/rag"
)

// Provider is an embedding plus completion client. Both adapter packages
// satisfy it.
type Provider interface {
	Embedder
	Completer
}

// Bootstrap builds the configured provider, opens (or creates) the
// persisted vector store, and assembles the application.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	provider, err := buildProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("provider setup: %w", err)
	}

	store, err := rag.Open(cfg.VectorStorePath, cfg.EmbeddingDimension, provider)
	if err != nil {
		return nil, fmt.Errorf("vector store setup: %w", err)
	}

	return New(cfg, store, provider), nil
}

func buildProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	limiter := pace.NewLimiter(cfg.PacingDelay)

	switch cfg.Provider {
	case "gemini":
		return gemini.New(ctx, gemini.Config{
			APIKey:         cfg.GeminiAPIKey,
			EmbeddingModel: cfg.EmbeddingModel,
			ChatModel:      cfg.LLMModel,
			Temperature:    cfg.Temperature,
			TopP:           cfg.TopP,
			MaxTokens:      cfg.MaxNewTokens,
			Limiter:        limiter,
		})
	default:
		return mistral.New(mistral.Config{
			APIKey:         cfg.MistralAPIKey,
			BaseURL:        cfg.MistralAPIURL,
			EmbeddingModel: cfg.EmbeddingModel,
			ChatModel:      cfg.LLMModel,
			Temperature:    cfg.Temperature,
			TopP:           cfg.TopP,
			MaxTokens:      cfg.MaxNewTokens,
			Limiter:        limiter,
		})
	}
}
