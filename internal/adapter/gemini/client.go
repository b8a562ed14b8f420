// Package gemini is the alternative provider adapter, selected with
// PROVIDER=gemini. It exposes the same embedding and completion surface as
// the mistral adapter.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"ragdocs/internal/pace"
)

type Config struct {
	APIKey         string
	EmbeddingModel string
	ChatModel      string
	Temperature    float32
	TopP           float32
	MaxTokens      int
	Limiter        *pace.Limiter
}

type Client struct {
	client      *genai.Client
	embedModel  string
	chatModel   string
	temperature float32
	topP        float32
	maxTokens   int
	limiter     *pace.Limiter
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: missing API key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}
	embedModel := cfg.EmbeddingModel
	if embedModel == "" {
		embedModel = "gemini-embedding-001"
	}
	return &Client{
		client:      client,
		embedModel:  embedModel,
		chatModel:   cfg.ChatModel,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
		limiter:     cfg.Limiter,
	}, nil
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		slog.WarnContext(ctx, "input text is empty, no embedding generated")
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "embedding content", "model", c.embedModel, "length", len(text))
	em := c.client.EmbeddingModel(c.embedModel)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		slog.ErrorContext(ctx, "embedding failed", "error", err)
		return nil, err
	}
	if res.Embedding == nil {
		return nil, fmt.Errorf("gemini: embedding response for model %s is empty", c.embedModel)
	}
	return res.Embedding.Values, nil
}

func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		slog.WarnContext(ctx, "no texts provided for embedding")
		return nil, nil
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := c.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	slog.DebugContext(ctx, "embedding query", "length", len(text))
	return c.Embed(ctx, text)
}

func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	model := c.client.GenerativeModel(c.chatModel)
	model.SetTemperature(c.temperature)
	model.SetTopP(c.topP)
	if maxTokens > 0 {
		model.SetMaxOutputTokens(int32(maxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		slog.ErrorContext(ctx, "chat completion failed", "model", c.chatModel, "error", err)
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: completion response for model %s has no candidates", c.chatModel)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}
