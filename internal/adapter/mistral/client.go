// Package mistral adapts the Mistral platform (OpenAI-compatible API) to
// the embedding and completion interfaces the RAG core consumes.
package mistral

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"ragdocs/internal/pace"
)

const DefaultBaseURL = "https://api.mistral.ai/v1"

type Config struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	ChatModel      string
	Temperature    float32
	TopP           float32
	MaxTokens      int
	Limiter        *pace.Limiter
}

// Client provides paced embedding and chat completion calls. Each
// single-text embedding is one provider call; batches are serialized to
// respect the external quota.
type Client struct {
	api         *openai.Client
	embedModel  string
	chatModel   string
	temperature float32
	topP        float32
	maxTokens   int
	limiter     *pace.Limiter
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("mistral: missing API key")
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	if oc.BaseURL == "" {
		oc.BaseURL = DefaultBaseURL
	}
	return &Client{
		api:         openai.NewClientWithConfig(oc),
		embedModel:  cfg.EmbeddingModel,
		chatModel:   cfg.ChatModel,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
		limiter:     cfg.Limiter,
	}, nil
}

// Embed returns the embedding for one text. Empty input yields a
// zero-length vector without a provider call; callers must not index it.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		slog.WarnContext(ctx, "input text is empty, no embedding generated")
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.embedModel),
	})
	if err != nil {
		slog.ErrorContext(ctx, "embedding call failed", "model", c.embedModel, "error", err)
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("mistral: embedding response for model %s has no data", c.embedModel)
	}
	return resp.Data[0].Embedding, nil
}

// EmbedBatch embeds texts one by one, preserving order. Row i corresponds
// to texts[i]; empty texts produce zero-length rows. An empty batch makes
// no provider call.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		slog.WarnContext(ctx, "no texts provided for embedding")
		return nil, nil
	}

	slog.InfoContext(ctx, "generating embeddings", "count", len(texts), "model", c.embedModel)
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

// EmbedQuery embeds a single retrieval query.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	slog.DebugContext(ctx, "embedding query", "length", len(text))
	return c.Embed(ctx, text)
}

// Complete sends the prompt as a single user message and returns the model
// text. maxTokens <= 0 falls back to the configured default.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	})
	if err != nil {
		slog.ErrorContext(ctx, "chat completion failed", "model", c.chatModel, "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("mistral: chat response for model %s has no choices", c.chatModel)
	}
	return resp.Choices[0].Message.Content, nil
}
