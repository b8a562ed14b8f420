package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// FallbackAnswer is returned when retrieval finds nothing; the completion
// provider is not called in that case.
const FallbackAnswer = "I apologize, but I don't have any relevant information in my knowledge base to answer your question about that topic. Could you try asking about something else, or rephrase your question?"

const promptTemplate = `Context information is below.
---------------------
%s
---------------------
Given the context information and not prior knowledge, answer the query.
Query: %s
Answer: `

const excerptLimit = 200

// Retriever returns the k chunks nearest to the query.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]ScoredChunk, error)
}

// Completer is the narrow surface the service needs from a language-model
// provider. maxTokens <= 0 means the provider's configured default.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Source identifies a document a retrieved chunk came from, with a short
// excerpt of the chunk.
type Source struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// Service orchestrates retrieval-augmented generation: retrieve, assemble a
// grounded prompt, complete.
type Service struct {
	retriever Retriever
	completer Completer
	topK      int
	logger    *QueryLogger
}

func NewService(r Retriever, c Completer, topK int, l *QueryLogger) *Service {
	if topK <= 0 {
		topK = 3
	}
	return &Service{retriever: r, completer: c, topK: topK, logger: l}
}

// GenerateResponse answers the query grounded in retrieved chunks. Provider
// errors propagate unmodified; no fallback answer is substituted for them.
func (s *Service) GenerateResponse(ctx context.Context, query string, maxTokens int) (string, []Source, error) {
	start := time.Now()

	chunks, err := s.retriever.Search(ctx, query, s.topK)
	if err != nil {
		return "", nil, err
	}
	slog.InfoContext(ctx, "retrieved chunks", "count", len(chunks))

	if len(chunks) == 0 {
		s.log(ctx, query, 0, start)
		return FallbackAnswer, []Source{}, nil
	}

	contents := make([]string, len(chunks))
	for i, c := range chunks {
		contents[i] = c.Content
	}
	prompt := fmt.Sprintf(promptTemplate, strings.Join(contents, "\n\n"), query)

	answer, err := s.completer.Complete(ctx, prompt, maxTokens)
	if err != nil {
		return "", nil, err
	}

	sources := make([]Source, len(chunks))
	for i, c := range chunks {
		sources[i] = Source{Filename: c.Source, Text: excerpt(c.Content)}
	}

	s.log(ctx, query, len(sources), start)
	return answer, sources, nil
}

func (s *Service) log(ctx context.Context, query string, numSources int, start time.Time) {
	if s.logger == nil {
		return
	}
	s.logger.Log(ctx, QueryLogEntry{
		Query:      query,
		NumSources: numSources,
		Duration:   time.Since(start),
	})
}

func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLimit {
		return content
	}
	return string(runes[:excerptLimit])
}
