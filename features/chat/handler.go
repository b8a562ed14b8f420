package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"ragdocs/internal/middleware"
	"ragdocs/internal/rag"
)

// Generator answers a query grounded in the indexed corpus.
type Generator interface {
	GenerateResponse(ctx context.Context, query string, maxTokens int) (string, []rag.Source, error)
}

type Handler struct {
	service Generator
}

func NewHandler(service Generator) *Handler {
	return &Handler{service: service}
}

type chatRequest struct {
	Query     string `json:"query"`
	MaxTokens int    `json:"max_tokens"`
}

type chatResponse struct {
	Answer  string       `json:"answer"`
	Sources []rag.Source `json:"sources"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	if req.Query == "" {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "query is required", http.StatusBadRequest)
		return
	}

	slog.InfoContext(r.Context(), "chat request received", "query_length", len(req.Query))

	answer, sources, err := h.service.GenerateResponse(r.Context(), req.Query, req.MaxTokens)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to generate response", "error", err)
		h.writeError(r.Context(), w, "INTERNAL_ERROR", "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(chatResponse{Answer: answer, Sources: sources}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"correlationId": middleware.GetCorrelationID(ctx),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
