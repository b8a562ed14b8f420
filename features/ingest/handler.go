package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"ragdocs/internal/ingest"
	"ragdocs/internal/middleware"
)

// Processor is the ingestion surface exposed over HTTP.
type Processor interface {
	ProcessDocument(ctx context.Context, content, source string) (int, error)
	ProcessDirectory(ctx context.Context, dir string) (*ingest.Report, error)
}

type Handler struct {
	processor Processor
	docsDir   string
}

func NewHandler(processor Processor, docsDir string) *Handler {
	return &Handler{processor: processor, docsDir: docsDir}
}

type documentRequest struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

type documentResponse struct {
	Message   string `json:"message"`
	NumChunks int    `json:"num_chunks"`
}

// CreateDocument ingests one raw document supplied in the request body.
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "content is required", http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "source is required", http.StatusBadRequest)
		return
	}

	n, err := h.processor.ProcessDocument(r.Context(), req.Content, req.Source)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to process document", "source", req.Source, "error", err)
		h.writeError(r.Context(), w, "INTERNAL_ERROR", "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(documentResponse{
		Message:   "Document processed successfully",
		NumChunks: n,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type processDocsResponse struct {
	Message string         `json:"message"`
	Results *ingest.Report `json:"results"`
}

// ProcessDocumentation ingests every markdown file under the configured
// docs directory.
func (h *Handler) ProcessDocumentation(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(h.docsDir); err != nil {
		h.writeError(r.Context(), w, "NOT_FOUND", "Documentation directory not found: "+h.docsDir, http.StatusNotFound)
		return
	}

	report, err := h.processor.ProcessDirectory(r.Context(), h.docsDir)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to process documentation", "dir", h.docsDir, "error", err)
		h.writeError(r.Context(), w, "INTERNAL_ERROR", "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(processDocsResponse{
		Message: "Documentation processed successfully",
		Results: report,
	}); err != nil {
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
