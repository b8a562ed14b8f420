package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"ragdocs/features/chat"
	featureingest "ragdocs/features/ingest"
	"ragdocs/internal/config"
	"ragdocs/internal/ingest"
	"ragdocs/internal/middleware"
	"ragdocs/internal/rag"
	"ragdocs/internal/text"
)

// App wires the RAG core to its HTTP surface. Provider clients and the
// store are injected so tests can assemble an App around fakes.
type App struct {
	Handler   http.Handler
	Store     *rag.Store
	Processor *ingest.Processor

	addr string
}

// Embedder groups the interfaces both provider adapters satisfy.
type Embedder = rag.Embedder

type Completer = rag.Completer

func New(cfg *config.Config, store *rag.Store, completer Completer) *App {
	chunker := text.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	processor := ingest.NewProcessor(chunker, store)

	queryLogger, err := rag.NewFileQueryLogger(cfg.QueryLogPath)
	if err != nil {
		slog.Warn("failed to create query logger, falling back to stdout", "error", err)
		queryLogger = rag.NewQueryLogger(os.Stdout)
	}
	service := rag.NewService(store, completer, cfg.RetrievalTopK, queryLogger)

	chatHandler := chat.NewHandler(service)
	ingestHandler := featureingest.NewHandler(processor, cfg.DocsDirectory)

	enableCORS := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("POST /chat", middleware.CorrelationID(enableCORS(chatHandler.Chat)))
	mux.Handle("POST /documents", middleware.CorrelationID(enableCORS(ingestHandler.CreateDocument)))
	mux.Handle("POST /process-documentation", middleware.CorrelationID(enableCORS(ingestHandler.ProcessDocumentation)))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return &App{
		Handler:   mux,
		Store:     store,
		Processor: processor,
		addr:      fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort),
	}
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    a.addr,
		Handler: a.Handler,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "addr", a.addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
