package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ragdocs/internal/app"
	"ragdocs/internal/config"
	"ragdocs/internal/logger"
)

func main() {
	// Initialize structured logger
	jsonHandler := slog.NewJSONHandler(os.Stdout, nil)
	slog.SetDefault(slog.New(logger.NewContextHandler(jsonHandler)))

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Wire provider, vector store and HTTP surface
	application, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		slog.Error("failed to bootstrap application", "error", err)
		os.Exit(1)
	}

	// 3. Serve
	if err := application.Run(ctx); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
