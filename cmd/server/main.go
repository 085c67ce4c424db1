package main

import (
	"context"
	"log/slog"
	"os"

	"go-blog-api/internal/app"
	"go-blog-api/internal/logger"
)

func main() {
	// Bootstrap logger until config decides format and level.
	slog.SetDefault(slog.New(logger.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	application, err := app.New(context.Background())
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
