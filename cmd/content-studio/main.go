// Package main Content Studio API
//
// @title           Content Studio API
// @version         1.0
// @description     API генерации изображений и видео с дневной квотой и премиум-подпиской

// @host      localhost:3001
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/content-studio/internal/app/contentstudio"
	"github.com/magabrotheeeer/content-studio/internal/config"
	"github.com/magabrotheeeer/content-studio/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()

	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	logger.Info("starting content-studio", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := contentstudio.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("content-studio stopped gracefully")
}
