package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/nmgreen007-ux/FilmReviewApp/internal/api"
	"github.com/nmgreen007-ux/FilmReviewApp/internal/config"
	"github.com/nmgreen007-ux/FilmReviewApp/internal/database"
	"github.com/nmgreen007-ux/FilmReviewApp/internal/service"
	"github.com/nmgreen007-ux/FilmReviewApp/internal/store"
	"github.com/nmgreen007-ux/FilmReviewApp/internal/summary"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	validate := validator.New()

	// averageRanking на проводе — число, не строка
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()

	// --- Инициализация хранилища ---
	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		logger.Info("Closing database connection...")
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", slog.String("error", err.Error()))
		}
	}()

	logger.Info("Running database migrations", slog.String("path", cfg.MigrationsPath))
	if err := database.NewMigrator(db, logger).Run(cfg.MigrationsPath); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	filmStore, err := store.NewSQLFilmStore(db, logger)
	if err != nil {
		logger.Error("Failed to initialize film store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	reviewStore, err := store.NewSQLReviewStore(db, logger)
	if err != nil {
		logger.Error("Failed to initialize review store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// --- Генератор AI-саммари ---
	if cfg.AIEndpoint == "" || cfg.AIAPIKey == "" {
		logger.Warn("Azure OpenAI endpoint/key not configured, AI summary generation disabled")
	}
	generator := summary.NewClient(summary.Config{
		Endpoint:      cfg.AIEndpoint,
		APIKey:        cfg.AIAPIKey,
		DeploymentID:  cfg.AIDeploymentID,
		Temperature:   cfg.AITemperature,
		MaxTokens:     cfg.AIMaxTokens,
		EnableCaching: cfg.AIEnableCaching,
	}, logger)

	// --- Сервисы и HTTP сервер ---
	filmService := service.NewFilmService(filmStore, generator, logger)
	reviewService := service.NewReviewService(filmStore, reviewStore, logger)

	filmHandler := api.NewFilmHandler(filmService, logger)
	reviewHandler := api.NewReviewHandler(reviewService, filmService, logger, validate)
	router := api.NewRouter(filmHandler, reviewHandler, cfg.WebDir, logger)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", slog.String("port", cfg.Port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server ListenAndServe() failed", slog.String("error", err.Error()))
		}
	}()

	// Ожидание сигнала для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}
}
