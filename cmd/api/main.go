package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tailwag/dog-nutrition-backend/internal/ai"
	"github.com/tailwag/dog-nutrition-backend/internal/analysis"
	"github.com/tailwag/dog-nutrition-backend/internal/api"
	"github.com/tailwag/dog-nutrition-backend/internal/assessment"
	"github.com/tailwag/dog-nutrition-backend/internal/auth"
	"github.com/tailwag/dog-nutrition-backend/internal/config"
	"github.com/tailwag/dog-nutrition-backend/internal/store"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port)

	// ── Stores ────────────────────────────────────────────────────────────────
	profiles, err := store.NewProfileStore(cfg.ProfilesFile, cfg.ProfileStoreKey)
	if err != nil {
		return fmt.Errorf("profile store: %w", err)
	}
	if cfg.ProfileStoreKey == "" {
		// Not fatal: auth endpoints keep working, profile operations report
		// the missing key per request.
		logger.Warn("PROFILE_STORE_KEY not set; profile storage disabled")
	} else if err := profiles.Ensure(); err != nil {
		return fmt.Errorf("profile store: %w", err)
	}

	users := store.NewUserStore(cfg.UsersFile)
	if err := users.Ensure(); err != nil {
		return fmt.Errorf("user store: %w", err)
	}

	// ── Auth ──────────────────────────────────────────────────────────────────
	sessions := auth.NewSessionManager(cfg.SessionTTL)
	authSvc := auth.NewService(users, sessions)

	// ── AI ────────────────────────────────────────────────────────────────────
	// Optional. Without a key the refiner returns a fixed message and the
	// deterministic assessment still runs.
	var gen ai.Generator
	if cfg.GeminiAPIKey != "" {
		g, err := ai.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return fmt.Errorf("gemini: %w", err)
		}
		gen = g
		logger.Info("ai: Gemini refinement enabled", "model", cfg.GeminiModel)
	} else {
		logger.Info("ai: GEMINI_API_KEY not set, refinement disabled")
	}
	refiner := ai.NewRefiner(gen)

	// ── Assessment ────────────────────────────────────────────────────────────
	breeds := breedFile{path: cfg.BreedDBFile}
	assessor := assessment.New(profiles, breeds, refiner, logger)

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		authSvc,
		profiles,
		assessor,
		api.Config{
			Env:       cfg.Env,
			StaticDir: cfg.StaticDir,
		},
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // generous — recommendations block on Gemini
		IdleTimeout:  120 * time.Second,
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Give in-flight requests up to 20 seconds to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// breedFile reads the breed reference from disk on every call, so the file
// can be edited without restarting the server.
type breedFile struct {
	path string
}

func (b breedFile) Breeds() (analysis.BreedReference, error) {
	return analysis.LoadBreedReference(b.path)
}
