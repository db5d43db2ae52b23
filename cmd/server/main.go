// PulseBot - wellness chat dialogue router server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/pulseai/pulsebot/internal/auditlog"
	"github.com/pulseai/pulsebot/internal/config"
	"github.com/pulseai/pulsebot/internal/counsel"
	"github.com/pulseai/pulsebot/internal/generate"
	"github.com/pulseai/pulsebot/internal/intent"
	"github.com/pulseai/pulsebot/internal/middleware"
	"github.com/pulseai/pulsebot/internal/policy"
	"github.com/pulseai/pulsebot/internal/risk"
	"github.com/pulseai/pulsebot/internal/router"
	"github.com/pulseai/pulsebot/internal/server"
	"github.com/pulseai/pulsebot/internal/session"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Counsellor directory and shared audit database.
	directory, err := counsel.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to open counsellor directory", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := directory.Close(); closeErr != nil {
			slog.Error("Failed to close counsellor directory", "error", closeErr)
		}
	}()
	if err := directory.SeedFromFile(ctx, cfg.CounsellorSeedPath); err != nil {
		slog.Error("Failed to seed counsellor directory", "error", err)
		os.Exit(1)
	}
	if err := auditlog.Migrate(directory.DB()); err != nil {
		slog.Error("Failed to migrate audit log", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", cfg.DBPath)

	// Generation and classification backends.
	ollama, err := generate.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel)
	if err != nil {
		slog.Error("Failed to create ollama client", "error", err)
		os.Exit(1)
	}
	gen := generate.NewBounded(ollama, cfg.GenerateTimeout)
	slog.Info("Generation backend ready", "url", cfg.OllamaURL, "model", cfg.OllamaModel, "timeout", cfg.GenerateTimeout)

	riskC := risk.FromFile(cfg.RiskLexiconPath)
	intentC := intent.NewClassifier(ollama, cfg.IntentThreshold)
	var drift *intent.DriftDetector
	if cfg.DriftEnabled {
		drift = intent.NewDriftDetector(ollama, nil, cfg.DriftThreshold)
	}

	// Session store.
	store, err := session.NewStore(session.Config{
		Driver:    cfg.SessionDriver,
		TTL:       cfg.SessionTTL,
		RedisAddr: cfg.RedisAddr,
	})
	if err != nil {
		slog.Error("Failed to create session store", "error", err, "driver", cfg.SessionDriver)
		os.Exit(1)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close session store", "error", closeErr)
		}
	}()
	if mem, ok := store.(*session.MemoryStore); ok {
		mem.StartSweeper(ctx)
	}
	slog.Info("Session store ready", "driver", cfg.SessionDriver, "ttl", cfg.SessionTTL)

	// Dialogue router and HTTP surface.
	engine := policy.NewEngine(gen, directory, policy.DefaultBudget())
	rt := router.New(store, riskC, intentC, drift, engine, directory.DB())

	allowedOrigins := []string{"*"}
	if cfg.FrontendURL != "" {
		allowedOrigins = []string{cfg.FrontendURL}
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(allowedOrigins))

	server.NewHandler(rt).RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
