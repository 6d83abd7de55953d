package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dungeonmaster/internal/config"
	"dungeonmaster/internal/handlers"
	"dungeonmaster/internal/logger"
	"dungeonmaster/internal/services"
	"dungeonmaster/internal/session"
	"dungeonmaster/internal/storage"
	"dungeonmaster/pkg/narrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logg := logger.Setup(cfg)

	logg.Info("Starting AI Dungeon Master API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer startupCancel()

	var llmService services.LLMService
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			logg.Warn("Gemini API key not set, falling back to demo mode")
			break
		}
		gemini, err := services.NewGeminiService(startupCtx, cfg.GeminiAPIKey, cfg.ModelName, logg)
		if err != nil {
			logg.Error("Failed to create Gemini service", "error", err)
			os.Exit(1)
		}
		llmService = gemini
		logg.Info("Using Gemini LLM provider")
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			logg.Error("Anthropic API key is required when using anthropic provider")
			os.Exit(1)
		}
		llmService = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, logg)
		logg.Info("Using Anthropic LLM provider")
	case "demo":
		logg.Info("Running in demo mode with scripted responses")
	default:
		logg.Error("Invalid LLM provider specified",
			"provider", cfg.LLMProvider,
			"supported", []string{"gemini", "anthropic", "demo"})
		os.Exit(1)
	}

	if llmService != nil {
		if err := llmService.InitModel(startupCtx, cfg.ModelName); err != nil {
			logg.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
			os.Exit(1)
		}
	}

	var snapshots storage.SnapshotStore
	if cfg.RedisURL != "" {
		redisStore := storage.NewRedisStore(cfg.RedisURL, cfg.SnapshotTTL, logg)
		if err := redisStore.Ping(startupCtx); err != nil {
			logg.Error("Failed to connect to Redis", "error", err, "url", cfg.RedisURL)
			os.Exit(1)
		}
		snapshots = redisStore
		logg.Info("Session snapshot store connected", "url", cfg.RedisURL)
	} else {
		snapshots = storage.NewNoopStore()
		logg.Info("No Redis configured, sessions are in-memory only")
	}

	saves := storage.NewFileStore(cfg.SaveDir, logg)

	// The registry accepts a nil generator; demo mode and a missing
	// Gemini key both run on scripted responses.
	var generator narrator.TextGenerator
	if llmService != nil {
		generator = llmService
	}

	registry := session.NewRegistry(generator, snapshots, saves, session.Config{
		MaxMemoryEntries: cfg.MaxMemoryEntries,
		StartingHP:       cfg.StartingHP,
		LLMTimeout:       cfg.LLMTimeout,
	}, logg)

	sweeper := session.NewSweeper(registry, cfg.SessionIdleTimeout, cfg.SweepInterval, logg)
	sweeper.Start()

	mux := http.NewServeMux()
	mux.Handle("/api/health", handlers.NewHealthHandler(logg))
	mux.Handle("/api/", handlers.NewGameHandler(registry, logg))
	mux.Handle("/", handlers.NotFound(logg))

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logg.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("Server is shutting down...")

	sweeper.Stop()

	if llmService != nil {
		if err := llmService.Close(); err != nil {
			logg.Error("Error closing LLM service", "error", err)
		}
	}
	if err := snapshots.Close(); err != nil {
		logg.Error("Error closing snapshot store", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logg.Info("Server exited")
}
