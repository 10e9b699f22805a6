// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/swaggyashwin/pathfinder/internal/config"
	"github.com/swaggyashwin/pathfinder/internal/handler"
	"github.com/swaggyashwin/pathfinder/internal/llm"
	natsclient "github.com/swaggyashwin/pathfinder/internal/nats"
	"github.com/swaggyashwin/pathfinder/internal/orchestrator"
	"github.com/swaggyashwin/pathfinder/internal/responder"
	"github.com/swaggyashwin/pathfinder/internal/service"
	"github.com/swaggyashwin/pathfinder/pkg/logger"
	"github.com/swaggyashwin/pathfinder/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFile(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "pathfinder", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	llmClient, err := llm.FromKeys(llm.Provider(cfg.DefaultLLM), cfg.AnthropicAPIKey, cfg.OpenAIAPIKey, cfg.LLMModel)
	if err != nil {
		log.Warn("failed to create LLM client, using scripted replies", zap.Error(err))
		llmClient = nil
	} else if llmClient != nil {
		log.Info("LLM follow-ups enabled", zap.String("provider", llmClient.Name()))
	}

	// Roadmap templates are validated before anything is served.
	selectors := responder.NewSelectorFactory(responder.SelectorKind(cfg.ResponderSelector), cfg.ResponderSeed)
	orch, err := orchestrator.NewDefault(selectors, orchestrator.WithLLM(llmClient, cfg.LLMTimeout, log))
	if err != nil {
		log.Fatal("invalid roadmap templates", zap.Error(err))
	}

	// Optional JetStream journal
	var (
		journal   service.Journal
		readiness handler.ReadinessChecker
	)
	if cfg.NATSEnabled {
		natsClient, err := natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
			Name:     "pathfinder-api",
		}, log)
		if err != nil {
			log.Fatal("failed to connect to NATS", zap.Error(err))
		}
		defer natsClient.Close()

		j := natsclient.NewJournal(natsClient)
		if err := j.EnsureStream(ctx); err != nil {
			log.Fatal("failed to ensure stream", zap.Error(err))
		}
		journal = j
		readiness = j
	}

	sessionSvc := service.NewSessionService(orch, journal, log)

	router := handler.NewRouter(handler.RouterConfig{
		Service:           sessionSvc,
		Journal:           readiness,
		Logger:            log,
		JWTSecret:         cfg.JWTSecret,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		StreamChunkDelay:  cfg.StreamChunkDelay,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
