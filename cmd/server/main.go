// HireAgent - AI recruitment pipeline server
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

	"github.com/parvagarwal/hireagent/internal/agent"
	"github.com/parvagarwal/hireagent/internal/api"
	"github.com/parvagarwal/hireagent/internal/config"
	"github.com/parvagarwal/hireagent/internal/google"
	"github.com/parvagarwal/hireagent/internal/llm"
	"github.com/parvagarwal/hireagent/internal/middleware"
	"github.com/parvagarwal/hireagent/internal/score"
	"github.com/parvagarwal/hireagent/internal/store"
	"github.com/parvagarwal/hireagent/internal/tools"
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

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	gemini := llm.NewGemini(llm.GeminiConfig{
		APIKey:         cfg.GeminiAPIKey,
		Model:          cfg.GeminiModel,
		EmbeddingModel: cfg.EmbeddingModel,
	})

	workspace := google.NewClient(google.ClientConfig{
		AccessToken: cfg.GoogleAccessToken,
		CalendarID:  cfg.CalendarID,
	})

	// Action tools available to the agent loop. The interview proposal tool
	// is not registered here; the dispatcher handles it by name.
	slotTool := tools.NewFindFreeSlotTool(workspace, cfg.Scheduling)
	eventTool := tools.NewCreateEventTool(workspace)
	emailTool := tools.NewSendEmailTool(workspace)

	registry, err := tools.NewRegistry(slotTool, eventTool, emailTool)
	if err != nil {
		slog.Error("Failed to build tool registry", "error", err)
		os.Exit(1)
	}

	broker := agent.NewBroker()
	orchestrator := agent.New(gemini, registry, repo, agent.Config{
		MaxCycles:      cfg.MaxAgentCycles,
		HRManagerEmail: cfg.HRManagerEmail,
	}, broker)
	workflow := agent.NewApprovalWorkflow(repo, eventTool, emailTool, broker)
	scorer := score.NewEmbeddingScorer(gemini)

	// Initialize handlers.
	baseHandler := api.NewHandler(repo)
	jobHandler := api.NewJobHandler(baseHandler, gemini, scorer, orchestrator, cfg.FitThreshold, cfg.AgentRunTimeout)
	candidateHandler := api.NewCandidateHandler(baseHandler)
	interviewHandler := api.NewInterviewHandler(baseHandler, workflow, cfg.AgentRunTimeout)
	examHandler := api.NewExamHandler(baseHandler, gemini)
	analyticsHandler := api.NewAnalyticsHandler(baseHandler)
	healthHandler := api.NewHealthHandler(repo)
	activityHandler := api.NewActivityHandler(broker, nil)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	healthHandler.RegisterHealth(r)
	jobHandler.RegisterRoutes(r)
	candidateHandler.RegisterRoutes(r)
	interviewHandler.RegisterRoutes(r)
	examHandler.RegisterRoutes(r)
	analyticsHandler.RegisterRoutes(r)
	activityHandler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // websocket activity feed holds connections open
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
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
