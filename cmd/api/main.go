// Package main is the entry point for the Finance Insights API server.
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
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/insights/config"
	"github.com/finance-tracker/insights/internal/application/adapter"
	"github.com/finance-tracker/insights/internal/infra/cache"
	"github.com/finance-tracker/insights/internal/infra/db"
	"github.com/finance-tracker/insights/internal/infra/dependency"
	"github.com/finance-tracker/insights/internal/integration/email"
	"github.com/finance-tracker/insights/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	slog.Info("Starting Finance Insights API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	// Run database migrations
	if err := database.AutoMigrate(model.All()...); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed successfully")

	// Redis only backs the insight cooldown, so the API runs without it.
	var redisClient *redis.Client
	if cfg.Insights.CooldownEnabled {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, insight cooldown disabled", "error", err)
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					slog.Error("Failed to close redis connection", "error", err)
				}
			}()
		}
	}

	// Email provider
	var sender adapter.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		resendClient, err := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail).
			WithBaseURL(cfg.Email.ResendBaseURL)
		if err != nil {
			slog.Error("Failed to configure email provider", "error", err)
			os.Exit(1)
		}
		sender = resendClient
	} else {
		slog.Warn("RESEND_API_KEY not set, digest emails will be logged only")
		sender = email.NewMockEmailSender()
	}

	injector, err := dependency.NewInjector(cfg, database.DB(), redisClient, sender)
	if err != nil {
		slog.Error("Failed to initialize dependencies", "error", err)
		os.Exit(1)
	}
	slog.Info("Insight engine initialized", "rules", len(injector.Engine.Rules()))

	// Start background workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	go injector.EmailWorker.Start(workerCtx)
	if cfg.Insights.SchedulerEnabled {
		go injector.Scheduler.Start(workerCtx)
	} else {
		slog.Info("Insight scheduler disabled")
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      injector.Router.Setup(cfg.Server.Environment),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}
