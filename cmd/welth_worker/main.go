package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/welth_backend/internal/adapters/database/pgsql"
	"github.com/SscSPs/welth_backend/internal/adapters/insights"
	"github.com/SscSPs/welth_backend/internal/adapters/notification"
	"github.com/SscSPs/welth_backend/internal/adapters/queue"
	portssvc "github.com/SscSPs/welth_backend/internal/core/ports/services"
	"github.com/SscSPs/welth_backend/internal/core/services"
	"github.com/SscSPs/welth_backend/internal/platform/config"
	"github.com/SscSPs/welth_backend/internal/scheduler"
	"github.com/SscSPs/welth_backend/pkg/database"
)

// The worker runs the periodic steps (recurring selection, budget checks,
// monthly reports) and consumes recurring-transaction work items from the
// queue. It shares the service layer with the API binary.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("Starting welth_worker")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	queueClient, err := queue.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer queueClient.Close()

	dispatcher := notification.NewResendClient(cfg.ResendAPIKey, cfg.ResendFrom, logger)

	var insightPort portssvc.InsightGenerator
	if gen, genErr := insights.NewGeminiGenerator(ctx, cfg.GeminiModel); genErr != nil {
		logger.Warn("Failed to initialize insight generator, reports will use fallback insights.", slog.String("error", genErr.Error()))
	} else {
		insightPort = gen
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(repos, queueClient, dispatcher, insightPort)

	throttle, err := scheduler.NewUserThrottle(cfg.RecurringRateLimit, logger)
	if err != nil {
		logger.Error("Failed to build user throttle", slog.String("error", err.Error()))
		os.Exit(1)
	}

	policy := scheduler.RetryPolicy{
		BaseDelay:   cfg.StepRetryBase,
		MaxAttempts: cfg.StepRetryMaxAttempts,
	}
	sched := scheduler.New(serviceContainer, logger, policy, cfg.RecurringTriggerInterval, cfg.BudgetCheckInterval)
	worker := scheduler.NewWorker(queueClient, serviceContainer.Recurring, throttle, logger)

	go func() {
		if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Scheduler stopped", slog.String("error", err.Error()))
			cancel()
		}
	}()

	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Work item consumer stopped", slog.String("error", err.Error()))
			cancel()
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("welth_worker shutdown complete")
}
