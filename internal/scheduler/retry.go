package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy controls how scheduled steps are retried. The delay doubles
// after every failed attempt.
type RetryPolicy struct {
	BaseDelay   time.Duration
	MaxAttempts int
}

// RunStep executes fn up to MaxAttempts times with exponential backoff
// between attempts. The last attempt's error is returned when all fail.
// Context cancellation aborts the wait immediately.
func RunStep(ctx context.Context, logger *slog.Logger, name string, policy RetryPolicy, fn func(ctx context.Context) error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := policy.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		logger.Warn("Scheduled step failed.",
			slog.String("step", name),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.String("error", lastErr.Error()))

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	logger.Error("Scheduled step exhausted retries.",
		slog.String("step", name),
		slog.String("error", lastErr.Error()))
	return lastErr
}
