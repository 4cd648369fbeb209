package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// UserThrottle caps how many work items are processed per user within a
// window. Unlike the HTTP rate limiter it never rejects: when a user is over
// the cap the caller blocks until the window resets, so bursts of due
// templates drain smoothly instead of failing.
type UserThrottle struct {
	limiter *limiter.Limiter
	logger  *slog.Logger
}

// NewUserThrottle builds a throttle from a rate string in limiter format,
// e.g. "10-M" for ten per user per minute.
func NewUserThrottle(rateSpec string, logger *slog.Logger) (*UserThrottle, error) {
	rate, err := limiter.NewRateFromFormatted(rateSpec)
	if err != nil {
		return nil, fmt.Errorf("parse throttle rate %q: %w", rateSpec, err)
	}
	return &UserThrottle{
		limiter: limiter.New(memory.NewStore(), rate),
		logger:  logger,
	}, nil
}

// Acquire consumes one processing slot for userID, waiting out the window
// when the user is at the cap.
func (t *UserThrottle) Acquire(ctx context.Context, userID string) error {
	for {
		lctx, err := t.limiter.Get(ctx, userID)
		if err != nil {
			return fmt.Errorf("check user throttle: %w", err)
		}
		if !lctx.Reached {
			return nil
		}

		wait := time.Until(time.Unix(lctx.Reset, 0))
		if wait < time.Second {
			wait = time.Second
		}
		t.logger.Info("User at processing cap, waiting for window reset.",
			slog.String("userID", userID),
			slog.Duration("wait", wait))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
