package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRunStep_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := RunStep(context.Background(), testLogger(), "step", RetryPolicy{BaseDelay: time.Millisecond, MaxAttempts: 2}, func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRunStep_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	err := RunStep(context.Background(), testLogger(), "step", RetryPolicy{BaseDelay: time.Millisecond, MaxAttempts: 2}, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRunStep_ExhaustsAttempts(t *testing.T) {
	stepErr := errors.New("persistent")
	calls := 0
	err := RunStep(context.Background(), testLogger(), "step", RetryPolicy{BaseDelay: time.Millisecond, MaxAttempts: 2}, func(ctx context.Context) error {
		calls++
		return stepErr
	})
	assert.ErrorIs(t, err, stepErr)
	assert.Equal(t, 2, calls)
}

func TestRunStep_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := RunStep(ctx, testLogger(), "step", RetryPolicy{BaseDelay: time.Hour, MaxAttempts: 2}, func(ctx context.Context) error {
		calls++
		return errors.New("transient")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRunStep_ZeroAttemptsStillRunsOnce(t *testing.T) {
	calls := 0
	err := RunStep(context.Background(), testLogger(), "step", RetryPolicy{BaseDelay: time.Millisecond, MaxAttempts: 0}, func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
