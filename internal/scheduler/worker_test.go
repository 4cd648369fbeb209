package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	coresvc "github.com/SscSPs/welth_backend/internal/core/services"

	"github.com/SscSPs/welth_backend/internal/adapters/queue"
)

type mockRecurringService struct {
	mock.Mock
}

func (m *mockRecurringService) RunSelection(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *mockRecurringService) ProcessWorkItem(ctx context.Context, transactionID string, userID string, now time.Time) error {
	args := m.Called(ctx, transactionID, userID, now)
	return args.Error(0)
}

func newTestWorker(t *testing.T, recurring *mockRecurringService) *Worker {
	t.Helper()
	throttle, err := NewUserThrottle("1000-S", testLogger())
	require.NoError(t, err)
	return NewWorker(nil, recurring, throttle, testLogger())
}

func TestWorkerHandle_NotDueAcksAsNoOp(t *testing.T) {
	recurring := new(mockRecurringService)
	recurring.On("ProcessWorkItem", mock.Anything, "txn-1", "user-1", mock.AnythingOfType("time.Time")).
		Return(coresvc.ErrTransactionNotDue).Once()
	w := newTestWorker(t, recurring)

	err := w.handle(context.Background(), &queue.ProcessTransactionMessage{TransactionID: "txn-1", UserID: "user-1"})

	require.NoError(t, err)
	recurring.AssertExpectations(t)
}

func TestWorkerHandle_ProcessingErrorPropagates(t *testing.T) {
	procErr := errors.New("db unavailable")
	recurring := new(mockRecurringService)
	recurring.On("ProcessWorkItem", mock.Anything, "txn-1", "user-1", mock.AnythingOfType("time.Time")).
		Return(procErr).Once()
	w := newTestWorker(t, recurring)

	err := w.handle(context.Background(), &queue.ProcessTransactionMessage{TransactionID: "txn-1", UserID: "user-1"})

	require.ErrorIs(t, err, procErr)
	recurring.AssertExpectations(t)
}

// Deliveries are handled one at a time: the throttle wait happens before
// processing, so a cancelled context aborts before the service is touched.
func TestWorkerHandle_CancelledDuringThrottleWait(t *testing.T) {
	recurring := new(mockRecurringService)
	throttle, err := NewUserThrottle("1-M", testLogger())
	require.NoError(t, err)
	w := NewWorker(nil, recurring, throttle, testLogger())

	// Use up the user's window, then cancel while the next delivery waits.
	require.NoError(t, throttle.Acquire(context.Background(), "user-1"))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err = w.handle(ctx, &queue.ProcessTransactionMessage{TransactionID: "txn-1", UserID: "user-1"})

	require.ErrorIs(t, err, context.Canceled)
	recurring.AssertNotCalled(t, "ProcessWorkItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
