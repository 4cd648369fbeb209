package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/welth_backend/internal/adapters/queue"
	portssvc "github.com/SscSPs/welth_backend/internal/core/ports/services"
	coresvc "github.com/SscSPs/welth_backend/internal/core/services"
)

// Worker consumes process-transaction work items and hands them to the
// recurring service. Deliveries are processed one at a time in queue order;
// the throttle caps per-user throughput, and while it waits for a user's
// window the whole consumer waits with it.
type Worker struct {
	queueClient *queue.Client
	recurring   portssvc.RecurringSvcFacade
	throttle    *UserThrottle
	logger      *slog.Logger
}

func NewWorker(queueClient *queue.Client, recurring portssvc.RecurringSvcFacade, throttle *UserThrottle, logger *slog.Logger) *Worker {
	return &Worker{
		queueClient: queueClient,
		recurring:   recurring,
		throttle:    throttle,
		logger:      logger,
	}
}

// Run blocks consuming the work queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	return w.queueClient.Consume(ctx, w.handle)
}

// handle processes one delivery. A not-due template is an expected outcome of
// redelivery or of processing catching up after selection, so it acks as a
// no-op rather than requeueing forever.
func (w *Worker) handle(ctx context.Context, msg *queue.ProcessTransactionMessage) error {
	if err := w.throttle.Acquire(ctx, msg.UserID); err != nil {
		return err
	}

	err := w.recurring.ProcessWorkItem(ctx, msg.TransactionID, msg.UserID, time.Now())
	if errors.Is(err, coresvc.ErrTransactionNotDue) {
		w.logger.Info("Work item no longer due, acknowledging as no-op.",
			slog.String("transactionID", msg.TransactionID),
			slog.String("userID", msg.UserID))
		return nil
	}
	return err
}
