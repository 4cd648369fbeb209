package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/welth_backend/internal/apperrors"
	"github.com/SscSPs/welth_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/welth_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/welth_backend/internal/core/ports/services"
	"github.com/SscSPs/welth_backend/internal/middleware"
	"github.com/SscSPs/welth_backend/internal/utils/schedule"
)

// ErrTransactionNotDue is returned (and treated as a successful no-op by the
// worker) when a work item arrives for a template that is no longer due,
// which happens on duplicate delivery after the due date has advanced.
var ErrTransactionNotDue = errors.New("recurring transaction is not due")

// occurrenceSuffix marks transactions spawned from a recurring template.
const occurrenceSuffix = " (Recurring)"

// recurringService is the recurring transaction scheduler. RunSelection and
// ProcessWorkItem are decoupled through the work item publisher so a slow
// template cannot hold up selection, and redelivered items are safe because
// processing re-checks dueness before writing.
type recurringService struct {
	txnRepo   portsrepo.TransactionRepositoryFacade
	publisher portssvc.WorkItemPublisher
}

// NewRecurringService creates a new recurring transaction scheduler.
func NewRecurringService(txnRepo portsrepo.TransactionRepositoryFacade, publisher portssvc.WorkItemPublisher) portssvc.RecurringSvcFacade {
	return &recurringService{txnRepo: txnRepo, publisher: publisher}
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

func (s *recurringService) RunSelection(ctx context.Context, now time.Time) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	templates, err := s.txnRepo.FindDueRecurringTemplates(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to select due recurring templates: %w", err)
	}

	logger.Info("Recurring selection run", slog.Int("due_templates", len(templates)))

	published := 0
	var firstErr error
	for _, tmpl := range templates {
		if err := s.publisher.PublishProcessTransaction(ctx, tmpl.TransactionID, tmpl.UserID); err != nil {
			// Publish failures are isolated per template; the template stays
			// due and the next daily run selects it again.
			logger.Error("Failed to publish process work item",
				slog.String("transaction_id", tmpl.TransactionID),
				slog.String("error", err.Error()),
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		published++
	}

	logger.Info("Recurring selection complete", slog.Int("published", published))
	return published, firstErr
}

func (s *recurringService) ProcessWorkItem(ctx context.Context, transactionID string, userID string, now time.Time) error {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("transaction_id", transactionID),
		slog.String("user_id", userID),
	)

	template, err := s.txnRepo.FindTransactionByID(ctx, transactionID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Deleted between selection and processing; nothing to do.
			logger.Info("Recurring template no longer exists, skipping")
			return nil
		}
		return fmt.Errorf("failed to fetch recurring template: %w", err)
	}

	// Re-check dueness: duplicate deliveries arrive after a prior delivery
	// already advanced the due date, and must be no-ops.
	if !template.IsDue(now) {
		logger.Info("Recurring template not due, skipping",
			slog.Any("next_recurring_date", template.NextRecurringDate))
		return fmt.Errorf("%w: %s", ErrTransactionNotDue, transactionID)
	}
	if template.RecurringInterval == nil {
		return fmt.Errorf("recurring template %s has no interval", transactionID)
	}

	occurrence := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        template.UserID,
		AccountID:     template.AccountID,
		Type:          template.Type,
		Amount:        template.Amount,
		Date:          now,
		Category:      template.Category,
		Description:   template.Description + occurrenceSuffix,
		Status:        domain.StatusCompleted,
		IsRecurring:   false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	advanced := *template
	processedAt := now
	nextDue := schedule.AdvanceDate(now, *template.RecurringInterval)
	advanced.LastProcessed = &processedAt
	advanced.NextRecurringDate = &nextDue
	advanced.LastUpdatedAt = now

	// Occurrence insert, balance adjustment and due-date advancement are one
	// atomic write; a failure leaves the template due for the next trigger.
	if err := s.txnRepo.SaveRecurringOccurrence(ctx, occurrence, advanced); err != nil {
		return fmt.Errorf("failed to process recurring transaction %s: %w", transactionID, err)
	}

	logger.Info("Recurring occurrence created",
		slog.String("occurrence_id", occurrence.TransactionID),
		slog.String("amount", occurrence.Amount.String()),
		slog.Time("next_recurring_date", nextDue),
	)
	return nil
}
