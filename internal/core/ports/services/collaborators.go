package services

import (
	"context"

	"github.com/SscSPs/welth_backend/internal/core/domain"
)

// WorkItemPublisher emits process-transaction work items for the recurring
// scheduler's fan-out. Implementations publish to a durable queue; consumers
// may redeliver, so processing must tolerate duplicates.
type WorkItemPublisher interface {
	PublishProcessTransaction(ctx context.Context, transactionID string, userID string) error
}

// NotificationDispatcher delivers a rendered message to a user. Best effort:
// callers log failures but do not treat delivery as part of their own state
// change.
type NotificationDispatcher interface {
	Send(ctx context.Context, toAddress string, subject string, htmlBody string) error
}

// InsightGenerator derives qualitative spending insights from a monthly
// aggregate. Implementations may call an external model and are allowed to
// fail; callers must fall back to generic insights.
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, stats domain.MonthlyStats, monthLabel string) ([]string, error)
}
