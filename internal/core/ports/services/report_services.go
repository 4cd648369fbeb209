package services

import (
	"context"
	"time"

	"github.com/SscSPs/welth_backend/internal/core/domain"
)

// MonthlyReportSvcFacade generates and delivers the per-user monthly
// statistics report.
type MonthlyReportSvcFacade interface {
	// RunMonthlyReports builds the previous calendar month's statistics for
	// every user, enriches them with insights (best effort), and dispatches
	// one report notification per user. Per-user failures are isolated.
	RunMonthlyReports(ctx context.Context, now time.Time) error

	// BuildMonthlyStats aggregates one user's COMPLETED transactions within
	// the calendar month containing monthOf.
	BuildMonthlyStats(ctx context.Context, userID string, monthOf time.Time) (domain.MonthlyStats, error)
}

// UserSvcFacade defines operations on locally projected users.
type UserSvcFacade interface {
	// EnsureUser lazily creates/refreshes the local row for an authenticated
	// identity-provider user.
	EnsureUser(ctx context.Context, userID string, email string, name string) (*domain.User, error)
}
