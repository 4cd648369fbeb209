package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/welth_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/welth_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/welth_backend/internal/core/ports/services"
	"github.com/SscSPs/welth_backend/internal/emails"
	"github.com/SscSPs/welth_backend/internal/middleware"
	"github.com/SscSPs/welth_backend/internal/utils/money"
	"github.com/SscSPs/welth_backend/internal/utils/schedule"
)

// reportConcurrency bounds how many users are reported on at once.
const reportConcurrency = 4

// FallbackInsights is returned whenever insight generation fails. Exactly
// three generic strings, matching what the report template expects.
var FallbackInsights = []string{
	"Your highest expense category this month might need attention.",
	"Consider setting up a budget for better financial management.",
	"Track your recurring expenses to identify potential savings.",
}

// monthlyReportService builds the previous month's statistics for every user,
// enriches them with best-effort insights, and dispatches one report per user.
// The user row's lastReportSent marker suppresses a second dispatch within the
// same calendar month, so a worker restart on the first never resends the batch.
type monthlyReportService struct {
	txnRepo    portsrepo.TransactionReader
	userRepo   portsrepo.UserRepositoryFacade
	insights   portssvc.InsightGenerator
	dispatcher portssvc.NotificationDispatcher
}

// NewMonthlyReportService creates a new monthly report generator.
func NewMonthlyReportService(txnRepo portsrepo.TransactionReader, userRepo portsrepo.UserRepositoryFacade, insights portssvc.InsightGenerator, dispatcher portssvc.NotificationDispatcher) portssvc.MonthlyReportSvcFacade {
	return &monthlyReportService{
		txnRepo:    txnRepo,
		userRepo:   userRepo,
		insights:   insights,
		dispatcher: dispatcher,
	}
}

var _ portssvc.MonthlyReportSvcFacade = (*monthlyReportService)(nil)

func (s *monthlyReportService) RunMonthlyReports(ctx context.Context, now time.Time) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	reportMonth, _ := schedule.PreviousMonthWindow(now)
	monthLabel := reportMonth.Format("January 2006")
	logger.Info("Monthly report run", slog.Int("users", len(users)), slog.String("month", monthLabel))

	// Per-user isolation: collect each failure without cancelling siblings.
	failures := make([]error, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reportConcurrency)
	for i, user := range users {
		g.Go(func() error {
			if err := s.reportForUser(gctx, user, now, reportMonth, monthLabel); err != nil {
				logger.Error("Monthly report failed for user",
					slog.String("user_id", user.UserID),
					slog.String("error", err.Error()),
				)
				failures[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range failures {
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *monthlyReportService) reportForUser(ctx context.Context, user domain.User, now time.Time, reportMonth time.Time, monthLabel string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Already reported this calendar month, a redundant run is a no-op.
	if user.LastReportSent != nil && schedule.SameMonth(*user.LastReportSent, now) {
		logger.Debug("Monthly report already sent this month, skipping",
			slog.String("user_id", user.UserID))
		return nil
	}

	stats, err := s.BuildMonthlyStats(ctx, user.UserID, reportMonth)
	if err != nil {
		return err
	}

	insights := s.generateInsights(ctx, stats, monthLabel)

	body := emails.RenderMonthlyReport(emails.MonthlyReportData{
		UserName:   user.Name,
		MonthLabel: monthLabel,
		Stats:      stats,
		Insights:   insights,
	})
	subject := fmt.Sprintf("Your Monthly Financial Report - %s", monthLabel)

	// Marked after the attempt, success or not: once per month, not
	// exactly-once delivery.
	sendErr := s.dispatcher.Send(ctx, user.Email, subject, body)
	if err := s.userRepo.MarkReportSent(ctx, user.UserID, now); err != nil {
		logger.Error("Failed to mark report sent",
			slog.String("user_id", user.UserID),
			slog.String("error", err.Error()))
	}
	if sendErr != nil {
		return fmt.Errorf("failed to dispatch monthly report: %w", sendErr)
	}
	return nil
}

func (s *monthlyReportService) BuildMonthlyStats(ctx context.Context, userID string, monthOf time.Time) (domain.MonthlyStats, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	start, end := schedule.MonthWindow(monthOf)
	txns, err := s.txnRepo.ListTransactionsInRange(ctx, userID, start, end)
	if err != nil {
		return domain.MonthlyStats{}, fmt.Errorf("failed to list transactions for stats: %w", err)
	}

	stats := domain.NewMonthlyStats()
	for _, txn := range txns {
		amount, err := money.ToAmount(txn.Amount)
		if err != nil {
			// A bad amount skips the transaction, never the whole report.
			logger.Warn("Skipping transaction with unconvertible amount",
				slog.String("transaction_id", txn.TransactionID),
				slog.String("error", err.Error()),
			)
			continue
		}

		stats.TransactionCount++
		if txn.Type == domain.Expense {
			stats.TotalExpenses = stats.TotalExpenses.Add(amount)
			stats.ByCategory[txn.Category] = stats.ByCategory[txn.Category].Add(amount)
		} else {
			stats.TotalIncome = stats.TotalIncome.Add(amount)
		}
	}

	return stats, nil
}

// generateInsights asks the external generator and falls back to the static
// set on any failure or malformed result. Best effort only.
func (s *monthlyReportService) generateInsights(ctx context.Context, stats domain.MonthlyStats, monthLabel string) []string {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.insights == nil {
		return FallbackInsights
	}

	insights, err := s.insights.GenerateInsights(ctx, stats, monthLabel)
	if err != nil {
		logger.Warn("Insight generation failed, using fallback", slog.String("error", err.Error()))
		return FallbackInsights
	}
	if len(insights) != len(FallbackInsights) {
		logger.Warn("Insight generator returned unexpected count, using fallback", slog.Int("count", len(insights)))
		return FallbackInsights
	}
	return insights
}
