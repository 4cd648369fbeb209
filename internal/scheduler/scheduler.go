// Package scheduler drives the periodic steps of the worker binary: recurring
// template selection, budget threshold checks, and monthly report generation.
// Each step runs under a shared retry policy and a tick of one step never
// blocks the others.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/welth_backend/internal/core/ports/services"
)

const reportPollInterval = time.Hour

// Scheduler owns the trigger tickers. Selection and budget intervals come
// from configuration; monthly reports are polled hourly and fire once per
// calendar month on the first day.
type Scheduler struct {
	services          *portssvc.ServiceContainer
	logger            *slog.Logger
	policy            RetryPolicy
	recurringInterval time.Duration
	budgetInterval    time.Duration

	// In-process dedupe for the hourly report poll. Durable once-per-month
	// suppression lives on the user rows (lastReportSent), so a restart on
	// the first of the month re-enters the run but resends nothing.
	lastReportMonth string
}

func New(services *portssvc.ServiceContainer, logger *slog.Logger, policy RetryPolicy, recurringInterval, budgetInterval time.Duration) *Scheduler {
	return &Scheduler{
		services:          services,
		logger:            logger,
		policy:            policy,
		recurringInterval: recurringInterval,
		budgetInterval:    budgetInterval,
	}
}

// Run blocks until ctx is cancelled, firing each step on its own ticker. All
// steps also run once at startup so a restarted worker catches up without
// waiting a full interval.
func (s *Scheduler) Run(ctx context.Context) error {
	recurringTicker := time.NewTicker(s.recurringInterval)
	defer recurringTicker.Stop()
	budgetTicker := time.NewTicker(s.budgetInterval)
	defer budgetTicker.Stop()
	reportTicker := time.NewTicker(reportPollInterval)
	defer reportTicker.Stop()

	s.logger.Info("Scheduler started.",
		slog.Duration("recurring_interval", s.recurringInterval),
		slog.Duration("budget_interval", s.budgetInterval))

	s.runSelection(ctx, time.Now())
	s.runBudgetChecks(ctx, time.Now())
	s.maybeRunMonthlyReports(ctx, time.Now())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopping.", slog.String("reason", ctx.Err().Error()))
			return ctx.Err()
		case now := <-recurringTicker.C:
			s.runSelection(ctx, now)
		case now := <-budgetTicker.C:
			s.runBudgetChecks(ctx, now)
		case now := <-reportTicker.C:
			s.maybeRunMonthlyReports(ctx, now)
		}
	}
}

func (s *Scheduler) runSelection(ctx context.Context, now time.Time) {
	var published int
	err := RunStep(ctx, s.logger, "recurring_selection", s.policy, func(ctx context.Context) error {
		var stepErr error
		published, stepErr = s.services.Recurring.RunSelection(ctx, now)
		return stepErr
	})
	if err != nil {
		return
	}
	s.logger.Info("Recurring selection complete.", slog.Int("work_items_published", published))
}

func (s *Scheduler) runBudgetChecks(ctx context.Context, now time.Time) {
	err := RunStep(ctx, s.logger, "budget_checks", s.policy, func(ctx context.Context) error {
		return s.services.BudgetAlert.RunBudgetChecks(ctx, now)
	})
	if err != nil {
		return
	}
	s.logger.Info("Budget checks complete.")
}

// maybeRunMonthlyReports fires on the first day of a month not yet reported
// by this process. The month is recorded before the run so a failing batch is
// not re-attempted every hour; the step retry policy covers transient
// failures, and per-user lastReportSent keeps a later process (or a restart)
// from resending what this run already delivered.
func (s *Scheduler) maybeRunMonthlyReports(ctx context.Context, now time.Time) {
	if now.Day() != 1 {
		return
	}
	month := now.Format("2006-01")
	if month == s.lastReportMonth {
		return
	}
	s.lastReportMonth = month

	err := RunStep(ctx, s.logger, "monthly_reports", s.policy, func(ctx context.Context) error {
		return s.services.MonthlyReport.RunMonthlyReports(ctx, now)
	})
	if err != nil {
		return
	}
	s.logger.Info("Monthly reports complete.", slog.String("month", month))
}
