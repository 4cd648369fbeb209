package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/welth_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/welth_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/welth_backend/internal/core/ports/services"
	"github.com/SscSPs/welth_backend/internal/emails"
	"github.com/SscSPs/welth_backend/internal/middleware"
	"github.com/SscSPs/welth_backend/internal/utils/schedule"
)

// alertThresholdPercent is the budget usage at which an alert fires,
// boundary inclusive.
var alertThresholdPercent = decimal.NewFromInt(80)

// budgetAlertService evaluates every budget against its month-to-date spend
// and dispatches at most one alert per budget per calendar month.
//
// The guarantee is at-most-once-per-month, not exactly-once delivery:
// lastAlertSent is recorded after dispatch is attempted, success or not, so a
// failing mailer cannot cause an alert storm.
type budgetAlertService struct {
	budgetRepo portsrepo.BudgetRepositoryFacade
	txnRepo    portsrepo.TransactionReader
	dispatcher portssvc.NotificationDispatcher
}

// NewBudgetAlertService creates a new budget alert evaluator.
func NewBudgetAlertService(budgetRepo portsrepo.BudgetRepositoryFacade, txnRepo portsrepo.TransactionReader, dispatcher portssvc.NotificationDispatcher) portssvc.BudgetAlertSvcFacade {
	return &budgetAlertService{budgetRepo: budgetRepo, txnRepo: txnRepo, dispatcher: dispatcher}
}

var _ portssvc.BudgetAlertSvcFacade = (*budgetAlertService)(nil)

func (s *budgetAlertService) RunBudgetChecks(ctx context.Context, now time.Time) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	budgets, err := s.budgetRepo.FindBudgetsWithDefaultAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch budgets: %w", err)
	}

	logger.Info("Budget check run", slog.Int("budgets", len(budgets)))

	var firstErr error
	for _, budget := range budgets {
		if err := s.checkBudget(ctx, budget, now); err != nil {
			// Per-budget isolation: log and continue with the siblings.
			logger.Error("Budget check failed",
				slog.String("budget_id", budget.BudgetID),
				slog.String("error", err.Error()),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *budgetAlertService) checkBudget(ctx context.Context, budget domain.BudgetWithUser, now time.Time) error {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("budget_id", budget.BudgetID))

	// No default account is a valid state, not an error.
	if budget.DefaultAccount == nil {
		logger.Debug("Budget has no default account, skipping")
		return nil
	}

	// Zero ceiling makes the usage ratio undefined; skip.
	if budget.Amount.IsZero() {
		logger.Debug("Budget amount is zero, skipping")
		return nil
	}

	start, _ := schedule.MonthWindow(now)
	totalExpenses, err := s.txnRepo.SumExpenses(ctx, budget.UserID, &budget.DefaultAccount.AccountID, start, now)
	if err != nil {
		return fmt.Errorf("failed to sum expenses: %w", err)
	}

	percentageUsed := totalExpenses.Div(budget.Amount).Mul(decimal.NewFromInt(100))
	thresholdCrossed := percentageUsed.GreaterThanOrEqual(alertThresholdPercent)
	isNewAlertMonth := budget.LastAlertSent == nil || !schedule.SameMonth(*budget.LastAlertSent, now)

	if !thresholdCrossed || !isNewAlertMonth {
		return nil
	}

	subject := fmt.Sprintf("Budget Alert for %s", budget.DefaultAccount.Name)
	body := emails.RenderBudgetAlert(emails.BudgetAlertData{
		UserName:       budget.UserName,
		AccountName:    budget.DefaultAccount.Name,
		PercentageUsed: percentageUsed,
		BudgetAmount:   budget.Amount,
		TotalExpenses:  totalExpenses,
	})

	if err := s.dispatcher.Send(ctx, budget.UserEmail, subject, body); err != nil {
		// Delivery is best effort; the attempt still counts against this
		// month so a broken mailer does not retrigger every 6 hours.
		logger.Error("Budget alert dispatch failed", slog.String("error", err.Error()))
	} else {
		logger.Info("Budget alert sent",
			slog.String("percentage_used", percentageUsed.StringFixed(1)),
			slog.String("total_expenses", totalExpenses.String()),
		)
	}

	if err := s.budgetRepo.MarkAlertSent(ctx, budget.BudgetID, now); err != nil {
		return fmt.Errorf("failed to record alert attempt: %w", err)
	}
	return nil
}
