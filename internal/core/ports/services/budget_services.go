package services

import (
	"context"
	"time"

	"github.com/SscSPs/welth_backend/internal/dto"
)

// BudgetSvcFacade defines operations on the user's single monthly budget.
type BudgetSvcFacade interface {
	// GetBudget retrieves the user's budget with month-to-date expenses on
	// the default account. Returns apperrors.ErrNotFound when no budget is set.
	GetBudget(ctx context.Context, userID string) (*dto.BudgetResponse, error)

	// UpsertBudget creates or replaces the user's budget amount.
	UpsertBudget(ctx context.Context, req dto.UpsertBudgetRequest, userID string) (*dto.BudgetResponse, error)
}

// BudgetAlertSvcFacade is the periodic budget threshold evaluator.
type BudgetAlertSvcFacade interface {
	// RunBudgetChecks evaluates every budget against its month-to-date spend
	// and dispatches at most one threshold alert per budget per calendar
	// month. One budget's failure never aborts the others; the first error is
	// returned after the full sweep for run-level logging.
	RunBudgetChecks(ctx context.Context, now time.Time) error
}
