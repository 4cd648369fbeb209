package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/welth_backend/internal/core/domain"
)

// BudgetReader defines read operations for budget data.
type BudgetReader interface {
	// FindBudgetByUserID retrieves the user's budget, or apperrors.ErrNotFound.
	FindBudgetByUserID(ctx context.Context, userID string) (*domain.Budget, error)

	// FindBudgetsWithDefaultAccounts retrieves every budget joined with the
	// owning user's contact details and default account (nil when the user
	// has none). Consumed by the periodic alert evaluator.
	FindBudgetsWithDefaultAccounts(ctx context.Context) ([]domain.BudgetWithUser, error)
}

// BudgetWriter defines write operations for budget data.
type BudgetWriter interface {
	// UpsertBudget creates or replaces the user's single budget row.
	UpsertBudget(ctx context.Context, budget domain.Budget) (*domain.Budget, error)

	// MarkAlertSent records that a threshold alert was attempted for the
	// budget at sentAt.
	MarkAlertSent(ctx context.Context, budgetID string, sentAt time.Time) error
}

// BudgetRepositoryFacade combines all budget repository interfaces.
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
