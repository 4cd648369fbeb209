package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/welth_backend/internal/apperrors"
	"github.com/SscSPs/welth_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/welth_backend/internal/core/ports/repositories"
)

// PgxBudgetRepository persists the per-user budget rows.
type PgxBudgetRepository struct {
	BaseRepository
}

// NewBudgetRepository creates a new repository for budget data.
func NewBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

func (r *PgxBudgetRepository) FindBudgetByUserID(ctx context.Context, userID string) (*domain.Budget, error) {
	query := `SELECT budget_id, user_id, amount, last_alert_sent, created_at, last_updated_at
		FROM budgets WHERE user_id = $1;`
	var b domain.Budget
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&b.BudgetID,
		&b.UserID,
		&b.Amount,
		&b.LastAlertSent,
		&b.CreatedAt,
		&b.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find budget for user "+userID, err)
	}
	return &b, nil
}

// UpsertBudget creates or replaces the user's single budget row. The user_id
// unique constraint carries the one-budget-per-user invariant; an existing
// row keeps its id, created_at and last_alert_sent.
func (r *PgxBudgetRepository) UpsertBudget(ctx context.Context, budget domain.Budget) (*domain.Budget, error) {
	query := `
		INSERT INTO budgets (budget_id, user_id, amount, last_alert_sent, created_at, last_updated_at)
		VALUES ($1, $2, $3, NULL, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET amount = EXCLUDED.amount, last_updated_at = EXCLUDED.last_updated_at
		RETURNING budget_id, user_id, amount, last_alert_sent, created_at, last_updated_at;`
	var b domain.Budget
	err := r.Pool.QueryRow(ctx, query,
		budget.BudgetID,
		budget.UserID,
		budget.Amount,
		budget.CreatedAt,
		budget.LastUpdatedAt,
	).Scan(
		&b.BudgetID,
		&b.UserID,
		&b.Amount,
		&b.LastAlertSent,
		&b.CreatedAt,
		&b.LastUpdatedAt,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to upsert budget for user "+budget.UserID, err)
	}
	return &b, nil
}

func (r *PgxBudgetRepository) FindBudgetsWithDefaultAccounts(ctx context.Context) ([]domain.BudgetWithUser, error) {
	// LEFT JOIN keeps budgets whose user has no default account; the
	// evaluator skips those explicitly rather than silently dropping them here.
	query := `
		SELECT b.budget_id, b.user_id, b.amount, b.last_alert_sent, b.created_at, b.last_updated_at,
		       u.email, u.name,
		       a.account_id,
		       COALESCE(a.name, ''), COALESCE(a.account_type, 'CURRENT'), COALESCE(a.balance, 0),
		       COALESCE(a.created_at, b.created_at), COALESCE(a.last_updated_at, b.last_updated_at)
		FROM budgets b
		JOIN users u ON u.user_id = b.user_id
		LEFT JOIN accounts a ON a.user_id = b.user_id AND a.is_default = TRUE;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to fetch budgets with default accounts", err)
	}
	defer rows.Close()

	var out []domain.BudgetWithUser
	for rows.Next() {
		var bwu domain.BudgetWithUser
		var accID *string
		var acc domain.Account

		err := rows.Scan(
			&bwu.BudgetID,
			&bwu.UserID,
			&bwu.Amount,
			&bwu.LastAlertSent,
			&bwu.CreatedAt,
			&bwu.LastUpdatedAt,
			&bwu.UserEmail,
			&bwu.UserName,
			&accID,
			&acc.Name,
			&acc.AccountType,
			&acc.Balance,
			&acc.CreatedAt,
			&acc.LastUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget row: %w", err)
		}

		if accID != nil {
			acc.AccountID = *accID
			acc.UserID = bwu.UserID
			acc.IsDefault = true
			bwu.DefaultAccount = &acc
		}
		out = append(out, bwu)
	}
	return out, rows.Err()
}

func (r *PgxBudgetRepository) MarkAlertSent(ctx context.Context, budgetID string, sentAt time.Time) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE budgets SET last_alert_sent = $1, last_updated_at = $1 WHERE budget_id = $2;`,
		sentAt, budgetID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark alert sent for budget "+budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
