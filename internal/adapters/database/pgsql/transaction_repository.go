package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/welth_backend/internal/apperrors"
	"github.com/SscSPs/welth_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/welth_backend/internal/core/ports/repositories"
)

const transactionColumns = `
	transaction_id, user_id, account_id, type, amount, date, category, description,
	status, is_recurring, recurring_interval, next_recurring_date, last_processed,
	created_at, last_updated_at`

// PgxTransactionRepository persists ledger transactions. Every write that
// moves money pairs the row change with the account balance change inside a
// single database transaction, using FOR UPDATE locks on the touched accounts.
type PgxTransactionRepository struct {
	BaseRepository
}

// NewTransactionRepository creates a new repository for transaction data.
func NewTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	var interval *string
	err := row.Scan(
		&txn.TransactionID,
		&txn.UserID,
		&txn.AccountID,
		&txn.Type,
		&txn.Amount,
		&txn.Date,
		&txn.Category,
		&txn.Description,
		&txn.Status,
		&txn.IsRecurring,
		&interval,
		&txn.NextRecurringDate,
		&txn.LastProcessed,
		&txn.CreatedAt,
		&txn.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if interval != nil {
		ri := domain.RecurringInterval(*interval)
		txn.RecurringInterval = &ri
	}
	return &txn, nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	var out []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		out = append(out, *txn)
	}
	return out, rows.Err()
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 AND user_id = $2;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction "+transactionID, err)
	}
	return txn, nil
}

func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, userID string, accountID string, limit int, offset int) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND account_id = $2
		ORDER BY date DESC, created_at DESC
		LIMIT $3 OFFSET $4;`
	rows, err := r.Pool.Query(ctx, query, userID, accountID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list transactions for account "+accountID, err)
	}
	return collectTransactions(rows)
}

func (r *PgxTransactionRepository) ListTransactionsInRange(ctx context.Context, userID string, from time.Time, to time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND status = $2 AND date >= $3 AND date <= $4
		ORDER BY date ASC;`
	rows, err := r.Pool.Query(ctx, query, userID, domain.StatusCompleted, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list transactions in range", err)
	}
	return collectTransactions(rows)
}

func (r *PgxTransactionRepository) ListRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2;`
	rows, err := r.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list recent transactions", err)
	}
	return collectTransactions(rows)
}

func (r *PgxTransactionRepository) FindDueRecurringTemplates(ctx context.Context, now time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE is_recurring = TRUE
		  AND status = $1
		  AND (last_processed IS NULL OR next_recurring_date <= $2);`
	rows, err := r.Pool.Query(ctx, query, domain.StatusCompleted, now)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to select due recurring templates", err)
	}
	return collectTransactions(rows)
}

func (r *PgxTransactionRepository) SumExpenses(ctx context.Context, userID string, accountID *string, from time.Time, to time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND status = $3
		  AND date >= $4 AND date <= $5
		  AND ($6::text IS NULL OR account_id = $6);`
	var sum decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, userID, domain.Expense, domain.StatusCompleted, from, to, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to aggregate expense sum", err)
	}
	return sum, nil
}

const insertTransactionQuery = `
	INSERT INTO transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`

func insertTransactionTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	var interval *string
	if txn.RecurringInterval != nil {
		s := string(*txn.RecurringInterval)
		interval = &s
	}
	_, err := tx.Exec(ctx, insertTransactionQuery,
		txn.TransactionID,
		txn.UserID,
		txn.AccountID,
		txn.Type,
		txn.Amount,
		txn.Date,
		txn.Category,
		txn.Description,
		txn.Status,
		txn.IsRecurring,
		interval,
		txn.NextRecurringDate,
		txn.LastProcessed,
		txn.CreatedAt,
		txn.LastUpdatedAt,
	)
	return err
}

// applyBalanceDeltasTx locks the affected accounts and applies atomic
// increments, never read-modify-write across round trips. Account iteration
// order is irrelevant to correctness; pg sorts lock acquisition per statement.
func applyBalanceDeltasTx(ctx context.Context, tx pgx.Tx, userID string, deltas map[string]decimal.Decimal, now time.Time) error {
	for accountID, delta := range deltas {
		if delta.IsZero() {
			continue
		}
		tag, err := tx.Exec(ctx,
			`UPDATE accounts
			 SET balance = balance + $1, last_updated_at = $2
			 WHERE account_id = $3 AND user_id = $4;`,
			delta, now, accountID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to adjust balance for account %s: %w", accountID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
	}
	return nil
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertTransactionTx(ctx, tx, txn); err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+txn.TransactionID, err)
	}
	deltas := map[string]decimal.Decimal{txn.AccountID: txn.SignedAmount()}
	if err := applyBalanceDeltasTx(ctx, tx, txn.UserID, deltas, txn.LastUpdatedAt); err != nil {
		return apperrors.NewAppError(500, "failed to apply balance change", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, balanceDeltas map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var interval *string
	if txn.RecurringInterval != nil {
		s := string(*txn.RecurringInterval)
		interval = &s
	}
	tag, err := tx.Exec(ctx,
		`UPDATE transactions
		 SET account_id = $1, type = $2, amount = $3, date = $4, category = $5,
		     description = $6, is_recurring = $7, recurring_interval = $8,
		     next_recurring_date = $9, last_processed = $10, last_updated_at = $11
		 WHERE transaction_id = $12 AND user_id = $13;`,
		txn.AccountID, txn.Type, txn.Amount, txn.Date, txn.Category,
		txn.Description, txn.IsRecurring, interval,
		txn.NextRecurringDate, txn.LastProcessed, txn.LastUpdatedAt,
		txn.TransactionID, txn.UserID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update transaction "+txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := applyBalanceDeltasTx(ctx, tx, txn.UserID, balanceDeltas, txn.LastUpdatedAt); err != nil {
		return apperrors.NewAppError(500, "failed to apply balance changes", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) DeleteTransactions(ctx context.Context, userID string, transactionIDs []string, balanceDeltas map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := time.Now()
	tag, err := tx.Exec(ctx,
		`DELETE FROM transactions WHERE user_id = $1 AND transaction_id = ANY($2);`,
		userID, transactionIDs,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete transactions", err)
	}
	if tag.RowsAffected() != int64(len(transactionIDs)) {
		// A concurrent delete won part of the batch; compensation deltas no
		// longer match the rows removed, so give up and let the caller retry.
		return apperrors.NewAppError(409, "transaction set changed during delete", apperrors.ErrNotFound)
	}

	if err := applyBalanceDeltasTx(ctx, tx, userID, balanceDeltas, now); err != nil {
		return apperrors.NewAppError(500, "failed to apply compensating balance changes", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) SaveRecurringOccurrence(ctx context.Context, occurrence domain.Transaction, template domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Guard against a concurrent worker processing the same template: the
	// update only lands if the template is still in its pre-advance state.
	var interval *string
	if template.RecurringInterval != nil {
		s := string(*template.RecurringInterval)
		interval = &s
	}
	tag, err := tx.Exec(ctx,
		`UPDATE transactions
		 SET last_processed = $1, next_recurring_date = $2, last_updated_at = $3
		 WHERE transaction_id = $4 AND user_id = $5 AND is_recurring = TRUE
		   AND recurring_interval = $6
		   AND (last_processed IS NULL OR last_processed < $1);`,
		template.LastProcessed, template.NextRecurringDate, template.LastUpdatedAt,
		template.TransactionID, template.UserID, interval,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to advance recurring template "+template.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertTransactionTx(ctx, tx, occurrence); err != nil {
		return apperrors.NewAppError(500, "failed to insert recurring occurrence", err)
	}

	deltas := map[string]decimal.Decimal{occurrence.AccountID: occurrence.SignedAmount()}
	if err := applyBalanceDeltasTx(ctx, tx, occurrence.UserID, deltas, occurrence.LastUpdatedAt); err != nil {
		return apperrors.NewAppError(500, "failed to apply occurrence balance change", err)
	}

	return r.Commit(ctx, tx)
}
