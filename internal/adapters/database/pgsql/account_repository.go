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

const accountColumns = `account_id, user_id, name, account_type, balance, is_default, created_at, last_updated_at`

// PgxAccountRepository persists accounts.
type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.AccountID,
		&acc.UserID,
		&acc.Name,
		&acc.AccountType,
		&acc.Balance,
		&acc.IsDefault,
		&acc.CreatedAt,
		&acc.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.UserID,
		account.Name,
		account.AccountType,
		account.Balance,
		account.IsDefault,
		account.CreatedAt,
		account.LastUpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save account "+account.AccountID, err)
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND user_id = $2;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+accountID, err)
	}
	return acc, nil
}

func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at ASC;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounts for user "+userID, err)
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		out = append(out, *acc)
	}
	return out, rows.Err()
}

func (r *PgxAccountRepository) FindDefaultAccount(ctx context.Context, userID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND is_default = TRUE;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find default account for user "+userID, err)
	}
	return acc, nil
}

// SetDefaultAccount clears the default flag on every other account of the
// user before setting it on accountID, inside one transaction, so exactly one
// default ever exists.
func (r *PgxAccountRepository) SetDefaultAccount(ctx context.Context, userID string, accountID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx,
		`UPDATE accounts SET is_default = FALSE, last_updated_at = $1
		 WHERE user_id = $2 AND is_default = TRUE AND account_id <> $3;`,
		now, userID, accountID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to clear default accounts", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE accounts SET is_default = TRUE, last_updated_at = $1
		 WHERE user_id = $2 AND account_id = $3;`,
		now, userID, accountID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set default account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}
