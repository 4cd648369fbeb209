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

const userColumns = `user_id, email, name, last_report_sent, created_at, last_updated_at`

// PgxUserRepository persists locally projected identity-provider users.
type PgxUserRepository struct {
	BaseRepository
}

// NewUserRepository creates a new repository for user data.
func NewUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.UserID,
		&u.Email,
		&u.Name,
		&u.LastReportSent,
		&u.CreatedAt,
		&u.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	u, err := scanUser(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user "+userID, err)
	}
	return u, nil
}

func (r *PgxUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list users", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *PgxUserRepository) EnsureUser(ctx context.Context, user domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (user_id, email, name, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name, last_updated_at = EXCLUDED.last_updated_at
		RETURNING ` + userColumns + `;`
	u, err := scanUser(r.Pool.QueryRow(ctx, query,
		user.UserID, user.Email, user.Name, user.CreatedAt, user.LastUpdatedAt,
	))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to ensure user "+user.UserID, err)
	}
	return u, nil
}

func (r *PgxUserRepository) MarkReportSent(ctx context.Context, userID string, sentAt time.Time) error {
	query := `UPDATE users SET last_report_sent = $1, last_updated_at = $1 WHERE user_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, sentAt, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark report sent for user "+userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
