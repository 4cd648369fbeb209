package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/welth_backend/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves an account scoped to its owning user.
	FindAccountByID(ctx context.Context, accountID string, userID string) (*domain.Account, error)

	// ListAccountsByUser retrieves all accounts for a user.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)

	// FindDefaultAccount retrieves the user's default account, or
	// apperrors.ErrNotFound if none is flagged.
	FindDefaultAccount(ctx context.Context, userID string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SetDefaultAccount flags accountID as the user's default, clearing the
	// flag on every other account of the user first, in one database
	// transaction so exactly one default survives.
	SetDefaultAccount(ctx context.Context, userID string, accountID string, now time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
