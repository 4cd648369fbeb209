package services

import (
	"context"

	"github.com/SscSPs/welth_backend/internal/core/domain"
	"github.com/SscSPs/welth_backend/internal/dto"
)

// AccountReaderSvc defines read operations for account data.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account owned by userID.
	GetAccountByID(ctx context.Context, accountID string, userID string) (*domain.Account, error)

	// ListAccounts retrieves all of the user's accounts.
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data.
type AccountWriterSvc interface {
	// CreateAccount persists a new account. The user's first account becomes
	// the default automatically; a later account can request the flag, which
	// toggles it off everywhere else.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// SetDefaultAccount makes accountID the user's single default account.
	SetDefaultAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
