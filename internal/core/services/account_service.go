package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/welth_backend/internal/apperrors"
	"github.com/SscSPs/welth_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/welth_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/welth_backend/internal/core/ports/services"
	"github.com/SscSPs/welth_backend/internal/dto"
	"github.com/SscSPs/welth_backend/internal/middleware"
	"github.com/SscSPs/welth_backend/internal/utils/money"
)

// accountService provides account operations on top of the account repository.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	openingBalance := decimal.Zero
	if req.Balance != nil {
		normalized, err := money.ToAmount(*req.Balance)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid opening balance", apperrors.ErrValidation)
		}
		openingBalance = normalized
	}

	existing, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for user %s: %w", userID, err)
	}

	// The first account is always the default. A later account claiming the
	// flag is inserted without it and flipped through SetDefaultAccount,
	// which clears the old default in the same transaction; inserting with
	// the flag set would collide with the one-default-per-user unique index.
	firstAccount := len(existing) == 0
	claimsDefault := req.IsDefault && !firstAccount

	now := time.Now()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      userID,
		Name:        req.Name,
		AccountType: req.AccountType,
		Balance:     openingBalance,
		IsDefault:   firstAccount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	if claimsDefault {
		if err := s.accountRepo.SetDefaultAccount(ctx, userID, account.AccountID, now); err != nil {
			return nil, fmt.Errorf("failed to set default account: %w", err)
		}
		account.IsDefault = true
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.Bool("is_default", account.IsDefault))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccountsByUser(ctx, userID)
}

func (s *accountService) SetDefaultAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.SetDefaultAccount(ctx, userID, accountID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to set default account: %w", err)
	}
	account.IsDefault = true

	logger.Info("Default account changed", slog.String("account_id", accountID))
	return account, nil
}
