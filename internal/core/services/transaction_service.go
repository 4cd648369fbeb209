package services

import (
	"context"
	"errors"
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
	"github.com/SscSPs/welth_backend/internal/utils/schedule"
)

var (
	// ErrNegativeAmount rejects ledger amounts below zero; direction is
	// carried by the transaction type, not the sign.
	ErrNegativeAmount = errors.New("transaction amount must not be negative")
	// ErrMissingInterval rejects recurring templates without an interval.
	ErrMissingInterval = errors.New("recurring transactions require a recurring interval")
)

// transactionService provides ledger CRUD on top of the transaction and
// account repositories. Every balance-affecting write goes through an atomic
// repository operation pairing the ledger change with the balance change.
type transactionService struct {
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.TransactionSvcFacade {
	return &transactionService{txnRepo: txnRepo, accountRepo: accountRepo}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount, err := money.ToAmount(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNegativeAmount)
	}
	if req.IsRecurring && (req.RecurringInterval == nil || !req.RecurringInterval.Valid()) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrMissingInterval)
	}

	// Ownership check before writing anything.
	if _, err := s.accountRepo.FindAccountByID(ctx, req.AccountID, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		AccountID:     req.AccountID,
		Type:          req.Type,
		Amount:        amount,
		Date:          req.Date,
		Category:      req.Category,
		Description:   req.Description,
		Status:        domain.StatusCompleted,
		IsRecurring:   req.IsRecurring,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if req.IsRecurring {
		next := schedule.AdvanceDate(req.Date, *req.RecurringInterval)
		txn.RecurringInterval = req.RecurringInterval
		txn.NextRecurringDate = &next
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("amount", amount.String()),
		slog.Bool("is_recurring", txn.IsRecurring),
	)
	return &txn, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error) {
	return s.txnRepo.FindTransactionByID(ctx, transactionID, userID)
}

func (s *transactionService) ListTransactionsByAccount(ctx context.Context, accountID string, userID string, limit int, offset int) ([]domain.Transaction, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.txnRepo.ListTransactionsByAccount(ctx, userID, accountID, limit, offset)
}

func (s *transactionService) ListRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	return s.txnRepo.ListRecentTransactions(ctx, userID, limit)
}

func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.txnRepo.FindTransactionByID(ctx, transactionID, userID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if req.Type != nil {
		updated.Type = *req.Type
	}
	if req.Amount != nil {
		amount, err := money.ToAmount(*req.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNegativeAmount)
		}
		updated.Amount = amount
	}
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.AccountID != nil {
		if _, err := s.accountRepo.FindAccountByID(ctx, *req.AccountID, userID); err != nil {
			return nil, err
		}
		updated.AccountID = *req.AccountID
	}
	if req.Category != nil {
		updated.Category = *req.Category
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.IsRecurring != nil {
		updated.IsRecurring = *req.IsRecurring
	}
	if req.RecurringInterval != nil {
		updated.RecurringInterval = req.RecurringInterval
	}
	if updated.IsRecurring {
		if updated.RecurringInterval == nil || !updated.RecurringInterval.Valid() {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrMissingInterval)
		}
		next := schedule.AdvanceDate(updated.Date, *updated.RecurringInterval)
		updated.NextRecurringDate = &next
	} else {
		updated.RecurringInterval = nil
		updated.NextRecurringDate = nil
		updated.LastProcessed = nil
	}
	updated.LastUpdatedAt = time.Now()

	// Reverse the old signed amount on the old account, apply the new signed
	// amount on the (possibly different) new account. Summing into one map
	// collapses the common same-account case into a single delta.
	balanceDeltas := map[string]decimal.Decimal{}
	balanceDeltas[existing.AccountID] = existing.SignedAmount().Neg()
	balanceDeltas[updated.AccountID] = balanceDeltas[updated.AccountID].Add(updated.SignedAmount())

	if err := s.txnRepo.UpdateTransaction(ctx, updated, balanceDeltas); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	logger.Info("Transaction updated", slog.String("transaction_id", transactionID))
	return &updated, nil
}

func (s *transactionService) DeleteTransactions(ctx context.Context, transactionIDs []string, userID string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(transactionIDs) == 0 {
		return 0, fmt.Errorf("%w: no transaction ids given", apperrors.ErrValidation)
	}

	// Fetch everything first so the compensating deltas are computed from the
	// rows actually being removed; unknown ids fail the whole request.
	balanceDeltas := map[string]decimal.Decimal{}
	toDelete := make([]string, 0, len(transactionIDs))
	for _, id := range transactionIDs {
		txn, err := s.txnRepo.FindTransactionByID(ctx, id, userID)
		if err != nil {
			return 0, err
		}
		// Deleting an entry reverses its effect on the balance.
		balanceDeltas[txn.AccountID] = balanceDeltas[txn.AccountID].Add(txn.SignedAmount().Neg())
		toDelete = append(toDelete, txn.TransactionID)
	}

	if err := s.txnRepo.DeleteTransactions(ctx, userID, toDelete, balanceDeltas); err != nil {
		return 0, fmt.Errorf("failed to delete transactions: %w", err)
	}

	logger.Info("Transactions deleted", slog.Int("count", len(toDelete)))
	return len(toDelete), nil
}
