package services

import (
	"context"

	"github.com/SscSPs/welth_backend/internal/core/domain"
	"github.com/SscSPs/welth_backend/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions.
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction owned by userID.
	GetTransactionByID(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves an account's transactions, newest first.
	ListTransactionsByAccount(ctx context.Context, accountID string, userID string, limit int, offset int) ([]domain.Transaction, error)

	// ListRecentTransactions retrieves the user's most recent transactions across accounts.
	ListRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines write operations for transactions. Balance
// maintenance is atomic with the ledger change in every method.
type TransactionWriterSvc interface {
	// CreateTransaction records a transaction and adjusts the account balance.
	// For recurring templates the next due date is computed from the
	// transaction date and interval.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	// UpdateTransaction applies the changed fields and the compensating
	// balance deltas (old amount reversed, new amount applied).
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)

	// DeleteTransactions removes the given transactions and compensates each
	// affected account's balance in one atomic write. Returns how many were deleted.
	DeleteTransactions(ctx context.Context, transactionIDs []string, userID string) (int, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
