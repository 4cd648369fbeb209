package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/welth_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for ledger transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction scoped to its owning user.
	// Returns apperrors.ErrNotFound if absent or owned by another user.
	FindTransactionByID(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves transactions for one account, newest first.
	ListTransactionsByAccount(ctx context.Context, userID string, accountID string, limit int, offset int) ([]domain.Transaction, error)

	// ListTransactionsInRange retrieves all COMPLETED transactions for a user
	// dated within [from, to], for monthly aggregation.
	ListTransactionsInRange(ctx context.Context, userID string, from time.Time, to time.Time) ([]domain.Transaction, error)

	// ListRecentTransactions retrieves the user's most recent transactions across accounts.
	ListRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)

	// FindDueRecurringTemplates selects all recurring COMPLETED templates that
	// are due at now (never processed, or next due date reached).
	FindDueRecurringTemplates(ctx context.Context, now time.Time) ([]domain.Transaction, error)

	// SumExpenses returns the sum of COMPLETED EXPENSE amounts for a user,
	// optionally restricted to one account, dated within [from, to].
	SumExpenses(ctx context.Context, userID string, accountID *string, from time.Time, to time.Time) (decimal.Decimal, error)
}

// TransactionWriter defines write operations for ledger transactions. Every
// method that moves money applies the transaction row change and the account
// balance change inside a single database transaction; partial application is
// never visible.
type TransactionWriter interface {
	// SaveTransaction inserts a transaction and applies its signed amount to
	// the owning account's balance atomically.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction replaces a transaction's mutable fields and applies
	// the given per-account balance deltas atomically (two entries when the
	// update moves the transaction between accounts).
	UpdateTransaction(ctx context.Context, txn domain.Transaction, balanceDeltas map[string]decimal.Decimal) error

	// DeleteTransactions removes the given transactions owned by userID and
	// applies the compensating per-account balance deltas atomically.
	DeleteTransactions(ctx context.Context, userID string, transactionIDs []string, balanceDeltas map[string]decimal.Decimal) error

	// SaveRecurringOccurrence atomically inserts the spawned occurrence,
	// applies its signed amount to the account balance, and advances the
	// template's lastProcessed/nextRecurringDate. All-or-nothing: a partial
	// write would cause duplicate spawning on the next trigger.
	SaveRecurringOccurrence(ctx context.Context, occurrence domain.Transaction, template domain.Transaction) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
