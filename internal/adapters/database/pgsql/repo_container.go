package pgsql

import (
	portsrepo "github.com/SscSPs/welth_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgsql repositories over one connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: NewTransactionRepository(pool),
		AccountRepo:     NewAccountRepository(pool),
		BudgetRepo:      NewBudgetRepository(pool),
		UserRepo:        NewUserRepository(pool),
	}
}
