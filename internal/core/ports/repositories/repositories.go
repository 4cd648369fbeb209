package repositories

// RepositoryProvider aggregates the repository facades the service layer
// depends on. Wired once in main from the pgsql adapter.
type RepositoryProvider struct {
	TransactionRepo TransactionRepositoryFacade
	AccountRepo     AccountRepositoryFacade
	BudgetRepo      BudgetRepositoryFacade
	UserRepo        UserRepositoryFacade
}
