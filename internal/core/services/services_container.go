package services

import (
	portsrepo "github.com/SscSPs/welth_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/welth_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. The external collaborators (work item publisher,
// notification dispatcher, insight generator) are adapters constructed in main.
func NewServiceContainer(
	repos portsrepo.RepositoryProvider,
	publisher portssvc.WorkItemPublisher,
	dispatcher portssvc.NotificationDispatcher,
	insights portssvc.InsightGenerator,
) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account:       NewAccountService(repos.AccountRepo),
		Transaction:   NewTransactionService(repos.TransactionRepo, repos.AccountRepo),
		Budget:        NewBudgetService(repos.BudgetRepo, repos.TransactionRepo, repos.AccountRepo),
		User:          NewUserService(repos.UserRepo),
		Recurring:     NewRecurringService(repos.TransactionRepo, publisher),
		BudgetAlert:   NewBudgetAlertService(repos.BudgetRepo, repos.TransactionRepo, dispatcher),
		MonthlyReport: NewMonthlyReportService(repos.TransactionRepo, repos.UserRepo, insights, dispatcher),
	}
}
