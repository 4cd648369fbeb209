package services

// ServiceContainer holds instances of all the application services. This is
// the main entry point for accessing service functionality, used by the HTTP
// handlers and the worker binary.
type ServiceContainer struct {
	Account       AccountSvcFacade
	Transaction   TransactionSvcFacade
	Budget        BudgetSvcFacade
	User          UserSvcFacade
	Recurring     RecurringSvcFacade
	BudgetAlert   BudgetAlertSvcFacade
	MonthlyReport MonthlyReportSvcFacade
}
