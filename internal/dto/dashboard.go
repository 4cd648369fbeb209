package dto

// DashboardResponse aggregates the data the dashboard page renders: the
// user's accounts, budget usage, and most recent transactions.
type DashboardResponse struct {
	Accounts           []AccountResponse     `json:"accounts"`
	Budget             *BudgetResponse       `json:"budget,omitempty"`
	RecentTransactions []TransactionResponse `json:"recentTransactions"`
}
