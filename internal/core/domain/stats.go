package domain

import "github.com/shopspring/decimal"

// MonthlyStats is a derived aggregate over a user's transactions within one
// calendar month. It is computed on demand and never persisted.
type MonthlyStats struct {
	TotalIncome      decimal.Decimal            `json:"totalIncome"`
	TotalExpenses    decimal.Decimal            `json:"totalExpenses"`
	ByCategory       map[string]decimal.Decimal `json:"byCategory"` // EXPENSE totals per category
	TransactionCount int                        `json:"transactionCount"`
}

// NewMonthlyStats returns an empty aggregate with zeroed totals.
func NewMonthlyStats() MonthlyStats {
	return MonthlyStats{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		ByCategory:    make(map[string]decimal.Decimal),
	}
}
