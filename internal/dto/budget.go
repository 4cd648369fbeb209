package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpsertBudgetRequest sets the user's monthly spending ceiling.
type UpsertBudgetRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// BudgetResponse returns the budget together with the month-to-date spend on
// the user's default account.
type BudgetResponse struct {
	BudgetID        string          `json:"budgetID"`
	Amount          decimal.Decimal `json:"amount"`
	CurrentExpenses decimal.Decimal `json:"currentExpenses"`
	LastAlertSent   *time.Time      `json:"lastAlertSent,omitempty"`
}
