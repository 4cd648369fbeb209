package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a user's monthly spending ceiling. At most one budget exists per
// user (upsert semantics keyed by user id).
type Budget struct {
	BudgetID      string          `json:"budgetID"` // Primary Key (UUID)
	UserID        string          `json:"userID"`   // Unique owning user
	Amount        decimal.Decimal `json:"amount"`   // Monthly ceiling
	LastAlertSent *time.Time      `json:"lastAlertSent,omitempty"`
	AuditFields
}

// BudgetWithUser is a budget joined with the contact details and default
// account needed to evaluate and deliver a threshold alert.
type BudgetWithUser struct {
	Budget
	UserEmail      string   `json:"userEmail"`
	UserName       string   `json:"userName"`
	DefaultAccount *Account `json:"defaultAccount,omitempty"` // nil when the user has no default account
}
