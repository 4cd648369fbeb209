package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType is a display-level tag for an account.
type AccountType string

const (
	Current AccountType = "CURRENT"
	Savings AccountType = "SAVINGS"
)

// Account represents a financial account within the core domain.
// Balance is maintained incrementally as the sum of signed transaction amounts
// attributed to the account; it is never recomputed from scratch in the hot path.
type Account struct {
	AccountID   string          `json:"accountID"` // Primary Key (UUID)
	UserID      string          `json:"userID"`    // Owning user (NON-NULL)
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"`
	IsDefault   bool            `json:"isDefault"` // At most one default account per user
	AuditFields
}
