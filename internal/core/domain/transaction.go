package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction adds to or subtracts from an account.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// TransactionStatus tracks the lifecycle of a transaction.
// Background processing only ever looks at COMPLETED transactions.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusCancelled TransactionStatus = "CANCELLED"
)

// RecurringInterval is the period between occurrences of a recurring template.
type RecurringInterval string

const (
	Daily   RecurringInterval = "DAILY"
	Weekly  RecurringInterval = "WEEKLY"
	Monthly RecurringInterval = "MONTHLY"
	Yearly  RecurringInterval = "YEARLY"
)

// Valid reports whether the interval is one of the supported periods.
func (i RecurringInterval) Valid() bool {
	switch i {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Transaction is a single ledger entry owned by a user and an account.
//
// A transaction with IsRecurring=true is a recurring template: it periodically
// spawns concrete, non-recurring occurrence transactions. For templates,
// RecurringInterval and NextRecurringDate are both set; LastProcessed records
// when the template last spawned an occurrence (nil if never).
type Transaction struct {
	TransactionID     string             `json:"transactionID"` // Primary Key (UUID)
	UserID            string             `json:"userID"`        // Owning user (NON-NULL)
	AccountID         string             `json:"accountID"`     // FK -> accounts.account_id (NON-NULL)
	Type              TransactionType    `json:"type"`          // INCOME or EXPENSE
	Amount            decimal.Decimal    `json:"amount"`        // Non-negative; precise decimal type
	Date              time.Time          `json:"date"`          // Occurrence date
	Category          string             `json:"category"`
	Description       string             `json:"description"`
	Status            TransactionStatus  `json:"status"`
	IsRecurring       bool               `json:"isRecurring"`
	RecurringInterval *RecurringInterval `json:"recurringInterval,omitempty"`
	NextRecurringDate *time.Time         `json:"nextRecurringDate,omitempty"`
	LastProcessed     *time.Time         `json:"lastProcessed,omitempty"`
	AuditFields
}

// SignedAmount returns the amount with the sign implied by the transaction
// type: INCOME positive, EXPENSE negative. Account balances are maintained as
// the running sum of signed amounts.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsDue reports whether a recurring template should spawn an occurrence at now.
// A template is due if it has never been processed, or its next due date has
// arrived. Non-recurring transactions are never due.
func (t Transaction) IsDue(now time.Time) bool {
	if !t.IsRecurring {
		return false
	}
	if t.LastProcessed == nil {
		return true
	}
	return t.NextRecurringDate != nil && !t.NextRecurringDate.After(now)
}
