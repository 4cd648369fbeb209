package dto

import (
	"time"

	"github.com/SscSPs/welth_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a transaction.
// When IsRecurring is set, RecurringInterval is required and the next due
// date is computed from Date by the service.
type CreateTransactionRequest struct {
	Type              domain.TransactionType    `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount            decimal.Decimal           `json:"amount" binding:"required"`
	Date              time.Time                 `json:"date" binding:"required"`
	AccountID         string                    `json:"accountID" binding:"required"`
	Category          string                    `json:"category" binding:"required"`
	Description       string                    `json:"description"`
	IsRecurring       bool                      `json:"isRecurring"`
	RecurringInterval *domain.RecurringInterval `json:"recurringInterval" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
}

// UpdateTransactionRequest defines the fields a transaction update may change.
// Pointers distinguish "not provided" from zero values.
type UpdateTransactionRequest struct {
	Type              *domain.TransactionType   `json:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Amount            *decimal.Decimal          `json:"amount"`
	Date              *time.Time                `json:"date"`
	AccountID         *string                   `json:"accountID"`
	Category          *string                   `json:"category"`
	Description       *string                   `json:"description"`
	IsRecurring       *bool                     `json:"isRecurring"`
	RecurringInterval *domain.RecurringInterval `json:"recurringInterval" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
}

// BulkDeleteTransactionsRequest carries the ids to delete in one atomic write.
type BulkDeleteTransactionsRequest struct {
	TransactionIDs []string `json:"transactionIDs" binding:"required,min=1"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID     string                    `json:"transactionID"`
	AccountID         string                    `json:"accountID"`
	Type              domain.TransactionType    `json:"type"`
	Amount            decimal.Decimal           `json:"amount"`
	Date              time.Time                 `json:"date"`
	Category          string                    `json:"category"`
	Description       string                    `json:"description"`
	Status            domain.TransactionStatus  `json:"status"`
	IsRecurring       bool                      `json:"isRecurring"`
	RecurringInterval *domain.RecurringInterval `json:"recurringInterval,omitempty"`
	NextRecurringDate *time.Time                `json:"nextRecurringDate,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     txn.TransactionID,
		AccountID:         txn.AccountID,
		Type:              txn.Type,
		Amount:            txn.Amount,
		Date:              txn.Date,
		Category:          txn.Category,
		Description:       txn.Description,
		Status:            txn.Status,
		IsRecurring:       txn.IsRecurring,
		RecurringInterval: txn.RecurringInterval,
		NextRecurringDate: txn.NextRecurringDate,
		CreatedAt:         txn.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for i := range txns {
		out = append(out, ToTransactionResponse(&txns[i]))
	}
	return out
}
