package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/welth_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestTransaction_SignedAmount(t *testing.T) {
	tests := []struct {
		name        string
		transaction domain.Transaction
		want        string
	}{
		{
			name: "income is positive",
			transaction: domain.Transaction{
				Type:   domain.Income,
				Amount: decimal.NewFromFloat(150.25),
			},
			want: "150.25",
		},
		{
			name: "expense is negative",
			transaction: domain.Transaction{
				Type:   domain.Expense,
				Amount: decimal.NewFromFloat(99.99),
			},
			want: "-99.99",
		},
		{
			name: "zero amount stays zero",
			transaction: domain.Transaction{
				Type:   domain.Expense,
				Amount: decimal.Zero,
			},
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.transaction.SignedAmount().String())
		})
	}
}

func TestTransaction_IsDue(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		transaction domain.Transaction
		want        bool
	}{
		{
			name:        "non-recurring is never due",
			transaction: domain.Transaction{IsRecurring: false},
			want:        false,
		},
		{
			name: "never processed is due",
			transaction: domain.Transaction{
				IsRecurring:   true,
				LastProcessed: nil,
			},
			want: true,
		},
		{
			name: "next date in the past is due",
			transaction: domain.Transaction{
				IsRecurring:       true,
				LastProcessed:     timePtr(now.AddDate(0, -1, 0)),
				NextRecurringDate: timePtr(now.AddDate(0, 0, -1)),
			},
			want: true,
		},
		{
			name: "next date exactly now is due",
			transaction: domain.Transaction{
				IsRecurring:       true,
				LastProcessed:     timePtr(now.AddDate(0, -1, 0)),
				NextRecurringDate: timePtr(now),
			},
			want: true,
		},
		{
			name: "next date in the future is not due",
			transaction: domain.Transaction{
				IsRecurring:       true,
				LastProcessed:     timePtr(now),
				NextRecurringDate: timePtr(now.AddDate(0, 1, 0)),
			},
			want: false,
		},
		{
			name: "processed with nil next date is not due",
			transaction: domain.Transaction{
				IsRecurring:       true,
				LastProcessed:     timePtr(now),
				NextRecurringDate: nil,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.transaction.IsDue(now))
		})
	}
}
