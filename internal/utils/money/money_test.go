package money_test

import (
	"testing"

	"github.com/SscSPs/welth_backend/internal/utils/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAmount(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    string
		wantErr bool
	}{
		{name: "decimal passes through", raw: decimal.NewFromFloat(10.50), want: "10.5"},
		{name: "decimal rounds to currency scale", raw: decimal.NewFromFloat(10.555), want: "10.56"},
		{name: "decimal pointer", raw: decimalPtr(decimal.NewFromInt(7)), want: "7"},
		{name: "float64", raw: 19.99, want: "19.99"},
		{name: "float64 rounds", raw: 0.005, want: "0.01"},
		{name: "int64", raw: int64(42), want: "42"},
		{name: "int", raw: 3, want: "3"},
		{name: "numeric string", raw: "123.45", want: "123.45"},
		{name: "non-numeric string", raw: "abc", wantErr: true},
		{name: "nil decimal pointer", raw: (*decimal.Decimal)(nil), wantErr: true},
		{name: "unsupported type", raw: []byte("100"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.ToAmount(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, money.ErrUnsupportedAmountType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }
