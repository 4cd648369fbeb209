// Package money provides amount normalization shared by every consumer of
// ledger amounts. All monetary arithmetic in the application goes through
// decimal.Decimal; binary floating point is accepted only as input and is
// normalized here before it touches the ledger.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// CurrencyScale is the number of fractional digits stored for amounts.
const CurrencyScale = 2

// ErrUnsupportedAmountType indicates a raw amount value could not be
// converted to a decimal. Aggregations skip and log the offending
// transaction instead of aborting.
var ErrUnsupportedAmountType = errors.New("unsupported amount type")

// ToAmount normalizes a raw amount value to a decimal rounded to currency
// scale. Accepted shapes: decimal.Decimal, *decimal.Decimal, float64, int64,
// int, and numeric strings. Anything else fails with ErrUnsupportedAmountType.
func ToAmount(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v.Round(CurrencyScale), nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, fmt.Errorf("%w: nil decimal", ErrUnsupportedAmountType)
		}
		return v.Round(CurrencyScale), nil
	case float64:
		return decimal.NewFromFloat(v).Round(CurrencyScale), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q is not numeric", ErrUnsupportedAmountType, v)
		}
		return d.Round(CurrencyScale), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %T", ErrUnsupportedAmountType, raw)
	}
}

// MustAmount is ToAmount for literals in tests and seed data; it panics on
// conversion failure.
func MustAmount(raw any) decimal.Decimal {
	d, err := ToAmount(raw)
	if err != nil {
		panic(err)
	}
	return d
}
