// Package money implements amount handling for Splitify.
//
// Amounts are decimal.Decimal values. Arithmetic keeps full precision,
// rounding to the two decimal places used for persisted and displayed
// amounts happens exactly once, at the boundary.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount     = errors.New("the amount is not a valid decimal number")
	ErrAmountNotPositive = errors.New("the amount must be greater than zero")
)

// Parse converts user input into an amount. The amount must be a decimal
// number greater than zero.
func Parse(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	if !amount.IsPositive() {
		return decimal.Zero, ErrAmountNotPositive
	}

	return amount, nil
}

// Round rounds an amount to two decimal places, half away from zero.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Share returns the equal split of an amount between n participants.
//
// The result is not remainder-corrected: it is returned at full precision
// and only rounded for display, so n rounded shares may not sum exactly to
// the original amount. Callers that need exact sum preservation must apply
// their own remainder distribution.
func Share(amount decimal.Decimal, n int) decimal.Decimal {
	return amount.Div(decimal.NewFromInt(int64(n)))
}
