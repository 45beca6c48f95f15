package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Per-request amount ceiling in cents ($10,000.00).
const MaxAmountCents int64 = 1_000_000

var (
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	ErrAmountTooLarge    = errors.New("amount exceeds the $10,000 per-request limit")
	ErrAmountPrecision   = errors.New("amount must have at most two decimal places")
)

// Amount is a monetary value in USD cents. Amounts are stored as BIGINT
// cents to avoid floating point errors.
type Amount int64

// ParseAmount parses a decimal string such as "250.00" into an Amount,
// enforcing the submission bounds: strictly positive, at most $10,000,
// at most two decimal places.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return AmountFromDecimal(d)
}

// AmountFromDecimal validates a decimal value against the submission bounds.
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	if !d.Equal(d.Truncate(2)) {
		return 0, ErrAmountPrecision
	}
	cents := d.Mul(decimal.NewFromInt(100)).IntPart()
	if cents <= 0 {
		return 0, ErrAmountNotPositive
	}
	if cents > MaxAmountCents {
		return 0, ErrAmountTooLarge
	}
	return Amount(cents), nil
}

// Cents returns the raw cent count.
func (a Amount) Cents() int64 { return int64(a) }

// Decimal converts the cent count to a shopspring/decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(a)).Div(decimal.NewFromInt(100))
}

// String formats the amount for notification text, e.g. "$250.00".
func (a Amount) String() string {
	return "$" + a.Decimal().StringFixed(2)
}
