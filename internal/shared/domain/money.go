package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in a given currency.
// The amount is kept as a decimal so master prices survive CSV round trips unchanged.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney validates and builds a Money value.
func NewMoney(amount float64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, errors.New("amount cannot be negative")
	}
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   decimal.NewFromFloat(amount),
		currency: currency,
	}, nil
}

// ParseMoney builds a Money value from its textual form ("12.50").
func ParseMoney(raw, currency string) (Money, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if d.IsNegative() {
		return Money{}, errors.New("amount cannot be negative")
	}
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: d, currency: currency}, nil
}

// Amount returns the amount as a float64, which is what model features expect.
func (m Money) Amount() float64 {
	f, _ := m.amount.Float64()
	return f
}

// Currency returns the ISO code.
func (m Money) Currency() string {
	return m.currency
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + m.currency
}
