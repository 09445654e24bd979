package domain

import (
	"errors"
	"fmt"
)

// Quantity is a non-negative number of units.
type Quantity struct {
	value int
}

// NewQuantity validates and builds a Quantity.
func NewQuantity(value int) (Quantity, error) {
	if value < 0 {
		return Quantity{}, errors.New("quantity cannot be negative")
	}
	return Quantity{value: value}, nil
}

// MustNewQuantity panics on invalid input. Reserved for fixtures and constants.
func MustNewQuantity(value int) Quantity {
	q, err := NewQuantity(value)
	if err != nil {
		panic(fmt.Sprintf("invalid quantity: %v", err))
	}
	return q
}

// Value returns the raw count.
func (q Quantity) Value() int {
	return q.value
}

// Equal reports whether both quantities hold the same number of units.
func (q Quantity) Equal(other Quantity) bool {
	return q.value == other.value
}

// IsZero reports whether no units are held.
func (q Quantity) IsZero() bool {
	return q.value == 0
}

// Ratio returns part/q, or 0 when q is zero.
func (q Quantity) Ratio(part Quantity) float64 {
	if q.value == 0 {
		return 0.0
	}
	return float64(part.value) / float64(q.value)
}
