// Package valueobjects - Money is one of the most critical value objects in
// financial systems. Order totals and catalog prices are single-currency
// (USD), so this Money is narrower than a multi-currency ledger's: it is
// just an integer cent amount with no notion of currency mixing.
//
// SOLID Principles:
// - SRP: Money knows how to be Money (arithmetic, comparison, validation)
// - LSP: All Money instances follow the same contract
package valueobjects

import (
	"errors"
	"fmt"
)

// Common domain errors for Money operations
var (
	ErrNegativeAmount     = errors.New("amount cannot be negative")
	ErrInsufficientAmount = errors.New("insufficient amount")
	ErrNonIntegerAmount   = errors.New("amount must be an integer number of cents")
)

// Money represents a monetary amount as an integer number of cents.
//
// Value Object Pattern:
// - Immutable: All operations return new Money instances
// - Self-validating: Cannot construct a negative Money
// - No floating point ever touches a stored amount
type Money struct {
	cents int64
}

// NewMoneyFromCents creates Money from an integer number of cents.
//
// Example:
//
//	NewMoneyFromCents(10050) // $100.50
func NewMoneyFromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents}, nil
}

// Zero creates a zero money amount.
func Zero() Money {
	return Money{cents: 0}
}

// Cents returns the amount in integer cents. This is the only
// representation Money has, and the only one persisted.
func (m Money) Cents() int64 {
	return m.cents
}

// String returns a human-readable representation, e.g. "100.50".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}

// Add returns a new Money with the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Subtract returns a new Money with the difference. Returns error if the
// result would be negative.
func (m Money) Subtract(other Money) (Money, error) {
	diff := m.cents - other.cents
	if diff < 0 {
		return Money{}, ErrInsufficientAmount
	}
	return Money{cents: diff}, nil
}

// MultiplyByQuantity returns a new Money scaled by an integer quantity, used
// to price a line item (unit price * quantity).
func (m Money) MultiplyByQuantity(quantity int64) Money {
	return Money{cents: m.cents * quantity}
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.cents > 0
}

// GreaterThan checks if this money is greater than another.
func (m Money) GreaterThan(other Money) bool {
	return m.cents > other.cents
}

// GreaterThanOrEqual checks if this money is >= another.
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.cents >= other.cents
}

// LessThan checks if this money is less than another.
func (m Money) LessThan(other Money) bool {
	return m.cents < other.cents
}

// Equals checks if two money values are equal.
func (m Money) Equals(other Money) bool {
	return m.cents == other.cents
}
