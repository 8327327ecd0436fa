package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places every Money amount carries.
const Scale int32 = 2

// MaxAmount is the largest amount a NUMERIC(10,2) column holds.
var MaxAmount = MustMoney("99999999.99")

// Money is an immutable monetary amount in the shop's single currency.
// Amounts are rounded half away from zero to Scale places on construction,
// so arithmetic between Money values never drifts past two decimals.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates Money from a decimal amount
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount.Round(Scale)}
}

// NewMoneyFromInt creates Money from a whole amount
func NewMoneyFromInt(amount int64) Money {
	return NewMoney(decimal.NewFromInt(amount))
}

// NewMoneyFromString parses Money from its decimal string form
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d), nil
}

// MustMoney parses Money and panics on malformed input. Intended for
// constants and tests.
func MustMoney(amount string) Money {
	m, err := NewMoneyFromString(amount)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns zero Money
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns the sum of both amounts
func (m Money) Add(other Money) Money {
	return NewMoney(m.amount.Add(other.amount))
}

// Subtract returns the difference of both amounts
func (m Money) Subtract(other Money) Money {
	return NewMoney(m.amount.Sub(other.amount))
}

// MultiplyByInt returns the amount multiplied by an integer
func (m Money) MultiplyByInt(factor int64) Money {
	return NewMoney(m.amount.Mul(decimal.NewFromInt(factor)))
}

// Equals returns true if both amounts are numerically equal
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// LessThan returns true if this Money is less than the other
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// GreaterThan returns true if this Money is greater than the other
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// ExceedsMax reports whether the amount is too large to store
func (m Money) ExceedsMax() bool {
	return m.GreaterThan(MaxAmount)
}

// Sum adds up a list of amounts; an empty list sums to zero
func Sum(amounts ...Money) Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.amount)
	}
	return NewMoney(total)
}

// String returns the amount with exactly two decimals
func (m Money) String() string {
	return m.amount.StringFixed(Scale)
}

// MarshalJSON encodes Money as a fixed two-decimal string ("10.00")
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts either a JSON string ("10.00") or a JSON number (10).
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*m = Zero()
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	parsed, err := NewMoneyFromString(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("cannot scan %T into Money: %w", value, err)
	}
	*m = NewMoney(d)
	return nil
}
