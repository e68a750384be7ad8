package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity is a value object representing stock quantities.
// It is immutable and can never hold a negative value - all operations
// return new Quantity instances and subtraction below zero fails.
type Quantity struct {
	value decimal.Decimal
}

// NewQuantity creates a new Quantity with the specified value
func NewQuantity(value decimal.Decimal) (Quantity, error) {
	if value.IsNegative() {
		return Quantity{}, errors.New("quantity cannot be negative")
	}
	return Quantity{value: value}, nil
}

// NewQuantityFromInt creates Quantity from an int64 value
func NewQuantityFromInt(value int64) (Quantity, error) {
	if value < 0 {
		return Quantity{}, errors.New("quantity cannot be negative")
	}
	return Quantity{value: decimal.NewFromInt(value)}, nil
}

// NewQuantityFromString creates Quantity from a string representation
func NewQuantityFromString(value string) (Quantity, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid quantity string: %w", err)
	}
	return NewQuantity(d)
}

// MustNewQuantity creates a Quantity and panics on error
func MustNewQuantity(value decimal.Decimal) Quantity {
	q, err := NewQuantity(value)
	if err != nil {
		panic(err)
	}
	return q
}

// ZeroQuantity returns a zero quantity
func ZeroQuantity() Quantity {
	return Quantity{value: decimal.Zero}
}

// Value returns the underlying decimal value
func (q Quantity) Decimal() decimal.Decimal {
	return q.value
}

// IsZero returns true if the quantity is zero
func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

// IsPositive returns true if the quantity is greater than zero
func (q Quantity) IsPositive() bool {
	return q.value.IsPositive()
}

// Add returns a new Quantity with the sum of both values
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value.Add(other.value)}
}

// Sub returns a new Quantity with the difference of both values.
// Fails if the result would be negative.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	result := q.value.Sub(other.value)
	if result.IsNegative() {
		return Quantity{}, fmt.Errorf("quantity subtraction would go negative: %s - %s", q.value, other.value)
	}
	return Quantity{value: result}, nil
}

// Min returns the smaller of the two quantities
func (q Quantity) Min(other Quantity) Quantity {
	if q.value.LessThan(other.value) {
		return q
	}
	return other
}

// GreaterThanOrEqual returns true if this quantity is >= the other
func (q Quantity) GreaterThanOrEqual(other Quantity) bool {
	return q.value.GreaterThanOrEqual(other.value)
}

// LessThan returns true if this quantity is < the other
func (q Quantity) LessThan(other Quantity) bool {
	return q.value.LessThan(other.value)
}

// Equal returns true if both quantities are equal
func (q Quantity) Equal(other Quantity) bool {
	return q.value.Equal(other.value)
}

// String returns the string representation
func (q Quantity) String() string {
	return q.value.String()
}

// MarshalJSON implements json.Marshaler
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.value.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewQuantityFromString(raw)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Value implements driver.Valuer
func (q Quantity) Value() (driver.Value, error) {
	return q.value.String(), nil
}

// Scan implements sql.Scanner
func (q *Quantity) Scan(value interface{}) error {
	d := decimal.Decimal{}
	if err := d.Scan(value); err != nil {
		return err
	}
	if d.IsNegative() {
		return errors.New("stored quantity is negative")
	}
	q.value = d
	return nil
}
