package goldesk

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value in a single currency.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M creates a Money from any numeric value.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// currency returns the money's currency
func (m Money) currency() *money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return money.New(0, m.cur).Currency()
}

// fraction returns the number of minor unit digits of the currency.
func (m Money) fraction() int32 {
	if m.cur == "" {
		return 2
	}
	return int32(m.currency().Fraction)
}

// String returns the string representation of the money value.
func (m Money) String() string {
	if m.cur == "" {
		return m.value.StringFixed(2)
	}
	frac := m.fraction()
	minor := m.value.Round(frac).Shift(frac)
	return m.currency().Formatter().Format(minor.IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Currency() string                 { return m.cur }
func (m Money) Decimal() decimal.Decimal         { return m.value }
func (m Money) Equal(n Money) bool               { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                     { return m.value.IsZero() }
func (m Money) IsPositive() bool                 { return m.value.IsPositive() }
func (m Money) IsNegative() bool                 { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool            { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool         { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                       { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(q Quantity) Money             { return Money{value: m.value.Mul(q.value), cur: m.cur} }
func (m Money) Div(q Quantity) Money             { return Money{value: m.value.Div(q.value), cur: m.cur} }
func (m Money) InCurrency(currency string) Money { return Money{value: m.value, cur: currency} }

// Round rounds the value to the minor unit of its currency.
func (m Money) Round() Money { return Money{value: m.value.Round(m.fraction()), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + "!=" + b.cur)
	}
	return a.cur
}

// MarshalJSON writes the amount as a bare decimal number, the currency
// is carried once per record.
func (m Money) MarshalJSON() ([]byte, error) { return m.value.MarshalJSON() }
