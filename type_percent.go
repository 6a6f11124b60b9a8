package goldesk

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percent is a rate expressed in percent, 2.8 means 2.8%.
type Percent struct {
	value decimal.Decimal
}

func P[T float64 | int | int64 | decimal.Decimal](value T) Percent {
	return Percent{value: newDecimal(value)}
}

// Of returns the share of m this percentage represents.
func (p Percent) Of(m Money) Money {
	return Money{value: m.value.Mul(p.value).Div(hundred), cur: m.cur}
}

func (p Percent) Decimal() decimal.Decimal { return p.value }
func (p Percent) IsNegative() bool         { return p.value.IsNegative() }
func (p Percent) IsZero() bool             { return p.value.IsZero() }
func (p Percent) Equal(q Percent) bool     { return p.value.Equal(q.value) }
func (p Percent) String() string           { return p.value.String() + "%" }

func (p Percent) MarshalJSON() ([]byte, error)     { return p.value.MarshalJSON() }
func (p *Percent) UnmarshalJSON(data []byte) error { return p.value.UnmarshalJSON(data) }
