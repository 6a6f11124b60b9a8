package goldesk

import (
	"iter"
	"time"
)

// Field selects one side of a quote.
type Field int

const (
	BuyField Field = iota
	SellField
)

func (f Field) String() string {
	if f == BuyField {
		return "buy"
	}
	return "sell"
}

// Quote is a price published by an external source for a product name, as
// spelled by that source.
type Quote struct {
	Source string
	Name   string
	Buy    Money
	Sell   Money
	Time   time.Time
}

func (q Quote) What() CommandType { return CmdQuote }
func (q Quote) When() time.Time   { return q.Time }

// Field returns the requested side of the quote.
func (q Quote) Field(f Field) Money {
	if f == BuyField {
		return q.Buy
	}
	return q.Sell
}

// PriceBook is the append-only history of quotes.
//
// Quotes are kept in insertion order, nothing is ever replaced.
type PriceBook struct {
	quotes []Quote
}

// NewPriceBook creates a price book holding quotes in that order.
func NewPriceBook(quotes ...Quote) *PriceBook {
	b := &PriceBook{}
	for _, q := range quotes {
		b.Record(q)
	}
	return b
}

// Record appends a quote.
func (b *PriceBook) Record(q Quote) {
	b.quotes = append(b.quotes, q)
}

// Len returns the number of quotes ever recorded.
func (b *PriceBook) Len() int { return len(b.quotes) }

// Quotes returns an iterator over all quotes in insertion order.
func (b *PriceBook) Quotes() iter.Seq[Quote] {
	return func(yield func(Quote) bool) {
		for _, q := range b.quotes {
			if !yield(q) {
				return
			}
		}
	}
}

// LatestQuote resolves the latest quote from source for the first alias that
// has ever been quoted. Aliases are tried in priority order, a later alias is
// never preferred even if its quote is more recent.
//
// Among quotes of the same alias the most recent wins, and on equal times the
// last recorded one wins.
func (b *PriceBook) LatestQuote(source string, aliases []string) (Quote, bool) {
	for _, alias := range aliases {
		var latest Quote
		found := false
		for _, q := range b.quotes {
			if !SameName(q.Source, source) || !SameName(q.Name, alias) {
				continue
			}
			if !found || !q.Time.Before(latest.Time) {
				latest, found = q, true
			}
		}
		if found {
			return latest, true
		}
	}
	return Quote{}, false
}

// Latest returns the requested field of LatestQuote.
func (b *PriceBook) Latest(source string, aliases []string, field Field) (Money, bool) {
	q, ok := b.LatestQuote(source, aliases)
	if !ok {
		return Money{}, false
	}
	return q.Field(field), true
}
