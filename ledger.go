package goldesk

import (
	"fmt"
	"iter"
	"slices"
	"time"
)

// Ledger holds the append-only logs of the desk: quotes, inventory
// transactions, payment legs and transfers.
//
// Quotes are kept in insertion order, the other logs are kept in
// chronological order, records booked at the same time keep their insertion
// order. Records are never modified nor removed.
type Ledger struct {
	quotes       []Quote
	transactions []Transaction
	legs         []PaymentLeg
	transfers    []Transfer
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

func byTime[T Record](a, b T) int { return a.When().Compare(b.When()) }

// Append appends records to their log and maintains the chronological order.
// A batch holding a record of an unknown type is rejected as a whole.
func (l *Ledger) Append(recs ...Record) error {
	for _, rec := range recs {
		switch rec.(type) {
		case Quote, Trade, Opening, Adjustment, PaymentLeg, Transfer:
		default:
			return fmt.Errorf("%w: unhandled record type: %T", ErrInvalid, rec)
		}
	}
	var sortTx, sortLegs, sortTransfers bool
	for _, rec := range recs {
		switch v := rec.(type) {
		case Quote:
			l.quotes = append(l.quotes, v)
		case Trade, Opening, Adjustment:
			l.transactions = append(l.transactions, v.(Transaction))
			sortTx = true
		case PaymentLeg:
			l.legs = append(l.legs, v)
			sortLegs = true
		case Transfer:
			l.transfers = append(l.transfers, v)
			sortTransfers = true
		}
	}
	if sortTx {
		slices.SortStableFunc(l.transactions, byTime[Transaction])
	}
	if sortLegs {
		slices.SortStableFunc(l.legs, byTime[PaymentLeg])
	}
	if sortTransfers {
		slices.SortStableFunc(l.transfers, byTime[Transfer])
	}
	return nil
}

func all[T any](s []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s {
			if !yield(v) {
				return
			}
		}
	}
}

// Quotes returns an iterator over quotes in insertion order.
func (l *Ledger) Quotes() iter.Seq[Quote] { return all(l.quotes) }

// Transactions returns an iterator over inventory transactions in chronological order.
func (l *Ledger) Transactions() iter.Seq[Transaction] { return all(l.transactions) }

// Legs returns an iterator over payment legs in chronological order.
func (l *Ledger) Legs() iter.Seq[PaymentLeg] { return all(l.legs) }

// Transfers returns an iterator over transfers in chronological order.
func (l *Ledger) Transfers() iter.Seq[Transfer] { return all(l.transfers) }

// Until returns an iterator over transactions booked at or before t.
func (l *Ledger) Until(t time.Time) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if tx.When().After(t) {
				// The log is sorted, so we can stop iterating.
				return
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// Trade returns the trade with that ID.
func (l *Ledger) Trade(id string) (Trade, bool) {
	for _, tx := range l.transactions {
		if t, ok := tx.(Trade); ok && t.ID == id {
			return t, true
		}
	}
	return Trade{}, false
}

// Len returns the total number of records in all logs.
func (l *Ledger) Len() int {
	return len(l.quotes) + len(l.transactions) + len(l.legs) + len(l.transfers)
}
