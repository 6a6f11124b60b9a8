package goldesk

import (
	"fmt"

	"github.com/etnz/goldesk/date"
)

// Bank is an operator-configured bank account with its card fee schedule.
type Bank struct {
	Name                  string
	CardFeePercent        Percent
	CashAdvanceFeePercent Percent
	SettlementDays        int
	OpeningBalance        Money
}

// Banks is the list of configured bank accounts.
type Banks []Bank

// Bank returns the bank with that name, names are matched case-insensitively.
func (b Banks) Bank(name string) (Bank, bool) {
	for _, bank := range b {
		if SameName(bank.Name, name) {
			return bank, true
		}
	}
	return Bank{}, false
}

// Names returns the bank names in configuration order.
func (b Banks) Names() []string {
	names := make([]string, len(b))
	for i, bank := range b {
		names[i] = bank.Name
	}
	return names
}

// Settlements computes cash drawer and bank balances by replaying payment
// legs and transfers. A leg has no stored status: it is booked until the
// queried day reaches its settlement date, and settled from then on.
type Settlements struct {
	Banks       Banks
	OpeningCash Money
	Ledger      *Ledger
}

// CashBalance returns the drawer balance: opening cash, plus cash legs, plus
// bank-to-cash transfers, minus cash-to-bank transfers.
func (s *Settlements) CashBalance() Money {
	balance := s.OpeningCash
	for leg := range s.Ledger.Legs() {
		if leg.Method == Cash {
			balance = balance.Add(leg.SignedNet())
		}
	}
	for t := range s.Ledger.Transfers() {
		switch t.Type {
		case BankToCash:
			balance = balance.Add(t.Amount)
		case CashToBank:
			balance = balance.Sub(t.Amount)
		}
	}
	return balance
}

// BankBalance returns the balance of bank on asOf: the opening balance, plus
// the net amount of every leg settled on asOf, plus the transfers booked by
// then. With includePending every leg and transfer is counted whatever its date.
func (s *Settlements) BankBalance(bank string, asOf date.Date, includePending bool) (Money, error) {
	b, ok := s.Banks.Bank(bank)
	if !ok {
		return Money{}, fmt.Errorf("%w %q", ErrUnknownBank, bank)
	}
	balance := b.OpeningBalance
	for leg := range s.Ledger.Legs() {
		if leg.Method == Cash || !SameName(leg.Bank, b.Name) {
			continue
		}
		if includePending || leg.Settled(asOf) {
			balance = balance.Add(leg.SignedNet())
		}
	}
	for t := range s.Ledger.Transfers() {
		if !SameName(t.Bank, b.Name) {
			continue
		}
		if !includePending && date.Of(t.Time).After(asOf) {
			continue
		}
		switch t.Type {
		case CashToBank:
			balance = balance.Add(t.Amount)
		case BankToCash:
			balance = balance.Sub(t.Amount)
		}
	}
	return balance, nil
}

// PendingSettlements returns the bank legs booked on or before asOf that
// settle after asOf.
func (s *Settlements) PendingSettlements(asOf date.Date) []PaymentLeg {
	var res []PaymentLeg
	for leg := range s.Ledger.Legs() {
		if leg.SettlementDate.IsZero() || date.Of(leg.Time).After(asOf) {
			continue
		}
		if leg.SettlementDate.After(asOf) {
			res = append(res, leg)
		}
	}
	return res
}

// TodaysSettlements returns the bank legs settling exactly on asOf.
func (s *Settlements) TodaysSettlements(asOf date.Date) []PaymentLeg {
	var res []PaymentLeg
	for leg := range s.Ledger.Legs() {
		if !leg.SettlementDate.IsZero() && leg.SettlementDate == asOf {
			res = append(res, leg)
		}
	}
	return res
}

// Advance is a card-to-cash advance: the customer's card is charged Card.Gross
// and the desk hands out Cash.Gross.
type Advance struct {
	ID   string
	Card PaymentLeg
	Cash PaymentLeg
}

// Spread returns the immediate profit of the advance: gross charged, minus
// the card fee, minus the cash given.
func (a Advance) Spread() Money {
	return a.Card.Gross.Sub(a.Card.Fee()).Sub(a.Cash.Gross)
}

// Advances joins the legs sharing an advance ID, in booking order. Incomplete
// pairs are ignored.
func (s *Settlements) Advances() []Advance {
	var ids []string
	pairs := make(map[string]*Advance)
	for leg := range s.Ledger.Legs() {
		if leg.AdvanceID == "" {
			continue
		}
		a, ok := pairs[leg.AdvanceID]
		if !ok {
			a = &Advance{ID: leg.AdvanceID}
			pairs[leg.AdvanceID] = a
			ids = append(ids, leg.AdvanceID)
		}
		switch leg.Method {
		case Card:
			a.Card = leg
		case Cash:
			a.Cash = leg
		}
	}
	var res []Advance
	for _, id := range ids {
		a := pairs[id]
		if a.Card.ID == "" || a.Cash.ID == "" {
			continue
		}
		res = append(res, *a)
	}
	return res
}
