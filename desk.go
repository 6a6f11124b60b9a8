package goldesk

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/etnz/goldesk/date"
	"github.com/sirupsen/logrus"
)

// Store persists the desk logs.
type Store interface {
	// Load returns every persisted record.
	Load(ctx context.Context) ([]Record, error)
	// Append persists a batch of records, all or none.
	Append(ctx context.Context, recs ...Record) error
}

// Desk is the command and query facade of the engine.
//
// Commands validate their input, persist it through the store, then append it
// to the in-memory ledger. Queries never keep derived state, they replay the
// ledger each time.
type Desk struct {
	Config *Config
	Ledger *Ledger
	store  Store
}

// NewDesk creates a desk over an existing ledger. store may be nil, records
// are then kept in memory only.
func NewDesk(cfg *Config, ledger *Ledger, store Store) (*Desk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if ledger == nil {
		ledger = NewLedger()
	}
	if err := checkCurrency(cfg.Currency, ledger); err != nil {
		return nil, err
	}
	return &Desk{Config: cfg, Ledger: ledger, store: store}, nil
}

// amounts returns the money amounts carried by rec.
func amounts(rec Record) []Money {
	switch v := rec.(type) {
	case Quote:
		return []Money{v.Buy, v.Sell}
	case Trade:
		return []Money{v.UnitPrice}
	case Opening:
		return []Money{v.UnitCost}
	case PaymentLeg:
		return []Money{v.Gross}
	case Transfer:
		return []Money{v.Amount}
	}
	return nil
}

// checkCurrency rejects a ledger holding amounts in another currency than
// the desk's. Amounts without a currency are accepted.
func checkCurrency(currency string, l *Ledger) error {
	check := func(rec Record) error {
		for _, m := range amounts(rec) {
			if m.Currency() != "" && m.Currency() != currency {
				return fmt.Errorf("%w: %s booked on %s is in %s, the desk currency is %s",
					ErrInvalid, rec.What(), rec.When().Format(time.DateTime), m.Currency(), currency)
			}
		}
		return nil
	}
	for q := range l.Quotes() {
		if err := check(q); err != nil {
			return err
		}
	}
	for tx := range l.Transactions() {
		if err := check(tx); err != nil {
			return err
		}
	}
	for leg := range l.Legs() {
		if err := check(leg); err != nil {
			return err
		}
	}
	for t := range l.Transfers() {
		if err := check(t); err != nil {
			return err
		}
	}
	return nil
}

// OpenDesk creates a desk and loads its ledger from store.
func OpenDesk(ctx context.Context, cfg *Config, store Store) (*Desk, error) {
	recs, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot load desk logs: %w", err)
	}
	ledger := NewLedger()
	if err := ledger.Append(recs...); err != nil {
		return nil, err
	}
	return NewDesk(cfg, ledger, store)
}

// record persists then appends recs as one batch.
func (d *Desk) record(ctx context.Context, recs ...Record) error {
	if d.store != nil {
		if err := d.store.Append(ctx, recs...); err != nil {
			return fmt.Errorf("cannot persist records: %w", err)
		}
	}
	return d.Ledger.Append(recs...)
}

func (d *Desk) money(m Money) Money { return m.InCurrency(d.Config.Currency) }

// product resolves a product code to its catalog code.
func (d *Desk) product(code string) (Product, error) {
	p, ok := d.Config.Catalog.Product(code)
	if !ok {
		return Product{}, fmt.Errorf("%w %q", ErrUnknownProduct, code)
	}
	return p, nil
}

func (d *Desk) bank(name string) (Bank, error) {
	b, ok := d.Config.Banks.Bank(name)
	if !ok {
		return Bank{}, fmt.Errorf("%w %q", ErrUnknownBank, name)
	}
	return b, nil
}

// IngestReport is the outcome of a quote sheet ingestion.
type IngestReport struct {
	Recorded []Quote
	Rejected []RowError
}

// IngestQuotes parses a pasted price sheet and records all valid rows under
// the same timestamp. Rejected rows are reported, and logged, not recorded.
func (d *Desk) IngestQuotes(ctx context.Context, text string, at time.Time) (IngestReport, error) {
	rows, rejected := ParseQuoteSheet(text)
	report := IngestReport{Rejected: rejected}
	for _, r := range rejected {
		logger.WithFields(logrus.Fields{"line": r.Line, "raw": r.Raw}).Warnf("quote row rejected: %v", r.Err)
	}
	recs := make([]Record, 0, len(rows))
	for _, row := range rows {
		q := Quote{
			Source: d.Config.QuoteSource,
			Name:   row.Name,
			Buy:    M(row.Buy, d.Config.Currency),
			Sell:   M(row.Sell, d.Config.Currency),
			Time:   at,
		}
		report.Recorded = append(report.Recorded, q)
		recs = append(recs, q)
	}
	if len(recs) == 0 {
		return report, nil
	}
	if err := d.record(ctx, recs...); err != nil {
		report.Recorded = nil
		return report, err
	}
	return report, nil
}

// RecordQuote records a single quote. An empty source means the configured one.
func (d *Desk) RecordQuote(ctx context.Context, q Quote) error {
	if q.Source == "" {
		q.Source = d.Config.QuoteSource
	}
	if q.Name == "" {
		return fmt.Errorf("%w: quote without a name", ErrInvalid)
	}
	if q.Buy.IsNegative() || q.Sell.IsNegative() {
		return fmt.Errorf("%w: negative price in quote %q", ErrInvalid, q.Name)
	}
	q.Buy, q.Sell = d.money(q.Buy), d.money(q.Sell)
	return d.record(ctx, q)
}

// prepareTrade validates a trade against the catalog and returns it as
// booked, with the price guard warnings.
func (d *Desk) prepareTrade(t Trade) (Trade, []string, error) {
	p, err := d.product(t.Product)
	if err != nil {
		return t, nil, err
	}
	t.Product = p.Code
	t.UnitPrice = d.money(t.UnitPrice)
	if err := t.Validate(d.Config.Catalog); err != nil {
		return t, nil, err
	}
	warnings := d.Pricing().Check(t.Product, t.Direction, t.UnitPrice)
	for _, w := range warnings {
		logger.WithFields(logrus.Fields{"product": t.Product, "direction": t.Direction}).Warn(w)
	}
	return t, warnings, nil
}

// RecordTrade records a buy or a sale. The price guard warnings are logged
// and returned, they never prevent the trade from being recorded.
func (d *Desk) RecordTrade(ctx context.Context, t Trade) ([]string, error) {
	t, warnings, err := d.prepareTrade(t)
	if err != nil {
		return nil, err
	}
	if err := d.record(ctx, t); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// RecordPaidTrade records a trade and the payment of its rounded total in one
// batch. A sale is paid in, a purchase is paid out. When the trade or the
// payment is invalid nothing is recorded.
func (d *Desk) RecordPaidTrade(ctx context.Context, t Trade, method Method, bank string) (Trade, PaymentLeg, []string, error) {
	t, warnings, err := d.prepareTrade(t)
	if err != nil {
		return t, PaymentLeg{}, nil, err
	}
	flow := Inflow
	if t.Direction == Buy {
		flow = Outflow
	}
	leg, err := d.preparePayment(NewPayment(t.Time, method, bank, t.Total().Round(), flow, "", ""), false)
	if err != nil {
		return t, leg, warnings, err
	}
	leg.SaleID = t.ID
	if err := d.record(ctx, t, leg); err != nil {
		return t, leg, warnings, err
	}
	return t, leg, warnings, nil
}

func (d *Desk) prepareOpening(o Opening) (Opening, error) {
	p, err := d.product(o.Product)
	if err != nil {
		return o, err
	}
	o.Product = p.Code
	o.UnitCost = d.money(o.UnitCost)
	return o, o.Validate(d.Config.Catalog)
}

// RecordOpening records opening stock.
func (d *Desk) RecordOpening(ctx context.Context, o Opening) error {
	o, err := d.prepareOpening(o)
	if err != nil {
		return err
	}
	return d.record(ctx, o)
}

// OpeningReport is the outcome of a stock sheet ingestion.
type OpeningReport struct {
	Recorded []Opening
	Rejected []RowError
}

// IngestOpenings parses a pasted stock count, one "product,quantity[,unit
// cost]" row per line, and records the valid rows as opening stock in one
// batch. Products are named by code or display name. Rows that do not parse
// or name an unknown product are reported and not recorded.
func (d *Desk) IngestOpenings(ctx context.Context, text string, at time.Time, memo string) (OpeningReport, error) {
	rows, rejected := ParseStockSheet(text)
	report := OpeningReport{Rejected: rejected}
	recs := make([]Record, 0, len(rows))
	for _, row := range rows {
		o, err := d.prepareOpening(NewOpening(at, row.Product, Q(row.Quantity), M(row.UnitCost, d.Config.Currency), memo))
		if err != nil {
			report.Rejected = append(report.Rejected, RowError{Line: row.Line, Raw: row.Raw, Err: err})
			continue
		}
		report.Recorded = append(report.Recorded, o)
		recs = append(recs, o)
	}
	slices.SortFunc(report.Rejected, func(a, b RowError) int { return a.Line - b.Line })
	for _, r := range report.Rejected {
		logger.WithFields(logrus.Fields{"line": r.Line, "raw": r.Raw}).Warnf("stock row rejected: %v", r.Err)
	}
	if len(recs) == 0 {
		return report, nil
	}
	if err := d.record(ctx, recs...); err != nil {
		report.Recorded = nil
		return report, err
	}
	return report, nil
}

// RecordAdjustment records a stock correction.
func (d *Desk) RecordAdjustment(ctx context.Context, a Adjustment) error {
	p, err := d.product(a.Product)
	if err != nil {
		return err
	}
	a.Product = p.Code
	if err := a.Validate(d.Config.Catalog); err != nil {
		return err
	}
	return d.record(ctx, a)
}

// RecordCount records the adjustment that brings the quantity on hand of a
// product at time at to counted. It returns false, and records nothing, when
// the count matches the books.
func (d *Desk) RecordCount(ctx context.Context, at time.Time, product string, counted Quantity, memo string) (Adjustment, bool, error) {
	p, err := d.product(product)
	if err != nil {
		return Adjustment{}, false, err
	}
	if counted.IsNegative() {
		return Adjustment{}, false, fmt.Errorf("%w: counted quantity must not be negative, got %s", ErrInvalid, counted)
	}
	before := d.InventorySnapshot(at).State(p.Code).Quantity
	delta := counted.Sub(before)
	if delta.IsZero() {
		return Adjustment{}, false, nil
	}
	if memo == "" {
		memo = fmt.Sprintf("count: %s -> %s", before, counted)
	}
	a := NewAdjustment(at, p.Code, delta, memo)
	if err := d.RecordAdjustment(ctx, a); err != nil {
		return Adjustment{}, false, err
	}
	return a, true, nil
}

// preparePayment validates a leg against the configuration. Card legs get
// the current fee and delay of their bank frozen on them.
func (d *Desk) preparePayment(leg PaymentLeg, cashAdvance bool) (PaymentLeg, error) {
	leg.Gross = d.money(leg.Gross)
	if leg.Bank != "" {
		b, err := d.bank(leg.Bank)
		if err != nil {
			return leg, err
		}
		leg.Bank = b.Name
		if leg.Method == Card {
			leg.FeePercent = b.CardFeePercent
			if cashAdvance {
				leg.FeePercent = b.CashAdvanceFeePercent
			}
			leg.SettlementDate = date.Of(leg.Time).Add(b.SettlementDays)
		}
	}
	if leg.Method != Card {
		leg.FeePercent = Percent{}
		leg.SettlementDate = date.Date{}
	}
	if leg.SaleID != "" {
		if _, ok := d.Ledger.Trade(leg.SaleID); !ok {
			return leg, fmt.Errorf("%w: payment for unknown trade %q", ErrInvalid, leg.SaleID)
		}
	}
	if err := leg.validate(); err != nil {
		return leg, err
	}
	return leg, nil
}

// RecordPayment records a payment leg and returns it as booked.
func (d *Desk) RecordPayment(ctx context.Context, leg PaymentLeg) (PaymentLeg, error) {
	if leg.ID == "" {
		leg.ID = newID()
	}
	leg, err := d.preparePayment(leg, false)
	if err != nil {
		return leg, err
	}
	return leg, d.record(ctx, leg)
}

// RecordCardLeg records a card payment through bank. The bank's card fee and
// settlement delay are read once and frozen on the leg.
func (d *Desk) RecordCardLeg(ctx context.Context, at time.Time, bank string, gross Money, flow Flow, saleID, memo string) (PaymentLeg, error) {
	return d.RecordPayment(ctx, NewPayment(at, Card, bank, gross, flow, saleID, memo))
}

// RecordCashAdvance books a card-to-cash advance: the customer's card is
// charged cashGiven plus markup at the bank's cash advance fee, and cashGiven
// leaves the drawer. Both legs are recorded together or not at all.
func (d *Desk) RecordCashAdvance(ctx context.Context, at time.Time, bank string, cashGiven Money, markup Percent, memo string) (Advance, error) {
	if !cashGiven.IsPositive() {
		return Advance{}, fmt.Errorf("%w: cash advance amount must be positive, got %s", ErrInvalid, cashGiven)
	}
	if markup.IsNegative() {
		return Advance{}, fmt.Errorf("%w: negative markup %s", ErrInvalid, markup)
	}
	cashGiven = d.money(cashGiven)
	id := newID()
	card, err := d.preparePayment(PaymentLeg{
		baseCmd:   baseCmd{ID: newID(), Time: at, Memo: memo},
		AdvanceID: id,
		Method:    Card,
		Bank:      bank,
		Gross:     cashGiven.Add(markup.Of(cashGiven)).Round(),
		Flow:      Inflow,
	}, true)
	if err != nil {
		return Advance{}, err
	}
	cash, err := d.preparePayment(PaymentLeg{
		baseCmd:   baseCmd{ID: newID(), Time: at, Memo: memo},
		AdvanceID: id,
		Method:    Cash,
		Gross:     cashGiven,
		Flow:      Outflow,
	}, true)
	if err != nil {
		return Advance{}, err
	}
	if err := d.record(ctx, card, cash); err != nil {
		return Advance{}, err
	}
	return Advance{ID: id, Card: card, Cash: cash}, nil
}

// RecordTransfer records a transfer between the drawer and a bank.
func (d *Desk) RecordTransfer(ctx context.Context, t Transfer) error {
	b, err := d.bank(t.Bank)
	if err != nil {
		return err
	}
	t.Bank = b.Name
	t.Amount = d.money(t.Amount)
	if err := t.validate(); err != nil {
		return err
	}
	return d.record(ctx, t)
}

// PriceBook returns the price book of every recorded quote.
func (d *Desk) PriceBook() *PriceBook {
	b := NewPriceBook()
	for q := range d.Ledger.Quotes() {
		b.Record(q)
	}
	return b
}

// Pricing returns the pricing rules over the current price book.
func (d *Desk) Pricing() *PricingRules {
	return &PricingRules{
		Book:     d.PriceBook(),
		Catalog:  d.Config.Catalog,
		Source:   d.Config.QuoteSource,
		Currency: d.Config.Currency,
	}
}

// SuggestedPrice returns the suggested unit price of a product.
func (d *Desk) SuggestedPrice(code string, dir Direction) (Suggestion, error) {
	return d.Pricing().Suggest(code, dir)
}

// InventorySnapshot replays every transaction booked at or before at, the
// zero time means all of them. Negative positions are logged.
func (d *Desk) InventorySnapshot(at time.Time) *Inventory {
	txs := d.Ledger.Transactions()
	if !at.IsZero() {
		txs = d.Ledger.Until(at)
	}
	inv := Replay(d.Config.Catalog, d.Config.Currency, txs)
	for _, s := range inv.States() {
		if s.Negative() {
			logger.WithFields(logrus.Fields{"product": s.Product.Code, "quantity": s.Quantity.String()}).Warn("negative stock")
		}
	}
	return inv
}

// DailyProfitSeries returns the daily profit of the days in r.
func (d *Desk) DailyProfitSeries(r date.Range) []DailyProfit {
	return DailyProfitSeries(d.Config.Catalog, d.Config.Currency, d.Ledger.Transactions(), r)
}

// Settlements returns the settlement engine over the current ledger.
func (d *Desk) Settlements() *Settlements {
	return &Settlements{Banks: d.Config.Banks, OpeningCash: d.money(d.Config.OpeningCash), Ledger: d.Ledger}
}

// CashBalance returns the drawer balance.
func (d *Desk) CashBalance() Money { return d.Settlements().CashBalance() }

// BankBalance returns the balance of a bank on asOf.
func (d *Desk) BankBalance(bank string, asOf date.Date, includePending bool) (Money, error) {
	return d.Settlements().BankBalance(bank, asOf, includePending)
}

// PendingSettlements returns the card legs still to settle after asOf.
func (d *Desk) PendingSettlements(asOf date.Date) []PaymentLeg {
	return d.Settlements().PendingSettlements(asOf)
}

// TodaysSettlements returns the card legs settling on asOf.
func (d *Desk) TodaysSettlements(asOf date.Date) []PaymentLeg {
	return d.Settlements().TodaysSettlements(asOf)
}

// Advances returns the recorded card-to-cash advances.
func (d *Desk) Advances() []Advance { return d.Settlements().Advances() }
