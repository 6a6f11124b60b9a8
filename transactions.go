package goldesk

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/goldesk/date"
	"github.com/google/uuid"
)

// CommandType is a typed string for identifying records in the logs.
type CommandType string

const (
	CmdQuote    CommandType = "quote"
	CmdBuy      CommandType = "buy"
	CmdSell     CommandType = "sell"
	CmdOpening  CommandType = "opening"
	CmdAdjust   CommandType = "adjust"
	CmdPayment  CommandType = "payment"
	CmdTransfer CommandType = "transfer"
)

// Record is any immutable entry of the desk logs.
type Record interface {
	What() CommandType // What returns the command type of the record.
	When() time.Time   // When returns the booking time.
}

// Transaction is a record that changes inventory.
type Transaction interface {
	Record
	ProductCode() string
}

// newID returns a fresh record identifier.
func newID() string { return uuid.NewString() }

type baseCmd struct {
	ID   string
	Time time.Time
	Memo string
}

func (b baseCmd) When() time.Time { return b.Time }

// Direction is the side of a trade, seen from the desk.
type Direction string

const (
	Buy  Direction = "buy"  // the desk buys from a customer
	Sell Direction = "sell" // the desk sells to a customer
)

// ParseDirection parses a trade direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "buy", "alış", "alis":
		return Buy, nil
	case "sell", "satış", "satis":
		return Sell, nil
	default:
		return "", fmt.Errorf("%w: unknown direction %q", ErrInvalid, s)
	}
}

// Field returns the quote side the direction reads from.
func (d Direction) Field() Field {
	if d == Buy {
		return BuyField
	}
	return SellField
}

// Trade is a buy or a sale of a product at a unit price.
type Trade struct {
	baseCmd
	Product   string
	Direction Direction
	Quantity  Quantity
	UnitPrice Money
}

// NewTrade creates a trade with a fresh ID.
func NewTrade(at time.Time, product string, d Direction, quantity Quantity, unitPrice Money, memo string) Trade {
	return Trade{
		baseCmd:   baseCmd{ID: newID(), Time: at, Memo: memo},
		Product:   product,
		Direction: d,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
}

func (t Trade) What() CommandType {
	if t.Direction == Sell {
		return CmdSell
	}
	return CmdBuy
}
func (t Trade) ProductCode() string { return t.Product }

// Total returns quantity × unit price.
func (t Trade) Total() Money { return t.UnitPrice.Mul(t.Quantity) }

// Validate checks the trade fields.
func (t Trade) Validate(c Catalog) error {
	if _, ok := c.Product(t.Product); !ok {
		return fmt.Errorf("%w %q", ErrUnknownProduct, t.Product)
	}
	if t.Direction != Buy && t.Direction != Sell {
		return fmt.Errorf("%w: unknown direction %q", ErrInvalid, t.Direction)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%w: %s quantity must be positive, got %s", ErrInvalid, t.Direction, t.Quantity)
	}
	if t.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: %s unit price must not be negative, got %s", ErrInvalid, t.Direction, t.UnitPrice)
	}
	return nil
}

// Opening declares stock that was already on hand when the desk started
// using the ledger. It values the stock at UnitCost and does not touch cash.
type Opening struct {
	baseCmd
	Product  string
	Quantity Quantity
	UnitCost Money
}

func NewOpening(at time.Time, product string, quantity Quantity, unitCost Money, memo string) Opening {
	return Opening{baseCmd: baseCmd{ID: newID(), Time: at, Memo: memo}, Product: product, Quantity: quantity, UnitCost: unitCost}
}

func (o Opening) What() CommandType   { return CmdOpening }
func (o Opening) ProductCode() string { return o.Product }

func (o Opening) Validate(c Catalog) error {
	if _, ok := c.Product(o.Product); !ok {
		return fmt.Errorf("%w %q", ErrUnknownProduct, o.Product)
	}
	if !o.Quantity.IsPositive() {
		return fmt.Errorf("%w: opening quantity must be positive, got %s", ErrInvalid, o.Quantity)
	}
	if o.UnitCost.IsNegative() {
		return fmt.Errorf("%w: opening unit cost must not be negative, got %s", ErrInvalid, o.UnitCost)
	}
	return nil
}

// Adjustment corrects the stock count by a signed delta. It neither touches
// cash nor the average cost.
type Adjustment struct {
	baseCmd
	Product string
	Delta   Quantity
}

func NewAdjustment(at time.Time, product string, delta Quantity, memo string) Adjustment {
	return Adjustment{baseCmd: baseCmd{ID: newID(), Time: at, Memo: memo}, Product: product, Delta: delta}
}

func (a Adjustment) What() CommandType   { return CmdAdjust }
func (a Adjustment) ProductCode() string { return a.Product }

func (a Adjustment) Validate(c Catalog) error {
	if _, ok := c.Product(a.Product); !ok {
		return fmt.Errorf("%w %q", ErrUnknownProduct, a.Product)
	}
	if a.Delta.IsZero() {
		return fmt.Errorf("%w: adjustment delta is zero", ErrInvalid)
	}
	return nil
}

// Method is a payment instrument.
type Method string

const (
	Cash         Method = "cash"
	BankTransfer Method = "transfer"
	Card         Method = "card"
)

// ParseMethod parses a payment method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "cash", "nakit":
		return Cash, nil
	case "transfer", "eft", "havale":
		return BankTransfer, nil
	case "card", "kart":
		return Card, nil
	default:
		return "", fmt.Errorf("%w: unknown payment method %q", ErrInvalid, s)
	}
}

// Flow is the direction of money for the desk.
type Flow string

const (
	Inflow  Flow = "in"
	Outflow Flow = "out"
)

// ParseFlow parses a money flow direction.
func ParseFlow(s string) (Flow, error) {
	switch strings.ToLower(s) {
	case "in", "inflow":
		return Inflow, nil
	case "out", "outflow":
		return Outflow, nil
	default:
		return "", fmt.Errorf("%w: unknown flow %q", ErrInvalid, s)
	}
}

// PaymentLeg is one movement of money through one instrument.
//
// FeePercent and SettlementDate are frozen when the leg is booked, later
// changes to the bank configuration never alter a recorded leg.
type PaymentLeg struct {
	baseCmd
	SaleID         string // optional trade this leg pays for
	AdvanceID      string // shared by the two legs of a card-to-cash advance
	Method         Method
	Bank           string
	Gross          Money
	FeePercent     Percent
	Flow           Flow
	SettlementDate date.Date // zero when the leg settles on booking
}

// NewPayment creates a payment leg with a fresh ID. Fee and settlement date
// are left to the desk, which reads them from the bank configuration.
func NewPayment(at time.Time, m Method, bank string, gross Money, f Flow, saleID, memo string) PaymentLeg {
	return PaymentLeg{
		baseCmd: baseCmd{ID: newID(), Time: at, Memo: memo},
		SaleID:  saleID,
		Method:  m,
		Bank:    bank,
		Gross:   gross,
		Flow:    f,
	}
}

func (l PaymentLeg) What() CommandType { return CmdPayment }

// Fee returns gross × fee percent / 100.
func (l PaymentLeg) Fee() Money { return l.FeePercent.Of(l.Gross) }

// Net returns the amount that actually settles, gross minus fee.
func (l PaymentLeg) Net() Money { return l.Gross.Sub(l.Fee()) }

// SignedNet returns Net, negative for outflows.
func (l PaymentLeg) SignedNet() Money {
	if l.Flow == Outflow {
		return l.Net().Neg()
	}
	return l.Net()
}

// SettlesOn returns the day the net amount becomes available.
func (l PaymentLeg) SettlesOn() date.Date {
	if l.SettlementDate.IsZero() {
		return date.Of(l.Time)
	}
	return l.SettlementDate
}

// Settled reports whether the leg is settled on asOf.
func (l PaymentLeg) Settled(asOf date.Date) bool { return !l.SettlesOn().After(asOf) }

func (l PaymentLeg) validate() error {
	switch l.Method {
	case Cash, BankTransfer, Card:
	default:
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalid, l.Method)
	}
	if l.Flow != Inflow && l.Flow != Outflow {
		return fmt.Errorf("%w: unknown flow %q", ErrInvalid, l.Flow)
	}
	if l.Method == Card && l.Bank == "" {
		return fmt.Errorf("%w: card payment requires a bank", ErrInvalid)
	}
	if l.Method == Cash && l.Bank != "" {
		return fmt.Errorf("%w: cash payment cannot name a bank", ErrInvalid)
	}
	if !l.Gross.IsPositive() {
		return fmt.Errorf("%w: payment amount must be positive, got %s", ErrInvalid, l.Gross)
	}
	if l.FeePercent.IsNegative() {
		return fmt.Errorf("%w: negative fee %s", ErrInvalid, l.FeePercent)
	}
	return nil
}

// TransferType is the direction of a transfer between the drawer and a bank.
type TransferType string

const (
	CashToBank TransferType = "cash-to-bank"
	BankToCash TransferType = "bank-to-cash"
)

// ParseTransferType parses a transfer type.
func ParseTransferType(s string) (TransferType, error) {
	switch strings.ToLower(s) {
	case "cash-to-bank", "deposit":
		return CashToBank, nil
	case "bank-to-cash", "withdraw":
		return BankToCash, nil
	default:
		return "", fmt.Errorf("%w: unknown transfer type %q", ErrInvalid, s)
	}
}

// Transfer moves money between the cash drawer and a bank, with no fee and
// no delay.
type Transfer struct {
	baseCmd
	Type   TransferType
	Bank   string
	Amount Money
}

func NewTransfer(at time.Time, t TransferType, bank string, amount Money, memo string) Transfer {
	return Transfer{baseCmd: baseCmd{ID: newID(), Time: at, Memo: memo}, Type: t, Bank: bank, Amount: amount}
}

func (t Transfer) What() CommandType { return CmdTransfer }

func (t Transfer) validate() error {
	if t.Type != CashToBank && t.Type != BankToCash {
		return fmt.Errorf("%w: unknown transfer type %q", ErrInvalid, t.Type)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be positive, got %s", ErrInvalid, t.Amount)
	}
	return nil
}
