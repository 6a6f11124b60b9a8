package goldesk

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/etnz/goldesk/date"
	"github.com/shopspring/decimal"
)

// Records are persisted as JSON lines. Every line starts with its "command",
// amounts are bare decimal numbers and the currency is written once per line.
//
//	{"command":"buy","id":"…","time":"2025-08-01T10:00:00+03:00","product":"GRAM24","quantity":10,"price":4980,"currency":"TRY"}

func (q Quote) MarshalJSON() ([]byte, error) {
	return newRecordWriter(q).
		Field("time", q.Time).
		Field("source", q.Source).
		Field("name", q.Name).
		Amount("buy", q.Buy).
		Amount("sell", q.Sell).
		Currency().
		MarshalJSON()
}

func (b baseCmd) MarshalJSON() ([]byte, error) {
	var w recordWriter
	return w.Field("id", b.ID).Field("time", b.Time).MarshalJSON()
}

func (t Trade) MarshalJSON() ([]byte, error) {
	return newRecordWriter(t).
		Embed(t.baseCmd).
		Field("product", t.Product).
		Field("quantity", t.Quantity).
		Amount("price", t.UnitPrice).
		Currency().
		Optional("memo", t.Memo).
		MarshalJSON()
}

func (o Opening) MarshalJSON() ([]byte, error) {
	return newRecordWriter(o).
		Embed(o.baseCmd).
		Field("product", o.Product).
		Field("quantity", o.Quantity).
		Amount("cost", o.UnitCost).
		Currency().
		Optional("memo", o.Memo).
		MarshalJSON()
}

func (a Adjustment) MarshalJSON() ([]byte, error) {
	return newRecordWriter(a).
		Embed(a.baseCmd).
		Field("product", a.Product).
		Field("delta", a.Delta).
		Optional("memo", a.Memo).
		MarshalJSON()
}

func (l PaymentLeg) MarshalJSON() ([]byte, error) {
	return newRecordWriter(l).
		Embed(l.baseCmd).
		Field("method", l.Method).
		Field("flow", l.Flow).
		Optional("bank", l.Bank).
		Amount("gross", l.Gross).
		Currency().
		Optional("fee", l.FeePercent).
		Optional("settles", l.SettlementDate).
		Optional("sale", l.SaleID).
		Optional("advance", l.AdvanceID).
		Optional("memo", l.Memo).
		MarshalJSON()
}

func (t Transfer) MarshalJSON() ([]byte, error) {
	return newRecordWriter(t).
		Embed(t.baseCmd).
		Field("type", t.Type).
		Field("bank", t.Bank).
		Amount("amount", t.Amount).
		Currency().
		Optional("memo", t.Memo).
		MarshalJSON()
}

// jsonBase is the decoding counterpart of baseCmd.
type jsonBase struct {
	ID   string    `json:"id"`
	Time time.Time `json:"time"`
	Memo string    `json:"memo"`
}

func (b jsonBase) cmd() baseCmd { return baseCmd{ID: b.ID, Time: b.Time, Memo: b.Memo} }

// DecodeRecord decodes a single JSON line into its record.
func DecodeRecord(line []byte) (Record, error) {
	var identifier struct {
		Command CommandType `json:"command"`
	}
	if err := json.Unmarshal(line, &identifier); err != nil {
		return nil, fmt.Errorf("could not identify command: %w", err)
	}

	switch identifier.Command {
	case CmdQuote:
		var temp struct {
			Time     time.Time       `json:"time"`
			Source   string          `json:"source"`
			Name     string          `json:"name"`
			Buy      decimal.Decimal `json:"buy"`
			Sell     decimal.Decimal `json:"sell"`
			Currency string          `json:"currency"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		return Quote{
			Source: temp.Source,
			Name:   temp.Name,
			Buy:    M(temp.Buy, temp.Currency),
			Sell:   M(temp.Sell, temp.Currency),
			Time:   temp.Time,
		}, nil
	case CmdBuy, CmdSell:
		var temp struct {
			jsonBase
			Product  string          `json:"product"`
			Quantity Quantity        `json:"quantity"`
			Price    decimal.Decimal `json:"price"`
			Currency string          `json:"currency"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		d := Buy
		if identifier.Command == CmdSell {
			d = Sell
		}
		return Trade{
			baseCmd:   temp.cmd(),
			Product:   temp.Product,
			Direction: d,
			Quantity:  temp.Quantity,
			UnitPrice: M(temp.Price, temp.Currency),
		}, nil
	case CmdOpening:
		var temp struct {
			jsonBase
			Product  string          `json:"product"`
			Quantity Quantity        `json:"quantity"`
			Cost     decimal.Decimal `json:"cost"`
			Currency string          `json:"currency"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		return Opening{
			baseCmd:  temp.cmd(),
			Product:  temp.Product,
			Quantity: temp.Quantity,
			UnitCost: M(temp.Cost, temp.Currency),
		}, nil
	case CmdAdjust:
		var temp struct {
			jsonBase
			Product string   `json:"product"`
			Delta   Quantity `json:"delta"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		return Adjustment{baseCmd: temp.cmd(), Product: temp.Product, Delta: temp.Delta}, nil
	case CmdPayment:
		var temp struct {
			jsonBase
			Method   Method          `json:"method"`
			Flow     Flow            `json:"flow"`
			Bank     string          `json:"bank"`
			Gross    decimal.Decimal `json:"gross"`
			Currency string          `json:"currency"`
			Fee      Percent         `json:"fee"`
			Settles  date.Date       `json:"settles"`
			Sale     string          `json:"sale"`
			Advance  string          `json:"advance"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		return PaymentLeg{
			baseCmd:        temp.cmd(),
			SaleID:         temp.Sale,
			AdvanceID:      temp.Advance,
			Method:         temp.Method,
			Bank:           temp.Bank,
			Gross:          M(temp.Gross, temp.Currency),
			FeePercent:     temp.Fee,
			Flow:           temp.Flow,
			SettlementDate: temp.Settles,
		}, nil
	case CmdTransfer:
		var temp struct {
			jsonBase
			Type     TransferType    `json:"type"`
			Bank     string          `json:"bank"`
			Amount   decimal.Decimal `json:"amount"`
			Currency string          `json:"currency"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		return Transfer{
			baseCmd: temp.cmd(),
			Type:    temp.Type,
			Bank:    temp.Bank,
			Amount:  M(temp.Amount, temp.Currency),
		}, nil
	default:
		return nil, fmt.Errorf("unknown command: %q", identifier.Command)
	}
}

// DecodeRecords decodes a stream of JSON lines. Empty lines are skipped.
// Every malformed line is reported, joined in the returned error.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var recs []Record
	var errs []error
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		rec, err := DecodeRecord(line)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", n, err))
			continue
		}
		recs = append(recs, rec)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("error reading from input: %w", err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return recs, nil
}

// EncodeRecord writes a single record to w as a JSON line.
func EncodeRecord(w io.Writer, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", rec.What(), err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write %s record: %w", rec.What(), err)
	}
	return nil
}

// EncodeRecords writes records to w as JSON lines, in the given order.
func EncodeRecords(w io.Writer, recs ...Record) error {
	for _, rec := range recs {
		if err := EncodeRecord(w, rec); err != nil {
			return err
		}
	}
	return nil
}

// Table returns the name of the log a record belongs to.
func Table(rec Record) string {
	switch rec.What() {
	case CmdQuote:
		return "quotes"
	case CmdPayment:
		return "payments"
	case CmdTransfer:
		return "transfers"
	default:
		return "transactions"
	}
}

// Tables lists the log names in loading order.
var Tables = []string{"quotes", "transactions", "payments", "transfers"}
