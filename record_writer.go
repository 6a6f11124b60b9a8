package goldesk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// recordWriter writes a record as one JSON object, fields in call order.
//
// Amounts are written as bare decimals and must share one currency, written
// once by Currency.
type recordWriter struct {
	buf      bytes.Buffer
	err      error
	currency string
}

// newRecordWriter starts the object of rec with its "command" field.
func newRecordWriter(rec Record) *recordWriter {
	w := &recordWriter{}
	return w.Field("command", rec.What())
}

// Field appends key with the JSON encoding of value.
func (w *recordWriter) Field(key string, value any) *recordWriter {
	if w.err != nil {
		return w
	}
	raw, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot encode field %q: %w", key, err)
		return w
	}
	return w.raw(key, raw)
}

func (w *recordWriter) raw(key string, raw []byte) *recordWriter {
	if w.buf.Len() > 0 {
		w.buf.WriteByte(',')
	}
	fmt.Fprintf(&w.buf, "%q:", key)
	w.buf.Write(raw)
	return w
}

// Optional appends key only when value is not zero.
func (w *recordWriter) Optional(key string, value any) *recordWriter {
	if z, ok := value.(interface{ IsZero() bool }); ok {
		if z.IsZero() {
			return w
		}
		return w.Field(key, value)
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Field(key, value)
}

// Amount appends the value of m, its currency is kept for Currency.
func (w *recordWriter) Amount(key string, m Money) *recordWriter {
	if w.err != nil {
		return w
	}
	if cur := m.Currency(); cur != "" {
		if w.currency != "" && w.currency != cur {
			w.err = fmt.Errorf("%w: field %q in %s, record is in %s", ErrInvalid, key, cur, w.currency)
			return w
		}
		w.currency = cur
	}
	return w.Field(key, m.Decimal())
}

// Currency appends the currency of the amounts written so far, if any.
func (w *recordWriter) Currency() *recordWriter {
	return w.Optional("currency", w.currency)
}

// Embed merges the fields of a JSON object.
func (w *recordWriter) Embed(v json.Marshaler) *recordWriter {
	if w.err != nil {
		return w
	}
	raw, err := v.MarshalJSON()
	if err != nil {
		w.err = fmt.Errorf("cannot embed %T: %w", v, err)
		return w
	}
	inner := bytes.TrimSpace(raw)
	if len(inner) < 2 || inner[0] != '{' || inner[len(inner)-1] != '}' {
		w.err = fmt.Errorf("cannot embed %T: not an object", v)
		return w
	}
	inner = bytes.TrimSpace(inner[1 : len(inner)-1])
	if len(inner) == 0 {
		return w
	}
	if w.buf.Len() > 0 {
		w.buf.WriteByte(',')
	}
	w.buf.Write(inner)
	return w
}

// MarshalJSON returns the complete object.
func (w *recordWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, w.buf.Len()+2)
	out = append(out, '{')
	out = append(out, w.buf.Bytes()...)
	return append(out, '}'), nil
}
