package goldesk

import (
	"encoding/json"
	"testing"

	"github.com/etnz/goldesk/date"
)

func TestRecordWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w recordWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("command first", func(t *testing.T) {
		w := newRecordWriter(Quote{})
		w.Field("a", 1).Field("b", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"command":"quote","a":1,"b":"hello"}`; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("embed object", func(t *testing.T) {
		var w recordWriter
		w.Field("a", 1)
		w.Embed(json.RawMessage(`{"c":3,"d":4}`))
		w.Embed(json.RawMessage(`{}`))
		w.Field("b", 2)
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"a":1,"c":3,"d":4,"b":2}`; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("embed not an object", func(t *testing.T) {
		var w recordWriter
		w.Embed(json.RawMessage(`[1,2]`))
		if _, err := w.MarshalJSON(); err == nil {
			t.Error("MarshalJSON() expected an error when embedding an array")
		}
	})

	t.Run("optional fields", func(t *testing.T) {
		var w recordWriter
		w.Field("a", 0) // a zero value is still added by Field.
		w.Optional("b", "")
		w.Optional("c", 0)
		w.Optional("d", date.Date{})
		w.Optional("e", P(0))
		w.Optional("f", "hello")
		w.Optional("g", P(2.5))
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"a":0,"f":"hello","g":2.5}`; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("amounts", func(t *testing.T) {
		var w recordWriter
		w.Amount("buy", M(4980, "TRY")).Amount("sell", M(5010.5, "TRY")).Currency()
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"buy":4980,"sell":5010.5,"currency":"TRY"}`; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("amounts without currency", func(t *testing.T) {
		var w recordWriter
		w.Amount("gross", M(10, "")).Currency()
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"gross":10}`; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("mixed currencies", func(t *testing.T) {
		var w recordWriter
		w.Amount("buy", M(1, "TRY")).Amount("sell", M(1, "USD"))
		if _, err := w.MarshalJSON(); err == nil {
			t.Error("MarshalJSON() expected an error for amounts in two currencies")
		}
	})

	t.Run("marshal error", func(t *testing.T) {
		var w recordWriter
		w.Field("ch", make(chan int))
		if _, err := w.MarshalJSON(); err == nil {
			t.Error("MarshalJSON() expected an error for an unsupported value")
		}
	})
}
