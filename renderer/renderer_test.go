package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/goldesk"
	"github.com/etnz/goldesk/date"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// document is the structure of a rendered markdown report.
type document struct {
	headings []string
	tables   [][][]string // tables, rows, cells; the header is row 0
	items    []string
}

// parse parses markdown with the table extension and collects its headings,
// tables and list items.
func parse(t *testing.T, src string) document {
	t.Helper()
	source := []byte(src)
	p := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	root := p.Parse(text.NewReader(source))

	var doc document
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			doc.headings = append(doc.headings, plain(v, source))
			return ast.WalkSkipChildren, nil
		case *east.Table:
			var rows [][]string
			for r := v.FirstChild(); r != nil; r = r.NextSibling() {
				var cells []string
				for c := r.FirstChild(); c != nil; c = c.NextSibling() {
					cells = append(cells, plain(c, source))
				}
				rows = append(rows, cells)
			}
			doc.tables = append(doc.tables, rows)
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			doc.items = append(doc.items, plain(v, source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walking markdown: %v", err)
	}
	return doc
}

// plain returns the concatenated text of n.
func plain(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(source))
		case *ast.String:
			b.Write(v.Value)
		case *ast.CodeSpan:
			for c := v.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					b.Write(t.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func try(v float64) goldesk.Money { return goldesk.M(v, "TRY") }

func at(dd, hh int) time.Time { return time.Date(2025, time.August, dd, hh, 0, 0, 0, time.UTC) }

func TestInventoryMarkdown(t *testing.T) {
	ledger := goldesk.NewLedger()
	ledger.Append(
		goldesk.NewTrade(at(1, 10), "GRAM24", goldesk.Buy, goldesk.Q(10), try(5000), ""),
		goldesk.NewTrade(at(1, 11), "CEYREK", goldesk.Sell, goldesk.Q(2), try(8300), ""),
	)
	inv := goldesk.Replay(goldesk.DefaultCatalog(), "TRY", ledger.Transactions())

	doc := parse(t, InventoryMarkdown(inv))

	if len(doc.headings) != 2 || doc.headings[0] != "Inventory" || doc.headings[1] != "Negative Stock" {
		t.Errorf("headings = %q, want Inventory and Negative Stock", doc.headings)
	}
	if len(doc.tables) != 1 {
		t.Fatalf("found %d tables, want 1", len(doc.tables))
	}
	rows := doc.tables[0]
	if len(rows) != 4 { // header, two products, total
		t.Fatalf("table has %d rows, want 4: %q", len(rows), rows)
	}
	if rows[1][0] != "Çeyrek Altın" || rows[2][0] != "24 Ayar Gram" || rows[3][0] != "Total" {
		t.Errorf("first column = %q, %q, %q", rows[1][0], rows[2][0], rows[3][0])
	}
	if rows[2][1] != "0" || rows[2][2] != "10" {
		t.Errorf("GRAM24 opening %q traded %q, want 0 and 10", rows[2][1], rows[2][2])
	}
	if rows[2][4] != "9.950" {
		t.Errorf("GRAM24 fine gold = %q, want 9.950", rows[2][4])
	}
	if len(doc.items) != 1 || !strings.Contains(doc.items[0], "Çeyrek Altın is short by 2 piece") {
		t.Errorf("items = %q, want the short Çeyrek", doc.items)
	}
}

func TestInventoryMarkdown_Empty(t *testing.T) {
	inv := goldesk.NewInventory(goldesk.DefaultCatalog(), "TRY")
	out := InventoryMarkdown(inv)
	if doc := parse(t, out); len(doc.tables) != 0 || !strings.Contains(out, "No stock recorded.") {
		t.Errorf("InventoryMarkdown(empty) = %q", out)
	}
}

func TestDailyMarkdown(t *testing.T) {
	series := []goldesk.DailyProfit{
		{Date: date.New(2025, time.August, 1), Purchases: try(3000), Sales: try(0), Profit: try(0), Cumulative: try(0)},
		{Date: date.New(2025, time.August, 2), Purchases: try(0), Sales: try(1500), Profit: try(750), Cumulative: try(750)},
	}
	doc := parse(t, DailyMarkdown(series))
	if len(doc.tables) != 1 || len(doc.tables[0]) != 3 {
		t.Fatalf("tables = %q, want one table with a header and two days", doc.tables)
	}
	if got := doc.tables[0][2][0]; got != "2025-08-02" {
		t.Errorf("second day = %q, want 2025-08-02", got)
	}
	if got := doc.tables[0][0]; strings.Join(got, "|") != "Date|Purchases|Sales|Profit|Cumulative" {
		t.Errorf("header = %q", got)
	}
}

func TestSettlementsMarkdown(t *testing.T) {
	leg := goldesk.NewPayment(at(1, 15), goldesk.Card, "Ziraat", try(1000), goldesk.Inflow, "", "")
	leg.FeePercent = goldesk.P(3.0)
	leg.SettlementDate = date.New(2025, time.August, 2)

	doc := parse(t, SettlementsMarkdown("Pending Settlements", []goldesk.PaymentLeg{leg}))
	if len(doc.headings) != 1 || doc.headings[0] != "Pending Settlements" {
		t.Errorf("headings = %q", doc.headings)
	}
	if len(doc.tables) != 1 || len(doc.tables[0]) != 3 {
		t.Fatalf("tables = %q, want a header, one leg and a total", doc.tables)
	}
	row := doc.tables[0][1]
	if row[0] != "2025-08-02" || row[1] != "Ziraat" || row[2] != "2025-08-01 15:00" {
		t.Errorf("leg row = %q", row)
	}
}

func TestIngestMarkdown(t *testing.T) {
	report := goldesk.IngestReport{
		Recorded: []goldesk.Quote{{Source: "HAREM", Name: "Gram Altın", Buy: try(4900), Sell: try(5000), Time: at(1, 10)}},
		Rejected: []goldesk.RowError{{Line: 3, Raw: "Tam,??,33000", Err: goldesk.ErrInvalid}},
	}
	doc := parse(t, IngestMarkdown(report))
	if len(doc.headings) != 2 || doc.headings[0] != "Recorded 1 quotes" || doc.headings[1] != "Rejected 1 rows" {
		t.Errorf("headings = %q", doc.headings)
	}
	if len(doc.items) != 1 || !strings.Contains(doc.items[0], "line 3") || !strings.Contains(doc.items[0], "Tam,??,33000") {
		t.Errorf("items = %q, want the rejected line with its raw text", doc.items)
	}
}

func TestOpeningsMarkdown(t *testing.T) {
	report := goldesk.OpeningReport{
		Recorded: []goldesk.Opening{goldesk.NewOpening(at(1, 8), "CEYREK", goldesk.Q(12), try(8000), "")},
		Rejected: []goldesk.RowError{{Line: 2, Raw: "PLATIN,3", Err: goldesk.ErrUnknownProduct}},
	}
	doc := parse(t, OpeningsMarkdown(report))
	if len(doc.headings) != 2 || doc.headings[0] != "Recorded 1 opening rows" || doc.headings[1] != "Rejected 1 rows" {
		t.Errorf("headings = %q", doc.headings)
	}
	if len(doc.tables) != 1 || len(doc.tables[0]) != 2 || doc.tables[0][1][0] != "CEYREK" {
		t.Errorf("tables = %q, want the CEYREK row", doc.tables)
	}
	if len(doc.items) != 1 || !strings.Contains(doc.items[0], "PLATIN,3") {
		t.Errorf("items = %q, want the PLATIN line", doc.items)
	}
}

func TestRecord(t *testing.T) {
	tests := []struct {
		rec  goldesk.Record
		want string
	}{
		{goldesk.NewAdjustment(at(1, 10), "TAM", goldesk.Q(-1), ""), "Adjusted TAM by -1"},
		{goldesk.NewTransfer(at(1, 10), goldesk.CashToBank, "Ziraat", goldesk.M(100, ""), ""), "Transferred 100.00 cash-to-bank Ziraat"},
		{goldesk.NewPayment(at(1, 10), goldesk.Cash, "", goldesk.M(50, ""), goldesk.Outflow, "", ""), "Payment out by cash of 50.00"},
	}
	for _, tt := range tests {
		if got := Record(tt.rec); got != tt.want {
			t.Errorf("Record(%T) = %q, want %q", tt.rec, got, tt.want)
		}
	}
}
