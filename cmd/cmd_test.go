package cmd

import (
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/goldesk"
	"github.com/etnz/goldesk/date"
	"github.com/google/subcommands"
	"github.com/xuri/excelize/v2"
)

// newHome points the application to a fresh data folder with one bank.
func newHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldHome, oldDriver := *homeDir, *dbDriver
	*homeDir, *dbDriver = dir, "file"
	t.Cleanup(func() { *homeDir, *dbDriver = oldHome, oldDriver })

	cfg := goldesk.DefaultConfig()
	cfg.Banks = goldesk.Banks{{
		Name:                  "Ziraat",
		CardFeePercent:        goldesk.P(3),
		CashAdvanceFeePercent: goldesk.P(2.8),
		SettlementDays:        1,
		OpeningBalance:        goldesk.M(0, "TRY"),
	}}
	if err := cfg.SaveConfig(ConfigPath()); err != nil {
		t.Fatalf("SaveConfig() failed: %v", err)
	}
	return dir
}

// run parses args for c and executes it.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("%s: cannot parse %q: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), fs)
}

func mustRun(t *testing.T, c subcommands.Command, args ...string) {
	t.Helper()
	if got := run(t, c, args...); got != subcommands.ExitSuccess {
		t.Fatalf("%s %q = %v, want success", c.Name(), args, got)
	}
}

func openDesk(t *testing.T) *goldesk.Desk {
	t.Helper()
	d, closeStore, err := OpenDesk(context.Background())
	if err != nil {
		t.Fatalf("OpenDesk() failed: %v", err)
	}
	t.Cleanup(func() { closeStore() })
	return d
}

func TestSetting(t *testing.T) {
	t.Setenv("GOLDESK_TEST", "env")
	testCases := []struct {
		flag, env, def string
		want           string
	}{
		{flag: "flag", env: "GOLDESK_TEST", def: "def", want: "flag"},
		{flag: "", env: "GOLDESK_TEST", def: "def", want: "env"},
		{flag: "", env: "GOLDESK_MISSING", def: "def", want: "def"},
	}
	for _, tc := range testCases {
		if got := setting(tc.flag, tc.env, tc.def); got != tc.want {
			t.Errorf("setting(%q, %q, %q) = %q, want %q", tc.flag, tc.env, tc.def, got, tc.want)
		}
	}
}

func TestParseTime(t *testing.T) {
	testCases := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "2025-08-04 10:30", want: time.Date(2025, 8, 4, 10, 30, 0, 0, time.Local)},
		{input: "2025-08-04T10:30", want: time.Date(2025, 8, 4, 10, 30, 0, 0, time.Local)},
		{input: "2025-08-04", want: time.Date(2025, 8, 4, 0, 0, 0, 0, time.Local)},
		{input: "2025-08-04T10:30:00Z", want: time.Date(2025, 8, 4, 10, 30, 0, 0, time.UTC)},
		{input: "tomorrow", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := parseTime(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseTime(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if !tc.wantErr && !got.Equal(tc.want) {
				t.Errorf("parseTime(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestEndOfDay(t *testing.T) {
	d := date.New(2025, time.August, 4)
	end := endOfDay(d)
	if date.Of(end) != d {
		t.Errorf("endOfDay(%s) = %v, not on the same day", d, end)
	}
	if next := end.Add(time.Nanosecond); date.Of(next) != d.Add(1) {
		t.Errorf("endOfDay(%s) = %v, is not the last instant", d, end)
	}
}

func TestSelectJSON(t *testing.T) {
	view := dailyView{
		From: date.New(2025, time.August, 1),
		To:   date.New(2025, time.August, 31),
		Rows: []dayView{{
			Date:       date.New(2025, time.August, 4),
			Purchases:  goldesk.M(49800, "TRY"),
			Sales:      goldesk.M(20040, "TRY"),
			Profit:     goldesk.M(120, "TRY"),
			Cumulative: goldesk.M(120, "TRY"),
		}},
	}
	testCases := []struct {
		path string
		want string
	}{
		{path: "$.rows[0].profit", want: "120"},
		{path: "$.rows[0].date", want: `"2025-08-04"`},
		{path: "$.from", want: `"2025-08-01"`},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			got, err := selectJSON(view, tc.path)
			if err != nil {
				t.Fatalf("selectJSON(%q) failed: %v", tc.path, err)
			}
			if string(got) != tc.want {
				t.Errorf("selectJSON(%q) = %s, want %s", tc.path, got, tc.want)
			}
		})
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	oldHome := *homeDir
	*homeDir = filepath.Join(dir, "desk")
	t.Cleanup(func() { *homeDir = oldHome })

	mustRun(t, &initCmd{})
	cfg, err := goldesk.LoadConfig(ConfigPath())
	if err != nil {
		t.Fatalf("LoadConfig() after init failed: %v", err)
	}
	if len(cfg.Catalog) != len(goldesk.DefaultCatalog()) {
		t.Errorf("init wrote %d products, want %d", len(cfg.Catalog), len(goldesk.DefaultCatalog()))
	}
	if got := run(t, &initCmd{}); got != subcommands.ExitFailure {
		t.Errorf("second init = %v, want failure", got)
	}
	mustRun(t, &initCmd{}, "-force")
}

func TestQuoteIngest(t *testing.T) {
	newHome(t)
	sheet := "Gram Altın\t4.990,00\t5.000,00\nbroken line\nÇeyrek;8100;8300\n"
	at := time.Date(2025, 8, 4, 10, 0, 0, 0, time.Local)

	d := openDesk(t)
	if got := (&quoteCmd{}).ingest(context.Background(), d, strings.NewReader(sheet), at); got != subcommands.ExitSuccess {
		t.Fatalf("ingest() = %v, want success", got)
	}

	d = openDesk(t)
	if got := d.PriceBook().Len(); got != 2 {
		t.Errorf("recorded %d quotes, want 2", got)
	}
}

func TestStockCommands(t *testing.T) {
	newHome(t)
	mustRun(t, &openingCmd{}, "-t", "2025-08-01", "-p", "TAM", "-q", "2", "-cost", "32000")

	sheet := "Çeyrek Altın,12\nPLATIN,1\n24 Ayar Gram;150,5;4.950,00\n"
	at := time.Date(2025, 8, 1, 9, 0, 0, 0, time.Local)
	if got := (&openingCmd{}).ingest(context.Background(), openDesk(t), strings.NewReader(sheet), at); got != subcommands.ExitSuccess {
		t.Fatalf("ingest() = %v, want success", got)
	}
	if got := (&openingCmd{}).ingest(context.Background(), openDesk(t), strings.NewReader("PLATIN,1\n"), at); got != subcommands.ExitFailure {
		t.Errorf("ingest() of rejected rows only = %v, want failure", got)
	}

	mustRun(t, &adjustCmd{}, "-t", "2025-08-02 10:00", "-p", "ceyrek", "-to", "10")
	mustRun(t, &adjustCmd{}, "-t", "2025-08-02 11:00", "-p", "CEYREK", "-to", "10")
	mustRun(t, &adjustCmd{}, "-t", "2025-08-02 12:00", "-p", "TAM", "-q", "1", "-m", "found in the safe")

	d := openDesk(t)
	inv := d.InventorySnapshot(time.Time{})
	tests := []struct {
		code             string
		opened, quantity goldesk.Quantity
	}{
		{"TAM", goldesk.Q(3), goldesk.Q(3)},
		{"CEYREK", goldesk.Q(10), goldesk.Q(10)},
		{"GRAM24", goldesk.Q(150.5), goldesk.Q(150.5)},
	}
	for _, tt := range tests {
		s := inv.State(tt.code)
		if !s.Opened.Equal(tt.opened) || !s.Quantity.Equal(tt.quantity) || !s.Traded.IsZero() {
			t.Errorf("%s opened %s quantity %s traded %s, want %s and %s", tt.code, s.Opened, s.Quantity, s.Traded, tt.opened, tt.quantity)
		}
	}
	if got := d.Ledger.Len(); got != 5 { // opening, two sheet rows, two adjustments
		t.Errorf("ledger holds %d records, want 5", got)
	}
}

func TestCommands(t *testing.T) {
	newHome(t)

	mustRun(t, &quoteCmd{}, "-t", "2025-08-04 10:00", "Gram Altın", "4990", "5000")
	mustRun(t, &buyCmd{}, "-t", "2025-08-04 11:00", "-p", "GRAM24", "-q", "10", "-pay", "cash")
	mustRun(t, &sellCmd{}, "-t", "2025-08-04 12:00", "-p", "gram24", "-q", "4", "-price", "5010", "-pay", "card", "-bank", "ziraat")
	mustRun(t, &advanceCmd{}, "-t", "2025-08-04 13:00", "-bank", "Ziraat", "-cash", "1000", "-markup", "8")
	mustRun(t, &transferCmd{}, "-t", "2025-08-04 18:00", "-type", "deposit", "-bank", "Ziraat", "-a", "5.000,00")

	d := openDesk(t)

	gram := d.InventorySnapshot(time.Time{}).State("GRAM24")
	if want := goldesk.Q(6); !gram.Quantity.Equal(want) {
		t.Errorf("GRAM24 quantity = %v, want %v", gram.Quantity, want)
	}
	if want := goldesk.M(4980, "TRY"); !gram.AverageCost.Equal(want) {
		t.Errorf("GRAM24 average cost = %v, want %v (suggested buy price)", gram.AverageCost, want)
	}
	if want := goldesk.M(120, "TRY"); !gram.RealizedProfit.Equal(want) {
		t.Errorf("GRAM24 realized = %v, want %v", gram.RealizedProfit, want)
	}

	// -49800 paid for the purchase, -1000 advanced, -5000 deposited.
	if got, want := d.CashBalance(), goldesk.M(-55800, "TRY"); !got.Equal(want) {
		t.Errorf("CashBalance() = %v, want %v", got, want)
	}

	day := date.New(2025, time.August, 4)
	if got := d.PendingSettlements(day); len(got) != 2 {
		t.Errorf("PendingSettlements(%s) = %d legs, want 2", day, len(got))
	}
	// 20040 - 3% = 19438.80, 1080 - 2.8% = 1049.76, plus the 5000 deposit.
	got, err := d.BankBalance("Ziraat", day.Add(1), false)
	if err != nil {
		t.Fatalf("BankBalance() failed: %v", err)
	}
	if want := goldesk.M(25488.56, "TRY"); !got.Round().Equal(want) {
		t.Errorf("BankBalance(Ziraat, %s) = %v, want %v", day.Add(1), got, want)
	}

	advances := d.Advances()
	if len(advances) != 1 {
		t.Fatalf("Advances() = %d, want 1", len(advances))
	}
	if got, want := advances[0].Spread().Round(), goldesk.M(49.76, "TRY"); !got.Equal(want) {
		t.Errorf("advance spread = %v, want %v", got, want)
	}
}

func TestCommands_Errors(t *testing.T) {
	newHome(t)

	testCases := []struct {
		name string
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{"buy without quantity", &buyCmd{}, []string{"-p", "GRAM24"}, subcommands.ExitUsageError},
		{"buy without quote", &buyCmd{}, []string{"-p", "GRAM24", "-q", "1"}, subcommands.ExitFailure},
		{"unknown product", &sellCmd{}, []string{"-p", "PLATIN", "-q", "1", "-price", "10"}, subcommands.ExitFailure},
		{"bad quantity", &sellCmd{}, []string{"-p", "GRAM24", "-q", "abc", "-price", "10"}, subcommands.ExitUsageError},
		{"paid buy with unknown bank", &buyCmd{}, []string{"-p", "GRAM24", "-q", "10", "-price", "4990", "-pay", "card", "-bank", "Akbank"}, subcommands.ExitFailure},
		{"paid sale by card without bank", &sellCmd{}, []string{"-p", "GRAM24", "-q", "1", "-price", "5010", "-pay", "card"}, subcommands.ExitFailure},
		{"opening without cost", &openingCmd{}, []string{"-p", "CEYREK", "-q", "1"}, subcommands.ExitUsageError},
		{"adjust by delta and count", &adjustCmd{}, []string{"-p", "TAM", "-q", "1", "-to", "2"}, subcommands.ExitUsageError},
		{"adjust to a negative count", &adjustCmd{}, []string{"-p", "TAM", "-to", "-1"}, subcommands.ExitFailure},
		{"unknown bank", &cardCmd{}, []string{"-bank", "Akbank", "-a", "100"}, subcommands.ExitFailure},
		{"unknown method", &payCmd{}, []string{"-method", "cheque", "-a", "100"}, subcommands.ExitUsageError},
		{"cash with bank", &payCmd{}, []string{"-method", "cash", "-bank", "Ziraat", "-a", "100"}, subcommands.ExitFailure},
		{"unknown transfer", &transferCmd{}, []string{"-type", "swap", "-bank", "Ziraat", "-a", "100"}, subcommands.ExitUsageError},
		{"quote arity", &quoteCmd{}, []string{"Gram Altın", "4990"}, subcommands.ExitUsageError},
		{"unknown bank balance", &bankCmd{}, []string{"Akbank"}, subcommands.ExitFailure},
		{"no suggestion", &suggestCmd{}, []string{"GRAM24"}, subcommands.ExitFailure},
		{"bad period", &dailyCmd{}, []string{"-p", "decade"}, subcommands.ExitUsageError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := run(t, tc.cmd, tc.args...); got != tc.want {
				t.Errorf("%s %q = %v, want %v", tc.cmd.Name(), tc.args, got, tc.want)
			}
		})
	}

	if n := openDesk(t).Ledger.Len(); n != 0 {
		t.Errorf("failed commands recorded %d records, want 0", n)
	}
}

func TestReports(t *testing.T) {
	dir := newHome(t)
	mustRun(t, &quoteCmd{}, "-t", "2025-08-04 10:00", "Gram Altın", "4990", "5000")
	mustRun(t, &buyCmd{}, "-t", "2025-08-04 11:00", "-p", "GRAM24", "-q", "10", "-pay", "cash")
	mustRun(t, &sellCmd{}, "-t", "2025-08-05 12:00", "-p", "GRAM24", "-q", "4", "-price", "5010", "-pay", "card", "-bank", "Ziraat")

	for _, tc := range []struct {
		cmd  subcommands.Command
		args []string
	}{
		{&quotesCmd{}, nil},
		{&suggestCmd{}, []string{"-json"}},
		{&inventoryCmd{}, []string{"-d", "2025-08-04"}},
		{&inventoryCmd{}, []string{"-path", "$.stock[0].quantity"}},
		{&dailyCmd{}, []string{"-s", "2025-08-01", "-d", "2025-08-31"}},
		{&dailyCmd{}, []string{"-d", "2025-08-31", "-json"}},
		{&cashCmd{}, nil},
		{&bankCmd{}, []string{"-d", "2025-08-06"}},
		{&pendingCmd{}, []string{"-d", "2025-08-05", "-json"}},
		{&settlementsCmd{}, []string{"-d", "2025-08-06"}},
	} {
		mustRun(t, tc.cmd, tc.args...)
	}

	out := filepath.Join(dir, "export.xlsx")
	mustRun(t, &exportCmd{}, "-o", out, "-d", "2025-08-31")
	wb, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("cannot open export: %v", err)
	}
	defer wb.Close()
	wantRows := map[string]int{
		inventorySheet: 3, // header, GRAM24, total
		dailySheet:     3, // header, two days
		paymentsSheet:  3, // header, two legs
	}
	for sheet, want := range wantRows {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			t.Fatalf("GetRows(%s) failed: %v", sheet, err)
		}
		if len(rows) != want {
			t.Errorf("sheet %s has %d rows, want %d", sheet, len(rows), want)
		}
	}
}

func TestTopic(t *testing.T) {
	mustRun(t, &topicCmd{})
	mustRun(t, &topicCmd{}, "settlements", "pricing")
	mustRun(t, &topicCmd{}, "-list")
	if got := run(t, &topicCmd{}, "unknown"); got != subcommands.ExitFailure {
		t.Errorf("topic unknown = %v, want failure", got)
	}
}
