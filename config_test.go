package goldesk

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desk.yaml")
	if err := testConfig().SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Currency != "TRY" || cfg.QuoteSource != "HAREM" {
		t.Errorf("currency %q source %q, want TRY and HAREM", cfg.Currency, cfg.QuoteSource)
	}
	want := DefaultCatalog()
	if len(cfg.Catalog) != len(want) {
		t.Fatalf("loaded %d products, want %d", len(cfg.Catalog), len(want))
	}
	for i, p := range cfg.Catalog {
		w := want[i]
		if p.Code != w.Code || p.Unit != w.Unit || !p.StandardWeight.Equal(w.StandardWeight) || !p.Purity.Equal(w.Purity) {
			t.Errorf("product %d = %+v, want %+v", i, p, w)
		}
		if strings.Join(p.Aliases, "|") != strings.Join(w.Aliases, "|") {
			t.Errorf("product %s aliases = %q, want %q", p.Code, p.Aliases, w.Aliases)
		}
		if p.Rule.Kind != w.Rule.Kind ||
			!p.Rule.BuyOffset.Decimal().Equal(w.Rule.BuyOffset.Decimal()) ||
			!p.Rule.SellOffset.Decimal().Equal(w.Rule.SellOffset.Decimal()) {
			t.Errorf("product %s rule = %+v, want %+v", p.Code, p.Rule, w.Rule)
		}
	}
	b, ok := cfg.Banks.Bank("GARANTI")
	if !ok {
		t.Fatalf("bank Garanti not loaded, got %v", cfg.Banks.Names())
	}
	if !b.CashAdvanceFeePercent.Equal(P(3.2)) || b.SettlementDays != 30 || !b.OpeningBalance.Equal(TRY(500)) {
		t.Errorf("bank = %+v", b)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	valid := `
currency: TRY
source: HAREM
products:
  - code: GRAM24
    name: 24 Ayar Gram
    unit: gram
    weight: 1
    purity: 0.995
    aliases: [Gram Altın, Has]
    rule: {kind: flat, buy: -20, sell: 10}
banks:
  - {name: Ziraat, card_fee: 3, advance_fee: 2.8, settlement_days: 1}
`
	if _, err := ParseConfig([]byte(valid)); err != nil {
		t.Fatalf("ParseConfig(valid) error = %v", err)
	}

	tests := []struct {
		name string
		old  string
		new  string
	}{
		{"unknown key", "source: HAREM", "source: HAREM\ncolour: gold"},
		{"lower case currency", "currency: TRY", "currency: try"},
		{"purity above one", "purity: 0.995", "purity: 1.5"},
		{"unknown unit", "unit: gram", "unit: ounce"},
		{"unknown rule", "kind: flat", "kind: percent"},
		{"no alias", "aliases: [Gram Altın, Has]", "aliases: []"},
		{"negative fee", "card_fee: 3", "card_fee: -3"},
		{"duplicate bank", "  - {name: Ziraat", "  - {name: ziraat}\n  - {name: Ziraat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := strings.Replace(valid, tt.old, tt.new, 1)
			if _, err := ParseConfig([]byte(in)); !errors.Is(err, ErrInvalid) {
				t.Errorf("ParseConfig() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestConfig_EmptyCatalog(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Catalog = nil
	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() error = %v, want ErrInvalid", err)
	}
}

func TestConfig_DuplicateProduct(t *testing.T) {
	cfg := DefaultConfig()
	dup := cfg.Catalog[0]
	dup.Code = strings.ToLower(dup.Code)
	cfg.Catalog = append(cfg.Catalog, dup)
	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() error = %v, want ErrInvalid", err)
	}
}
