package goldesk

import (
	"errors"
	"testing"
)

func testRules(quotes ...Quote) *PricingRules {
	return &PricingRules{
		Book:     NewPriceBook(quotes...),
		Catalog:  DefaultCatalog(),
		Source:   "HAREM",
		Currency: "TRY",
	}
}

func TestPricingRules_Suggest(t *testing.T) {
	rules := testRules(
		quote("Gram Altın", 4900, 5000, 1, 10),
		quote("Eski Çeyrek", 8100, 8250, 1, 10),
		quote("Yarım", 16200, 16500, 1, 10),
	)

	tests := []struct {
		code     string
		dir      Direction
		want     float64
		wantBase float64
	}{
		{"GRAM24", Buy, 4980, 5000}, // flat rule reads the sell field on both sides
		{"GRAM24", Sell, 5010, 5000},
		{"CEYREK", Buy, 8050, 8100}, // side rule reads its own field
		{"CEYREK", Sell, 8300, 8250},
		{"YARIM", Buy, 16100, 16200}, // second alias is used
		{"YARIM", Sell, 16600, 16500},
	}
	for _, tt := range tests {
		t.Run(tt.code+"/"+string(tt.dir), func(t *testing.T) {
			got, err := rules.Suggest(tt.code, tt.dir)
			if err != nil {
				t.Fatalf("Suggest() error = %v", err)
			}
			if !got.Price.Equal(TRY(tt.want)) {
				t.Errorf("Suggest() price = %v, want %v", got.Price, TRY(tt.want))
			}
			if !got.Base.Equal(TRY(tt.wantBase)) {
				t.Errorf("Suggest() base = %v, want %v", got.Base, TRY(tt.wantBase))
			}
		})
	}
}

func TestPricingRules_SuggestErrors(t *testing.T) {
	rules := testRules(quote("Gram Altın", 4900, 5000, 1, 10))

	if _, err := rules.Suggest("TAM", Sell); !errors.Is(err, ErrNoQuote) {
		t.Errorf("Suggest(TAM) error = %v, want ErrNoQuote", err)
	}
	if _, err := rules.Suggest("PLATIN", Sell); !errors.Is(err, ErrUnknownProduct) {
		t.Errorf("Suggest(PLATIN) error = %v, want ErrUnknownProduct", err)
	}
}

func TestPricingRules_SuggestRounds(t *testing.T) {
	rules := testRules(quote("Gram Altın", 4900, 5000.12345, 1, 10))
	got, err := rules.Suggest("GRAM24", Sell)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if !got.Price.Equal(TRY(5010.12)) {
		t.Errorf("Suggest() = %v, want 5010.12", got.Price)
	}
}

func TestPricingRules_Check(t *testing.T) {
	rules := testRules(
		quote("Gram Altın", 4900, 5000, 1, 10),
		quote("Eski Çeyrek", 8100, 8250, 1, 10),
	)

	tests := []struct {
		name  string
		code  string
		dir   Direction
		price float64
		want  int
	}{
		{"gram bought at the rule", "GRAM24", Buy, 4980, 0},
		{"gram bought above the rule", "GRAM24", Buy, 4990, 1},
		{"gram sold below the rule", "GRAM24", Sell, 5000, 1},
		{"gram sold above the rule", "GRAM24", Sell, 5050, 0},
		{"coin sold below the buy price", "CEYREK", Sell, 8000, 1},
		{"coin sold between buy and sell", "CEYREK", Sell, 8100, 0},
		{"coin bought above the rule", "CEYREK", Buy, 8200, 0},
		{"no quote no warning", "TAM", Sell, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.Check(tt.code, tt.dir, TRY(tt.price))
			if len(got) != tt.want {
				t.Errorf("Check() = %q, want %d warnings", got, tt.want)
			}
		})
	}
}
