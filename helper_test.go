package goldesk

import (
	"testing"
	"time"
)

// TRY is a helper for test to create lira money from const.
func TRY(v float64) Money { return M(v, "TRY") }

// at returns a fixed time on 2025-08-dd at hh:00 UTC.
func at(dd, hh int) time.Time { return time.Date(2025, time.August, dd, hh, 0, 0, 0, time.UTC) }

// mustProduct returns a product of the default catalog.
func mustProduct(t *testing.T, code string) Product {
	t.Helper()
	p, ok := DefaultCatalog().Product(code)
	if !ok {
		t.Fatalf("product %q is not in the default catalog", code)
	}
	return p
}

// testConfig returns the default configuration with two banks.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Banks = Banks{
		{Name: "Ziraat", CardFeePercent: P(3.0), CashAdvanceFeePercent: P(2.8), SettlementDays: 1, OpeningBalance: TRY(0)},
		{Name: "Garanti", CardFeePercent: P(2.5), CashAdvanceFeePercent: P(3.2), SettlementDays: 30, OpeningBalance: TRY(500)},
	}
	return cfg
}
