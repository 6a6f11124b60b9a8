package goldesk

import "testing"

func TestFineGoldGrams(t *testing.T) {
	tests := []struct {
		code     string
		quantity Quantity
		want     Quantity
	}{
		{"CEYREK", Q(1), Q(1.603)},  // 1.75 × 0.916
		{"CEYREK", Q(4), Q(6.412)},  // 4 × 1.75 × 0.916
		{"TAM", Q(2), Q(12.824)},    // 2 × 7 × 0.916
		{"ATA", Q(1), Q(6.609856)},  // 7.216 × 0.916
		{"GRAM24", Q(10), Q(9.95)},  // 10 × 0.995
		{"GRAM24", Q(-2), Q(-1.99)}, // negative stock converts too
		{"YARIM", Q(0), Q(0)},
	}
	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.quantity.String(), func(t *testing.T) {
			got := FineGoldGrams(mustProduct(t, tt.code), tt.quantity)
			if !got.Equal(tt.want) {
				t.Errorf("FineGoldGrams(%s, %s) = %s, want %s", tt.code, tt.quantity, got, tt.want)
			}
		})
	}
}

func TestCatalog_Product(t *testing.T) {
	c := DefaultCatalog()
	p, ok := c.Product("gram24")
	if !ok {
		t.Fatal("Product(\"gram24\") not found, codes are case-insensitive")
	}
	if p.Code != "GRAM24" || p.Unit != Gram {
		t.Errorf("Product(\"gram24\") = %s %s, want GRAM24 gram", p.Code, p.Unit)
	}
	for _, name := range []string{"yarim", "YARIM", "Yarım Altın", "YARIM ALTIN"} {
		if p, ok := c.Product(name); !ok || p.Code != "YARIM" {
			t.Errorf("Product(%q) = %s, %v, want YARIM", name, p.Code, ok)
		}
	}
	if _, ok := c.Product("PLATIN"); ok {
		t.Error("Product(\"PLATIN\") found in the default catalog")
	}
	want := []string{"CEYREK", "YARIM", "TAM", "ATA", "GRAM24"}
	got := c.Codes()
	if len(got) != len(want) {
		t.Fatalf("Codes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Codes()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    Unit
		wantErr bool
	}{
		{"piece", Piece, false},
		{"Adet", Piece, false},
		{"gram", Gram, false},
		{"g", Gram, false},
		{"ounce", "", true},
	}
	for _, tt := range tests {
		got, err := ParseUnit(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUnit(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseUnit(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSameName(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Gram Altın", "GRAM ALTIN", true},
		{"Gram Altın", "gram altin", true},
		{"Eski Çeyrek", "ESKİ ÇEYREK", true},
		{"Eski Çeyrek", "ESKI ÇEYREK", true},
		{" Has ", "has", true},
		{"Ziraat", "ZIRAAT", true},
		{"Has", "Has Altın", false},
		{"Çeyrek", "Ceyrek", false},
	}
	for _, tt := range tests {
		if got := SameName(tt.a, tt.b); got != tt.want {
			t.Errorf("SameName(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
