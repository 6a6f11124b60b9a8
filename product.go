package goldesk

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Unit tells how a product is counted.
type Unit string

const (
	Piece Unit = "piece" // coins, counted by the unit
	Gram  Unit = "gram"  // bullion, counted by weight
)

// ParseUnit parses a product unit.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(s) {
	case "piece", "adet":
		return Piece, nil
	case "gram", "g":
		return Gram, nil
	default:
		return "", fmt.Errorf("unknown unit %q", s)
	}
}

// Product is an immutable catalog entry.
type Product struct {
	Code           string   // stable identifier used in the logs
	Name           string   // display name
	Unit           Unit     // piece or gram
	StandardWeight Quantity // grams per piece, 1 for gram products
	Purity         Quantity // fine metal fraction in (0, 1]
	Aliases        []string // quoted names, in priority order
	Rule           MarginRule
}

// FineGoldGrams converts a quantity of p into grams of fine gold (HAS).
func FineGoldGrams(p Product, q Quantity) Quantity {
	if p.Unit == Piece {
		return q.Mul(p.StandardWeight).Mul(p.Purity)
	}
	return q.Mul(p.Purity)
}

// fold lowers s with the Turkish casing rules then drops the dot of 'ı', so
// "GRAM ALTIN", "Gram Altın" and "gram altin" fold to the same string.
func fold(s string) string {
	s = cases.Lower(language.Turkish).String(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "ı", "i")
}

// SameName reports whether a and b name the same thing, ignoring case and
// the dotted or dotless spelling of i.
func SameName(a, b string) bool { return fold(a) == fold(b) }

// Catalog is the closed, ordered list of products traded by the desk.
type Catalog []Product

// Product returns the product with that code or display name. Codes are
// tried first, both are matched with SameName.
func (c Catalog) Product(code string) (Product, bool) {
	for _, p := range c {
		if SameName(p.Code, code) {
			return p, true
		}
	}
	for _, p := range c {
		if SameName(p.Name, code) {
			return p, true
		}
	}
	return Product{}, false
}

// Codes returns the product codes in catalog order.
func (c Catalog) Codes() []string {
	codes := make([]string, len(c))
	for i, p := range c {
		codes[i] = p.Code
	}
	return codes
}

func dec(s string) Quantity { return Quantity{value: decimal.RequireFromString(s)} }

// DefaultCatalog returns the products of a typical Turkish retail gold desk
// with their default margin schedules.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			Code: "CEYREK", Name: "Çeyrek Altın", Unit: Piece,
			StandardWeight: dec("1.75"), Purity: dec("0.916"),
			Aliases: []string{"Eski Çeyrek", "Çeyrek"},
			Rule:    MarginRule{Kind: PerSide, BuyOffset: M(-50, ""), SellOffset: M(50, "")},
		},
		{
			Code: "YARIM", Name: "Yarım Altın", Unit: Piece,
			StandardWeight: dec("3.50"), Purity: dec("0.916"),
			Aliases: []string{"Eski Yarım", "Yarım"},
			Rule:    MarginRule{Kind: PerSide, BuyOffset: M(-100, ""), SellOffset: M(100, "")},
		},
		{
			Code: "TAM", Name: "Tam Altın", Unit: Piece,
			StandardWeight: dec("7.00"), Purity: dec("0.916"),
			Aliases: []string{"Eski Tam", "Tam"},
			Rule:    MarginRule{Kind: PerSide, BuyOffset: M(-200, ""), SellOffset: M(200, "")},
		},
		{
			Code: "ATA", Name: "Ata Lira", Unit: Piece,
			StandardWeight: dec("7.216"), Purity: dec("0.916"),
			Aliases: []string{"Eski Ata", "Ata"},
			Rule:    MarginRule{Kind: PerSide, BuyOffset: M(-200, ""), SellOffset: M(200, "")},
		},
		{
			Code: "GRAM24", Name: "24 Ayar Gram", Unit: Gram,
			StandardWeight: dec("1"), Purity: dec("0.995"),
			Aliases: []string{"Gram Altın", "Has Altın", "Has", "24 Ayar Gram"},
			Rule:    MarginRule{Kind: FlatFromSell, BuyOffset: M(-20, ""), SellOffset: M(10, "")},
		},
	}
}
