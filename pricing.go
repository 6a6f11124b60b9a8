package goldesk

import (
	"fmt"
	"strings"
)

// RuleKind selects how a margin rule reads its base price.
type RuleKind string

const (
	// FlatFromSell reads the quote's sell field for both sides.
	FlatFromSell RuleKind = "flat"
	// PerSide reads the quote's buy field to buy and its sell field to sell.
	PerSide RuleKind = "side"
)

// ParseRuleKind parses a rule kind.
func ParseRuleKind(s string) (RuleKind, error) {
	switch strings.ToLower(s) {
	case "flat":
		return FlatFromSell, nil
	case "side", "per-side":
		return PerSide, nil
	default:
		return "", fmt.Errorf("%w: unknown margin rule %q", ErrInvalid, s)
	}
}

// MarginRule turns an external quote into the desk's own price by adding a
// signed offset to the base price of each side.
type MarginRule struct {
	Kind       RuleKind
	BuyOffset  Money
	SellOffset Money
}

// base returns the quote field the rule reads for direction d.
func (r MarginRule) base(d Direction) Field {
	if r.Kind == FlatFromSell {
		return SellField
	}
	return d.Field()
}

// offset returns the offset the rule adds for direction d.
func (r MarginRule) offset(d Direction) Money {
	if d == Buy {
		return r.BuyOffset
	}
	return r.SellOffset
}

// Suggestion is a suggested unit price, with what it was computed from.
type Suggestion struct {
	Product   Product
	Direction Direction
	Price     Money
	Base      Money
	Quote     Quote
}

// PricingRules computes suggested prices from the latest quotes of a source.
type PricingRules struct {
	Book     *PriceBook
	Catalog  Catalog
	Source   string
	Currency string
}

// Suggest returns the suggested unit price for product code and direction d.
//
// It returns ErrNoQuote when none of the product aliases was ever quoted by
// the source, the price is then unknown and never defaults to zero.
func (p *PricingRules) Suggest(code string, d Direction) (Suggestion, error) {
	prod, ok := p.Catalog.Product(code)
	if !ok {
		return Suggestion{}, fmt.Errorf("%w %q", ErrUnknownProduct, code)
	}
	q, ok := p.Book.LatestQuote(p.Source, prod.Aliases)
	if !ok {
		return Suggestion{}, fmt.Errorf("%w for %s from %s (aliases %q)", ErrNoQuote, prod.Code, p.Source, prod.Aliases)
	}
	rule := prod.Rule
	base := q.Field(rule.base(d)).InCurrency(p.Currency)
	price := base.Add(rule.offset(d).InCurrency(p.Currency)).Round()
	return Suggestion{Product: prod, Direction: d, Price: price, Base: base, Quote: q}, nil
}

// Check compares a manually entered price with the rule. It returns
// warnings for prices that give away margin, never an error: the operator
// stays free to record the trade.
//
// A flat product must not be bought above nor sold below its suggestion.
// Any product must not be sold below its current suggested buy price.
func (p *PricingRules) Check(code string, d Direction, price Money) []string {
	prod, ok := p.Catalog.Product(code)
	if !ok {
		return nil
	}
	var warnings []string
	if prod.Rule.Kind == FlatFromSell {
		s, err := p.Suggest(code, d)
		if err != nil {
			return nil
		}
		if d == Buy && price.GreaterThan(s.Price) {
			warnings = append(warnings, fmt.Sprintf("%s buy price %s is above the rule (<= %s)", prod.Name, price, s.Price))
		}
		if d == Sell && price.LessThan(s.Price) {
			warnings = append(warnings, fmt.Sprintf("%s sell price %s is below the rule (>= %s)", prod.Name, price, s.Price))
		}
		return warnings
	}
	if d == Sell {
		s, err := p.Suggest(code, Buy)
		if err == nil && price.LessThan(s.Price) {
			warnings = append(warnings, fmt.Sprintf("%s sell price %s is below the buy price (~ %s)", prod.Name, price, s.Price))
		}
	}
	return warnings
}
