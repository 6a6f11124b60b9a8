package goldesk

import (
	"iter"
)

// InventoryState is the derived position of one product.
type InventoryState struct {
	Product        Product
	Quantity       Quantity // on hand, may be negative after corrections
	Opened         Quantity // part of Quantity from opening stock and count corrections
	Traded         Quantity // part of Quantity from trades, bought minus sold
	AverageCost    Money    // weighted-average unit cost, 0 when nothing is on hand
	RealizedProfit Money    // cumulated profit of all sales
}

// FineGold returns the quantity on hand in fine gold grams.
func (s InventoryState) FineGold() Quantity { return FineGoldGrams(s.Product, s.Quantity) }

// Value returns the stock value at average cost.
func (s InventoryState) Value() Money { return s.AverageCost.Mul(s.Quantity) }

// Negative reports a degenerate state, more was sold than ever recorded.
func (s InventoryState) Negative() bool { return s.Quantity.IsNegative() }

// Inventory is the result of replaying inventory transactions from zero.
type Inventory struct {
	catalog  Catalog
	currency string
	states   map[string]*InventoryState
	order    []string // product codes in order of first appearance
}

// NewInventory returns an empty inventory.
func NewInventory(catalog Catalog, currency string) *Inventory {
	return &Inventory{catalog: catalog, currency: currency, states: make(map[string]*InventoryState)}
}

// Replay folds txs, in order, into a new inventory.
//
// Replay is a pure function of its inputs, replaying the same log twice
// gives identical states.
func Replay(catalog Catalog, currency string, txs iter.Seq[Transaction]) *Inventory {
	inv := NewInventory(catalog, currency)
	for tx := range txs {
		inv.Apply(tx)
	}
	return inv
}

func (inv *Inventory) state(code string) *InventoryState {
	if s, ok := inv.states[code]; ok {
		return s
	}
	prod, ok := inv.catalog.Product(code)
	if !ok {
		// The product left the catalog after being traded, keep it visible.
		prod = Product{Code: code, Name: code, Unit: Gram}
	}
	s := &InventoryState{
		Product:        prod,
		AverageCost:    M(0, inv.currency),
		RealizedProfit: M(0, inv.currency),
	}
	inv.states[code] = s
	inv.order = append(inv.order, code)
	return s
}

// Apply updates the inventory with one transaction and returns the profit
// it realized, zero for anything but a sale.
func (inv *Inventory) Apply(tx Transaction) Money {
	realized := M(0, inv.currency)
	s := inv.state(tx.ProductCode())
	switch v := tx.(type) {
	case Trade:
		if v.Direction == Sell {
			realized = v.UnitPrice.Sub(s.AverageCost).Mul(v.Quantity)
			s.RealizedProfit = s.RealizedProfit.Add(realized)
			s.Quantity = s.Quantity.Sub(v.Quantity)
			s.Traded = s.Traded.Sub(v.Quantity)
		} else {
			s.purchase(v.Quantity, v.UnitPrice)
			s.Traded = s.Traded.Add(v.Quantity)
		}
	case Opening:
		s.purchase(v.Quantity, v.UnitCost)
		s.Opened = s.Opened.Add(v.Quantity)
	case Adjustment:
		s.Quantity = s.Quantity.Add(v.Delta)
		s.Opened = s.Opened.Add(v.Delta)
	}
	if s.Quantity.IsZero() {
		s.AverageCost = M(0, inv.currency)
	}
	return realized
}

// purchase blends a purchase into the moving average cost. When the new
// quantity is not positive the cost is left unchanged.
func (s *InventoryState) purchase(q Quantity, unitPrice Money) {
	newQty := s.Quantity.Add(q)
	if newQty.IsPositive() {
		total := s.AverageCost.Mul(s.Quantity).Add(unitPrice.Mul(q))
		s.AverageCost = total.Div(newQty)
	}
	s.Quantity = newQty
}

// State returns the state of one product, the zero state if it was never traded.
func (inv *Inventory) State(code string) InventoryState {
	if s, ok := inv.states[code]; ok {
		return *s
	}
	prod, _ := inv.catalog.Product(code)
	return InventoryState{Product: prod, AverageCost: M(0, inv.currency), RealizedProfit: M(0, inv.currency)}
}

// States returns the states of every product with activity, catalog
// products first in catalog order.
func (inv *Inventory) States() []InventoryState {
	res := make([]InventoryState, 0, len(inv.states))
	seen := make(map[string]bool)
	for _, p := range inv.catalog {
		if s, ok := inv.states[p.Code]; ok {
			res = append(res, *s)
			seen[p.Code] = true
		}
	}
	for _, code := range inv.order {
		if !seen[code] {
			res = append(res, *inv.states[code])
		}
	}
	return res
}

// TotalFineGold returns the fine gold grams of all positions.
func (inv *Inventory) TotalFineGold() Quantity {
	var total Quantity
	for _, s := range inv.states {
		total = total.Add(s.FineGold())
	}
	return total
}

// TotalValue returns the value at average cost of all positions.
func (inv *Inventory) TotalValue() Money {
	total := M(0, inv.currency)
	for _, s := range inv.states {
		total = total.Add(s.Value())
	}
	return total
}

// TotalRealized returns the profit realized on all products.
func (inv *Inventory) TotalRealized() Money {
	total := M(0, inv.currency)
	for _, s := range inv.states {
		total = total.Add(s.RealizedProfit)
	}
	return total
}
