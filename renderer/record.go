package renderer

import (
	"fmt"

	"github.com/etnz/goldesk"
)

// Record renders a record to a one-line confirmation.
func Record(rec goldesk.Record) string {
	switch v := rec.(type) {
	case goldesk.Quote:
		return fmt.Sprintf("Quoted %s at %s / %s by %s", v.Name, v.Buy, v.Sell, v.Source)
	case goldesk.Trade:
		verb := "Bought"
		if v.Direction == goldesk.Sell {
			verb = "Sold"
		}
		return fmt.Sprintf("%s %s %s at %s for %s", verb, v.Quantity, v.Product, v.UnitPrice, v.Total())
	case goldesk.Opening:
		return fmt.Sprintf("Opened %s %s at %s", v.Quantity, v.Product, v.UnitCost)
	case goldesk.Adjustment:
		return fmt.Sprintf("Adjusted %s by %s", v.Product, v.Delta)
	case goldesk.PaymentLeg:
		s := fmt.Sprintf("Payment %s by %s of %s", v.Flow, v.Method, v.Gross)
		if v.Bank != "" {
			s += " through " + v.Bank
		}
		if !v.SettlementDate.IsZero() {
			s += fmt.Sprintf(", fee %s, net %s on %s", v.Fee().Round(), v.Net().Round(), v.SettlementDate)
		}
		return s
	case goldesk.Transfer:
		return fmt.Sprintf("Transferred %s %s %s", v.Amount, v.Type, v.Bank)
	default:
		return string(rec.What())
	}
}
