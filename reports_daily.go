package goldesk

import (
	"iter"

	"github.com/etnz/goldesk/date"
)

// DailyProfit is one row of the daily profit series.
type DailyProfit struct {
	Date       date.Date
	Purchases  Money // total paid for purchases that day
	Sales      Money // total received for sales that day
	Profit     Money // profit realized by that day's sales
	Cumulative Money // profit realized since inception up to that day
}

// DailyProfitSeries groups trades by calendar day and returns the days of r
// that had at least one trade, in chronological order.
//
// The whole log is replayed, so the cumulative profit of the first day in r
// includes every sale before r.
func DailyProfitSeries(catalog Catalog, currency string, txs iter.Seq[Transaction], r date.Range) []DailyProfit {
	inv := NewInventory(catalog, currency)
	cumulative := M(0, currency)

	var series []DailyProfit
	var current *DailyProfit
	for tx := range txs {
		realized := inv.Apply(tx)
		trade, ok := tx.(Trade)
		if !ok {
			continue
		}
		cumulative = cumulative.Add(realized)

		day := date.Of(trade.Time)
		if current == nil || current.Date != day {
			series = append(series, DailyProfit{
				Date:      day,
				Purchases: M(0, currency),
				Sales:     M(0, currency),
				Profit:    M(0, currency),
			})
			current = &series[len(series)-1]
		}
		if trade.Direction == Sell {
			current.Sales = current.Sales.Add(trade.Total())
		} else {
			current.Purchases = current.Purchases.Add(trade.Total())
		}
		current.Profit = current.Profit.Add(realized)
		current.Cumulative = cumulative
	}

	res := series[:0]
	for _, d := range series {
		if r.Contains(d.Date) {
			res = append(res, d)
		}
	}
	return res
}
