package cmd

import (
	"time"

	"github.com/etnz/goldesk"
	"github.com/etnz/goldesk/date"
)

// JSON views of the reports, amounts are bare decimals in the desk currency.

type stockView struct {
	Product     string           `json:"product"`
	Name        string           `json:"name"`
	Opened      goldesk.Quantity `json:"opened"`
	Traded      goldesk.Quantity `json:"traded"`
	Quantity    goldesk.Quantity `json:"quantity"`
	FineGold    goldesk.Quantity `json:"fine_gold"`
	AverageCost goldesk.Money    `json:"average_cost"`
	Value       goldesk.Money    `json:"value"`
	Realized    goldesk.Money    `json:"realized"`
	Negative    bool             `json:"negative,omitempty"`
}

type inventoryView struct {
	Currency string           `json:"currency"`
	Stock    []stockView      `json:"stock"`
	FineGold goldesk.Quantity `json:"fine_gold"`
	Value    goldesk.Money    `json:"value"`
	Realized goldesk.Money    `json:"realized"`
}

func newInventoryView(inv *goldesk.Inventory, currency string) inventoryView {
	v := inventoryView{
		Currency: currency,
		Stock:    []stockView{},
		FineGold: inv.TotalFineGold(),
		Value:    inv.TotalValue(),
		Realized: inv.TotalRealized(),
	}
	for _, s := range inv.States() {
		v.Stock = append(v.Stock, stockView{
			Product:     s.Product.Code,
			Name:        s.Product.Name,
			Opened:      s.Opened,
			Traded:      s.Traded,
			Quantity:    s.Quantity,
			FineGold:    s.FineGold(),
			AverageCost: s.AverageCost.Round(),
			Value:       s.Value().Round(),
			Realized:    s.RealizedProfit.Round(),
			Negative:    s.Negative(),
		})
	}
	return v
}

type dayView struct {
	Date       date.Date     `json:"date"`
	Purchases  goldesk.Money `json:"purchases"`
	Sales      goldesk.Money `json:"sales"`
	Profit     goldesk.Money `json:"profit"`
	Cumulative goldesk.Money `json:"cumulative"`
}

type dailyView struct {
	From date.Date `json:"from"`
	To   date.Date `json:"to"`
	Rows []dayView `json:"rows"`
}

func newDailyView(r date.Range, series []goldesk.DailyProfit) dailyView {
	v := dailyView{From: r.From, To: r.To, Rows: []dayView{}}
	for _, d := range series {
		v.Rows = append(v.Rows, dayView{
			Date:       d.Date,
			Purchases:  d.Purchases.Round(),
			Sales:      d.Sales.Round(),
			Profit:     d.Profit.Round(),
			Cumulative: d.Cumulative.Round(),
		})
	}
	return v
}

type bankView struct {
	Bank        string        `json:"bank"`
	Available   goldesk.Money `json:"available"`
	WithPending goldesk.Money `json:"with_pending"`
}

type balancesView struct {
	On    date.Date     `json:"on"`
	Cash  goldesk.Money `json:"cash"`
	Banks []bankView    `json:"banks,omitempty"`
}

type legView struct {
	ID       string          `json:"id"`
	Time     time.Time       `json:"time"`
	Method   goldesk.Method  `json:"method"`
	Flow     goldesk.Flow    `json:"flow"`
	Bank     string          `json:"bank,omitempty"`
	Gross    goldesk.Money   `json:"gross"`
	Fee      goldesk.Money   `json:"fee"`
	Net      goldesk.Money   `json:"net"`
	Settles  date.Date       `json:"settles"`
	Sale     string          `json:"sale,omitempty"`
	Advance  string          `json:"advance,omitempty"`
	Rate     goldesk.Percent `json:"fee_percent"`
	Currency string          `json:"currency"`
}

func newLegViews(legs []goldesk.PaymentLeg) []legView {
	views := []legView{}
	for _, l := range legs {
		views = append(views, legView{
			ID:       l.ID,
			Time:     l.Time,
			Method:   l.Method,
			Flow:     l.Flow,
			Bank:     l.Bank,
			Gross:    l.Gross,
			Fee:      l.Fee().Round(),
			Net:      l.Net().Round(),
			Settles:  l.SettlesOn(),
			Sale:     l.SaleID,
			Advance:  l.AdvanceID,
			Rate:     l.FeePercent,
			Currency: l.Gross.Currency(),
		})
	}
	return views
}

type advanceView struct {
	ID     string        `json:"id"`
	Bank   string        `json:"bank"`
	Charge goldesk.Money `json:"charged"`
	Fee    goldesk.Money `json:"fee"`
	Cash   goldesk.Money `json:"cash"`
	Spread goldesk.Money `json:"spread"`
}

func newAdvanceViews(advances []goldesk.Advance) []advanceView {
	views := []advanceView{}
	for _, a := range advances {
		views = append(views, advanceView{
			ID:     a.ID,
			Bank:   a.Card.Bank,
			Charge: a.Card.Gross,
			Fee:    a.Card.Fee().Round(),
			Cash:   a.Cash.Gross,
			Spread: a.Spread().Round(),
		})
	}
	return views
}

type suggestionView struct {
	Product   string            `json:"product"`
	Direction goldesk.Direction `json:"direction"`
	Price     goldesk.Money     `json:"price"`
	Base      goldesk.Money     `json:"base"`
	Quote     string            `json:"quote"`
	QuotedAt  time.Time         `json:"quoted_at"`
}

type quoteView struct {
	Source string        `json:"source"`
	Name   string        `json:"name"`
	Buy    goldesk.Money `json:"buy"`
	Sell   goldesk.Money `json:"sell"`
	Time   time.Time     `json:"time"`
}
