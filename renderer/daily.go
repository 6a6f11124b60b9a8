package renderer

import (
	"bytes"

	"github.com/etnz/goldesk"
	md "github.com/nao1215/markdown"
)

// DailyMarkdown renders the daily profit series.
func DailyMarkdown(series []goldesk.DailyProfit) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Daily Profit")
	if len(series) == 0 {
		doc.PlainText("No trade in this period.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Purchases", "Sales", "Profit", "Cumulative"},
	}
	for _, d := range series {
		table.Rows = append(table.Rows, []string{
			d.Date.String(),
			d.Purchases.String(),
			d.Sales.String(),
			d.Profit.SignedString(),
			d.Cumulative.SignedString(),
		})
	}
	doc.Table(table)
	return doc.String()
}
