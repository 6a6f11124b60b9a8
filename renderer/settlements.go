package renderer

import (
	"bytes"

	"github.com/etnz/goldesk"
	md "github.com/nao1215/markdown"
)

// SettlementsMarkdown renders a list of bank legs under title.
func SettlementsMarkdown(title string, legs []goldesk.PaymentLeg) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)
	if len(legs) == 0 {
		doc.PlainText("Nothing to settle.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Settles", "Bank", "Booked", "Gross", "Fee", "Net"},
	}
	total := goldesk.Money{}
	for _, l := range legs {
		table.Rows = append(table.Rows, []string{
			l.SettlesOn().String(),
			l.Bank,
			l.Time.Format("2006-01-02 15:04"),
			l.Gross.String(),
			l.Fee().Round().String(),
			l.SignedNet().Round().SignedString(),
		})
		total = total.Add(l.SignedNet())
	}
	table.Rows = append(table.Rows, []string{md.Bold("Total"), "", "", "", "", md.Bold(total.Round().SignedString())})
	doc.Table(table)
	return doc.String()
}

// AdvancesMarkdown renders card-to-cash advances with their spread.
func AdvancesMarkdown(advances []goldesk.Advance) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Cash Advances")
	if len(advances) == 0 {
		doc.PlainText("No cash advance recorded.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Booked", "Bank", "Charged", "Fee", "Cash Given", "Spread"},
	}
	for _, a := range advances {
		table.Rows = append(table.Rows, []string{
			a.Card.Time.Format("2006-01-02 15:04"),
			a.Card.Bank,
			a.Card.Gross.String(),
			a.Card.Fee().Round().String(),
			a.Cash.Gross.String(),
			a.Spread().Round().SignedString(),
		})
	}
	doc.Table(table)
	return doc.String()
}
