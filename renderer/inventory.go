// Package renderer turns desk reports into markdown.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/goldesk"
	md "github.com/nao1215/markdown"
)

// InventoryMarkdown renders the positions of an inventory, catalog products
// first.
func InventoryMarkdown(inv *goldesk.Inventory) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Inventory")

	states := inv.States()
	if len(states) == 0 {
		doc.PlainText("No stock recorded.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Product", "Opening", "Traded", "Quantity", "Fine Gold (g)", "Avg. Cost", "Value", "Realized"},
	}
	var negatives []string
	for _, s := range states {
		qty := fmt.Sprintf("%s %s", s.Quantity, s.Product.Unit)
		if s.Negative() {
			qty = md.Bold(qty)
			negatives = append(negatives, fmt.Sprintf("%s is short by %s %s", s.Product.Name, s.Quantity.Neg(), s.Product.Unit))
		}
		table.Rows = append(table.Rows, []string{
			s.Product.Name,
			s.Opened.String(),
			s.Traded.String(),
			qty,
			s.FineGold().StringFixed(3),
			s.AverageCost.String(),
			s.Value().String(),
			s.RealizedProfit.SignedString(),
		})
	}
	table.Rows = append(table.Rows, []string{
		md.Bold("Total"),
		"",
		"",
		"",
		md.Bold(inv.TotalFineGold().StringFixed(3)),
		"",
		md.Bold(inv.TotalValue().String()),
		md.Bold(inv.TotalRealized().SignedString()),
	})
	doc.Table(table)

	if len(negatives) > 0 {
		doc.H2("Negative Stock")
		doc.BulletList(negatives...)
	}
	return doc.String()
}

// OpeningsMarkdown renders the outcome of a stock sheet ingestion.
func OpeningsMarkdown(r goldesk.OpeningReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Recorded %d opening rows", len(r.Recorded)))
	if len(r.Recorded) > 0 {
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
			Header:    []string{"Product", "Quantity", "Unit Cost"},
		}
		for _, o := range r.Recorded {
			table.Rows = append(table.Rows, []string{o.Product, o.Quantity.String(), o.UnitCost.String()})
		}
		doc.Table(table)
	}
	rejected(doc, r.Rejected)
	return doc.String()
}
