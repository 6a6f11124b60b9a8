package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/goldesk"
	md "github.com/nao1215/markdown"
)

// QuotesMarkdown renders quotes, in the given order.
func QuotesMarkdown(quotes []goldesk.Quote) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Quotes")
	if len(quotes) == 0 {
		doc.PlainText("No quote recorded.")
		return doc.String()
	}
	doc.Table(quoteTable(quotes))
	return doc.String()
}

func quoteTable(quotes []goldesk.Quote) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Time", "Source", "Name", "Buy", "Sell"},
	}
	for _, q := range quotes {
		table.Rows = append(table.Rows, []string{
			q.Time.Format("2006-01-02 15:04"),
			q.Source,
			q.Name,
			q.Buy.String(),
			q.Sell.String(),
		})
	}
	return table
}

// IngestMarkdown renders the outcome of a quote sheet ingestion.
func IngestMarkdown(r goldesk.IngestReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Recorded %d quotes", len(r.Recorded)))
	if len(r.Recorded) > 0 {
		doc.Table(quoteTable(r.Recorded))
	}
	rejected(doc, r.Rejected)
	return doc.String()
}

// rejected lists the rejected rows of a pasted sheet.
func rejected(doc *md.Markdown, errs []goldesk.RowError) {
	if len(errs) == 0 {
		return
	}
	doc.H2(fmt.Sprintf("Rejected %d rows", len(errs)))
	var rows []string
	for _, e := range errs {
		rows = append(rows, fmt.Sprintf("line %d `%s`: %v", e.Line, e.Raw, e.Err))
	}
	doc.BulletList(rows...)
}

// SuggestionMarkdown renders suggested prices, with the quote they come from.
func SuggestionMarkdown(suggestions []goldesk.Suggestion) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Suggested Prices")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Product", "Side", "Price", "Base", "Quote"},
	}
	for _, s := range suggestions {
		table.Rows = append(table.Rows, []string{
			s.Product.Name,
			string(s.Direction),
			md.Bold(s.Price.String()),
			s.Base.String(),
			fmt.Sprintf("%s %s at %s", s.Quote.Source, s.Quote.Name, s.Quote.Time.Format("2006-01-02 15:04")),
		})
	}
	doc.Table(table)
	return doc.String()
}
