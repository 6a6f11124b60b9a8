package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/goldesk"
	"github.com/etnz/goldesk/date"
	md "github.com/nao1215/markdown"
)

// BankBalance is the balance of one bank, settled and including pending legs.
type BankBalance struct {
	Bank        string
	Settled     goldesk.Money
	WithPending goldesk.Money
}

// BalancesMarkdown renders the drawer and bank balances on a day.
func BalancesMarkdown(on date.Date, cash goldesk.Money, banks []BankBalance) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Balances on %s", on))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Account", "Available", "Incl. Pending"},
		Rows: [][]string{
			{"Cash drawer", cash.String(), cash.String()},
		},
	}
	for _, b := range banks {
		table.Rows = append(table.Rows, []string{b.Bank, b.Settled.String(), b.WithPending.String()})
	}
	doc.Table(table)
	return doc.String()
}
