package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/etnz/goldesk"
	"github.com/etnz/goldesk/renderer"
	"github.com/google/subcommands"
)

// tradeCmd holds the flags shared by 'buy' and 'sell'.
type tradeCmd struct {
	direction goldesk.Direction
	time      string
	product   string
	quantity  string
	price     string
	pay       string
	bank      string
	memo      string
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.time, "t", "", "Trade time (YYYY-MM-DD HH:MM), defaults to now")
	f.StringVar(&c.product, "p", "", "Product code")
	f.StringVar(&c.quantity, "q", "", "Quantity, in pieces or grams depending on the product")
	f.StringVar(&c.price, "price", "", "Unit price, defaults to the suggested price")
	f.StringVar(&c.pay, "pay", "", "Also record the payment of the total: cash, transfer or card")
	f.StringVar(&c.bank, "bank", "", "Bank of the payment, for transfer and card")
	f.StringVar(&c.memo, "m", "", "An optional note for the trade")
}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.product == "" || c.quantity == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	at, err := parseTime(c.time)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
		return subcommands.ExitUsageError
	}
	qty, err := parseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}
	var method goldesk.Method
	if c.pay != "" {
		if method, err = goldesk.ParseMethod(c.pay); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		var price goldesk.Money
		if c.price != "" {
			if price, err = parseMoney(c.price, d.Config.Currency); err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing price: %v\n", err)
				return subcommands.ExitUsageError
			}
		} else {
			s, err := d.SuggestedPrice(c.product, c.direction)
			if errors.Is(err, goldesk.ErrNoQuote) {
				fmt.Fprintf(os.Stderr, "Error: no suggestion available for %s, use -price\n", c.product)
				return subcommands.ExitFailure
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
			price = s.Price
		}

		tx := goldesk.NewTrade(at, c.product, c.direction, qty, price, c.memo)
		if method == "" {
			warnings, err := d.RecordTrade(ctx, tx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error recording %s: %v\n", c.direction, err)
				return subcommands.ExitFailure
			}
			tx, _ = d.Ledger.Trade(tx.ID)
			fmt.Println(renderer.Record(tx))
			printWarnings(warnings)
			return subcommands.ExitSuccess
		}

		tx, leg, warnings, err := d.RecordPaidTrade(ctx, tx, method, c.bank)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error recording %s: %v\n", c.direction, err)
			return subcommands.ExitFailure
		}
		fmt.Println(renderer.Record(tx))
		fmt.Println(renderer.Record(leg))
		printWarnings(warnings)
		return subcommands.ExitSuccess
	})
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}

// --- Buy Command ---

type buyCmd struct{ tradeCmd }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy gold from a customer" }
func (*buyCmd) Usage() string {
	return `gds buy -p <product> -q <quantity> [-price <unit price>] [-pay cash|transfer|card [-bank <bank>]] [-t <time>] [-m <memo>]

  Records a purchase from a customer. The weighted-average cost of the product
  is updated. Without -price, the suggested buy price is used. A price above
  the suggestion is recorded with a warning.
`
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	c.direction = goldesk.Buy
	return c.tradeCmd.Execute(ctx, f, args...)
}

// --- Sell Command ---

type sellCmd struct{ tradeCmd }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell gold to a customer" }
func (*sellCmd) Usage() string {
	return `gds sell -p <product> -q <quantity> [-price <unit price>] [-pay cash|transfer|card [-bank <bank>]] [-t <time>] [-m <memo>]

  Records a sale to a customer and realizes the profit against the average
  cost. Without -price, the suggested sell price is used. A price below the
  suggestion is recorded with a warning.
`
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	c.direction = goldesk.Sell
	return c.tradeCmd.Execute(ctx, f, args...)
}

// --- Opening Command ---

type openingCmd struct {
	time     string
	product  string
	quantity string
	cost     string
	memo     string
}

func (*openingCmd) Name() string     { return "opening" }
func (*openingCmd) Synopsis() string { return "declare stock on hand when starting the desk" }
func (*openingCmd) Usage() string {
	return `gds opening [-t <time>] [-m <memo>] [-p <product> -q <quantity> -cost <unit cost>]

  Declares opening stock at a unit cost. It counts in the average cost like a
  purchase, without any payment.

  Without -p, a stock count is read from stdin, one "product,quantity" or
  "product,quantity,unit cost" row per line. Products are named by code or by
  name. A row without a cost is valued at zero. All valid rows are recorded,
  the rejected ones are reported.

Usage Examples:
$ gds opening -p CEYREK -q 12 -cost 8000
$ printf 'Çeyrek Altın,12\n24 Ayar Gram;150,5;4950\n' | gds opening
`
}

func (c *openingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.time, "t", "", "Time (YYYY-MM-DD HH:MM), defaults to now")
	f.StringVar(&c.product, "p", "", "Product code, omit to read a stock count from stdin")
	f.StringVar(&c.quantity, "q", "", "Quantity on hand")
	f.StringVar(&c.cost, "cost", "", "Unit cost")
	f.StringVar(&c.memo, "m", "", "An optional note")
}

func (c *openingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sheet := c.product == "" && c.quantity == "" && c.cost == ""
	if !sheet && (c.product == "" || c.quantity == "" || c.cost == "") {
		f.Usage()
		return subcommands.ExitUsageError
	}
	at, err := parseTime(c.time)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
		return subcommands.ExitUsageError
	}
	if sheet {
		return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
			return c.ingest(ctx, d, os.Stdin, at)
		})
	}
	qty, err := parseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		cost, err := parseMoney(c.cost, d.Config.Currency)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing cost: %v\n", err)
			return subcommands.ExitUsageError
		}
		o := goldesk.NewOpening(at, c.product, qty, cost, c.memo)
		if err := d.RecordOpening(ctx, o); err != nil {
			fmt.Fprintf(os.Stderr, "Error recording opening: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(renderer.Record(o))
		return subcommands.ExitSuccess
	})
}

func (c *openingCmd) ingest(ctx context.Context, d *goldesk.Desk, r io.Reader, at time.Time) subcommands.ExitStatus {
	text, err := io.ReadAll(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading stock count: %v\n", err)
		return subcommands.ExitFailure
	}
	report, err := d.IngestOpenings(ctx, string(text), at, c.memo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording opening stock: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.OpeningsMarkdown(report))
	if len(report.Recorded) == 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// --- Adjust Command ---

type adjustCmd struct {
	time     string
	product  string
	quantity string
	counted  string
	memo     string
}

func (*adjustCmd) Name() string     { return "adjust" }
func (*adjustCmd) Synopsis() string { return "correct the quantity on hand after a count" }
func (*adjustCmd) Usage() string {
	return `gds adjust -p <product> (-q <delta> | -to <counted>) [-t <time>] [-m <memo>]

  Adds delta, which may be negative, to the quantity on hand. With -to, the
  delta is the difference between the counted quantity and the books at that
  time, and nothing is recorded when they match. The average cost is kept,
  no profit is realized.
`
}

func (c *adjustCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.time, "t", "", "Time (YYYY-MM-DD HH:MM), defaults to now")
	f.StringVar(&c.product, "p", "", "Product code")
	f.StringVar(&c.quantity, "q", "", "Quantity delta, negative to remove stock")
	f.StringVar(&c.counted, "to", "", "Counted quantity on hand, instead of -q")
	f.StringVar(&c.memo, "m", "", "Reason of the correction")
}

func (c *adjustCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.product == "" || (c.quantity == "") == (c.counted == "") {
		f.Usage()
		return subcommands.ExitUsageError
	}
	at, err := parseTime(c.time)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.counted != "" {
		counted, err := parseQuantity(c.counted)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing counted quantity: %v\n", err)
			return subcommands.ExitUsageError
		}
		return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
			a, ok, err := d.RecordCount(ctx, at, c.product, counted, c.memo)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error recording count: %v\n", err)
				return subcommands.ExitFailure
			}
			if !ok {
				fmt.Printf("Stock of %s already at %s, nothing recorded\n", c.product, counted)
				return subcommands.ExitSuccess
			}
			fmt.Println(renderer.Record(a))
			return subcommands.ExitSuccess
		})
	}
	delta, err := parseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		a := goldesk.NewAdjustment(at, c.product, delta, c.memo)
		if err := d.RecordAdjustment(ctx, a); err != nil {
			fmt.Fprintf(os.Stderr, "Error recording adjustment: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(renderer.Record(a))
		return subcommands.ExitSuccess
	})
}
