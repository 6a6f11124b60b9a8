package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/etnz/goldesk"
	"github.com/etnz/goldesk/renderer"
	"github.com/google/subcommands"
)

// --- Quote Command ---

type quoteCmd struct {
	time   string
	source string
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "record market quotes, one or a whole pasted sheet" }
func (*quoteCmd) Usage() string {
	return `gds quote [-t <time>] [-source <source>] [<name> <buy> <sell>]

  Records the buy and sell prices quoted for a name. Without arguments, a
  price sheet is read from stdin, one "name,buy,sell" row per line. Tabs or
  semicolons are accepted as separators, and both "9.516,00" and "9516.00"
  are valid prices. All valid rows are recorded under the same time, the
  rejected ones are reported.

Usage Examples:
$ gds quote "Gram Altın" 4980 5010
$ pbpaste | gds quote
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.time, "t", "", "Quote time (YYYY-MM-DD HH:MM), defaults to now")
	f.StringVar(&c.source, "source", "", "Quote source, defaults to the configured one")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 && f.NArg() != 3 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	at, err := parseTime(c.time)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		if c.source != "" {
			d.Config.QuoteSource = strings.ToUpper(c.source)
		}
		if f.NArg() == 0 {
			return c.ingest(ctx, d, os.Stdin, at)
		}
		cur := d.Config.Currency
		buy, err := parseMoney(f.Arg(1), cur)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing buy price: %v\n", err)
			return subcommands.ExitUsageError
		}
		sell, err := parseMoney(f.Arg(2), cur)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing sell price: %v\n", err)
			return subcommands.ExitUsageError
		}
		q := goldesk.Quote{Name: f.Arg(0), Buy: buy, Sell: sell, Time: at}
		if err := d.RecordQuote(ctx, q); err != nil {
			fmt.Fprintf(os.Stderr, "Error recording quote: %v\n", err)
			return subcommands.ExitFailure
		}
		q.Source = d.Config.QuoteSource
		fmt.Println(renderer.Record(q))
		return subcommands.ExitSuccess
	})
}

func (c *quoteCmd) ingest(ctx context.Context, d *goldesk.Desk, r io.Reader, at time.Time) subcommands.ExitStatus {
	text, err := io.ReadAll(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading price sheet: %v\n", err)
		return subcommands.ExitFailure
	}
	report, err := d.IngestQuotes(ctx, string(text), at)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording quotes: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.IngestMarkdown(report))
	if len(report.Recorded) == 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// --- Quotes Command ---

type quotesCmd struct {
	output
	tail int
	name string
}

func (*quotesCmd) Name() string     { return "quotes" }
func (*quotesCmd) Synopsis() string { return "list recorded quotes" }
func (*quotesCmd) Usage() string {
	return `gds quotes [-name <name>] [-tail <n>] [-json] [-path <jsonpath>]

  Lists the recorded quotes, oldest first.
`
}

func (c *quotesCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.IntVar(&c.tail, "tail", 20, "Show only the last N quotes, 0 for all")
	f.StringVar(&c.name, "name", "", "Show only quotes of this name (case insensitive)")
}

func (c *quotesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		var quotes []goldesk.Quote
		for q := range d.Ledger.Quotes() {
			if c.name == "" || goldesk.SameName(q.Name, c.name) {
				quotes = append(quotes, q)
			}
		}
		if c.tail > 0 && len(quotes) > c.tail {
			quotes = quotes[len(quotes)-c.tail:]
		}
		views := []quoteView{}
		for _, q := range quotes {
			views = append(views, quoteView{Source: q.Source, Name: q.Name, Buy: q.Buy, Sell: q.Sell, Time: q.Time})
		}
		return c.print(renderer.QuotesMarkdown(quotes), views)
	})
}

// --- Suggest Command ---

type suggestCmd struct {
	output
	direction string
}

func (*suggestCmd) Name() string     { return "suggest" }
func (*suggestCmd) Synopsis() string { return "suggest buy and sell prices from the latest quotes" }
func (*suggestCmd) Usage() string {
	return `gds suggest [-dir buy|sell] [<product>...]

  Prints the suggested unit prices of the products, all of the catalog by
  default. A product whose aliases were never quoted has no suggestion.
`
}

func (c *suggestCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.StringVar(&c.direction, "dir", "", "Only this direction (buy or sell)")
}

func (c *suggestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	directions := []goldesk.Direction{goldesk.Buy, goldesk.Sell}
	if c.direction != "" {
		dir, err := goldesk.ParseDirection(c.direction)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		directions = []goldesk.Direction{dir}
	}

	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		codes := f.Args()
		if len(codes) == 0 {
			codes = d.Config.Catalog.Codes()
		}
		var suggestions []goldesk.Suggestion
		views := []suggestionView{}
		status := subcommands.ExitSuccess
		for _, code := range codes {
			for _, dir := range directions {
				s, err := d.SuggestedPrice(code, dir)
				if errors.Is(err, goldesk.ErrNoQuote) {
					fmt.Fprintf(os.Stderr, "%s: no suggestion available\n", code)
					break
				}
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					status = subcommands.ExitFailure
					break
				}
				suggestions = append(suggestions, s)
				views = append(views, suggestionView{
					Product:   s.Product.Code,
					Direction: s.Direction,
					Price:     s.Price,
					Base:      s.Base,
					Quote:     s.Quote.Name,
					QuotedAt:  s.Quote.Time,
				})
			}
		}
		if len(suggestions) == 0 {
			return subcommands.ExitFailure
		}
		if st := c.print(renderer.SuggestionMarkdown(suggestions), views); st != subcommands.ExitSuccess {
			return st
		}
		return status
	})
}
