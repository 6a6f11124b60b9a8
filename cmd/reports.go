package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/goldesk"
	"github.com/etnz/goldesk/date"
	"github.com/etnz/goldesk/renderer"
	"github.com/google/subcommands"
)

// --- Inventory Command ---

type inventoryCmd struct {
	output
	date string
}

func (*inventoryCmd) Name() string     { return "inventory" }
func (*inventoryCmd) Synopsis() string { return "display stock on hand, average costs and realized profit" }
func (*inventoryCmd) Usage() string {
	return `gds inventory [-d <date>] [-json] [-path <jsonpath>]

  Replays every trade up to the end of the day and displays, per product,
  the quantity on hand, its fine gold weight, the weighted-average cost and
  the realized profit. Negative stock is flagged.
`
}

func (c *inventoryCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.StringVar(&c.date, "d", "", "Report date, defaults to all trades")
}

func (c *inventoryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var until time.Time
	if c.date != "" {
		day, err := date.Parse(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		until = endOfDay(day)
	}
	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		inv := d.InventorySnapshot(until)
		return c.print(renderer.InventoryMarkdown(inv), newInventoryView(inv, d.Config.Currency))
	})
}

// --- Daily Command ---

type dailyCmd struct {
	output
	period string
	start  string
	date   string
}

func (*dailyCmd) Name() string     { return "daily" }
func (*dailyCmd) Synopsis() string { return "display purchases, sales and profit per day" }
func (*dailyCmd) Usage() string {
	return `gds daily [-p <period> | -s <start_date>] [-d <end_date>] [-json] [-path <jsonpath>]

  Displays one row per day with trades: total purchases, total sales, the
  profit realized that day and the cumulative profit since the first trade.
`
}

func (c *dailyCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.StringVar(&c.period, "p", "month", "Predefined period (day, week, month, quarter, year).")
	f.StringVar(&c.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&c.date, "d", "", "The end date of the range (defaults to today).")
}

func (c *dailyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	end, err := parseDay(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}
	var r date.Range
	if c.start != "" {
		start, err := date.Parse(c.start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
		r = date.Range{From: start, To: end}
	} else {
		period, err := date.ParsePeriod(c.period)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
			return subcommands.ExitUsageError
		}
		r = date.NewRange(end, period)
		r.To = end
	}
	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		series := d.DailyProfitSeries(r)
		return c.print(renderer.DailyMarkdown(series), newDailyView(r, series))
	})
}

// --- Cash Command ---

type cashCmd struct {
	output
}

func (*cashCmd) Name() string     { return "cash" }
func (*cashCmd) Synopsis() string { return "display the cash drawer balance" }
func (*cashCmd) Usage() string {
	return `gds cash [-json] [-path <jsonpath>]

  Displays the cash drawer balance: opening cash, plus cash received, minus
  cash paid, plus withdrawals from banks, minus deposits to banks.
`
}

func (c *cashCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		today := date.Today()
		cash := d.CashBalance()
		return c.print(renderer.BalancesMarkdown(today, cash, nil), balancesView{On: today, Cash: cash})
	})
}

// --- Bank Command ---

type bankCmd struct {
	output
	date string
}

func (*bankCmd) Name() string     { return "bank" }
func (*bankCmd) Synopsis() string { return "display bank balances, settled and with pending card payments" }
func (*bankCmd) Usage() string {
	return `gds bank [-d <date>] [<bank>...] [-json] [-path <jsonpath>]

  Displays, for each bank, the balance available on the date and the balance
  once every pending card payment has settled. All banks by default.
`
}

func (c *bankCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.StringVar(&c.date, "d", "", "Balance date, defaults to today")
}

func (c *bankCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDay(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		names := f.Args()
		if len(names) == 0 {
			names = d.Config.Banks.Names()
		}
		var balances []renderer.BankBalance
		view := balancesView{On: on, Cash: d.CashBalance()}
		for _, name := range names {
			settled, err := d.BankBalance(name, on, false)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
			pending, err := d.BankBalance(name, on, true)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
			b, _ := d.Config.Banks.Bank(name)
			balances = append(balances, renderer.BankBalance{Bank: b.Name, Settled: settled, WithPending: pending})
			view.Banks = append(view.Banks, bankView{Bank: b.Name, Available: settled, WithPending: pending})
		}
		return c.print(renderer.BalancesMarkdown(on, view.Cash, balances), view)
	})
}

// --- Pending Command ---

type pendingCmd struct {
	output
	date string
}

func (*pendingCmd) Name() string     { return "pending" }
func (*pendingCmd) Synopsis() string { return "list card payments not yet settled" }
func (*pendingCmd) Usage() string {
	return `gds pending [-d <date>] [-json] [-path <jsonpath>]

  Lists the card payments booked on or before the date that settle after it.
`
}

func (c *pendingCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.StringVar(&c.date, "d", "", "Reference date, defaults to today")
}

func (c *pendingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDay(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		legs := d.PendingSettlements(on)
		title := fmt.Sprintf("Pending Settlements on %s", on)
		return c.print(renderer.SettlementsMarkdown(title, legs), newLegViews(legs))
	})
}

// --- Settlements Command ---

type settlementsCmd struct {
	output
	date string
}

func (*settlementsCmd) Name() string     { return "settlements" }
func (*settlementsCmd) Synopsis() string { return "list card payments settling on a day, and the cash advances" }
func (*settlementsCmd) Usage() string {
	return `gds settlements [-d <date>] [-json] [-path <jsonpath>]

  Lists the card payments whose net amount reaches the bank on the date, and
  every card-to-cash advance with its spread.
`
}

func (c *settlementsCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.StringVar(&c.date, "d", "", "Settlement date, defaults to today")
}

func (c *settlementsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDay(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		legs := d.TodaysSettlements(on)
		advances := d.Advances()
		md := renderer.SettlementsMarkdown(fmt.Sprintf("Settlements on %s", on), legs) +
			"\n" + renderer.AdvancesMarkdown(advances)
		view := struct {
			On          date.Date     `json:"on"`
			Settlements []legView     `json:"settlements"`
			Advances    []advanceView `json:"advances"`
		}{on, newLegViews(legs), newAdvanceViews(advances)}
		return c.print(md, view)
	})
}
