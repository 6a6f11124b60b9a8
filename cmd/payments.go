package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/goldesk"
	"github.com/etnz/goldesk/renderer"
	"github.com/google/subcommands"
)

// --- Pay Command ---

type payCmd struct {
	time   string
	method string
	bank   string
	amount string
	flow   string
	sale   string
	memo   string
}

func (*payCmd) Name() string     { return "pay" }
func (*payCmd) Synopsis() string { return "record a payment leg in cash, by bank transfer or by card" }
func (*payCmd) Usage() string {
	return `gds pay -method cash|transfer|card -a <amount> [-flow in|out] [-bank <bank>] [-sale <trade id>] [-t <time>] [-m <memo>]

  Records one leg of a payment. A trade may be paid with several legs, each
  linked with -sale. Card legs settle on the bank after its settlement delay,
  net of its card fee.
`
}

func (c *payCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.time, "t", "", "Payment time (YYYY-MM-DD HH:MM), defaults to now")
	f.StringVar(&c.method, "method", "cash", "Payment method: cash, transfer or card")
	f.StringVar(&c.bank, "bank", "", "Bank, required for card payments")
	f.StringVar(&c.amount, "a", "", "Gross amount")
	f.StringVar(&c.flow, "flow", "in", "in when the desk receives money, out when it pays")
	f.StringVar(&c.sale, "sale", "", "ID of the trade this leg pays for")
	f.StringVar(&c.memo, "m", "", "An optional note")
}

func (c *payCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	method, err := goldesk.ParseMethod(c.method)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	flow, err := goldesk.ParseFlow(c.flow)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	at, err := parseTime(c.time)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		gross, err := parseMoney(c.amount, d.Config.Currency)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
			return subcommands.ExitUsageError
		}
		leg, err := d.RecordPayment(ctx, goldesk.NewPayment(at, method, c.bank, gross, flow, c.sale, c.memo))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error recording payment: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(renderer.Record(leg))
		return subcommands.ExitSuccess
	})
}

// --- Card Command ---

type cardCmd struct {
	time   string
	bank   string
	amount string
	sale   string
	memo   string
}

func (*cardCmd) Name() string     { return "card" }
func (*cardCmd) Synopsis() string { return "record a card payment received through a bank" }
func (*cardCmd) Usage() string {
	return `gds card -bank <bank> -a <amount> [-sale <trade id>] [-t <time>] [-m <memo>]

  Records a card payment. The bank's current card fee and settlement delay
  are frozen on the payment: the net amount becomes available on the bank
  account on the settlement date.
`
}

func (c *cardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.time, "t", "", "Payment time (YYYY-MM-DD HH:MM), defaults to now")
	f.StringVar(&c.bank, "bank", "", "Bank of the card terminal")
	f.StringVar(&c.amount, "a", "", "Gross amount charged")
	f.StringVar(&c.sale, "sale", "", "ID of the sale this payment is for")
	f.StringVar(&c.memo, "m", "", "An optional note")
}

func (c *cardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.bank == "" || c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	at, err := parseTime(c.time)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		gross, err := parseMoney(c.amount, d.Config.Currency)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
			return subcommands.ExitUsageError
		}
		leg, err := d.RecordCardLeg(ctx, at, c.bank, gross, goldesk.Inflow, c.sale, c.memo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error recording card payment: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(renderer.Record(leg))
		return subcommands.ExitSuccess
	})
}

// --- Advance Command ---

type advanceCmd struct {
	time   string
	bank   string
	cash   string
	markup string
	memo   string
}

func (*advanceCmd) Name() string     { return "advance" }
func (*advanceCmd) Synopsis() string { return "give cash against a card charge" }
func (*advanceCmd) Usage() string {
	return `gds advance -bank <bank> -cash <amount> [-markup <percent>] [-t <time>] [-m <memo>]

  Records a card-to-cash advance: the customer's card is charged the cash
  given plus the markup, at the bank's cash advance fee, and the cash leaves
  the drawer. The spread is the charge, minus the fee, minus the cash.
`
}

func (c *advanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.time, "t", "", "Time (YYYY-MM-DD HH:MM), defaults to now")
	f.StringVar(&c.bank, "bank", "", "Bank of the card terminal")
	f.StringVar(&c.cash, "cash", "", "Cash given to the customer")
	f.StringVar(&c.markup, "markup", "0", "Markup charged on the card, in percent of the cash")
	f.StringVar(&c.memo, "m", "", "An optional note")
}

func (c *advanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.bank == "" || c.cash == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	at, err := parseTime(c.time)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
		return subcommands.ExitUsageError
	}
	markup, err := parsePercent(c.markup)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing markup: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		cash, err := parseMoney(c.cash, d.Config.Currency)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing cash: %v\n", err)
			return subcommands.ExitUsageError
		}
		a, err := d.RecordCashAdvance(ctx, at, c.bank, cash, markup, c.memo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error recording advance: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.AdvancesMarkdown([]goldesk.Advance{a}))
		return subcommands.ExitSuccess
	})
}

// --- Transfer Command ---

type transferCmd struct {
	time   string
	kind   string
	bank   string
	amount string
	memo   string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between the cash drawer and a bank" }
func (*transferCmd) Usage() string {
	return `gds transfer -type deposit|withdraw -bank <bank> -a <amount> [-t <time>] [-m <memo>]

  Records a deposit of cash to a bank (cash-to-bank) or a withdrawal from a
  bank to the drawer (bank-to-cash). Transfers have no fee and no delay.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.time, "t", "", "Time (YYYY-MM-DD HH:MM), defaults to now")
	f.StringVar(&c.kind, "type", "", "deposit (cash-to-bank) or withdraw (bank-to-cash)")
	f.StringVar(&c.bank, "bank", "", "Bank")
	f.StringVar(&c.amount, "a", "", "Amount")
	f.StringVar(&c.memo, "m", "", "An optional note")
}

func (c *transferCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.kind == "" || c.bank == "" || c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	kind, err := goldesk.ParseTransferType(c.kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	at, err := parseTime(c.time)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		amount, err := parseMoney(c.amount, d.Config.Currency)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
			return subcommands.ExitUsageError
		}
		t := goldesk.NewTransfer(at, kind, c.bank, amount, c.memo)
		if err := d.RecordTransfer(ctx, t); err != nil {
			fmt.Fprintf(os.Stderr, "Error recording transfer: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(renderer.Record(t))
		return subcommands.ExitSuccess
	})
}
