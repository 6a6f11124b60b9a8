package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/etnz/goldesk"
	"github.com/etnz/goldesk/date"
	"github.com/google/subcommands"
	"github.com/xuri/excelize/v2"
)

// --- Init Command ---

type initCmd struct {
	force bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create the desk configuration file" }
func (*initCmd) Usage() string {
	return `gds init [-force]

  Writes desk.yaml in the data folder with the default catalog and margin
  rules. Edit it to declare banks, opening cash and to tune the margins.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Overwrite an existing configuration")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := ConfigPath()
	if _, err := os.Stat(path); err == nil && !c.force {
		fmt.Fprintf(os.Stderr, "Error: %s already exists, use -force to overwrite it\n", path)
		return subcommands.ExitFailure
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		return subcommands.ExitFailure
	}
	if err := os.MkdirAll(Home(), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating data folder: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := goldesk.DefaultConfig().SaveConfig(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Configuration written to %s\n", path)
	return subcommands.ExitSuccess
}

// --- Export Command ---

type exportCmd struct {
	output string
	start  string
	date   string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export inventory, daily profit and payments to a spreadsheet" }
func (*exportCmd) Usage() string {
	return `gds export [-o <file.xlsx>] [-s <start_date>] [-d <end_date>]

  Writes an xlsx workbook with three sheets: the inventory at the end date,
  the daily profit series of the range and the payment legs of the range.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "goldesk.xlsx", "Output file")
	f.StringVar(&c.start, "s", "", "Start date of the range, defaults to the first record")
	f.StringVar(&c.date, "d", "", "End date of the range, defaults to today")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	end, err := parseDay(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}
	r := date.Range{To: end}
	if c.start != "" {
		if r.From, err = date.Parse(c.start); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	return withDesk(ctx, func(d *goldesk.Desk) subcommands.ExitStatus {
		wb, err := exportWorkbook(d, r)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building workbook: %v\n", err)
			return subcommands.ExitFailure
		}
		defer wb.Close()
		if err := wb.SaveAs(c.output); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Exported to %s\n", c.output)
		return subcommands.ExitSuccess
	})
}

// Sheet names of the exported workbook.
const (
	inventorySheet = "Inventory"
	dailySheet     = "Daily"
	paymentsSheet  = "Payments"
)

// exportWorkbook builds the workbook of the desk over r.
func exportWorkbook(d *goldesk.Desk, r date.Range) (*excelize.File, error) {
	wb := excelize.NewFile()
	if err := wb.SetSheetName("Sheet1", inventorySheet); err != nil {
		return nil, err
	}
	for _, name := range []string{dailySheet, paymentsSheet} {
		if _, err := wb.NewSheet(name); err != nil {
			return nil, err
		}
	}

	inv := d.InventorySnapshot(endOfDay(r.To))
	rows := [][]any{{"Code", "Product", "Opening", "Traded", "Quantity", "Fine Gold (g)", "Average Cost", "Value", "Realized"}}
	for _, s := range inv.States() {
		rows = append(rows, []any{
			s.Product.Code,
			s.Product.Name,
			s.Opened.Decimal().InexactFloat64(),
			s.Traded.Decimal().InexactFloat64(),
			s.Quantity.Decimal().InexactFloat64(),
			s.FineGold().Decimal().InexactFloat64(),
			amount(s.AverageCost),
			amount(s.Value()),
			amount(s.RealizedProfit),
		})
	}
	rows = append(rows, []any{"Total", "", "", "", "", inv.TotalFineGold().Decimal().InexactFloat64(), "", amount(inv.TotalValue()), amount(inv.TotalRealized())})
	if err := setRows(wb, inventorySheet, rows); err != nil {
		return nil, err
	}

	rows = [][]any{{"Date", "Purchases", "Sales", "Profit", "Cumulative"}}
	for _, day := range d.DailyProfitSeries(r) {
		rows = append(rows, []any{day.Date.String(), amount(day.Purchases), amount(day.Sales), amount(day.Profit), amount(day.Cumulative)})
	}
	if err := setRows(wb, dailySheet, rows); err != nil {
		return nil, err
	}

	rows = [][]any{{"Time", "Method", "Flow", "Bank", "Gross", "Fee", "Net", "Settles", "Sale", "Advance", "Memo"}}
	legs := slices.Collect(d.Ledger.Legs())
	for _, l := range legs {
		if !r.Contains(date.Of(l.Time)) {
			continue
		}
		rows = append(rows, []any{
			l.Time.Format("2006-01-02 15:04"),
			string(l.Method),
			string(l.Flow),
			l.Bank,
			amount(l.Gross),
			amount(l.Fee()),
			amount(l.Net()),
			l.SettlesOn().String(),
			l.SaleID,
			l.AdvanceID,
			l.Memo,
		})
	}
	if err := setRows(wb, paymentsSheet, rows); err != nil {
		return nil, err
	}
	return wb, nil
}

func amount(m goldesk.Money) float64 { return m.Round().Decimal().InexactFloat64() }

// setRows writes rows to sheet, starting at A1.
func setRows(wb *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	return nil
}
