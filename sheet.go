package goldesk

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// QuoteRow is a parsed line of a pasted price sheet.
type QuoteRow struct {
	Line int
	Name string
	Buy  decimal.Decimal
	Sell decimal.Decimal
}

// RowError reports a sheet line that could not be parsed.
type RowError struct {
	Line int
	Raw  string
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Raw, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// ParseNumber parses a number written with either ',' or '.' as decimal
// separator and the other one as thousands grouping.
//
//	"5.924,87" -> 5924.87
//	"5924,87"  -> 5924.87
//	"5,924.87" -> 5924.87
//	"1.234.567" -> 1234567
func ParseNumber(s string) (decimal.Decimal, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero, errors.New("empty number")
	}

	commas, dots := strings.Count(s, ","), strings.Count(s, ".")
	switch {
	case commas > 0 && dots > 0:
		// The separator written last is the decimal one.
		decimalSep, groupSep := ",", "."
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			decimalSep, groupSep = ".", ","
		}
		if strings.Count(s, decimalSep) > 1 {
			return decimal.Zero, fmt.Errorf("ambiguous number %q", s)
		}
		s = strings.ReplaceAll(s, groupSep, "")
		s = strings.Replace(s, decimalSep, ".", 1)
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	case dots > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number %q", s)
	}
	return d, nil
}

// splitRow splits a sheet line on tabs, semicolons or commas, in that order
// of preference.
func splitRow(line string) []string {
	sep := ","
	switch {
	case strings.Contains(line, "\t"):
		sep = "\t"
	case strings.Contains(line, ";"):
		sep = ";"
	}
	parts := strings.Split(line, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseSheet calls parse on every non-empty line of text. Lines starting with
// '#' are comments. Lines parse rejects are reported with their line number
// and raw text.
func parseSheet[T any](text string, parse func(line int, s string) (T, error)) ([]T, []RowError) {
	var rows []T
	var rejects []RowError

	scanner := bufio.NewScanner(strings.NewReader(text))
	i := 0
	for scanner.Scan() {
		i++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		row, err := parse(i, line)
		if err != nil {
			rejects = append(rejects, RowError{Line: i, Raw: raw, Err: err})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rejects
}

// ParseQuoteSheet parses "name,buy,sell" lines. Valid rows are returned in
// order, every other non-empty line is reported individually. Lines starting
// with '#' are comments.
func ParseQuoteSheet(text string) ([]QuoteRow, []RowError) {
	return parseSheet(text, func(line int, s string) (QuoteRow, error) {
		row, err := parseQuoteRow(s)
		row.Line = line
		return row, err
	})
}

// StockRow is a parsed line of a pasted stock count.
type StockRow struct {
	Line     int
	Raw      string
	Product  string          // code or display name
	Quantity decimal.Decimal // positive
	UnitCost decimal.Decimal // zero when the row has no cost
}

// ParseStockSheet parses "product,quantity[,unit cost]" lines the way
// ParseQuoteSheet parses quotes. Products are not resolved.
func ParseStockSheet(text string) ([]StockRow, []RowError) {
	return parseSheet(text, func(line int, s string) (StockRow, error) {
		parts := splitRow(s)
		if len(parts) != 2 && len(parts) != 3 {
			return StockRow{}, fmt.Errorf("%w: want product,quantity[,cost] got %d fields", ErrInvalid, len(parts))
		}
		row := StockRow{Line: line, Raw: s, Product: parts[0]}
		if row.Product == "" {
			return row, fmt.Errorf("%w: missing product", ErrInvalid)
		}
		var err error
		if row.Quantity, err = ParseNumber(parts[1]); err != nil {
			return row, fmt.Errorf("%w: quantity: %v", ErrInvalid, err)
		}
		if !row.Quantity.IsPositive() {
			return row, fmt.Errorf("%w: quantity must be positive", ErrInvalid)
		}
		if len(parts) == 3 {
			if row.UnitCost, err = ParseNumber(parts[2]); err != nil {
				return row, fmt.Errorf("%w: cost: %v", ErrInvalid, err)
			}
			if row.UnitCost.IsNegative() {
				return row, fmt.Errorf("%w: negative cost", ErrInvalid)
			}
		}
		return row, nil
	})
}

func parseQuoteRow(line string) (QuoteRow, error) {
	parts := splitRow(line)
	if len(parts) != 3 {
		return QuoteRow{}, fmt.Errorf("%w: want 3 fields name,buy,sell got %d", ErrInvalid, len(parts))
	}
	name := parts[0]
	if name == "" {
		return QuoteRow{}, fmt.Errorf("%w: missing name", ErrInvalid)
	}
	buy, err := ParseNumber(parts[1])
	if err != nil {
		return QuoteRow{}, fmt.Errorf("%w: buy: %v", ErrInvalid, err)
	}
	sell, err := ParseNumber(parts[2])
	if err != nil {
		return QuoteRow{}, fmt.Errorf("%w: sell: %v", ErrInvalid, err)
	}
	if buy.IsNegative() || sell.IsNegative() {
		return QuoteRow{}, fmt.Errorf("%w: negative price", ErrInvalid)
	}
	return QuoteRow{Name: name, Buy: buy, Sell: sell}, nil
}
