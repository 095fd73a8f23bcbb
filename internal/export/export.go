// Package export renders a finalized split for people to read: as a
// fixed-width text table for terminals, or as CSV for spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/money"
)

// Format selects an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
)

// ParseFormat maps a user-supplied name to a Format. The empty string means
// FormatTable.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want table or csv)", s)
	}
}

// ContentType is the MIME type of the format's output.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "text/plain"
}

// Header describes the receipt a split belongs to.
type Header struct {
	Store    string
	Date     string
	Currency string
}

// Write renders result in the given format.
func Write(w io.Writer, f Format, h Header, result *models.SplitResult) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, result)
	case FormatTable:
		return WriteTable(w, h, result)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

var columns = []string{"Person", "Items", "Tax", "Tip", "Discount", "Total"}

// WriteCSV writes one row per person followed by a TOTAL row. Amounts are
// plain two-decimal numbers without currency symbols.
func WriteCSV(w io.Writer, result *models.SplitResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, p := range result.People {
		if err := cw.Write(personRow(p, money.Format)); err != nil {
			return err
		}
	}
	if err := cw.Write(totalRow(result, money.Format)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable writes a per-person summary table followed by the per-item
// breakdown.
func WriteTable(w io.Writer, h Header, result *models.SplitResult) error {
	symbol := h.Currency
	if symbol == "" {
		symbol = "$"
	}
	format := func(d decimal.Decimal) string { return money.FormatWithSymbol(d, symbol) }

	if title := strings.TrimSpace(h.Store + " " + h.Date); title != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", title); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	writeRow := func(cells []string) {
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	writeRow(columns)
	for _, p := range result.People {
		writeRow(personRow(p, format))
	}
	writeRow(totalRow(result, format))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(result.Items) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, item := range result.Items {
		shares := make([]string, len(item.Shares))
		for i, s := range item.Shares {
			shares[i] = fmt.Sprintf("%s %s", s.Person, format(s.Amount))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.ItemName, format(item.Price), strings.Join(shares, ", "))
	}
	return tw.Flush()
}

func personRow(p models.PersonSplit, format func(decimal.Decimal) string) []string {
	return []string{p.Person, format(p.ItemsTotal), format(p.Tax), format(p.Tip), format(p.Discount), format(p.Total)}
}

func totalRow(result *models.SplitResult, format func(decimal.Decimal) string) []string {
	var sum models.PersonSplit
	for _, p := range result.People {
		sum.ItemsTotal = sum.ItemsTotal.Add(p.ItemsTotal)
		sum.Tax = sum.Tax.Add(p.Tax)
		sum.Tip = sum.Tip.Add(p.Tip)
		sum.Discount = sum.Discount.Add(p.Discount)
		sum.Total = sum.Total.Add(p.Total)
	}
	sum.Person = "TOTAL"
	return personRow(sum, format)
}
