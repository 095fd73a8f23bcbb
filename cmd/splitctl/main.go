// Command splitctl splits an extracted receipt from the command line.
//
//	splitctl -receipt receipt.json -assign people.yaml [-format table|csv]
//
// The receipt is the JSON produced by the extraction pipeline. The exit
// status is 2 for bad usage, 3 when the split is rejected and 1 for any
// other failure.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/export"
	"github.com/mmynk/receiptsplit/internal/extraction"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/pkg/logging"
)

const (
	exitFailure  = 1
	exitUsage    = 2
	exitRejected = 3
)

func main() {
	receiptPath := flag.String("receipt", "", "extraction JSON file (- for stdin)")
	assignPath := flag.String("assign", "", "YAML file assigning items to people")
	formatFlag := flag.String("format", "table", "output format: table or csv")
	strict := flag.Bool("strict", false, "fail when the split does not add up to the receipt total")
	verbose := flag.Bool("v", false, "log debug output to stderr")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetupWithLevel(level)

	if *receiptPath == "" || *assignPath == "" {
		flag.Usage()
		os.Exit(exitUsage)
	}
	format, err := export.ParseFormat(*formatFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	os.Exit(run(os.Stdout, *receiptPath, *assignPath, format, *strict))
}

func run(w io.Writer, receiptPath, assignPath string, format export.Format, strict bool) int {
	receipt, err := loadReceipt(receiptPath)
	if err != nil {
		return report(err)
	}
	data, err := os.ReadFile(assignPath)
	if err != nil {
		return report(err)
	}
	assignments, err := parseAssignments(data)
	if err != nil {
		return report(err)
	}

	calcReceipt, err := buildReceipt(receipt, assignments)
	if err != nil {
		return report(err)
	}
	result, err := calculator.Finalize(calcReceipt)
	if err != nil {
		return report(err)
	}
	for _, adj := range result.Adjustments {
		slog.Debug("Residual absorbed", "aggregate", adj.Aggregate, "person", adj.Person, "amount", adj.Amount.String())
	}

	split := models.NewSplitResult(result, "", "")
	header := export.Header{Store: receipt.Store, Date: receipt.Date, Currency: receipt.Currency}
	if err := export.Write(w, format, header, split); err != nil {
		return report(err)
	}

	rec := calculator.Reconcile(result, receipt.Total)
	if !rec.Valid {
		fmt.Fprintf(os.Stderr, "warning: %s\n", rec.Reason)
		if strict {
			return exitRejected
		}
	}
	return 0
}

func loadReceipt(path string) (*models.Receipt, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return extraction.Parse(data)
}

func report(err error) int {
	fmt.Fprintln(os.Stderr, "error:", err)
	var verr *calculator.ValidationError
	if errors.As(err, &verr) {
		return exitRejected
	}
	return exitFailure
}
