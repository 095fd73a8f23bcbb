package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/money"
)

// Reconciliation compares a finalized split against the total printed on
// the receipt. The engine never adjusts a split to match; a mismatch means the
// extracted numbers disagree with each other.
type Reconciliation struct {
	// Valid is true if the split total is within one cent of the receipt total.
	Valid bool

	// SplitTotal is the sum of every person's total.
	SplitTotal decimal.Decimal

	// ReceiptTotal is the total as extracted from the receipt.
	ReceiptTotal decimal.Decimal

	// Difference is SplitTotal - ReceiptTotal.
	Difference decimal.Decimal

	// Reason explains a mismatch (empty if valid).
	Reason string
}

// Reconcile checks that the people's totals add up to the receipt total.
func Reconcile(result *Result, receiptTotal decimal.Decimal) *Reconciliation {
	splitTotal := money.Round(result.Total())
	if err := money.CheckRange(receiptTotal); err != nil {
		return &Reconciliation{
			SplitTotal: splitTotal,
			Reason:     fmt.Sprintf("receipt total is unusable: %v", err),
		}
	}
	expected := money.Round(receiptTotal)
	diff := splitTotal.Sub(expected)

	rec := &Reconciliation{
		Valid:        diff.Abs().LessThanOrEqual(money.Cent),
		SplitTotal:   splitTotal,
		ReceiptTotal: expected,
		Difference:   diff,
	}
	if rec.Valid {
		return rec
	}

	if diff.IsNegative() {
		rec.Reason = fmt.Sprintf("split total (%s) is %s less than the receipt total (%s); an item, tax or tip may be missing",
			money.Format(splitTotal), money.Format(diff.Neg()), money.Format(expected))
	} else {
		rec.Reason = fmt.Sprintf("split total (%s) exceeds the receipt total (%s) by %s; an item may be duplicated or a discount missing",
			money.Format(splitTotal), money.Format(expected), money.Format(diff))
	}
	return rec
}
