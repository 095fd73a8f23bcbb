package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/money"
)

// Aggregate names a receipt-level amount that is shared out proportionally.
type Aggregate string

const (
	AggregateTax      Aggregate = "tax"
	AggregateTip      Aggregate = "tip"
	AggregateDiscount Aggregate = "discount"
)

// Receipt is everything the engine needs to split one receipt.
// Discount is a positive magnitude; it is subtracted when totals are combined.
type Receipt struct {
	Items    []LineItem
	Tax      decimal.Decimal
	Tip      decimal.Decimal
	Discount decimal.Decimal
}

type aggregateAmount struct {
	kind   Aggregate
	amount decimal.Decimal
}

func (r Receipt) aggregates() []aggregateAmount {
	return []aggregateAmount{
		{AggregateTax, r.Tax},
		{AggregateTip, r.Tip},
		{AggregateDiscount, r.Discount},
	}
}

// PersonSplit is one person's share of the receipt.
type PersonSplit struct {
	Person     string
	ItemsTotal decimal.Decimal
	Tax        decimal.Decimal
	Tip        decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal
}

// Adjustment records a rounding residual absorbed by one person while
// allocating an aggregate.
type Adjustment struct {
	Aggregate Aggregate
	Person    string
	Amount    decimal.Decimal
}

// Result is the output of one finalize pass.
type Result struct {
	// People are ordered by first appearance in the item assignments.
	People []PersonSplit

	// Items are in receipt order.
	Items []ItemSplitRecord

	// Adjustments lists the residual corrections, at most one per aggregate.
	Adjustments []Adjustment
}

// Person returns the split for the given person.
func (r *Result) Person(name string) (PersonSplit, bool) {
	for _, p := range r.People {
		if p.Person == name {
			return p, true
		}
	}
	return PersonSplit{}, false
}

// Total sums every person's total.
func (r *Result) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range r.People {
		sum = sum.Add(p.Total)
	}
	return sum
}

// Finalize computes every person's share of the receipt.
//
// All items and amounts are validated before anything is computed, so an
// invalid receipt yields an error and no partial result. Items are split
// first; the resulting per-person item totals then serve as the weights for
// allocating tax, tip and discount.
func Finalize(receipt Receipt) (*Result, error) {
	if err := validateReceipt(receipt); err != nil {
		return nil, err
	}

	records := make([]ItemSplitRecord, len(receipt.Items))
	var weights []Weight
	for i, item := range receipt.Items {
		rec, err := SplitItem(item)
		if err != nil {
			return nil, err
		}
		records[i] = rec
		weights = addShares(weights, rec)
	}

	aggregates := receipt.aggregates()
	allocated := make(map[Aggregate][]Allocation, len(aggregates))
	var adjustments []Adjustment
	for _, agg := range aggregates {
		allocs, err := Allocate(agg.amount, weights)
		if err != nil {
			return nil, fmt.Errorf("allocating %s: %w", agg.kind, err)
		}
		allocated[agg.kind] = allocs
		for _, a := range allocs {
			if !a.Correction.IsZero() {
				adjustments = append(adjustments, Adjustment{Aggregate: agg.kind, Person: a.Person, Amount: a.Correction})
			}
		}
	}

	people := make([]PersonSplit, len(weights))
	for i, w := range weights {
		split := PersonSplit{
			Person:     w.Person,
			ItemsTotal: w.Amount,
			Tax:        allocated[AggregateTax][i].Amount,
			Tip:        allocated[AggregateTip][i].Amount,
			Discount:   allocated[AggregateDiscount][i].Amount,
		}
		split.Total = money.Round(split.ItemsTotal.Add(split.Tax).Add(split.Tip).Sub(split.Discount))
		people[i] = split
	}

	return &Result{
		People:      people,
		Items:       records,
		Adjustments: adjustments,
	}, nil
}

// addShares folds one item's shares into the running per-person subtotals and
// returns the new subtotals. acc is not modified.
func addShares(acc []Weight, rec ItemSplitRecord) []Weight {
	next := make([]Weight, len(acc), len(acc)+len(rec.Shares))
	copy(next, acc)
	for _, share := range rec.Shares {
		found := false
		for i := range next {
			if next[i].Person == share.Person {
				next[i].Amount = next[i].Amount.Add(share.Amount)
				found = true
				break
			}
		}
		if !found {
			next = append(next, Weight{Person: share.Person, Amount: share.Amount})
		}
	}
	return next
}

func validateReceipt(receipt Receipt) error {
	for _, item := range receipt.Items {
		if err := validateItem(item); err != nil {
			return err
		}
	}
	for _, agg := range receipt.aggregates() {
		if err := checkAmount("", string(agg.kind), agg.amount); err != nil {
			return err
		}
	}
	return nil
}
