package models

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/calculator"
)

// SplitResult is the finalized split of one receipt.
// It is written once per finalize and replaced, never edited, by the next.
type SplitResult struct {
	// ID is the unique identifier for this result (UUID format).
	ID string

	// ReceiptID is the receipt this result splits. A receipt has at most
	// one result at a time.
	ReceiptID string

	// UserID is the user who finalized the split.
	UserID string

	// People holds each person's totals, ordered by first assignment.
	People []PersonSplit

	// Items is the per-item breakdown, in receipt order.
	Items []ItemSplit

	// CreatedAt is the Unix timestamp when the split was finalized.
	CreatedAt int64
}

// NewSplitResult converts an engine result into a SplitResult for the given
// receipt. ID and CreatedAt are left for the store to fill in.
func NewSplitResult(result *calculator.Result, receiptID, userID string) *SplitResult {
	people := make([]PersonSplit, len(result.People))
	for i, p := range result.People {
		people[i] = PersonSplit{
			Person:     p.Person,
			ItemsTotal: p.ItemsTotal,
			Tax:        p.Tax,
			Tip:        p.Tip,
			Discount:   p.Discount,
			Total:      p.Total,
		}
	}

	items := make([]ItemSplit, len(result.Items))
	for i, rec := range result.Items {
		shares := make([]ItemShare, len(rec.Shares))
		for j, s := range rec.Shares {
			shares[j] = ItemShare{Person: s.Person, Amount: s.Amount}
		}
		items[i] = ItemSplit{ItemName: rec.ItemName, Price: rec.Price, Shares: shares}
	}

	return &SplitResult{
		ReceiptID: receiptID,
		UserID:    userID,
		People:    people,
		Items:     items,
	}
}

// Total sums every person's total.
func (r *SplitResult) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range r.People {
		sum = sum.Add(p.Total)
	}
	return sum
}

// PersonSplit represents one person's share of a receipt.
type PersonSplit struct {
	// Person is the free-text name used in the assignments.
	Person string

	// ItemsTotal is the sum of this person's item shares.
	ItemsTotal decimal.Decimal

	// Tax, Tip and Discount are this person's proportional shares.
	Tax      decimal.Decimal
	Tip      decimal.Decimal
	Discount decimal.Decimal

	// Total is ItemsTotal + Tax + Tip - Discount.
	Total decimal.Decimal
}

// ItemSplit is the breakdown of one line item among its assignees.
type ItemSplit struct {
	ItemName string
	Price    decimal.Decimal
	Shares   []ItemShare // sums to Price
}

// ItemShare is one person's portion of an item.
type ItemShare struct {
	Person string
	Amount decimal.Decimal
}

// SplitSummary is the history-list view of a split.
type SplitSummary struct {
	ID          string
	ReceiptID   string
	Store       string
	Date        string
	Total       decimal.Decimal
	PeopleCount int
	CreatedAt   int64
}
