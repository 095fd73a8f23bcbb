package models

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/calculator"
)

// Receipt represents a receipt after extraction.
type Receipt struct {
	// ID is the unique identifier for the receipt (UUID format).
	ID string

	// UserID is the owner of the receipt, as issued by the auth service.
	UserID string

	// Store is the merchant name. Users may correct it when finalizing.
	Store string

	// Date is the purchase date as printed (free-form, usually YYYY-MM-DD).
	Date string

	// Items are the line items in the order they appear on the receipt.
	// Assignments refer to items by their index in this slice.
	Items []Item

	// Tax, Tip and Discount are receipt-level amounts. Discount is a positive
	// magnitude that reduces what people owe.
	Tax      decimal.Decimal
	Tip      decimal.Decimal
	Discount decimal.Decimal

	// Total is the total printed on the receipt. It is for display and
	// reconciliation only; splits are never forced to match it.
	Total decimal.Decimal

	// Currency is the currency symbol shown with amounts (default "$").
	Currency string

	// CreatedAt is the Unix timestamp when the receipt was stored.
	CreatedAt int64
}

// Item represents a single line item on a receipt.
type Item struct {
	Name  string
	Price decimal.Decimal
}

// ItemAssignment gives the item at ItemIndex to People, in assignment order.
type ItemAssignment struct {
	ItemIndex int
	People    []string
}

// Assign pairs the receipt's items with their assignments and returns the
// engine input. Items with no assignment are left unassigned so that
// calculator.Finalize reports them. An index outside Items or one that is
// assigned twice is MALFORMED_INPUT.
func (r *Receipt) Assign(assignments []ItemAssignment) (calculator.Receipt, error) {
	assigned := make([][]string, len(r.Items))
	seen := make([]bool, len(r.Items))
	for _, a := range assignments {
		if a.ItemIndex < 0 || a.ItemIndex >= len(r.Items) {
			return calculator.Receipt{}, &calculator.ValidationError{
				Kind:    calculator.KindMalformedInput,
				Message: fmt.Sprintf("assignment for item index %d, receipt has %d items", a.ItemIndex, len(r.Items)),
			}
		}
		if seen[a.ItemIndex] {
			return calculator.Receipt{}, &calculator.ValidationError{
				Kind:    calculator.KindMalformedInput,
				Item:    r.Items[a.ItemIndex].Name,
				Message: fmt.Sprintf("item index %d is assigned more than once", a.ItemIndex),
			}
		}
		seen[a.ItemIndex] = true
		assigned[a.ItemIndex] = a.People
	}

	items := make([]calculator.LineItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = calculator.LineItem{Name: item.Name, Price: item.Price, AssignedTo: assigned[i]}
	}
	return calculator.Receipt{
		Items:    items,
		Tax:      r.Tax,
		Tip:      r.Tip,
		Discount: r.Discount,
	}, nil
}
