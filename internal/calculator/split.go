package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/money"
)

// LineItem represents a single priced entry on the receipt together with the
// people it is assigned to, in assignment order.
type LineItem struct {
	Name       string
	Price      decimal.Decimal
	AssignedTo []string
}

// Share is one person's portion of a line item.
type Share struct {
	Person string
	Amount decimal.Decimal
}

// ItemSplitRecord is the itemized breakdown of one line item.
// Shares are in assignment order and always sum to Price.
type ItemSplitRecord struct {
	ItemName string
	Price    decimal.Decimal
	Shares   []Share
}

// ShareOf returns the amount assigned to person, or zero.
func (r ItemSplitRecord) ShareOf(person string) decimal.Decimal {
	for _, s := range r.Shares {
		if s.Person == person {
			return s.Amount
		}
	}
	return decimal.Zero
}

// SplitItem divides an item's price among its assignees.
//
// Everyone but the last assignee gets price/n rounded to the cent; the last
// assignee gets whatever is left, so the shares always add back up to the
// price. For tiny prices where rounding up would leave the last assignee a
// negative remainder, the other shares are rounded down instead. A name
// listed more than once on the same item counts once, at its first position.
func SplitItem(item LineItem) (ItemSplitRecord, error) {
	if err := validateItem(item); err != nil {
		return ItemSplitRecord{}, err
	}

	people := uniquePeople(item.AssignedTo)
	n := len(people)
	exact := money.Split(item.Price, n)
	share := money.Round(exact)
	if share.Mul(decimal.NewFromInt(int64(n - 1))).GreaterThan(item.Price) {
		// Rounding up n-1 times would overdraw the price; round down instead.
		share = exact.Truncate(money.Places)
	}

	shares := make([]Share, n)
	remaining := item.Price
	for i, person := range people {
		amount := share
		if i == n-1 {
			amount = remaining
		}
		shares[i] = Share{Person: person, Amount: amount}
		remaining = remaining.Sub(amount)
	}

	return ItemSplitRecord{
		ItemName: item.Name,
		Price:    item.Price,
		Shares:   shares,
	}, nil
}

func validateItem(item LineItem) error {
	if len(item.AssignedTo) == 0 {
		return unassigned(item.Name)
	}
	if err := checkAmount(item.Name, "price", item.Price); err != nil {
		return err
	}
	for _, person := range item.AssignedTo {
		if person == "" {
			return malformed(item.Name, "assigned person has an empty name")
		}
	}
	return nil
}

// checkAmount rejects an amount that is out of range, negative or has
// fractional cents. The range check runs first so that rounding and error
// messages only ever see receipt-sized numbers.
func checkAmount(item, field string, amount decimal.Decimal) error {
	if err := money.CheckRange(amount); err != nil {
		return malformed(item, "%s: %v", field, err)
	}
	if amount.IsNegative() {
		return malformed(item, "%s %s is negative", field, amount)
	}
	if !amount.Equal(money.Round(amount)) {
		return malformed(item, "%s %s has fractional cents", field, amount)
	}
	return nil
}

func uniquePeople(assigned []string) []string {
	seen := make(map[string]bool, len(assigned))
	people := make([]string, 0, len(assigned))
	for _, p := range assigned {
		if seen[p] {
			continue
		}
		seen[p] = true
		people = append(people, p)
	}
	return people
}
