package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/money"
)

// Weight is one person's basis for a proportional allocation, normally
// their item subtotal.
type Weight struct {
	Person string
	Amount decimal.Decimal
}

// Allocation is one person's part of an aggregate amount.
type Allocation struct {
	Person string

	// Amount is the settled, cent-exact share.
	Amount decimal.Decimal

	// Exact is the unrounded proportional share.
	Exact decimal.Decimal

	// Correction is the residual added to this person to make the
	// allocations sum to the aggregate. Zero for everyone but at most one person.
	Correction decimal.Decimal
}

// Allocate distributes amount across people in proportion to their weights.
//
// Each exact share amount*weight/sum(weights) is rounded to the cent. Whatever
// the rounded shares are short of (or over) the amount is given in full to the
// single person whose share lost the most to rounding; ties go to whoever comes
// first in weights. That person is skipped if taking the residual would flip
// the sign of their share. The returned allocations are in weights order and
// sum to amount exactly.
func Allocate(amount decimal.Decimal, weights []Weight) ([]Allocation, error) {
	if err := money.CheckRange(amount); err != nil {
		return nil, &ValidationError{Kind: KindMalformedInput, Message: fmt.Sprintf("amount: %v", err)}
	}
	if !amount.Equal(money.Round(amount)) {
		return nil, &ValidationError{Kind: KindMalformedInput, Message: fmt.Sprintf("amount %s has fractional cents", amount)}
	}

	total := decimal.Zero
	for _, w := range weights {
		if err := money.CheckRange(w.Amount); err != nil {
			return nil, &ValidationError{Kind: KindMalformedInput, Message: fmt.Sprintf("weight for %q: %v", w.Person, err)}
		}
		if w.Amount.IsNegative() {
			return nil, &ValidationError{Kind: KindMalformedInput, Message: fmt.Sprintf("weight for %q is negative", w.Person)}
		}
		total = total.Add(w.Amount)
	}

	allocations := make([]Allocation, len(weights))
	for i, w := range weights {
		allocations[i] = Allocation{Person: w.Person}
	}

	if total.IsZero() {
		if !amount.IsZero() {
			return nil, &ValidationError{Kind: KindDegenerateWeights, Message: fmt.Sprintf("cannot distribute %s across zero total weight", amount)}
		}
		return allocations, nil
	}

	allocated := decimal.Zero
	for i, w := range weights {
		exact := money.Ratio(amount, w.Amount, total)
		allocations[i].Exact = exact
		allocations[i].Amount = money.Round(exact)
		allocated = allocated.Add(allocations[i].Amount)
	}

	diff := money.Round(amount.Sub(allocated))
	if diff.IsZero() {
		return allocations, nil
	}

	idx := absorber(allocations, diff)
	allocations[idx].Amount = allocations[idx].Amount.Add(diff)
	allocations[idx].Correction = diff

	return allocations, nil
}

// absorber picks who takes the residual diff: the allocation whose rounding
// moved it furthest from its exact share, earliest index on a tie. Anyone who
// would end up on the other side of zero from their exact share is passed
// over for the next in line, unless nobody can take diff that way.
func absorber(allocations []Allocation, diff decimal.Decimal) int {
	order := make([]int, len(allocations))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		devA := allocations[order[a]].Exact.Sub(allocations[order[a]].Amount).Abs()
		devB := allocations[order[b]].Exact.Sub(allocations[order[b]].Amount).Abs()
		return devA.GreaterThan(devB)
	})

	for _, i := range order {
		after := allocations[i].Amount.Add(diff)
		if after.Sign() == 0 || after.Sign() == allocations[i].Exact.Sign() {
			return i
		}
	}
	return order[0]
}

// Total sums the settled amounts.
func Total(allocations []Allocation) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range allocations {
		sum = sum.Add(a.Amount)
	}
	return sum
}
