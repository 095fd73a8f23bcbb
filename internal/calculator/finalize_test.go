package calculator

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFinalize(t *testing.T) {
	tests := []struct {
		name         string
		receipt      Receipt
		wantErr      Kind
		validateFunc func(t *testing.T, res *Result)
	}{
		{
			name: "simple two-person split with tax",
			receipt: Receipt{
				Items: []LineItem{
					{Name: "Pizza", Price: d("20.00"), AssignedTo: []string{"Alice", "Bob"}},
					{Name: "Salad", Price: d("10.00"), AssignedTo: []string{"Alice"}},
				},
				Tax: d("3.00"),
			},
			validateFunc: func(t *testing.T, res *Result) {
				// Alice: items 10 + 10 = 20, tax 20/30 * 3 = 2, total 22
				// Bob: items 10, tax 1, total 11
				expectPerson(t, res, "Alice", "20.00", "2.00", "0", "0", "22.00")
				expectPerson(t, res, "Bob", "10.00", "1.00", "0", "0", "11.00")
			},
		},
		{
			name: "tax, tip and discount with an odd cent",
			receipt: Receipt{
				Items: []LineItem{
					{Name: "Nachos", Price: d("20.00"), AssignedTo: []string{"Alice", "Bob", "Carol"}},
					{Name: "Burger", Price: d("7.50"), AssignedTo: []string{"Bob"}},
				},
				Tax:      d("2.20"),
				Tip:      d("5.00"),
				Discount: d("1.00"),
			},
			validateFunc: func(t *testing.T, res *Result) {
				expectPerson(t, res, "Alice", "6.67", "0.54", "1.21", "0.24", "8.18")
				expectPerson(t, res, "Bob", "14.17", "1.13", "2.58", "0.52", "17.36")
				expectPerson(t, res, "Carol", "6.66", "0.53", "1.21", "0.24", "8.16")
				if !res.Total().Equal(d("33.70")) {
					t.Errorf("result total = %s, want 33.70", res.Total())
				}
				if len(res.Adjustments) != 1 {
					t.Fatalf("adjustments = %v, want exactly one", res.Adjustments)
				}
				adj := res.Adjustments[0]
				if adj.Aggregate != AggregateTax || adj.Person != "Alice" || !adj.Amount.Equal(d("0.01")) {
					t.Errorf("adjustment = %+v, want tax/Alice/0.01", adj)
				}
			},
		},
		{
			name: "people ordered by first assignment",
			receipt: Receipt{
				Items: []LineItem{
					{Name: "Beer", Price: d("6.00"), AssignedTo: []string{"Carol"}},
					{Name: "Wings", Price: d("12.00"), AssignedTo: []string{"Alice", "Carol"}},
					{Name: "Fries", Price: d("4.00"), AssignedTo: []string{"Bob"}},
				},
			},
			validateFunc: func(t *testing.T, res *Result) {
				var got []string
				for _, p := range res.People {
					got = append(got, p.Person)
				}
				want := []string{"Carol", "Alice", "Bob"}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("people order = %v, want %v", got, want)
				}
			},
		},
		{
			name: "no tax, tip or discount leaves totals equal to item totals",
			receipt: Receipt{
				Items: []LineItem{
					{Name: "Pizza", Price: d("10.00"), AssignedTo: []string{"A", "B", "C"}},
					{Name: "Soda", Price: d("2.99"), AssignedTo: []string{"B"}},
				},
			},
			validateFunc: func(t *testing.T, res *Result) {
				for _, p := range res.People {
					if !p.Total.Equal(p.ItemsTotal) {
						t.Errorf("%s total = %s, want items total %s", p.Person, p.Total, p.ItemsTotal)
					}
				}
				expectPerson(t, res, "C", "3.34", "0", "0", "0", "3.34")
				if len(res.Adjustments) != 0 {
					t.Errorf("expected no adjustments, got %v", res.Adjustments)
				}
			},
		},
		{
			name:    "unassigned item",
			receipt: Receipt{Items: []LineItem{{Name: "Pizza", Price: d("10.00"), AssignedTo: []string{"A"}}, {Name: "Dessert", Price: d("6.00")}}},
			wantErr: KindUnassignedItem,
		},
		{
			name:    "negative price",
			receipt: Receipt{Items: []LineItem{{Name: "Pizza", Price: d("-10.00"), AssignedTo: []string{"A"}}}},
			wantErr: KindMalformedInput,
		},
		{
			name: "negative tip",
			receipt: Receipt{
				Items: []LineItem{{Name: "Pizza", Price: d("10.00"), AssignedTo: []string{"A"}}},
				Tip:   d("-1.00"),
			},
			wantErr: KindMalformedInput,
		},
		{
			name: "tip with a huge exponent",
			receipt: Receipt{
				Items: []LineItem{{Name: "Pizza", Price: d("10.00"), AssignedTo: []string{"A"}}},
				Tip:   decimal.New(1, 900000000),
			},
			wantErr: KindMalformedInput,
		},
		{
			name: "tax on free items only",
			receipt: Receipt{
				Items: []LineItem{{Name: "Water", Price: d("0"), AssignedTo: []string{"A", "B"}}},
				Tax:   d("0.50"),
			},
			wantErr: KindDegenerateWeights,
		},
		{
			name:    "empty receipt",
			receipt: Receipt{},
			validateFunc: func(t *testing.T, res *Result) {
				if len(res.People) != 0 || len(res.Items) != 0 {
					t.Errorf("expected empty result, got %+v", res)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Finalize(tt.receipt)
			if tt.wantErr != "" {
				if KindOf(err) != tt.wantErr {
					t.Fatalf("Finalize() error = %v, want kind %s", err, tt.wantErr)
				}
				if res != nil {
					t.Errorf("Finalize() returned a partial result alongside an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Finalize() unexpected error: %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, res)
			}
		})
	}
}

func TestFinalize_UnassignedItemNamed(t *testing.T) {
	res, err := Finalize(Receipt{
		Items: []LineItem{
			{Name: "Pizza", Price: d("12.00"), AssignedTo: []string{"Alice"}},
			{Name: "Tiramisu", Price: d("8.00")},
			{Name: "Coffee", Price: d("3.00")},
		},
		Tax: d("1.00"),
	})
	if res != nil {
		t.Fatalf("expected no result, got %+v", res)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Kind != KindUnassignedItem {
		t.Errorf("kind = %s, want %s", verr.Kind, KindUnassignedItem)
	}
	if verr.Item != "Tiramisu" {
		t.Errorf("item = %q, want the first unassigned item %q", verr.Item, "Tiramisu")
	}
}

func TestFinalize_Idempotent(t *testing.T) {
	receipt := randomReceipt(rand.New(rand.NewSource(99)))

	first, err := Finalize(receipt)
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	second, err := Finalize(receipt)
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Finalize() is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestFinalize_DoesNotModifyInput(t *testing.T) {
	receipt := Receipt{
		Items: []LineItem{
			{Name: "Fries", Price: d("5.00"), AssignedTo: []string{"Alice", "Bob", "Alice"}},
		},
		Tax: d("0.40"),
	}
	if _, err := Finalize(receipt); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(receipt.Items[0].AssignedTo, []string{"Alice", "Bob", "Alice"}) {
		t.Errorf("assignments were modified: %v", receipt.Items[0].AssignedTo)
	}
}

// Every invariant must hold on arbitrary receipts: item shares sum to the
// item price, each aggregate is fully distributed, and the people's totals
// add up to items + tax + tip - discount.
func TestFinalize_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))

	for i := 0; i < 500; i++ {
		receipt := randomReceipt(rng)
		res, err := Finalize(receipt)
		if err != nil {
			t.Fatalf("Finalize() error: %v", err)
		}

		itemsSum := decimal.Zero
		for j, rec := range res.Items {
			sum := decimal.Zero
			for _, s := range rec.Shares {
				sum = sum.Add(s.Amount)
			}
			if !sum.Equal(receipt.Items[j].Price) {
				t.Fatalf("item %q shares sum to %s, want %s", rec.ItemName, sum, receipt.Items[j].Price)
			}
			itemsSum = itemsSum.Add(receipt.Items[j].Price)
		}

		var tax, tip, discount, items decimal.Decimal
		for _, p := range res.People {
			tax = tax.Add(p.Tax)
			tip = tip.Add(p.Tip)
			discount = discount.Add(p.Discount)
			items = items.Add(p.ItemsTotal)
			if p.ItemsTotal.IsNegative() || p.Tax.IsNegative() || p.Tip.IsNegative() || p.Discount.IsNegative() {
				t.Fatalf("negative field in %+v", p)
			}
		}
		if !tax.Equal(receipt.Tax) || !tip.Equal(receipt.Tip) || !discount.Equal(receipt.Discount) {
			t.Fatalf("aggregates not fully distributed: tax %s/%s tip %s/%s discount %s/%s",
				tax, receipt.Tax, tip, receipt.Tip, discount, receipt.Discount)
		}
		if !items.Equal(itemsSum) {
			t.Fatalf("items totals sum to %s, want %s", items, itemsSum)
		}

		want := itemsSum.Add(receipt.Tax).Add(receipt.Tip).Sub(receipt.Discount)
		if !res.Total().Equal(want) {
			t.Fatalf("people totals sum to %s, want %s", res.Total(), want)
		}
	}
}

func randomReceipt(rng *rand.Rand) Receipt {
	people := []string{"Alice", "Bob", "Carol", "Dan", "Erin", "Frank"}
	n := 1 + rng.Intn(8)
	items := make([]LineItem, n)
	subtotal := decimal.Zero
	for i := range items {
		k := 1 + rng.Intn(len(people))
		perm := rng.Perm(len(people))[:k]
		assigned := make([]string, k)
		for j, idx := range perm {
			assigned[j] = people[idx]
		}
		price := decimal.New(100+rng.Int63n(5000), -2)
		subtotal = subtotal.Add(price)
		items[i] = LineItem{Name: "item", Price: price, AssignedTo: assigned}
	}
	// Aggregates stay at a dollar or more so the residual is always smaller
	// than somebody's share.
	discount := decimal.Zero
	if maxCents := subtotal.Shift(2).IntPart() / 10; maxCents > 100 && rng.Intn(2) == 0 {
		discount = decimal.New(100+rng.Int63n(maxCents-100), -2)
	}
	return Receipt{
		Items:    items,
		Tax:      decimal.New(100+rng.Int63n(1500), -2),
		Tip:      decimal.New(100+rng.Int63n(2500), -2),
		Discount: discount,
	}
}

func expectPerson(t *testing.T, res *Result, name, items, tax, tip, discount, total string) {
	t.Helper()
	p, ok := res.Person(name)
	if !ok {
		t.Fatalf("missing split for %s", name)
	}
	check := func(field string, got decimal.Decimal, want string) {
		if !got.Equal(d(want)) {
			t.Errorf("%s %s = %s, want %s", name, field, got, want)
		}
	}
	check("items total", p.ItemsTotal, items)
	check("tax", p.Tax, tax)
	check("tip", p.Tip, tip)
	check("discount", p.Discount, discount)
	check("total", p.Total, total)
}
