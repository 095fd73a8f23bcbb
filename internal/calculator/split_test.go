package calculator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSplitItem(t *testing.T) {
	tests := []struct {
		name    string
		item    LineItem
		want    []Share
		wantErr Kind
	}{
		{
			name: "three-way split, last person absorbs the odd cent",
			item: LineItem{Name: "Pizza", Price: d("10.00"), AssignedTo: []string{"A", "B", "C"}},
			want: []Share{{"A", d("3.33")}, {"B", d("3.33")}, {"C", d("3.34")}},
		},
		{
			name: "single person gets the full price",
			item: LineItem{Name: "Salad", Price: d("7.49"), AssignedTo: []string{"Alice"}},
			want: []Share{{"Alice", d("7.49")}},
		},
		{
			name: "even split",
			item: LineItem{Name: "Wine", Price: d("30.00"), AssignedTo: []string{"Alice", "Bob"}},
			want: []Share{{"Alice", d("15.00")}, {"Bob", d("15.00")}},
		},
		{
			name: "rounding up leaves the last person less",
			item: LineItem{Name: "Nachos", Price: d("20.00"), AssignedTo: []string{"Alice", "Bob", "Carol"}},
			want: []Share{{"Alice", d("6.67")}, {"Bob", d("6.67")}, {"Carol", d("6.66")}},
		},
		{
			name: "assignment order decides who absorbs the remainder",
			item: LineItem{Name: "Pizza", Price: d("10.00"), AssignedTo: []string{"C", "B", "A"}},
			want: []Share{{"C", d("3.33")}, {"B", d("3.33")}, {"A", d("3.34")}},
		},
		{
			name: "free item",
			item: LineItem{Name: "Water", Price: d("0"), AssignedTo: []string{"Alice", "Bob"}},
			want: []Share{{"Alice", d("0")}, {"Bob", d("0")}},
		},
		{
			name: "tiny price never leaves a negative share",
			item: LineItem{Name: "Mint", Price: d("0.06"), AssignedTo: []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}},
			want: []Share{
				{"A", d("0")}, {"B", d("0")}, {"C", d("0")}, {"D", d("0")}, {"E", d("0")},
				{"F", d("0")}, {"G", d("0")}, {"H", d("0")}, {"I", d("0")}, {"J", d("0.06")},
			},
		},
		{
			name: "duplicate assignee counts once",
			item: LineItem{Name: "Fries", Price: d("5.00"), AssignedTo: []string{"Alice", "Bob", "Alice"}},
			want: []Share{{"Alice", d("2.50")}, {"Bob", d("2.50")}},
		},
		{
			name: "half-cent share rounds to even, last person takes the rest",
			item: LineItem{Name: "Gum", Price: d("0.05"), AssignedTo: []string{"A", "B"}},
			want: []Share{{"A", d("0.02")}, {"B", d("0.03")}},
		},
		{
			name:    "price with a huge exponent",
			item:    LineItem{Name: "Typo", Price: decimal.New(1, 900000000), AssignedTo: []string{"Alice"}},
			wantErr: KindMalformedInput,
		},
		{
			name:    "price with a huge negative exponent",
			item:    LineItem{Name: "Typo", Price: decimal.New(1, -900000000), AssignedTo: []string{"Alice"}},
			wantErr: KindMalformedInput,
		},
		{
			name:    "no assignees",
			item:    LineItem{Name: "Dessert", Price: d("8.00")},
			wantErr: KindUnassignedItem,
		},
		{
			name:    "negative price",
			item:    LineItem{Name: "Refund", Price: d("-1.00"), AssignedTo: []string{"Alice"}},
			wantErr: KindMalformedInput,
		},
		{
			name:    "fractional cents",
			item:    LineItem{Name: "Fuel", Price: d("1.005"), AssignedTo: []string{"Alice"}},
			wantErr: KindMalformedInput,
		},
		{
			name:    "empty person name",
			item:    LineItem{Name: "Coffee", Price: d("3.00"), AssignedTo: []string{"Alice", ""}},
			wantErr: KindMalformedInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := SplitItem(tt.item)
			if tt.wantErr != "" {
				if KindOf(err) != tt.wantErr {
					t.Fatalf("SplitItem() error = %v, want kind %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitItem() unexpected error: %v", err)
			}
			if rec.ItemName != tt.item.Name || !rec.Price.Equal(tt.item.Price) {
				t.Errorf("record = %s/%s, want %s/%s", rec.ItemName, rec.Price, tt.item.Name, tt.item.Price)
			}
			if len(rec.Shares) != len(tt.want) {
				t.Fatalf("got %d shares, want %d", len(rec.Shares), len(tt.want))
			}
			for i, want := range tt.want {
				got := rec.Shares[i]
				if got.Person != want.Person || !got.Amount.Equal(want.Amount) {
					t.Errorf("share %d = %s:%s, want %s:%s", i, got.Person, got.Amount, want.Person, want.Amount)
				}
			}
		})
	}
}

func TestSplitItem_UnassignedNamesItem(t *testing.T) {
	_, err := SplitItem(LineItem{Name: "Garlic Bread", Price: d("4.50")})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Item != "Garlic Bread" {
		t.Errorf("error item = %q, want %q", verr.Item, "Garlic Bread")
	}
	if !errors.Is(err, ErrUnassignedItem) {
		t.Errorf("expected errors.Is(err, ErrUnassignedItem)")
	}
}

// Shares must add back up to the price for any price and any number of people.
func TestSplitItem_SharesSumToPrice(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	people := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}

	for i := 0; i < 2000; i++ {
		price := decimal.New(rng.Int63n(100000), -2)
		n := 1 + rng.Intn(len(people))

		rec, err := SplitItem(LineItem{Name: "item", Price: price, AssignedTo: people[:n]})
		if err != nil {
			t.Fatalf("SplitItem(%s, %d people) error: %v", price, n, err)
		}

		sum := decimal.Zero
		for _, s := range rec.Shares {
			if s.Amount.IsNegative() {
				t.Fatalf("SplitItem(%s, %d people) produced negative share %s", price, n, s.Amount)
			}
			sum = sum.Add(s.Amount)
		}
		if !sum.Equal(price) {
			t.Fatalf("SplitItem(%s, %d people) shares sum to %s", price, n, sum)
		}
	}
}

func TestItemSplitRecord_ShareOf(t *testing.T) {
	rec, err := SplitItem(LineItem{Name: "Pizza", Price: d("10.00"), AssignedTo: []string{"A", "B", "C"}})
	if err != nil {
		t.Fatal(err)
	}
	if !rec.ShareOf("C").Equal(d("3.34")) {
		t.Errorf("ShareOf(C) = %s, want 3.34", rec.ShareOf("C"))
	}
	if !rec.ShareOf("Z").IsZero() {
		t.Errorf("ShareOf(Z) = %s, want 0", rec.ShareOf("Z"))
	}
}
