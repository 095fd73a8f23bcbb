package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/calculator"
)

func testReceipt() *Receipt {
	return &Receipt{
		Items: []Item{
			{Name: "Nachos", Price: decimal.RequireFromString("20.00")},
			{Name: "Burger", Price: decimal.RequireFromString("7.50")},
			{Name: "Soda", Price: decimal.RequireFromString("2.00")},
		},
		Tax:      decimal.RequireFromString("2.20"),
		Tip:      decimal.RequireFromString("5.00"),
		Discount: decimal.RequireFromString("1.00"),
	}
}

func TestReceipt_Assign(t *testing.T) {
	receipt := testReceipt()

	got, err := receipt.Assign([]ItemAssignment{
		{ItemIndex: 1, People: []string{"Bob"}},
		{ItemIndex: 0, People: []string{"Alice", "Bob"}},
	})
	require.NoError(t, err)

	require.Len(t, got.Items, 3)
	assert.Equal(t, "Nachos", got.Items[0].Name)
	assert.Equal(t, []string{"Alice", "Bob"}, got.Items[0].AssignedTo)
	assert.Equal(t, []string{"Bob"}, got.Items[1].AssignedTo)
	assert.Empty(t, got.Items[2].AssignedTo)
	assert.True(t, got.Items[1].Price.Equal(decimal.RequireFromString("7.50")))
	assert.True(t, got.Tax.Equal(receipt.Tax))
	assert.True(t, got.Tip.Equal(receipt.Tip))
	assert.True(t, got.Discount.Equal(receipt.Discount))

	_, err = calculator.Finalize(got)
	assert.Equal(t, calculator.KindUnassignedItem, calculator.KindOf(err))
}

func TestReceipt_AssignInvalid(t *testing.T) {
	tests := []struct {
		name        string
		assignments []ItemAssignment
	}{
		{"negative index", []ItemAssignment{{ItemIndex: -1, People: []string{"A"}}}},
		{"index past the end", []ItemAssignment{{ItemIndex: 3, People: []string{"A"}}}},
		{"index twice", []ItemAssignment{
			{ItemIndex: 2, People: []string{"A"}},
			{ItemIndex: 2, People: []string{"B"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testReceipt().Assign(tt.assignments)
			assert.Equal(t, calculator.KindMalformedInput, calculator.KindOf(err))
		})
	}
}
