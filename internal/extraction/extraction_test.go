package extraction

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/calculator"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParse(t *testing.T) {
	doc := `{
		"store": " Joe's Diner ",
		"date": "2024-03-09",
		"items": [
			{"name": "Pancakes", "price": "$12.50"},
			{"name": "Coffee", "price": 3.25},
			{"name": "", "price": "1,000.00"}
		],
		"tax": "1.58",
		"tip": "",
		"discount": null,
		"total": "$1,017.33"
	}`

	receipt, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "Joe's Diner", receipt.Store)
	assert.Equal(t, "2024-03-09", receipt.Date)
	assert.Equal(t, DefaultCurrency, receipt.Currency)
	require.Len(t, receipt.Items, 3)
	assert.Equal(t, "Pancakes", receipt.Items[0].Name)
	assert.True(t, receipt.Items[0].Price.Equal(d("12.50")))
	assert.True(t, receipt.Items[1].Price.Equal(d("3.25")))
	assert.Equal(t, "Item 3", receipt.Items[2].Name)
	assert.True(t, receipt.Items[2].Price.Equal(d("1000")))
	assert.True(t, receipt.Tax.Equal(d("1.58")))
	assert.True(t, receipt.Tip.IsZero())
	assert.True(t, receipt.Discount.IsZero())
	assert.True(t, receipt.Total.Equal(d("1017.33")))
}

func TestParse_CodeFence(t *testing.T) {
	doc := "```json\n{\"store\": \"Cafe\", \"items\": [{\"name\": \"Tea\", \"price\": \"2.00\"}], \"currency\": \"€\"}\n```"

	receipt, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "Cafe", receipt.Store)
	assert.Equal(t, "€", receipt.Currency)
	require.Len(t, receipt.Items, 1)
}

func TestParse_MissingTotalIsDerived(t *testing.T) {
	doc := `{"items": [{"name": "A", "price": "10.00"}, {"name": "B", "price": "5.00"}],
		"tax": "1.20", "tip": "3.00", "discount": "2.00"}`

	receipt, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.True(t, receipt.Total.Equal(d("17.20")), "total = %s", receipt.Total)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		item string
	}{
		{name: "not JSON", doc: `Sorry, I could not read the receipt.`},
		{name: "negative price", doc: `{"items": [{"name": "Refund", "price": "-4.00"}]}`, item: "Refund"},
		{name: "fractional cents", doc: `{"items": [{"name": "Gas", "price": "3.999"}]}`, item: "Gas"},
		{name: "price is not a number", doc: `{"items": [{"name": "Soup", "price": "four"}]}`},
		{name: "negative discount", doc: `{"items": [], "discount": "-5.00"}`},
		{name: "price is an object", doc: `{"items": [{"name": "Soup", "price": {"amount": 4}}]}`},
		{name: "price exponent too large", doc: `{"items": [{"name": "x", "price": 1e900000000}]}`, item: "x"},
		{name: "price exponent too small", doc: `{"items": [{"name": "x", "price": "1e-900000000"}]}`, item: "x"},
		{name: "total exponent too large", doc: `{"items": [], "total": "$1e900000000"}`},
		{name: "too many digits", doc: `{"items": [{"name": "x", "price": 123456789012345678901234}]}`, item: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			done := make(chan struct{})
			go func() {
				defer close(done)
				_, err = Parse([]byte(tt.doc))
			}()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("Parse did not return")
			}

			require.Error(t, err)
			assert.Equal(t, calculator.KindMalformedInput, calculator.KindOf(err))
			assert.ErrorIs(t, err, calculator.ErrMalformedInput)

			if tt.item != "" {
				var verr *calculator.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.item, verr.Item)
			}
		})
	}
}
