// Package extraction decodes the structured JSON produced by the OCR/LLM
// receipt pipeline into a models.Receipt.
//
// The pipeline is asked for
//
//	{"store": "", "date": "", "items": [{"name": "", "price": ""}],
//	 "tax": "", "tip": "", "discount": "", "total": "", "currency": "$"}
//
// but language models are loose with types: amounts arrive as JSON numbers,
// as strings with a currency symbol, or as empty strings, and the whole
// document is sometimes wrapped in a Markdown code fence. Parse accepts all
// of those and rejects anything that is not a non-negative cent amount.
package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/money"
)

// DefaultCurrency is used when the document names none.
const DefaultCurrency = "$"

type document struct {
	Store    string  `json:"store"`
	Date     string  `json:"date"`
	Items    []item  `json:"items"`
	Tax      *amount `json:"tax"`
	Tip      *amount `json:"tip"`
	Discount *amount `json:"discount"`
	Total    *amount `json:"total"`
	Currency string  `json:"currency"`
}

type item struct {
	Name  string  `json:"name"`
	Price *amount `json:"price"`
}

// amount is a monetary value that may be encoded as a JSON number, a string
// or null. A value that does not parse is kept as err so Parse can report it
// against the item it belongs to.
type amount struct {
	value decimal.Decimal
	set   bool
	err   error
}

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}

	if strings.TrimSpace(raw) == "" {
		return nil
	}
	v, err := money.Parse(raw)
	if err != nil {
		a.err = err
		return nil
	}
	a.value = v
	a.set = true
	return nil
}

func (a *amount) get() (decimal.Decimal, error) {
	switch {
	case a == nil:
		return decimal.Zero, nil
	case a.err != nil:
		return decimal.Zero, a.err
	case !a.set:
		return decimal.Zero, nil
	}
	return a.value, nil
}

// Parse decodes an extraction document. Items keep the order they have in
// the document. Items without a name are called "Item N". A missing total is
// derived from the items and receipt-level amounts.
//
// Any amount that is negative, has fractional cents, is not a number or is
// out of range (see money.CheckRange) yields a *calculator.ValidationError of
// kind MALFORMED_INPUT.
func Parse(data []byte) (*models.Receipt, error) {
	var doc document
	if err := json.Unmarshal(stripFence(data), &doc); err != nil {
		return nil, &calculator.ValidationError{
			Kind:    calculator.KindMalformedInput,
			Message: fmt.Sprintf("invalid extraction JSON: %v", err),
		}
	}

	receipt := &models.Receipt{
		Store:    strings.TrimSpace(doc.Store),
		Date:     strings.TrimSpace(doc.Date),
		Currency: strings.TrimSpace(doc.Currency),
		Items:    make([]models.Item, 0, len(doc.Items)),
	}
	if receipt.Currency == "" {
		receipt.Currency = DefaultCurrency
	}

	subtotal := decimal.Zero
	for i, it := range doc.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			name = fmt.Sprintf("Item %d", i+1)
		}
		price, err := checkAmount(name, "price", it.Price)
		if err != nil {
			return nil, err
		}
		receipt.Items = append(receipt.Items, models.Item{Name: name, Price: price})
		subtotal = subtotal.Add(price)
	}

	fields := []struct {
		name string
		src  *amount
		dst  *decimal.Decimal
	}{
		{"tax", doc.Tax, &receipt.Tax},
		{"tip", doc.Tip, &receipt.Tip},
		{"discount", doc.Discount, &receipt.Discount},
		{"total", doc.Total, &receipt.Total},
	}
	for _, f := range fields {
		v, err := checkAmount("", f.name, f.src)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	if doc.Total == nil || !doc.Total.set {
		receipt.Total = subtotal.Add(receipt.Tax).Add(receipt.Tip).Sub(receipt.Discount)
	}

	return receipt, nil
}

// checkAmount returns the value of a, or a MALFORMED_INPUT error if it did
// not parse, is out of range, is negative or has fractional cents.
func checkAmount(itemName, field string, a *amount) (decimal.Decimal, error) {
	v, err := a.get()
	if err == nil {
		err = money.CheckRange(v)
	}
	if err != nil {
		return decimal.Zero, &calculator.ValidationError{
			Kind:    calculator.KindMalformedInput,
			Item:    itemName,
			Message: fmt.Sprintf("%s: %v", field, err),
		}
	}
	if v.IsNegative() {
		return decimal.Zero, &calculator.ValidationError{
			Kind:    calculator.KindMalformedInput,
			Item:    itemName,
			Message: fmt.Sprintf("%s %s is negative", field, v),
		}
	}
	if !v.Equal(money.Round(v)) {
		return decimal.Zero, &calculator.ValidationError{
			Kind:    calculator.KindMalformedInput,
			Item:    itemName,
			Message: fmt.Sprintf("%s %s has fractional cents", field, v),
		}
	}
	return v, nil
}

// stripFence removes a surrounding Markdown code fence such as ```json ... ```.
func stripFence(data []byte) []byte {
	s := strings.TrimSpace(string(data))
	if !strings.HasPrefix(s, "```") {
		return []byte(s)
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(s)
}
