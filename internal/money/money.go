// Package money holds the cent-level helpers shared by the allocation engine,
// storage and presentation layers. All amounts are shopspring decimals; an
// amount is "settled" once it has been rounded to Places fractional digits.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept for every settled amount.
const Places int32 = 2

// ratioPrecision is the number of fractional digits kept for unrounded
// intermediate values such as raw proportional shares.
const ratioPrecision int32 = 16

// Accepted amounts have an exponent in [minExponent, maxExponent] and at
// most maxDigits significant digits. Rounding cost grows with the exponent.
const (
	minExponent int32 = -(Places + 6)
	maxExponent int32 = 15
	maxDigits         = 20
)

// ErrOutOfRange is returned for amounts too large or too precise to be a
// price on a receipt.
var ErrOutOfRange = errors.New("amount out of range")

// Zero is a settled zero amount.
var Zero = decimal.Zero

// Cent is the smallest settled unit.
var Cent = decimal.New(1, -Places)

// Round rounds an amount to cents, half to even.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(Places)
}

// Sum adds amounts without rounding.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Ratio returns a*b/c carried to 16 fractional digits. c must be non-zero.
func Ratio(a, b, c decimal.Decimal) decimal.Decimal {
	return a.Mul(b).DivRound(c, ratioPrecision)
}

// Split returns a / n carried to 16 fractional digits. n must be positive.
func Split(a decimal.Decimal, n int) decimal.Decimal {
	return a.DivRound(decimal.NewFromInt(int64(n)), ratioPrecision)
}

// Parse reads a monetary amount as written on a receipt or by a human:
// surrounding whitespace, a leading currency symbol and thousands separators
// are ignored. An empty string parses as zero.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(s[1:])
	}
	s = strings.TrimLeft(s, "$€£¥₹ ")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("invalid amount: no digits")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if err := CheckRange(d); err != nil {
		return decimal.Zero, err
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// CheckRange returns ErrOutOfRange if d cannot be a receipt amount. It must
// pass before d is rounded or printed; the message never renders d itself.
func CheckRange(d decimal.Decimal) error {
	exp := d.Exponent()
	if exp < minExponent || exp > maxExponent {
		return fmt.Errorf("%w: exponent %d", ErrOutOfRange, exp)
	}
	if n := d.NumDigits(); n > maxDigits {
		return fmt.Errorf("%w: %d digits", ErrOutOfRange, n)
	}
	return nil
}

// Format renders a settled amount with exactly two decimals.
func Format(d decimal.Decimal) string {
	return d.StringFixedBank(Places)
}

// FormatWithSymbol renders an amount with a currency symbol in front,
// placing the sign before the symbol.
func FormatWithSymbol(d decimal.Decimal, symbol string) string {
	if d.IsNegative() {
		return "-" + symbol + Format(d.Neg())
	}
	return symbol + Format(d)
}
