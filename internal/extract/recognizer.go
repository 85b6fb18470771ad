package extract

import (
	"fmt"
	"math"
	"regexp"

	"github.com/shopspring/decimal"
)

// FieldLocator picks quantity and unit price out of the numeric tokens of
// an item row. ok is false when the row does not carry usable values.
type FieldLocator interface {
	Locate(numeric []string) (quantity int, unitPrice decimal.Decimal, ok bool)
}

// PositionalLocator reads quantity and unit price from fixed token indices.
type PositionalLocator struct {
	MinTokens      int
	QuantityIndex  int
	UnitPriceIndex int
}

var maxQuantity = decimal.NewFromInt(int64(math.MaxInt))

// Locate implements FieldLocator. The quantity is parsed as a decimal and
// truncated so "10.00" reads as 10. A quantity that does not fit in an int
// rejects the row.
func (p PositionalLocator) Locate(numeric []string) (int, decimal.Decimal, bool) {
	if len(numeric) < p.MinTokens || p.QuantityIndex >= len(numeric) || p.UnitPriceIndex >= len(numeric) {
		return 0, decimal.Zero, false
	}
	qty, err := parseAmount(numeric[p.QuantityIndex])
	if err != nil || qty.Truncate(0).GreaterThan(maxQuantity) {
		return 0, decimal.Zero, false
	}
	price, err := parseAmount(numeric[p.UnitPriceIndex])
	if err != nil {
		return 0, decimal.Zero, false
	}
	return int(qty.IntPart()), price, true
}

// Recognizer decides whether a line of page text is an item row.
type Recognizer struct {
	code    *regexp.Regexp
	locator FieldLocator
}

// NewRecognizer builds a Recognizer for a code pattern and field locator.
func NewRecognizer(codePattern string, locator FieldLocator) (*Recognizer, error) {
	code, err := compilePattern("code_pattern", codePattern)
	if err != nil {
		return nil, err
	}
	if locator == nil {
		return nil, fmt.Errorf("field locator is required")
	}
	return &Recognizer{code: code, locator: locator}, nil
}

// Recognize returns the candidate on line, if any. Malformed rows are not
// errors; they are simply not item rows.
func (r *Recognizer) Recognize(line string) (LineItemCandidate, bool) {
	m := r.code.FindStringSubmatch(line)
	if m == nil {
		return LineItemCandidate{}, false
	}
	qty, price, ok := r.locator.Locate(NumericTokens(line))
	if !ok {
		return LineItemCandidate{}, false
	}
	return LineItemCandidate{
		ItemCode:  CanonicalCode(m[1]),
		Quantity:  qty,
		UnitPrice: price,
	}, true
}
