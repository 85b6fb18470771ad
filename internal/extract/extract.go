// Package extract turns the text layer of a vendor invoice into typed line
// items and document-level charge fields.
package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CodeWidth is the length of a canonical item code.
const CodeWidth = 8

// ItemCode is a vendor item code in canonical form: exactly CodeWidth digits.
type ItemCode string

// CanonicalCode left-pads a digit run with zeros to CodeWidth. Runs already at
// or beyond CodeWidth are returned unchanged.
func CanonicalCode(digits string) ItemCode {
	if len(digits) >= CodeWidth {
		return ItemCode(digits)
	}
	return ItemCode(strings.Repeat("0", CodeWidth-len(digits)) + digits)
}

// LineItemCandidate is one recognized invoice row.
type LineItemCandidate struct {
	ItemCode  ItemCode        `json:"item_code"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SingletonFields holds the values that occur once per invoice. An empty
// InvoiceNumber means none was found; amounts default to zero.
type SingletonFields struct {
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	TariffAmount  decimal.Decimal `json:"tariff_amount"`
	FuelSurcharge decimal.Decimal `json:"fuel_surcharge"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
}

// Charges is the sum of tariff, fuel surcharge and tax.
func (s SingletonFields) Charges() decimal.Decimal {
	return s.TariffAmount.Add(s.FuelSurcharge).Add(s.TaxAmount)
}
