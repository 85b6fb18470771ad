package extract

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// FieldExtractor finds the singleton fields in a page's text.
type FieldExtractor struct {
	invoiceNumber *regexp.Regexp
	tariff        *regexp.Regexp
	fuelPrimary   *regexp.Regexp
	fuelFallback  *regexp.Regexp
	tax           *regexp.Regexp
}

// NewFieldExtractor compiles the singleton field patterns of a layout.
func NewFieldExtractor(l Layout) (*FieldExtractor, error) {
	var (
		f   FieldExtractor
		err error
	)
	patterns := []struct {
		name string
		expr string
		dst  **regexp.Regexp
	}{
		{"invoice_number_pattern", l.InvoiceNumberPattern, &f.invoiceNumber},
		{"tariff_pattern", l.TariffPattern, &f.tariff},
		{"fuel_primary_pattern", l.FuelPrimaryPattern, &f.fuelPrimary},
		{"fuel_fallback_pattern", l.FuelFallbackPattern, &f.fuelFallback},
		{"tax_pattern", l.TaxPattern, &f.tax},
	}
	for _, p := range patterns {
		if *p.dst, err = compilePattern(p.name, p.expr); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

// InvoiceNumber returns the first invoice number on the page.
func (f *FieldExtractor) InvoiceNumber(text string) (string, bool) {
	m := f.invoiceNumber.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// TariffAmount returns the first tariff allocation on the page.
func (f *FieldExtractor) TariffAmount(text string) (decimal.Decimal, bool) {
	return firstAmount(f.tariff, text)
}

// FuelSurcharge tries the four-column surcharge row first and falls back to
// the first amount after the label.
func (f *FieldExtractor) FuelSurcharge(text string) (decimal.Decimal, bool) {
	if v, ok := firstAmount(f.fuelPrimary, text); ok {
		return v, true
	}
	return firstAmount(f.fuelFallback, text)
}

// TaxAmount returns the first GST/HST/VAT amount on the page.
func (f *FieldExtractor) TaxAmount(text string) (decimal.Decimal, bool) {
	return firstAmount(f.tax, text)
}

func firstAmount(re *regexp.Regexp, text string) (decimal.Decimal, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero, false
	}
	v, err := parseAmount(m[1])
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}
