package extract

import (
	"fmt"
	"log/slog"
	"strings"
)

// Pipeline runs the recognizer and field extractor over a document's pages.
// It holds no per-document state and may be shared.
type Pipeline struct {
	recognizer *Recognizer
	fields     *FieldExtractor
}

// NewPipeline compiles a layout into a Pipeline.
func NewPipeline(l Layout) (*Pipeline, error) {
	if l.MinNumericTokens < 1 {
		return nil, fmt.Errorf("layout min_numeric_tokens must be positive, got %d", l.MinNumericTokens)
	}
	if l.QuantityIndex < 0 || l.QuantityIndex >= l.MinNumericTokens {
		return nil, fmt.Errorf("layout quantity_index %d outside [0, %d)", l.QuantityIndex, l.MinNumericTokens)
	}
	if l.UnitPriceIndex < 0 || l.UnitPriceIndex >= l.MinNumericTokens {
		return nil, fmt.Errorf("layout unit_price_index %d outside [0, %d)", l.UnitPriceIndex, l.MinNumericTokens)
	}

	recognizer, err := NewRecognizer(l.CodePattern, PositionalLocator{
		MinTokens:      l.MinNumericTokens,
		QuantityIndex:  l.QuantityIndex,
		UnitPriceIndex: l.UnitPriceIndex,
	})
	if err != nil {
		return nil, err
	}
	fields, err := NewFieldExtractor(l)
	if err != nil {
		return nil, err
	}
	return &Pipeline{recognizer: recognizer, fields: fields}, nil
}

// Extract returns the item rows of all pages in document order along with
// the singleton fields. The invoice number is read from the first page only
// and the charges from the last page only.
func (p *Pipeline) Extract(pages []string) ([]LineItemCandidate, SingletonFields) {
	var (
		candidates []LineItemCandidate
		singleton  SingletonFields
	)
	last := len(pages) - 1
	for i, text := range pages {
		found := 0
		for _, line := range strings.Split(text, "\n") {
			if c, ok := p.recognizer.Recognize(strings.TrimRight(line, "\r")); ok {
				candidates = append(candidates, c)
				found++
			}
		}
		slog.Debug("Extracted page", "page", i+1, "pages", len(pages), "candidates", found)

		if i == 0 && singleton.InvoiceNumber == "" {
			if n, ok := p.fields.InvoiceNumber(text); ok {
				singleton.InvoiceNumber = n
			}
		}
		if i == last {
			if v, ok := p.fields.TariffAmount(text); ok {
				singleton.TariffAmount = v
			}
			if v, ok := p.fields.FuelSurcharge(text); ok {
				singleton.FuelSurcharge = v
			}
			if v, ok := p.fields.TaxAmount(text); ok {
				singleton.TaxAmount = v
			}
		}
	}
	return candidates, singleton
}
