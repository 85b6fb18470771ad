package extract

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Layout describes where a vendor's invoice keeps its fields. Only one
// layout is known; it is DefaultLayout. A YAML file may override any field.
type Layout struct {
	// CodePattern must capture the item code digits at the start of a line.
	CodePattern      string `yaml:"code_pattern"`
	MinNumericTokens int    `yaml:"min_numeric_tokens"`
	QuantityIndex    int    `yaml:"quantity_index"`
	UnitPriceIndex   int    `yaml:"unit_price_index"`

	InvoiceNumberPattern string `yaml:"invoice_number_pattern"`
	TariffPattern        string `yaml:"tariff_pattern"`
	FuelPrimaryPattern   string `yaml:"fuel_primary_pattern"`
	FuelFallbackPattern  string `yaml:"fuel_fallback_pattern"`
	TaxPattern           string `yaml:"tax_pattern"`
}

// DefaultLayout is the layout of the single supported vendor invoice. The
// shipped quantity is the 2nd numeric token of an item row and the unit
// price the 4th. Rows laid out differently misparse silently.
func DefaultLayout() Layout {
	return Layout{
		CodePattern:          `^(\d{5,8})\s`,
		MinNumericTokens:     4,
		QuantityIndex:        1,
		UnitPriceIndex:       3,
		InvoiceNumberPattern: `Invoice Number\s*:\s*(\d+)`,
		TariffPattern:        `Tariff Allocation\s+(\d+\.\d+)`,
		FuelPrimaryPattern:   `Fuel Surcharge\s+\d+\.\d+\s+0\.00\s+(\d+\.\d+)`,
		FuelFallbackPattern:  `Fuel Surcharge\s+(\d+\.\d+)`,
		TaxPattern:           `GST/HST/VAT\s+(\d+\.\d+)`,
	}
}

// LoadLayout reads a YAML layout file on top of DefaultLayout.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("reading layout: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes YAML layout overrides on top of DefaultLayout.
func ParseLayout(data []byte) (Layout, error) {
	layout := DefaultLayout()
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("decoding layout: %w", err)
	}
	return layout, nil
}

// compilePattern compiles a layout pattern that must have a capture group.
func compilePattern(name, expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", name, err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("layout %s: pattern %q has no capture group", name, expr)
	}
	return re, nil
}
