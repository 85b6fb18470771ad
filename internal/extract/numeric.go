package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Signs, thousands separators and exponents are deliberately not numeric.
var numericToken = regexp.MustCompile(`^\d+(\.\d*)?$`)

// IsNumericToken reports whether tok is a plain integer ("12") or a plain
// decimal ("12.50", "12.").
func IsNumericToken(tok string) bool {
	return numericToken.MatchString(tok)
}

// NumericTokens returns the numeric whitespace-delimited tokens of line in
// their original order.
func NumericTokens(line string) []string {
	var out []string
	for _, tok := range strings.Fields(line) {
		if IsNumericToken(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// parseAmount parses a numeric token. A bare trailing dot is accepted.
func parseAmount(tok string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSuffix(tok, "."))
}
