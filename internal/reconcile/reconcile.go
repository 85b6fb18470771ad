// Package reconcile joins extracted line items against the reference table
// and rolls them up by general-ledger category.
package reconcile

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/zombor/invoice-ledger/internal/extract"
	"github.com/zombor/invoice-ledger/internal/lookup"
)

// NotFound marks an item code that was looked up without a match.
const NotFound = "NOT_FOUND"

// Indexer is the read-only view of the reference table the engine needs.
type Indexer interface {
	Lookup(code extract.ItemCode) (lookup.Category, bool)
}

// LineItem is a candidate joined with its category.
type LineItem struct {
	extract.LineItemCandidate
	LineTotal           decimal.Decimal `json:"line_total"`
	CategoryCode        string          `json:"category_code"`
	CategoryDescription string          `json:"category_description"`
}

// CategoryTotal is the summed line total of one category description.
type CategoryTotal struct {
	Description string          `json:"description"`
	Total       decimal.Decimal `json:"total"`
}

// Result is the reconciled view of one invoice.
type Result struct {
	Items            []LineItem              `json:"items"`
	Singleton        extract.SingletonFields `json:"singleton"`
	CategoryTotals   []CategoryTotal         `json:"category_totals"`
	GrandTotal       decimal.Decimal         `json:"grand_total"`
	TotalWithCharges decimal.Decimal         `json:"total_with_charges"`
}

// CategoryTotal returns the total for description, if the category occurs.
func (r Result) CategoryTotal(description string) (decimal.Decimal, bool) {
	for _, c := range r.CategoryTotals {
		if c.Description == description {
			return c.Total, true
		}
	}
	return decimal.Zero, false
}

// Engine reconciles candidates against a fixed index.
type Engine struct {
	index Indexer
}

// NewEngine creates an Engine over index.
func NewEngine(index Indexer) *Engine {
	return &Engine{index: index}
}

// LineTotal is quantity times unit price rounded to cents, half away from
// zero.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Reconcile prices each candidate, tags it with its category and totals the
// invoice. Unknown codes are tagged NotFound and still counted. Categories
// are ordered by descending total; equal totals keep first-seen order.
func (e *Engine) Reconcile(candidates []extract.LineItemCandidate, singleton extract.SingletonFields) Result {
	res := Result{
		Items:          make([]LineItem, 0, len(candidates)),
		Singleton:      singleton,
		CategoryTotals: []CategoryTotal{},
		GrandTotal:     decimal.Zero,
	}

	position := make(map[string]int)
	for _, c := range candidates {
		item := LineItem{
			LineItemCandidate:   c,
			LineTotal:           LineTotal(c.Quantity, c.UnitPrice),
			CategoryCode:        NotFound,
			CategoryDescription: NotFound,
		}
		if entry, ok := e.index.Lookup(c.ItemCode); ok {
			item.CategoryCode = entry.CategoryCode
			item.CategoryDescription = entry.CategoryDescription
		}
		res.Items = append(res.Items, item)
		res.GrandTotal = res.GrandTotal.Add(item.LineTotal)

		i, seen := position[item.CategoryDescription]
		if !seen {
			i = len(res.CategoryTotals)
			position[item.CategoryDescription] = i
			res.CategoryTotals = append(res.CategoryTotals, CategoryTotal{
				Description: item.CategoryDescription,
				Total:       decimal.Zero,
			})
		}
		res.CategoryTotals[i].Total = res.CategoryTotals[i].Total.Add(item.LineTotal)
	}

	slices.SortStableFunc(res.CategoryTotals, func(a, b CategoryTotal) int {
		return b.Total.Cmp(a.Total)
	})
	res.TotalWithCharges = res.GrandTotal.Add(singleton.Charges())
	return res
}
