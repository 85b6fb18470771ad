// Package lookup maps invoice item codes to general-ledger categories.
package lookup

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/zombor/invoice-ledger/internal/extract"
)

// Required reference table columns.
const (
	ColumnItemCode      = "Item Code"
	ColumnGLCode        = "GL Code"
	ColumnGLDescription = "GL Description"
)

var requiredColumns = []string{ColumnItemCode, ColumnGLCode, ColumnGLDescription}

// Row is one raw row of the reference table.
type Row struct {
	ItemCode      string `csv:"Item Code"`
	GLCode        string `csv:"GL Code"`
	GLDescription string `csv:"GL Description"`
}

// Category is the general-ledger category an item code maps to.
type Category struct {
	ItemCode            extract.ItemCode `json:"item_code"`
	CategoryCode        string           `json:"category_code"`
	CategoryDescription string           `json:"category_description"`
}

// Source yields the rows of a reference table.
type Source interface {
	Rows() ([]Row, error)
}

// MissingColumnsError reports required columns absent from a reference table.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// checkColumns returns a *MissingColumnsError when header lacks a required
// column.
func checkColumns(header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, c := range requiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Missing: missing}
	}
	return nil
}

// Index is an immutable item code lookup table. It is safe for concurrent
// readers.
type Index struct {
	entries map[extract.ItemCode]Category
}

// Load reads every row of src and builds an Index.
func Load(src Source) (*Index, error) {
	rows, err := src.Rows()
	if err != nil {
		return nil, err
	}
	idx := Build(rows)
	slog.Info("Loaded reference table", "rows", len(rows), "entries", idx.Len())
	return idx, nil
}

// Build indexes rows by canonical item code. When a code repeats, the last
// row wins. Rows without an item code are skipped.
func Build(rows []Row) *Index {
	idx := &Index{entries: make(map[extract.ItemCode]Category, len(rows))}
	for _, r := range rows {
		raw := referenceDigits(r.ItemCode)
		if raw == "" {
			continue
		}
		code := extract.CanonicalCode(raw)
		if _, dup := idx.entries[code]; dup {
			slog.Warn("Duplicate item code in reference table, keeping last row", "item_code", code)
		}
		idx.entries[code] = Category{
			ItemCode:            code,
			CategoryCode:        strings.TrimSpace(r.GLCode),
			CategoryDescription: strings.TrimSpace(r.GLDescription),
		}
	}
	return idx
}

// Lookup returns the entry for code.
func (idx *Index) Lookup(code extract.ItemCode) (Category, bool) {
	e, ok := idx.entries[code]
	return e, ok
}

// Len is the number of distinct item codes.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Spreadsheets often store codes as numbers, which read back as "12345.0".
var numericCode = regexp.MustCompile(`^(\d+)\.0*$`)

func referenceDigits(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := numericCode.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}
