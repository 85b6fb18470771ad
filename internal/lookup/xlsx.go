package lookup

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads a reference table from an Excel workbook. The first row
// of the sheet is the header.
type XLSXSource struct {
	Path string
	// Sheet defaults to the first sheet of the workbook.
	Sheet string
}

// Rows implements Source.
func (s XLSXSource) Rows() ([]Row, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", s.Path)
		}
		sheet = sheets[0]
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(cells) == 0 {
		return nil, &MissingColumnsError{Missing: requiredColumns}
	}

	header := cells[0]
	if err := checkColumns(header); err != nil {
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, seen := col[h]; !seen {
			col[h] = i
		}
	}

	cell := func(row []string, name string) string {
		i := col[name]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	rows := make([]Row, 0, len(cells)-1)
	for _, row := range cells[1:] {
		r := Row{
			ItemCode:      cell(row, ColumnItemCode),
			GLCode:        cell(row, ColumnGLCode),
			GLDescription: cell(row, ColumnGLDescription),
		}
		if r == (Row{}) {
			continue
		}
		rows = append(rows, r)
	}
	return rows, nil
}
