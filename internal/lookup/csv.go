package lookup

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

var utf8BOM = []byte("\xef\xbb\xbf")

func init() {
	// Match header cells the way checkColumns reads them, so "GL Code " binds.
	gocsv.SetHeaderNormalizer(strings.TrimSpace)
}

// CSVSource reads a reference table from a CSV file with a header row.
type CSVSource struct {
	Path string
}

// Rows implements Source.
func (s CSVSource) Rows() ([]Row, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading reference file: %w", err)
	}
	return parseCSV(data)
}

func parseCSV(data []byte) ([]Row, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	header, err := newCSVReader(data).Read()
	if errors.Is(err, io.EOF) {
		return nil, &MissingColumnsError{Missing: requiredColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if err := checkColumns(header); err != nil {
		return nil, err
	}

	var rows []Row
	if err := gocsv.UnmarshalCSV(newCSVReader(data), &rows); err != nil {
		return nil, fmt.Errorf("parsing reference rows: %w", err)
	}
	return rows, nil
}

func newCSVReader(data []byte) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(data))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	return r
}
