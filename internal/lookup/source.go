package lookup

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SourceFor picks a Source by file extension.
func SourceFor(path, sheet string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return XLSXSource{Path: path, Sheet: sheet}, nil
	case ".csv":
		return CSVSource{Path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported reference table format: %s", path)
	}
}
