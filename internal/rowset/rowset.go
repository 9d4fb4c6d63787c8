// Package rowset parses uploaded recipient data: header-having delimited text
// where the first record names the columns and every later record becomes a
// map from column name to string value.
package rowset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// RowSet is a parsed upload: the header in original order plus one map per row.
type RowSet struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

// Parse reads a header-having CSV document. Malformed input (empty document,
// blank header, ragged records) is a local validation error reported before any
// remote call is made.
func Parse(r io.Reader) (*RowSet, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse row-set: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("row-set is empty")
	}

	headers := make([]string, len(records[0]))
	hasHeader := false
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
		if headers[i] != "" {
			hasHeader = true
		}
	}
	if !hasHeader {
		return nil, errors.New("row-set has no header row")
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, value := range record {
			if headers[i] == "" {
				continue
			}
			row[headers[i]] = value
		}
		rows = append(rows, row)
	}

	return &RowSet{Headers: headers, Rows: rows}, nil
}

// Len returns the number of data rows (the header is not a row).
func (rs *RowSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// Row returns the row at index i, or nil when i is out of range.
func (rs *RowSet) Row(i int) map[string]string {
	if rs == nil || i < 0 || i >= len(rs.Rows) {
		return nil
	}
	return rs.Rows[i]
}
