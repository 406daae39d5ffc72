package stats

import (
	"errors"
	"fmt"
)

// ErrRowLength is returned by NewTable when a row's width differs from the header count
var ErrRowLength = errors.New("row length does not match header count")

// Table is a statistics table with unique, non-empty headers
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`

	// Adjusted counts rows the extractor padded or truncated to fit Headers.
	Adjusted int `json:"adjusted,omitempty"`
}

// NewTable builds a Table, rejecting empty or duplicate headers and rows whose
// width differs from the number of headers.
func NewTable(headers []string, rows [][]string) (*Table, error) {
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		if h == "" {
			return nil, fmt.Errorf("header %d is empty", i)
		}
		if seen[h] {
			return nil, fmt.Errorf("duplicate header %q at column %d", h, i)
		}
		seen[h] = true
	}

	for i, row := range rows {
		if len(row) != len(headers) {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row), len(headers), ErrRowLength)
		}
	}

	if rows == nil {
		rows = [][]string{}
	}

	return &Table{
		Headers: headers,
		Rows:    rows,
	}, nil
}

// NumColumns returns the number of columns
func (t *Table) NumColumns() int {
	return len(t.Headers)
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// Column returns the index of the named column, or -1 if absent
func (t *Table) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Records returns each row as a header-keyed map
func (t *Table) Records() []map[string]string {
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			rec[h] = row[i]
		}
		records = append(records, rec)
	}
	return records
}
