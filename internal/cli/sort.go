package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pfrederiksen/cricstats/internal/stats"
)

// sortTable returns a copy of table with rows ordered by the named column.
// Cells that parse as numbers sort numerically and come before text cells.
// Statsguru marks not-out scores with a trailing "*", which is ignored.
func sortTable(table *stats.Table, column string, desc bool) (*stats.Table, error) {
	col := table.Column(column)
	if col < 0 {
		return nil, fmt.Errorf("unknown column: %q (have %s)", column, strings.Join(table.Headers, ", "))
	}

	rows := make([][]string, len(table.Rows))
	copy(rows, table.Rows)

	sort.SliceStable(rows, func(i, j int) bool {
		return compareCells(rows[i][col], rows[j][col], desc)
	})

	sorted := *table
	sorted.Rows = rows
	return &sorted, nil
}

// compareCells reports whether cell a sorts before cell b.
// Text cells stay after numbers in either direction.
func compareCells(a, b string, desc bool) bool {
	numA, okA := parseNumber(a)
	numB, okB := parseNumber(b)

	// If both are numbers, compare them
	if okA && okB {
		if desc {
			return numA > numB
		}
		return numA < numB
	}

	// Numbers before text
	if okA {
		return true
	}
	if okB {
		return false
	}

	if desc {
		return strings.ToLower(a) > strings.ToLower(b)
	}
	return strings.ToLower(a) < strings.ToLower(b)
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "*")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
