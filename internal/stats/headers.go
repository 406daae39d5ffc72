package stats

import "fmt"

// RepairHeaders makes a raw header list unique and non-empty while keeping its
// order and length.
//
// Empty labels become "Unknown_<i>" where i is the column index. A label seen
// earlier in the pass gets an occurrence suffix: the first "Runs" stays "Runs",
// the second becomes "Runs_2", the third "Runs_3". If a suffixed name collides
// with a label already emitted, the counter keeps advancing until it is free.
func RepairHeaders(raw []string) []string {
	repaired := make([]string, 0, len(raw))
	used := make(map[string]int, len(raw))
	taken := make(map[string]bool, len(raw))

	for i, h := range raw {
		if h == "" {
			h = fmt.Sprintf("Unknown_%d", i)
		}

		name := h
		if count, ok := used[h]; ok {
			count++
			name = fmt.Sprintf("%s_%d", h, count)
			for taken[name] {
				count++
				name = fmt.Sprintf("%s_%d", h, count)
			}
			used[h] = count
		} else {
			used[h] = 1
			// A literal label may already be taken by an earlier suffixed name
			for n := 2; taken[name]; n++ {
				name = fmt.Sprintf("%s_%d", h, n)
			}
		}

		taken[name] = true
		repaired = append(repaired, name)
	}

	return repaired
}

// fitRow pads a short row with empty cells or truncates a long one to width.
// The boolean reports whether the row was changed.
func fitRow(row []string, width int) ([]string, bool) {
	switch {
	case len(row) == width:
		return row, false
	case len(row) > width:
		return row[:width], true
	default:
		padded := make([]string, width)
		copy(padded, row)
		return padded, true
	}
}
