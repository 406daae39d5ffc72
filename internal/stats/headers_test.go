package stats

import (
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestRepairHeaders(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{
			name: "already unique",
			raw:  []string{"Player", "Span", "Runs"},
			want: []string{"Player", "Span", "Runs"},
		},
		{
			name: "empty and duplicate",
			raw:  []string{"Player", "Runs", "", "Runs"},
			want: []string{"Player", "Runs", "Unknown_2", "Runs_2"},
		},
		{
			name: "three occurrences",
			raw:  []string{"Runs", "Runs", "Runs"},
			want: []string{"Runs", "Runs_2", "Runs_3"},
		},
		{
			name: "several empties",
			raw:  []string{"", "Player", "", ""},
			want: []string{"Unknown_0", "Player", "Unknown_2", "Unknown_3"},
		},
		{
			name: "suffix collides with literal header",
			raw:  []string{"A", "A_2", "A"},
			want: []string{"A", "A_2", "A_3"},
		},
		{
			name: "literal header collides with earlier suffix",
			raw:  []string{"A", "A", "A_2"},
			want: []string{"A", "A_2", "A_2_2"},
		},
		{
			name: "placeholder collides with literal header",
			raw:  []string{"Unknown_1", ""},
			want: []string{"Unknown_1", "Unknown_1_2"},
		},
		{
			name: "empty input",
			raw:  []string{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairHeaders(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RepairHeaders(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRepairHeaders_Properties(t *testing.T) {
	inputs := [][]string{
		{"Player", "Runs", "", "Runs"},
		{"", "", "", ""},
		{"x", "x", "x_2", "x_3", "", "x"},
		{"Unknown_0", "", "Unknown_0", ""},
		{"Mat", "Inns", "NO", "Runs", "HS", "Ave", "BF", "SR", "100", "50", "0", "4s", "6s", ""},
	}

	for _, raw := range inputs {
		t.Run(strings.Join(raw, "|"), func(t *testing.T) {
			got := RepairHeaders(raw)

			if len(got) != len(raw) {
				t.Fatalf("len = %d, want %d", len(got), len(raw))
			}

			seen := make(map[string]bool)
			for i, h := range got {
				if h == "" {
					t.Errorf("header %d is empty", i)
				}
				if seen[h] {
					t.Errorf("duplicate header %q", h)
				}
				seen[h] = true

				if raw[i] == "" && !strings.Contains(h, strconv.Itoa(i)) {
					t.Errorf("placeholder %q does not contain column index %d", h, i)
				}
				if raw[i] != "" && !strings.HasPrefix(h, raw[i]) {
					t.Errorf("header %q lost its original text %q", h, raw[i])
				}
			}
		})
	}
}

func TestFitRow(t *testing.T) {
	tests := []struct {
		name        string
		row         []string
		width       int
		want        []string
		wantChanged bool
	}{
		{"exact", []string{"a", "b"}, 2, []string{"a", "b"}, false},
		{"short is padded", []string{"a"}, 3, []string{"a", "", ""}, true},
		{"long is truncated", []string{"a", "b", "c"}, 2, []string{"a", "b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := fitRow(tt.row, tt.width)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("fitRow() = %q, want %q", got, tt.want)
			}
			if changed != tt.wantChanged {
				t.Errorf("fitRow() changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}
