package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultTableClass is the class Statsguru puts on its result tables
	DefaultTableClass = "engineTable"

	PlayerHeader = "Player"
	RunsHeader   = "Runs"
)

// TableNotFoundError reports that no candidate table carried the required headers
type TableNotFoundError struct {
	Class      string
	Candidates int
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("stats table not found: %d table.%s candidates, none with %q and %q headers",
		e.Candidates, e.Class, PlayerHeader, RunsHeader)
}

// Extractor pulls the statistics table out of a parsed page
type Extractor struct {
	class string
}

// NewExtractor creates an Extractor for tables with the given class.
// An empty class falls back to DefaultTableClass.
func NewExtractor(class string) *Extractor {
	if class == "" {
		class = DefaultTableClass
	}
	return &Extractor{class: class}
}

// Parse reads HTML from r and extracts the statistics table
func (e *Extractor) Parse(r io.Reader) (*Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return e.Extract(doc)
}

// Extract finds the first candidate table with both "Player" and "Runs"
// headers, repairs its headers and returns its data rows.
func (e *Extractor) Extract(doc *goquery.Document) (*Table, error) {
	candidates := doc.Find("table." + e.class)

	var target *goquery.Selection
	var rawHeaders []string
	candidates.EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		headers := headerTexts(tbl)
		if contains(headers, PlayerHeader) && contains(headers, RunsHeader) {
			target = tbl
			rawHeaders = headers
			return false
		}
		return true
	})

	if target == nil {
		return nil, &TableNotFoundError{Class: e.class, Candidates: candidates.Length()}
	}

	headers := RepairHeaders(rawHeaders)

	rows := make([][]string, 0)
	adjusted := 0
	bodyRows(target).Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			// spacer or sub-header row
			return
		}

		row := make([]string, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})

		row, changed := fitRow(row, len(headers))
		if changed {
			adjusted++
		}
		rows = append(rows, row)
	})

	table, err := NewTable(headers, rows)
	if err != nil {
		return nil, fmt.Errorf("building table: %w", err)
	}
	table.Adjusted = adjusted

	return table, nil
}

// bodyRows returns every tr after the first, which holds the headers
func bodyRows(tbl *goquery.Selection) *goquery.Selection {
	trs := tbl.Find("tr")
	if trs.Length() < 2 {
		return trs.Slice(0, 0)
	}
	return trs.Slice(1, goquery.ToEnd)
}

// headerTexts returns the trimmed text of every th cell in the table
func headerTexts(tbl *goquery.Selection) []string {
	return tbl.Find("th").Map(func(_ int, th *goquery.Selection) string {
		return strings.TrimSpace(th.Text())
	})
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
