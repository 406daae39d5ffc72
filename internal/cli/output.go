package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pfrederiksen/cricstats/internal/dashboard"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatText, FormatJSON, FormatCSV:
		return format, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'csv')", s)
	}
}

// OutputResult is the JSON shape of a printed table
type OutputResult struct {
	Title     string     `json:"title"`
	SourceURL string     `json:"source_url"`
	FetchedAt time.Time  `json:"fetched_at"`
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"rows"`
	RowCount  int        `json:"row_count"`
}

// WriteOutput writes the view's table in the specified format
func WriteOutput(w io.Writer, view *dashboard.View, format OutputFormat, verbose bool) error {
	if view.Table == nil {
		return fmt.Errorf("nothing to write: %s", view.Error)
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, view)
	case FormatCSV:
		return writeCSV(w, view)
	case FormatText:
		return writeText(w, view, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, view *dashboard.View) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(OutputResult{
		Title:     view.Title,
		SourceURL: view.SourceURL,
		FetchedAt: view.FetchedAt,
		Headers:   view.Table.Headers,
		Rows:      view.Table.Rows,
		RowCount:  view.Table.NumRows(),
	})
}

func writeCSV(w io.Writer, view *dashboard.View) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(view.Table.Headers); err != nil {
		return err
	}
	if err := cw.WriteAll(view.Table.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// writeText prints the title, description and an aligned table
func writeText(w io.Writer, view *dashboard.View, verbose bool) error {
	if view.Title != "" {
		fmt.Fprintln(w, view.Title)
	}
	if view.Description != "" {
		fmt.Fprintln(w, view.Description)
	}
	fmt.Fprintln(w)

	if view.Table.NumRows() == 0 {
		fmt.Fprintln(w, "No rows found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(view.Table.Headers, "\t"))
	for _, row := range view.Table.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal: %d rows\n", view.Table.NumRows())
	if verbose {
		fmt.Fprintf(w, "Source: %s\n", view.SourceURL)
		if !view.FetchedAt.IsZero() {
			fmt.Fprintf(w, "Fetched: %s\n", view.FetchedAt.Format(time.RFC3339))
		}
		if view.Table.Adjusted > 0 {
			fmt.Fprintf(w, "Adjusted rows: %d\n", view.Table.Adjusted)
		}
	}

	return nil
}
