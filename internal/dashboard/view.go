// Package dashboard runs the fetch, extract and render cycle behind the cricstats web UI.
//
// Each page load fetches the Statsguru page anew and renders either the statistics
// grid or an error banner. Rendering goes through the Renderer interface so the
// cycle can be exercised without a browser.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/cricstats/internal/logger"
	"github.com/pfrederiksen/cricstats/internal/scraper"
	"github.com/pfrederiksen/cricstats/internal/stats"
)

// TableSource produces the statistics table for one request cycle
type TableSource interface {
	FetchTable(ctx context.Context) (*stats.Table, error)
	URL() string
}

// View is everything a Renderer needs to draw one page.
// Exactly one of Table and Error is set.
type View struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Table       *stats.Table `json:"table,omitempty"`
	Error       string       `json:"error,omitempty"`
	Network     bool         `json:"-"`
	SourceURL   string       `json:"source_url"`
	RenderID    string       `json:"render_id"`
	FetchedAt   time.Time    `json:"fetched_at"`
}

// Renderer draws a View
type Renderer interface {
	Render(w io.Writer, view *View) error
}

// ErrorMessage converts a failure from the request cycle into the text shown to the user
func ErrorMessage(err error) string {
	var netErr *scraper.NetworkError
	if errors.As(err, &netErr) {
		return fmt.Sprintf("Error fetching data: %v", err)
	}
	return fmt.Sprintf("An unexpected error occurred: %v", err)
}

// BuildView runs one fetch and extract cycle and wraps the outcome in a View.
// It never returns an error; failures become the View's error message.
func BuildView(ctx context.Context, src TableSource, title, description string) *View {
	view := &View{
		Title:       title,
		Description: description,
		SourceURL:   src.URL(),
		RenderID:    uuid.NewString(),
		FetchedAt:   time.Now().UTC(),
	}

	table, err := fetchTable(ctx, src)
	if err == nil && table == nil {
		err = errors.New("no table returned")
	}
	if err != nil {
		var netErr *scraper.NetworkError
		view.Network = errors.As(err, &netErr)
		view.Error = ErrorMessage(err)
		logger.IncrCounter("dashboard.error")
		logger.Error("Request cycle failed", logger.Fields{
			"render_id": view.RenderID,
			"network":   view.Network,
		}, err)
		return view
	}

	view.Table = table
	logger.Info("Request cycle complete", logger.Fields{
		"render_id": view.RenderID,
		"rows":      table.NumRows(),
		"columns":   table.NumColumns(),
	})
	return view
}

// fetchTable calls src, turning a panic in extraction into an ordinary error
func fetchTable(ctx context.Context, src TableSource) (table *stats.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			table = nil
			err = fmt.Errorf("panic during fetch: %v", r)
		}
	}()
	return src.FetchTable(ctx)
}
