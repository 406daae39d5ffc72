package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/cricstats/internal/config"
	"github.com/pfrederiksen/cricstats/internal/logger"
	"github.com/pfrederiksen/cricstats/internal/stats"
)

// NetworkError reports a failed request or an error status from the stats site
type NetworkError struct {
	URL        string
	StatusCode int // zero when the request never completed
	Err        error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Scraper fetches a Statsguru page and extracts its statistics table
type Scraper struct {
	client    *http.Client
	url       string
	userAgent string
	extractor *stats.Extractor
}

// New creates a Scraper from cfg
func New(cfg *config.Config) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		url:       cfg.URL,
		userAgent: cfg.UserAgent,
		extractor: stats.NewExtractor(cfg.TableClass),
	}
}

// URL returns the page the scraper fetches
func (s *Scraper) URL() string {
	return s.url
}

// FetchDocument performs one GET and parses the response body as HTML
func (s *Scraper) FetchDocument(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	start := time.Now()
	resp, err := s.client.Do(req)
	logger.RecordTiming("fetch.duration", time.Since(start))
	if err != nil {
		logger.IncrCounter("fetch.network_error")
		return nil, &NetworkError{URL: s.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.IncrCounter("fetch.network_error")
		return nil, &NetworkError{
			URL:        s.url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	logger.Info("Fetched stats page", logger.Fields{
		"url":      s.url,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		// A body cut off mid-read is a transport failure, not bad markup
		logger.IncrCounter("fetch.network_error")
		return nil, &NetworkError{URL: s.url, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	logger.IncrCounter("fetch.success")
	return doc, nil
}

// FetchTable fetches the page and extracts the statistics table from it
func (s *Scraper) FetchTable(ctx context.Context) (*stats.Table, error) {
	doc, err := s.FetchDocument(ctx)
	if err != nil {
		return nil, err
	}

	table, err := s.extractor.Extract(doc)
	if err != nil {
		var notFound *stats.TableNotFoundError
		if errors.As(err, &notFound) {
			logger.IncrCounter("extract.table_not_found")
		}
		return nil, fmt.Errorf("extracting table: %w", err)
	}

	if table.Adjusted > 0 {
		logger.Warn("Rows did not match header count", logger.Fields{
			"adjusted": table.Adjusted,
			"columns":  table.NumColumns(),
		})
	}

	logger.SetGauge("table.rows", float64(table.NumRows()))
	logger.SetGauge("table.columns", float64(table.NumColumns()))

	return table, nil
}
