package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pfrederiksen/cricstats/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// Config holds the dashboard's page text and listen address
type Config struct {
	ListenAddr  string
	Title       string
	Description string
}

// Server serves the dashboard page and its JSON companions
type Server struct {
	cfg      Config
	source   TableSource
	renderer Renderer
	router   chi.Router
}

// NewServer creates a Server that renders tables from source with renderer
func NewServer(cfg Config, source TableSource, renderer Renderer) *Server {
	s := &Server{
		cfg:      cfg,
		source:   source,
		renderer: renderer,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleDashboard)
	r.Get("/api/table", s.handleTableJSON)
	r.Get("/metrics", s.handleMetrics)
	r.Get("/healthz", s.handleHealth)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Dashboard listening", logger.Fields{"addr": s.cfg.ListenAddr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving dashboard: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Dashboard shutting down", nil)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down dashboard: %w", err)
	}
	return nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view := BuildView(r.Context(), s.source, s.cfg.Title, s.cfg.Description)
	logger.IncrCounter("dashboard.render")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.renderer.Render(w, view); err != nil {
		logger.Error("Rendering dashboard failed", logger.Fields{"render_id": view.RenderID}, err)
		http.Error(w, "rendering dashboard failed", http.StatusInternalServerError)
	}
}

type tableResponse struct {
	Headers   []string   `json:"headers,omitempty"`
	Rows      [][]string `json:"rows,omitempty"`
	Error     string     `json:"error,omitempty"`
	RenderID  string     `json:"render_id"`
	FetchedAt time.Time  `json:"fetched_at"`
}

func (s *Server) handleTableJSON(w http.ResponseWriter, r *http.Request) {
	view := BuildView(r.Context(), s.source, s.cfg.Title, s.cfg.Description)

	resp := tableResponse{
		RenderID:  view.RenderID,
		FetchedAt: view.FetchedAt,
	}
	status := http.StatusOK
	switch {
	case view.Error != "" && view.Network:
		resp.Error = view.Error
		status = http.StatusBadGateway
	case view.Error != "":
		resp.Error = view.Error
		status = http.StatusInternalServerError
	default:
		resp.Headers = view.Table.Headers
		resp.Rows = view.Table.Rows
	}

	writeJSON(w, status, resp)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, logger.GetMetricsSnapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logger.Debug("HTTP request", logger.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Encoding JSON response failed", nil, err)
	}
}
