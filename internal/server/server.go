// Package server exposes the catalog and bulk selection over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Sternrassler/artic-table/pkg/catalog"
	"github.com/Sternrassler/artic-table/pkg/logging"
	"github.com/Sternrassler/artic-table/pkg/metrics"
	"github.com/Sternrassler/artic-table/pkg/pagination"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MaxSelectCount caps the count accepted by /api/selection.
const MaxSelectCount = 1000

// requestTimeout bounds one API call, including a whole bulk selection.
const requestTimeout = 60 * time.Second

// Catalog is what the server needs from the catalog client.
type Catalog interface {
	pagination.PageFetcher
	Ping(ctx context.Context) error
}

// Server holds the HTTP handlers.
type Server struct {
	catalog     Catalog
	accumulator *pagination.Accumulator
	logger      zerolog.Logger
}

// New creates the handlers over c.
func New(c Catalog) *Server {
	return &Server{
		catalog:     c,
		accumulator: pagination.NewAccumulator(c),
		logger:      logging.NewLogger("server"),
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/artworks", s.handleArtworks)
	mux.HandleFunc("GET /api/selection", s.handleSelection)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// handleReady reports whether the optional Redis backend is reachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.catalog.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Readiness check failed")
		http.Error(w, "Redis unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (s *Server) handleArtworks(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := s.catalog.FetchPage(ctx, page)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	count, err := intParam(r, "count", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if count < 0 || count > MaxSelectCount {
		http.Error(w, fmt.Sprintf("count must be between 0 and %d", MaxSelectCount), http.StatusBadRequest)
		return
	}
	page, err := intParam(r, "page", 1)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if page < 1 {
		http.Error(w, "page must be >= 1", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	sel, report := s.accumulator.SelectCount(ctx, count, page, nil)
	if report.Err != nil {
		s.logger.Warn().
			Err(report.Err).
			Int("taken", report.Taken).
			Int("requested", report.Requested).
			Msg("Selection truncated")
	}

	// A truncated run still answers 200: the partial selection is the result.
	writeJSON(w, http.StatusOK, pagination.NewOutcome(sel, report))
}

// writeError maps catalog errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	var ne *catalog.NetworkError
	switch {
	case errors.Is(err, catalog.ErrInvalidPage):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrRequestBlocked):
		status = http.StatusTooManyRequests
	case errors.As(err, &ne) && ne.ErrorClass == catalog.ErrorClassRateLimit:
		status = http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	s.logger.Error().Err(err).Int("status", status).Msg("Catalog request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}
