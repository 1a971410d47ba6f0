package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/artic-table/pkg/catalog"
	"github.com/Sternrassler/artic-table/pkg/selection"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for bulk selection runs.
var (
	articBulkSelectRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artic_bulk_select_runs_total",
		Help: "Bulk selection runs by outcome",
	}, []string{"outcome"}) // "complete", "exhausted", "truncated"

	articBulkSelectRecordsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artic_bulk_select_records_total",
		Help: "Records taken by bulk selection runs",
	})

	articBulkSelectPages = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "artic_bulk_select_pages",
		Help:    "Pages fetched per bulk selection run",
		Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
	})
)

// PageFetcher fetches a single catalog page. Pages are numbered from 1.
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) (*catalog.PageResult, error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc func(ctx context.Context, page int) (*catalog.PageResult, error)

// FetchPage implements PageFetcher.
func (f PageFetcherFunc) FetchPage(ctx context.Context, page int) (*catalog.PageResult, error) {
	return f(ctx, page)
}

// Report describes how an accumulation run ended.
type Report struct {
	Requested    int
	Taken        int
	StartPage    int
	LastPage     int // last page fetched successfully, 0 if none
	PagesFetched int
	Exhausted    bool  // the catalog ran out before Requested was reached
	Err          error // fetch error that cut the run short, if any
}

// Complete reports whether every requested record was taken.
func (r Report) Complete() bool {
	return r.Taken >= r.Requested
}

// Truncated reports whether a fetch failure ended the run early.
func (r Report) Truncated() bool {
	return r.Err != nil
}

func (r Report) outcome() string {
	switch {
	case r.Truncated():
		return "truncated"
	case r.Exhausted:
		return "exhausted"
	default:
		return "complete"
	}
}

// Accumulator walks consecutive catalog pages to collect a requested
// number of records.
type Accumulator struct {
	fetcher PageFetcher
	logger  zerolog.Logger
}

// NewAccumulator creates an accumulator over fetcher.
func NewAccumulator(fetcher PageFetcher) *Accumulator {
	return &Accumulator{
		fetcher: fetcher,
		logger:  log.With().Str("component", "accumulator").Logger(),
	}
}

// Accumulate fetches pages starting at startPage, one at a time, taking
// records in page order until target records are collected. It stops early
// when the next page would be past the catalog's last page, when a page
// comes back empty, or when a fetch fails. Records gathered before a
// failure are returned; the failure is recorded in the report, not
// returned as an error.
func (a *Accumulator) Accumulate(ctx context.Context, target, startPage int) ([]catalog.Artwork, Report) {
	report := Report{Requested: target, StartPage: startPage}
	if target <= 0 {
		return nil, report
	}
	if startPage < 1 {
		startPage = 1
		report.StartPage = 1
	}

	start := time.Now()
	buffer := make([]catalog.Artwork, 0, target)
	remaining := target
	page := startPage

	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			report.Err = err
			break
		}

		result, err := a.fetcher.FetchPage(ctx, page)
		if err != nil {
			a.logger.Warn().
				Err(err).
				Int("page", page).
				Int("taken", len(buffer)).
				Int("requested", target).
				Msg("Page fetch failed - keeping partial selection")
			report.Err = fmt.Errorf("fetch page %d: %w", page, err)
			break
		}

		if result == nil {
			result = &catalog.PageResult{}
		}

		report.PagesFetched++
		report.LastPage = page

		take := min(remaining, result.Len())
		buffer = append(buffer, result.Data[:take]...)
		remaining -= take

		a.logger.Debug().
			Int("page", page).
			Int("taken", take).
			Int("remaining", remaining).
			Int("total_pages", result.Pagination.TotalPages).
			Msg("Accumulated page")

		if remaining == 0 {
			break
		}

		page++
		if result.Len() == 0 || page > result.Pagination.TotalPages {
			report.Exhausted = true
			break
		}
	}

	report.Taken = len(buffer)

	articBulkSelectRunsTotal.WithLabelValues(report.outcome()).Inc()
	articBulkSelectRecordsTotal.Add(float64(report.Taken))
	articBulkSelectPages.Observe(float64(report.PagesFetched))

	a.logger.Info().
		Int("requested", report.Requested).
		Int("taken", report.Taken).
		Int("start_page", report.StartPage).
		Int("pages", report.PagesFetched).
		Bool("exhausted", report.Exhausted).
		Bool("truncated", report.Truncated()).
		Dur("duration", time.Since(start)).
		Msg("Accumulation complete")

	return buffer, report
}

// SelectCount selects the first target records starting at startPage and
// merges them into existing by identifier. For target <= 0 it returns
// existing unchanged without fetching. existing is never modified; the
// merged result is a new set.
func (a *Accumulator) SelectCount(ctx context.Context, target, startPage int, existing *selection.Set) (*selection.Set, Report) {
	if target <= 0 {
		return existing, Report{Requested: target, StartPage: startPage}
	}

	buffer, report := a.Accumulate(ctx, target, startPage)
	return selection.Merge(existing, buffer), report
}
