package browser

import (
	"context"
	"sync"

	"github.com/Sternrassler/artic-table/pkg/pagination"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Controller performs page loads and bulk selections against a catalog
// and folds their results into a State. It is safe for concurrent use:
// a page load may run while a bulk selection is in flight.
type Controller struct {
	mu    sync.Mutex
	state State

	fetcher     pagination.PageFetcher
	accumulator *pagination.Accumulator
	logger      zerolog.Logger
}

// NewController creates a controller showing rows records per page.
func NewController(fetcher pagination.PageFetcher, rows int) *Controller {
	return &Controller{
		state:       Initial(rows),
		fetcher:     fetcher,
		accumulator: pagination.NewAccumulator(fetcher),
		logger:      log.With().Str("component", "controller").Logger(),
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies a to the current state and returns the result.
func (c *Controller) Dispatch(a Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, a)
	return c.state
}

// LoadPage fetches page and makes it current. The returned state is the
// one after the load settled; if another load was requested meanwhile,
// this result is discarded and the returned state reflects the newer
// request.
func (c *Controller) LoadPage(ctx context.Context, page int) (State, error) {
	requested := c.Dispatch(PageRequested{Page: page}).Page

	result, err := c.fetcher.FetchPage(ctx, requested)
	if err != nil {
		c.logger.Error().
			Err(err).
			Int("page", requested).
			Msg("Failed to load page")
		return c.Dispatch(PageFailed{Page: requested, Err: err}), err
	}

	c.logger.Debug().
		Int("page", requested).
		Int("records", result.Len()).
		Int("total_pages", result.Pagination.TotalPages).
		Msg("Page loaded")

	return c.Dispatch(PageLoaded{Page: requested, Result: result}), nil
}

// Toggle flips the selection of a record on the current page.
func (c *Controller) Toggle(id int64) State {
	return c.Dispatch(RowToggled{ID: id})
}

// TogglePage selects or deselects the whole current page.
func (c *Controller) TogglePage() State {
	return c.Dispatch(PageToggled{})
}

// Clear empties the selection.
func (c *Controller) Clear() State {
	return c.Dispatch(SelectionCleared{})
}

// SelectCount adds the first n records starting at the current page to
// the selection. For n <= 0 nothing happens. Partial results from a run
// cut short by a fetch failure are still merged; the failure is in
// Report.Err and State.LastErr.
func (c *Controller) SelectCount(ctx context.Context, n int) (State, pagination.Report) {
	if n <= 0 {
		return c.State(), pagination.Report{Requested: n}
	}

	start := c.Dispatch(BulkSelectStarted{Count: n}).Page

	records, report := c.accumulator.Accumulate(ctx, n, start)

	return c.Dispatch(BulkSelectFinished{Records: records, Report: report}), report
}
