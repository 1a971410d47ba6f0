// Package browser models the paginated artwork table: the page on
// screen, the multi-page selection and the loading flags.
//
// State transitions go through Reduce, which is pure. Controller wraps a
// State with the catalog and the accumulator for callers that want the
// I/O done for them.
package browser

import (
	"github.com/Sternrassler/artic-table/pkg/catalog"
	"github.com/Sternrassler/artic-table/pkg/pagination"
	"github.com/Sternrassler/artic-table/pkg/selection"
)

// State is a snapshot of the table. Values returned by Reduce share
// Records and Selection with their predecessor; neither is mutated after
// it has been placed in a State.
type State struct {
	Page         int
	Rows         int
	TotalRecords int
	TotalPages   int
	Records      []catalog.Artwork
	Selection    *selection.Set

	Loading   bool
	Selecting bool
	LastErr   error

	// LastReport describes the most recent bulk selection, nil before the
	// first one finishes.
	LastReport *pagination.Report

	// shown is the page Records belong to, 0 before the first load.
	shown int
}

// Initial returns the state before the first page load.
func Initial(rows int) State {
	if rows <= 0 {
		rows = catalog.DefaultPageSize
	}
	return State{
		Page:      1,
		Rows:      rows,
		Selection: &selection.Set{},
	}
}

// Action is an input to Reduce.
type Action interface {
	isAction()
}

// PageRequested marks the start of a page load.
type PageRequested struct{ Page int }

// PageLoaded delivers a fetched page.
type PageLoaded struct {
	Page   int
	Result *catalog.PageResult
}

// PageFailed reports a failed page load.
type PageFailed struct {
	Page int
	Err  error
}

// RowToggled flips the selection of one record on the current page.
type RowToggled struct{ ID int64 }

// PageToggled selects every record on the current page, or deselects them
// all when they are already selected.
type PageToggled struct{}

// SelectionCleared empties the selection.
type SelectionCleared struct{}

// BulkSelectStarted marks the start of a bulk selection.
type BulkSelectStarted struct{ Count int }

// BulkSelectFinished delivers the records gathered by a bulk selection.
type BulkSelectFinished struct {
	Records []catalog.Artwork
	Report  pagination.Report
}

func (PageRequested) isAction()      {}
func (PageLoaded) isAction()         {}
func (PageFailed) isAction()         {}
func (RowToggled) isAction()         {}
func (PageToggled) isAction()        {}
func (SelectionCleared) isAction()   {}
func (BulkSelectStarted) isAction()  {}
func (BulkSelectFinished) isAction() {}

// Reduce applies a to s and returns the next state. It performs no I/O
// and never modifies the selection held by s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case PageRequested:
		s.Page = s.clamp(a.Page)
		s.Loading = true
		s.LastErr = nil

	case PageLoaded:
		if a.Page != s.Page {
			return s
		}
		if a.Result == nil {
			if s.shown > 0 {
				s.Page = s.shown
			}
			s.Loading = false
			return s
		}
		p := a.Result.Pagination
		s.Records = a.Result.Data
		s.shown = a.Page
		s.TotalRecords = p.Total
		s.TotalPages = p.TotalPages
		if p.Limit > 0 {
			s.Rows = p.Limit
		}
		s.Loading = false
		s.LastErr = nil

	case PageFailed:
		if a.Page != s.Page {
			return s
		}
		// Fall back to the page still on screen so Page always names the
		// page Records came from.
		if s.shown > 0 {
			s.Page = s.shown
		}
		s.Loading = false
		s.LastErr = a.Err

	case RowToggled:
		sel := s.Selection.Clone()
		if !sel.Remove(a.ID) {
			for _, r := range s.Records {
				if r.ID == a.ID {
					sel.Add(r)
					break
				}
			}
		}
		s.Selection = sel

	case PageToggled:
		sel := s.Selection.Clone()
		sel.ToggleAll(s.Records)
		s.Selection = sel

	case SelectionCleared:
		s.Selection = &selection.Set{}

	case BulkSelectStarted:
		if a.Count > 0 {
			s.Selecting = true
			s.LastErr = nil
		}

	case BulkSelectFinished:
		s.Selection = selection.Merge(s.Selection, a.Records)
		s.Selecting = false
		s.LastErr = a.Report.Err
		report := a.Report
		s.LastReport = &report
	}
	return s
}

// clamp limits page to [1, TotalPages]. Before the first load the upper
// bound is unknown and only the lower one applies.
func (s State) clamp(page int) int {
	if s.TotalPages > 0 && page > s.TotalPages {
		page = s.TotalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// NextPage returns the page after the current one, clamped.
func (s State) NextPage() int { return s.clamp(s.Page + 1) }

// PrevPage returns the page before the current one, clamped.
func (s State) PrevPage() int { return s.clamp(s.Page - 1) }

// FirstPage returns 1.
func (s State) FirstPage() int { return 1 }

// LastPage returns the last known page.
func (s State) LastPage() int { return s.clamp(s.TotalPages) }

// PageSelected reports whether every record on the current page is
// selected.
func (s State) PageSelected() bool {
	return s.Selection.AllSelected(s.Records)
}
