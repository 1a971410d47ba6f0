package tui

import (
	"github.com/Sternrassler/artic-table/pkg/pagination"
)

// Message types for the TUI. Results are already folded into the
// controller's state; messages carry only what the status line needs.

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PageLoadedMsg signals that a page load settled
type PageLoadedMsg struct {
	Page int
}

// BulkSelectDoneMsg signals that a bulk selection finished
type BulkSelectDoneMsg struct {
	Report pagination.Report
}

// ClearStatusMsg clears the status line
type ClearStatusMsg struct{}
