package pagination

import "github.com/Sternrassler/artic-table/pkg/selection"

// Outcome is the serialized form of a bulk selection: the report plus the
// resulting selection.
type Outcome struct {
	Requested    int            `json:"requested"`
	Taken        int            `json:"taken"`
	StartPage    int            `json:"start_page"`
	LastPage     int            `json:"last_page"`
	PagesFetched int            `json:"pages_fetched"`
	Exhausted    bool           `json:"exhausted"`
	Error        string         `json:"error,omitempty"`
	Records      *selection.Set `json:"records"`
}

// NewOutcome combines a selection with the report of the run that built it.
func NewOutcome(sel *selection.Set, r Report) Outcome {
	if sel == nil {
		sel = &selection.Set{}
	}
	o := Outcome{
		Requested:    r.Requested,
		Taken:        r.Taken,
		StartPage:    r.StartPage,
		LastPage:     r.LastPage,
		PagesFetched: r.PagesFetched,
		Exhausted:    r.Exhausted,
		Records:      sel,
	}
	if r.Err != nil {
		o.Error = r.Err.Error()
	}
	return o
}
