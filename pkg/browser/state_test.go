package browser

import (
	"errors"
	"testing"

	"github.com/Sternrassler/artic-table/pkg/catalog"
	"github.com/Sternrassler/artic-table/pkg/pagination"
	"github.com/Sternrassler/artic-table/pkg/selection"
)

func pageOf(page, totalPages int, ids ...int64) *catalog.PageResult {
	result := &catalog.PageResult{
		Pagination: catalog.Pagination{
			Total:       totalPages * 12,
			Limit:       12,
			TotalPages:  totalPages,
			CurrentPage: page,
		},
	}
	for _, id := range ids {
		result.Data = append(result.Data, catalog.Artwork{ID: id})
	}
	return result
}

func loaded(page, totalPages int, ids ...int64) State {
	s := Reduce(Initial(12), PageRequested{Page: page})
	return Reduce(s, PageLoaded{Page: page, Result: pageOf(page, totalPages, ids...)})
}

func TestInitial(t *testing.T) {
	s := Initial(0)
	if s.Page != 1 {
		t.Errorf("Page = %d, want 1", s.Page)
	}
	if s.Rows != catalog.DefaultPageSize {
		t.Errorf("Rows = %d, want %d", s.Rows, catalog.DefaultPageSize)
	}
	if s.Selection == nil || s.Selection.Len() != 0 {
		t.Error("initial selection should be empty")
	}
}

func TestReduce_PageLifecycle(t *testing.T) {
	s := Reduce(Initial(12), PageRequested{Page: 3})
	if !s.Loading || s.Page != 3 {
		t.Fatalf("after request: Loading=%v Page=%d", s.Loading, s.Page)
	}

	s = Reduce(s, PageLoaded{Page: 3, Result: pageOf(3, 10, 25, 26)})
	if s.Loading {
		t.Error("Loading should be cleared")
	}
	if len(s.Records) != 2 || s.TotalPages != 10 || s.TotalRecords != 120 {
		t.Errorf("unexpected state: %+v", s)
	}
}

func TestReduce_StalePageDiscarded(t *testing.T) {
	s := Reduce(Initial(12), PageRequested{Page: 2})
	s = Reduce(s, PageRequested{Page: 3})

	s = Reduce(s, PageLoaded{Page: 2, Result: pageOf(2, 10, 13)})
	if !s.Loading || len(s.Records) != 0 {
		t.Error("stale page load should be ignored")
	}

	s = Reduce(s, PageFailed{Page: 2, Err: errors.New("late")})
	if s.LastErr != nil {
		t.Error("stale failure should be ignored")
	}
}

func TestReduce_PageFailedKeepsRecords(t *testing.T) {
	s := loaded(1, 10, 1, 2, 3)
	s = Reduce(s, PageRequested{Page: 2})
	fail := errors.New("boom")
	s = Reduce(s, PageFailed{Page: 2, Err: fail})

	if s.Loading {
		t.Error("Loading should be cleared after failure")
	}
	if !errors.Is(s.LastErr, fail) {
		t.Errorf("LastErr = %v", s.LastErr)
	}
	if len(s.Records) != 3 {
		t.Errorf("records should be kept, got %d", len(s.Records))
	}
	if s.Page != 1 {
		t.Errorf("Page = %d, want 1 (the page still on screen)", s.Page)
	}
	if s.NextPage() != 2 {
		t.Errorf("NextPage = %d, want 2", s.NextPage())
	}
}

func TestReduce_NilPageClearsLoading(t *testing.T) {
	s := loaded(1, 10, 1, 2, 3)
	s = Reduce(s, PageRequested{Page: 2})
	s = Reduce(s, PageLoaded{Page: 2})

	if s.Loading {
		t.Error("Loading should be cleared")
	}
	if len(s.Records) != 3 || s.Page != 1 {
		t.Errorf("records = %d page = %d, want the previous 3 on page 1", len(s.Records), s.Page)
	}
}

func TestReduce_FirstPageFailedKeepsRequestedPage(t *testing.T) {
	s := Reduce(Initial(12), PageRequested{Page: 1})
	s = Reduce(s, PageFailed{Page: 1, Err: errors.New("offline")})

	if s.Page != 1 || s.Loading {
		t.Errorf("Page = %d Loading = %v, want 1/false", s.Page, s.Loading)
	}
}

func TestReduce_RowToggled(t *testing.T) {
	s := loaded(1, 10, 1, 2, 3)
	before := s.Selection

	s = Reduce(s, RowToggled{ID: 2})
	if !s.Selection.Has(2) {
		t.Error("row 2 should be selected")
	}
	if before.Len() != 0 {
		t.Error("Reduce mutated the previous selection")
	}

	s = Reduce(s, RowToggled{ID: 2})
	if s.Selection.Has(2) {
		t.Error("row 2 should be deselected")
	}

	// Not on the page and not selected: nothing to add
	s = Reduce(s, RowToggled{ID: 99})
	if s.Selection.Len() != 0 {
		t.Error("unknown row should not be selected")
	}
}

func TestReduce_RowToggledOffPage(t *testing.T) {
	s := loaded(1, 10, 1, 2)
	s = Reduce(s, RowToggled{ID: 1})
	s = Reduce(s, PageRequested{Page: 2})
	s = Reduce(s, PageLoaded{Page: 2, Result: pageOf(2, 10, 13, 14)})

	// Still removable by ID from another page
	s = Reduce(s, RowToggled{ID: 1})
	if s.Selection.Has(1) {
		t.Error("row 1 should be deselected")
	}
}

func TestReduce_PageToggled(t *testing.T) {
	s := loaded(1, 10, 1, 2, 3)
	s = Reduce(s, RowToggled{ID: 2})

	s = Reduce(s, PageToggled{})
	if !s.PageSelected() {
		t.Error("page should be fully selected")
	}

	s = Reduce(s, PageToggled{})
	if s.Selection.Len() != 0 {
		t.Errorf("page should be deselected, got %v", s.Selection.IDs())
	}
}

func TestReduce_BulkSelect(t *testing.T) {
	s := loaded(1, 10, 1, 2, 3)
	s = Reduce(s, BulkSelectStarted{Count: 5})
	if !s.Selecting {
		t.Error("Selecting should be set")
	}

	// User toggles a row while the bulk run is in flight
	s = Reduce(s, RowToggled{ID: 3})

	report := pagination.Report{Requested: 5, Taken: 2}
	s = Reduce(s, BulkSelectFinished{
		Records: []catalog.Artwork{{ID: 1}, {ID: 2}},
		Report:  report,
	})

	if s.Selecting {
		t.Error("Selecting should be cleared")
	}
	want := []int64{3, 1, 2}
	got := s.Selection.IDs()
	if len(got) != len(want) {
		t.Fatalf("IDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("IDs = %v, want %v", got, want)
		}
	}
	if s.LastReport == nil || s.LastReport.Taken != 2 {
		t.Errorf("LastReport = %+v", s.LastReport)
	}
}

func TestReduce_BulkSelectStartedIgnoresNonPositive(t *testing.T) {
	s := Reduce(Initial(12), BulkSelectStarted{Count: 0})
	if s.Selecting {
		t.Error("count 0 should not start a bulk selection")
	}
}

func TestReduce_BulkSelectFailureRecorded(t *testing.T) {
	fail := errors.New("page 2 failed")
	s := Reduce(Initial(12), BulkSelectStarted{Count: 20})
	s = Reduce(s, BulkSelectFinished{
		Records: []catalog.Artwork{{ID: 1}},
		Report:  pagination.Report{Requested: 20, Taken: 1, Err: fail},
	})
	if !errors.Is(s.LastErr, fail) {
		t.Errorf("LastErr = %v", s.LastErr)
	}
	if s.Selection.Len() != 1 {
		t.Error("partial records should be merged")
	}
}

func TestReduce_SelectionCleared(t *testing.T) {
	s := Initial(12)
	s.Selection = selection.New(catalog.Artwork{ID: 1})
	s = Reduce(s, SelectionCleared{})
	if s.Selection.Len() != 0 {
		t.Error("selection should be empty")
	}
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		next, prev int
		last       int
	}{
		{"middle", 5, 10, 6, 4, 10},
		{"first page", 1, 10, 2, 1, 10},
		{"last page", 10, 10, 10, 9, 10},
		{"single page", 1, 1, 1, 1, 1},
		{"unknown total", 1, 0, 2, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{Page: tt.page, TotalPages: tt.totalPages}
			if got := s.NextPage(); got != tt.next {
				t.Errorf("NextPage = %d, want %d", got, tt.next)
			}
			if got := s.PrevPage(); got != tt.prev {
				t.Errorf("PrevPage = %d, want %d", got, tt.prev)
			}
			if got := s.FirstPage(); got != 1 {
				t.Errorf("FirstPage = %d, want 1", got)
			}
			if got := s.LastPage(); got != tt.last {
				t.Errorf("LastPage = %d, want %d", got, tt.last)
			}
		})
	}
}

func TestReduce_PageRequestedClamps(t *testing.T) {
	s := loaded(1, 4, 1)
	if got := Reduce(s, PageRequested{Page: 9}).Page; got != 4 {
		t.Errorf("Page = %d, want 4", got)
	}
	if got := Reduce(s, PageRequested{Page: 0}).Page; got != 1 {
		t.Errorf("Page = %d, want 1", got)
	}
}
