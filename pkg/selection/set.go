// Package selection holds the user's multi-page artwork selection.
package selection

import (
	"encoding/json"

	"github.com/Sternrassler/artic-table/pkg/catalog"
)

// Set maps artwork identifiers to records. Each identifier appears at
// most once. Iteration follows first-insertion order; re-adding an
// identifier replaces its record without moving it.
//
// The zero value is an empty set ready to use. A Set is not safe for
// concurrent mutation.
type Set struct {
	order   []int64
	records map[int64]catalog.Artwork
}

// New returns a set holding the given records, in order.
func New(records ...catalog.Artwork) *Set {
	s := &Set{}
	for _, r := range records {
		s.Add(r)
	}
	return s
}

// Add stores the record under its identifier, replacing any previous
// record with the same identifier. Records without an identifier are
// ignored; Add reports whether the record was stored.
func (s *Set) Add(r catalog.Artwork) bool {
	if !r.HasID() {
		return false
	}
	if s.records == nil {
		s.records = make(map[int64]catalog.Artwork)
	}
	if _, ok := s.records[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.records[r.ID] = r
	return true
}

// Remove deletes the identifier and reports whether it was present.
func (s *Set) Remove(id int64) bool {
	if _, ok := s.records[id]; !ok {
		return false
	}
	delete(s.records, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Toggle removes the record if selected and adds it otherwise.
// It returns true when the record is selected afterwards.
func (s *Set) Toggle(r catalog.Artwork) bool {
	if s.Has(r.ID) {
		s.Remove(r.ID)
		return false
	}
	return s.Add(r)
}

// Has reports whether the identifier is selected.
func (s *Set) Has(id int64) bool {
	if s == nil {
		return false
	}
	_, ok := s.records[id]
	return ok
}

// Get returns the stored record for id.
func (s *Set) Get(id int64) (catalog.Artwork, bool) {
	if s == nil {
		return catalog.Artwork{}, false
	}
	r, ok := s.records[id]
	return r, ok
}

// Len returns the number of selected records.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// IDs returns the selected identifiers in insertion order.
func (s *Set) IDs() []int64 {
	if s == nil {
		return nil
	}
	ids := make([]int64, len(s.order))
	copy(ids, s.order)
	return ids
}

// Records returns the selected records in insertion order.
func (s *Set) Records() []catalog.Artwork {
	if s == nil {
		return nil
	}
	out := make([]catalog.Artwork, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	if s == nil {
		return &Set{}
	}
	return New(s.Records()...)
}

// AllSelected reports whether every record with an identifier in page is
// selected. An empty page is never fully selected.
func (s *Set) AllSelected(page []catalog.Artwork) bool {
	seen := 0
	for _, r := range page {
		if !r.HasID() {
			continue
		}
		if !s.Has(r.ID) {
			return false
		}
		seen++
	}
	return seen > 0
}

// ToggleAll deselects every record of page when all of them are selected,
// and selects all of them otherwise.
func (s *Set) ToggleAll(page []catalog.Artwork) {
	if s.AllSelected(page) {
		for _, r := range page {
			s.Remove(r.ID)
		}
		return
	}
	for _, r := range page {
		s.Add(r)
	}
}

// Merge returns a new set built from existing followed by records.
// A record sharing an identifier with an earlier one replaces its data;
// records without an identifier are dropped. existing is not modified.
func Merge(existing *Set, records []catalog.Artwork) *Set {
	merged := existing.Clone()
	for _, r := range records {
		merged.Add(r)
	}
	return merged
}

// MarshalJSON encodes the set as an array of records in insertion order.
func (s *Set) MarshalJSON() ([]byte, error) {
	records := s.Records()
	if records == nil {
		records = []catalog.Artwork{}
	}
	return json.Marshal(records)
}
