package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ArtworkFields is the field list requested from the artworks endpoint.
// Restricting fields keeps page payloads small.
var ArtworkFields = []string{
	"id",
	"title",
	"place_of_origin",
	"artist_display",
	"inscriptions",
	"date_start",
	"date_end",
}

// Artwork is a single artwork record as returned by the catalog.
// All fields except ID are nullable in the API and kept as pointers.
type Artwork struct {
	// ID is the stable catalog identifier. Zero means undefined.
	ID int64 `json:"id"`

	Title         *string `json:"title"`
	PlaceOfOrigin *string `json:"place_of_origin"`
	ArtistDisplay *string `json:"artist_display"`
	Inscriptions  *string `json:"inscriptions"`
	DateStart     *int    `json:"date_start"`
	DateEnd       *int    `json:"date_end"`
}

// HasID reports whether the record carries a defined identifier.
func (a Artwork) HasID() bool {
	return a.ID != 0
}

// Pagination is the pagination block of a catalog listing response.
type Pagination struct {
	Total       int `json:"total"`
	Limit       int `json:"limit"`
	Offset      int `json:"offset"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

// PageResult is one decoded page of artworks.
type PageResult struct {
	Data       []Artwork  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Len returns the number of records on the page.
func (p *PageResult) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Data)
}

// decodePage parses a listing response body.
func decodePage(body []byte) (*PageResult, error) {
	var page PageResult
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, err
	}
	if page.Data == nil {
		page.Data = []Artwork{}
	}
	return &page, nil
}

// Text returns the dereferenced string or an empty string for null.
func Text(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// Year formats a nullable year for display.
func Year(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}
