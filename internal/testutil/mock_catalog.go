// Package testutil provides testing utilities for the artworks catalog client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// ArtworksPath is the listing path served by MockCatalog, relative to URL().
const ArtworksPath = "/artworks"

// MockResponse defines a canned response for a page.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockCatalog is a configurable mock of the paginated artworks endpoint.
// By default it serves Total records with IDs 1..Total in order, honoring
// the page and limit query parameters.
type MockCatalog struct {
	server *httptest.Server
	mu     sync.RWMutex

	total       int
	defaultSize int
	pages       map[int]MockResponse
	etag        string

	// Tracking
	RequestCount      int
	ConditionalCount  int
	RequestedPages    []int
	LastRequestHeader http.Header
	LastQuery         url.Values
}

// NewMockCatalog creates a mock catalog holding total records.
func NewMockCatalog(total int) *MockCatalog {
	mock := &MockCatalog{
		total:       total,
		defaultSize: 12,
		pages:       make(map[int]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// URL returns the mock server URL, usable as the client base URL.
func (m *MockCatalog) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockCatalog) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockCatalog) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.RequestedPages = nil
	m.LastRequestHeader = nil
	m.LastQuery = nil
}

// SetTotal changes the number of records served.
func (m *MockCatalog) SetTotal(total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = total
}

// SetPageResponse replaces the generated response for one page.
func (m *MockCatalog) SetPageResponse(page int, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[page] = resp
}

// EnableETag makes generated pages carry etag and answer 304 to a
// matching If-None-Match.
func (m *MockCatalog) EnableETag(etag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.etag = etag
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockCatalog) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockCatalog) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// GetRequestedPages returns the page numbers requested so far, in order.
func (m *MockCatalog) GetRequestedPages() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int, len(m.RequestedPages))
	copy(out, m.RequestedPages)
	return out
}

func (m *MockCatalog) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != ArtworksPath {
		http.NotFound(w, r)
		return
	}

	query := r.URL.Query()
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	m.mu.Lock()
	m.RequestCount++
	m.RequestedPages = append(m.RequestedPages, page)
	m.LastRequestHeader = r.Header.Clone()
	m.LastQuery = query
	if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
		m.ConditionalCount++
	}
	canned, hasCanned := m.pages[page]
	total := m.total
	size := m.defaultSize
	etag := m.etag
	m.mu.Unlock()

	if hasCanned {
		writeCanned(w, canned)
		return
	}

	if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit > 0 {
		size = limit
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-RateLimit-Remaining", "58")
	w.Header().Set("X-RateLimit-Reset", "60")
	w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))

	if etag != "" {
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(PageBody(total, size, page)))
}

func writeCanned(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// PageBody renders a listing response for page of a catalog holding total
// records with IDs 1..total.
func PageBody(total, size, page int) string {
	type record struct {
		ID            int64   `json:"id"`
		Title         string  `json:"title"`
		PlaceOfOrigin string  `json:"place_of_origin"`
		ArtistDisplay string  `json:"artist_display"`
		Inscriptions  *string `json:"inscriptions"`
		DateStart     int     `json:"date_start"`
		DateEnd       int     `json:"date_end"`
	}

	totalPages := (total + size - 1) / size
	data := []record{}
	for i := (page - 1) * size; i < page*size && i < total; i++ {
		id := i + 1
		data = append(data, record{
			ID:            int64(id),
			Title:         fmt.Sprintf("Artwork %d", id),
			PlaceOfOrigin: "Chicago",
			ArtistDisplay: fmt.Sprintf("Artist %d", id%7),
			DateStart:     1800 + id%200,
			DateEnd:       1801 + id%200,
		})
	}

	body := map[string]any{
		"pagination": map[string]int{
			"total":        total,
			"limit":        size,
			"offset":       (page - 1) * size,
			"total_pages":  totalPages,
			"current_page": page,
		},
		"data": data,
	}
	out, _ := json.Marshal(body)
	return string(out)
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"status": 500, "error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"status": 429, "error": "Too many requests"}`,
		Headers: map[string]string{
			"X-RateLimit-Remaining": "0",
			"X-RateLimit-Reset":     "30",
			"Content-Type":          "application/json; charset=utf-8",
		},
	}
}

// NewNotFoundResponse creates a 404 Not Found response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"status": 404, "error": "Not found"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewMalformedResponse creates a 200 response whose body is not valid JSON.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"data": [`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}
