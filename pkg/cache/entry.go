package cache

import (
	"net/http"
	"time"
)

// DefaultTTL applies when the catalog sends no usable Expires header.
const DefaultTTL = 5 * time.Minute

// PageEntry is a cached listing page: the raw body for replay plus the
// validators and pagination summary it was stored with.
type PageEntry struct {
	Body []byte `json:"body"`

	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified,omitzero"`
	Expires      time.Time `json:"expires"`
	CachedAt     time.Time `json:"cached_at"`

	// Pagination summary of Body, kept so revalidation can be logged
	// without decoding the body again.
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	Records    int `json:"records"`
}

// PageSummary is the pagination data a caller has already decoded from a
// page body.
type PageSummary struct {
	Total      int
	TotalPages int
	Records    int
}

// NewPageEntry builds an entry from a successful page response. header is
// the response header; body must be the complete, already decoded body.
func NewPageEntry(body []byte, header http.Header, summary PageSummary) *PageEntry {
	now := time.Now()
	e := &PageEntry{
		Body:       body,
		ETag:       header.Get("ETag"),
		Expires:    expiresFrom(header, now),
		CachedAt:   now,
		Total:      summary.Total,
		TotalPages: summary.TotalPages,
		Records:    summary.Records,
	}
	if lm := header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			e.LastModified = t
		}
	}
	return e
}

// TTL returns the time left until the entry expires, 0 once it has.
func (e *PageEntry) TTL() time.Duration {
	return max(time.Until(e.Expires), 0)
}

// Expired reports whether the entry is past its Expires time.
func (e *PageEntry) Expired() bool {
	return e.TTL() == 0
}

// Age returns how long ago the entry was stored.
func (e *PageEntry) Age() time.Duration {
	return time.Since(e.CachedAt)
}

// expiresFrom reads Expires from header. A missing or malformed header
// yields now+DefaultTTL; a date in the past yields now.
func expiresFrom(header http.Header, now time.Time) time.Time {
	v := header.Get("Expires")
	if v == "" {
		return now.Add(DefaultTTL)
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return now.Add(DefaultTTL)
	}
	if t.Before(now) {
		return now
	}
	return t
}
