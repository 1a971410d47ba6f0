package cache

import (
	"net/http"
	"time"
)

// Revalidate adds If-None-Match, or If-Modified-Since when the entry has
// no ETag, to req. It reports whether a validator was added; without one
// the catalog cannot answer 304 and the request is a plain fetch.
func (e *PageEntry) Revalidate(req *http.Request) bool {
	if e == nil || req == nil {
		return false
	}
	switch {
	case e.ETag != "":
		req.Header.Set("If-None-Match", e.ETag)
	case !e.LastModified.IsZero():
		req.Header.Set("If-Modified-Since", e.LastModified.UTC().Format(http.TimeFormat))
	default:
		return false
	}
	ConditionalRequests.Inc()
	return true
}

// Refresh applies the headers of a 304 response: a new Expires extends
// the entry, a new ETag replaces the old one.
func (e *PageEntry) Refresh(header http.Header) {
	NotModifiedResponses.Inc()
	if header.Get("Expires") != "" {
		e.Expires = expiresFrom(header, time.Now())
	}
	if etag := header.Get("ETag"); etag != "" {
		e.ETag = etag
	}
}
