package cache

import (
	"net/http"
	"testing"
	"time"
)

var pageBody = []byte(`{"pagination":{"total":120,"limit":12,"total_pages":10,"current_page":2},"data":[{"id":13}]}`)

func TestNewPageEntry(t *testing.T) {
	lastMod := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	header := http.Header{}
	header.Set("ETag", `W/"p2-v1"`)
	header.Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
	header.Set("Last-Modified", lastMod.Format(http.TimeFormat))

	entry := NewPageEntry(pageBody, header, PageSummary{Total: 120, TotalPages: 10, Records: 12})

	if string(entry.Body) != string(pageBody) {
		t.Errorf("Body = %s", entry.Body)
	}
	if entry.ETag != `W/"p2-v1"` {
		t.Errorf("ETag = %q", entry.ETag)
	}
	if !entry.LastModified.Equal(lastMod) {
		t.Errorf("LastModified = %v, want %v", entry.LastModified, lastMod)
	}
	if entry.TotalPages != 10 || entry.Total != 120 || entry.Records != 12 {
		t.Errorf("summary = %d/%d/%d", entry.Total, entry.TotalPages, entry.Records)
	}
	if ttl := entry.TTL(); ttl < 58*time.Minute || ttl > time.Hour {
		t.Errorf("TTL = %v, want about 1h", ttl)
	}
	if entry.Age() > time.Second {
		t.Errorf("Age = %v for a fresh entry", entry.Age())
	}
}

func TestNewPageEntry_BadLastModifiedIgnored(t *testing.T) {
	header := http.Header{"Last-Modified": []string{"yesterday"}}
	entry := NewPageEntry(pageBody, header, PageSummary{})
	if !entry.LastModified.IsZero() {
		t.Errorf("LastModified = %v, want zero", entry.LastModified)
	}
}

func TestExpiresFrom(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expires string
		want    time.Time
	}{
		{"catalog expiry", now.Add(10 * time.Minute).Format(http.TimeFormat), now.Add(10 * time.Minute)},
		{"missing header", "", now.Add(DefaultTTL)},
		{"malformed header", "soon", now.Add(DefaultTTL)},
		{"already past", now.Add(-time.Minute).Format(http.TimeFormat), now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.expires != "" {
				header.Set("Expires", tt.expires)
			}
			if got := expiresFrom(header, now); !got.Equal(tt.want) {
				t.Errorf("expiresFrom() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageEntry_Expired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{"fresh page", time.Now().Add(time.Minute), false},
		{"stale page", time.Now().Add(-time.Second), true},
		{"zero expiry", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &PageEntry{Expires: tt.expires}
			if got := e.Expired(); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
			if tt.want && e.TTL() != 0 {
				t.Errorf("TTL() = %v for an expired entry", e.TTL())
			}
		})
	}
}
