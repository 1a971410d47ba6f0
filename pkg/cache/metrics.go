package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts lookups answered by a live entry.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artic_cache_hits_total",
		Help: "Catalog page lookups answered by a cached entry",
	})

	// CacheMisses counts lookups with no live entry.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artic_cache_misses_total",
		Help: "Catalog page lookups with no cached entry",
	})

	// CacheWrittenBytes counts bytes written to Redis.
	CacheWrittenBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artic_cache_written_bytes_total",
		Help: "Bytes of catalog pages written to the cache",
	})

	// NotModifiedResponses counts 304 answers that refreshed an entry.
	NotModifiedResponses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artic_304_responses_total",
		Help: "Catalog 304 Not Modified responses served from the cache",
	})

	// ConditionalRequests counts page requests sent with a validator.
	ConditionalRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artic_conditional_requests_total",
		Help: "Catalog page requests sent with If-None-Match or If-Modified-Since",
	})

	// CacheErrors counts failed Redis operations by operation.
	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artic_cache_errors_total",
		Help: "Failed cache operations",
	}, []string{"operation"}) // get, set, delete
)
