// Package metrics exposes the Prometheus metrics of the artworks client.
// All metrics are defined in their respective packages (catalog, cache,
// ratelimit, pagination) to maintain modularity and avoid circular
// dependencies.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer collects the metrics registered with Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the registered metrics in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - artic_rate_limit_remaining (Gauge): Requests remaining in the current window
//   - artic_rate_limit_blocks_total (Counter): Requests blocked at the critical threshold
//   - artic_rate_limit_throttles_total (Counter): Requests delayed at the warning threshold
//
// Cache Metrics (pkg/cache):
//   - artic_cache_hits_total (Counter): Page lookups answered from Redis
//   - artic_cache_misses_total (Counter): Page lookups with no live entry
//   - artic_cache_written_bytes_total (Counter): Bytes of pages written to Redis
//   - artic_304_responses_total (Counter): 304 Not Modified responses replayed
//   - artic_conditional_requests_total (Counter): Conditional requests sent
//   - artic_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/catalog):
//   - artic_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - artic_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - artic_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Bulk Selection Metrics (pkg/pagination):
//   - artic_bulk_select_runs_total{outcome} (Counter): Runs by outcome (complete, exhausted, truncated)
//   - artic_bulk_select_records_total (Counter): Records taken
//   - artic_bulk_select_pages (Histogram): Pages fetched per run
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(artic_cache_hits_total[5m])) /
//   (sum(rate(artic_cache_hits_total[5m])) + sum(rate(artic_cache_misses_total[5m])))
//
//   # Truncated bulk selections
//   rate(artic_bulk_select_runs_total{outcome="truncated"}[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(artic_request_duration_seconds_bucket[5m]))
