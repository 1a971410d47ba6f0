// Package cache stores catalog listing pages in Redis and revalidates
// them with conditional requests.
//
// It is an online cache: a stored page is only ever replayed after the
// catalog has answered 304 Not Modified for it. When the catalog cannot
// be reached nothing is served from here.
//
// # Usage
//
//	store := cache.NewStore(redisClient)
//	key := cache.PageKey{Page: 2, Limit: 12, Fields: catalog.ArtworkFields}
//
//	entry, err := store.Lookup(ctx, key)
//	if err == nil {
//		entry.Revalidate(req) // If-None-Match / If-Modified-Since
//	}
//	// on 304:  entry.Refresh(resp.Header); store.Save(ctx, key, entry)
//	// on 200:  store.Save(ctx, key, cache.NewPageEntry(body, resp.Header, summary))
//
// Only pages that decoded cleanly should be saved.
//
// # Metrics
//
//   - artic_cache_hits_total
//   - artic_cache_misses_total
//   - artic_cache_written_bytes_total
//   - artic_304_responses_total
//   - artic_conditional_requests_total
//   - artic_cache_errors_total{operation}
package cache
