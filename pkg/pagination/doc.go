// Package pagination walks the paginated artworks catalog to build bulk
// selections.
//
// The walk is strictly sequential: the next page number and the stop
// condition both depend on the previous page's pagination block, so no
// page is requested before the previous one has been inspected.
//
// Example usage:
//
//	acc := pagination.NewAccumulator(catalogClient)
//	sel, report := acc.SelectCount(ctx, 15, currentPage, sel)
//	if report.Truncated() {
//		// partial selection, already merged
//	}
//
// A run ends when:
//   - the requested number of records has been taken
//   - the next page would be past total_pages, or a page is empty (Exhausted)
//   - a fetch fails or ctx is done (Err set, partial records kept)
package pagination
