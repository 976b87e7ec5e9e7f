// Package tasks implements long-running catalog operations.
//
// The core abstraction is [CatalogEngine], which orchestrates catalog
// refreshes into the local cache, client-side browsing filters, and
// watchlist exports. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers, and backend detail
// fetches are rate limited.
package tasks
