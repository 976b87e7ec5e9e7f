// Package repositories implements SQLite persistence for the client's
// durable state.
//
// Key Implementations:
//   - [StateRepository] : key-value store behind session.StateStorage
//     (token, account projection, active profile pointer), with an atomic
//     clear so logout never leaves partial state behind
//   - [MovieCacheRepository] : local catalog cache for offline browsing,
//     deduplicated on the backend movie id
//   - [MovieCacheAdapter] : tasks.MovieCacher over the cache repository,
//     treating duplicate inserts as updates
package repositories
