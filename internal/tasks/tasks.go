package tasks

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"reelx/internal/models"
	"reelx/internal/shared"
)

// CatalogAPI is the slice of the movie service the engine consumes.
type CatalogAPI interface {
	List(ctx context.Context) ([]models.Movie, error)
	Details(ctx context.Context, imdbID string) (*models.MovieDetails, error)
}

// WatchlistAPI fetches a profile's saved movies.
type WatchlistAPI interface {
	Watchlist(ctx context.Context, profileID string) ([]models.Movie, error)
}

// MovieCacher persists catalog entries locally (see repositories.MovieCacheAdapter).
type MovieCacher interface {
	CacheMovie(movie models.Movie) error
}

// RefreshOpts contains configuration for a catalog refresh.
type RefreshOpts struct {
	RateLimit   float64 // Detail requests per second (default: 5)
	WithDetails bool    // Enrich entries missing a description from the details proxy
}

// RefreshError records a single failed entry during a refresh.
type RefreshError struct {
	MovieID string
	Title   string
	Err     error
}

// RefreshResult summarizes a catalog refresh.
type RefreshResult struct {
	TotalMovies    int
	Cached         int
	DetailsFetched int
	Failed         int
	Errors         []RefreshError
}

// BrowseOpts contains client-side catalog filters.
type BrowseOpts struct {
	Genre       string // Exact genre match
	Search      string // Case-insensitive substring on title or director
	KidSafeOnly bool   // Restrict to titles shown to child profiles
}

// CatalogEngine orchestrates catalog refreshes, browsing, and exports.
type CatalogEngine struct {
	movies   CatalogAPI
	profiles WatchlistAPI
	cache    MovieCacher
}

// NewCatalogEngine creates a new CatalogEngine with the provided dependencies.
// The cacher may be nil; refreshes then only report what they fetched.
func NewCatalogEngine(movies CatalogAPI, profiles WatchlistAPI, cache MovieCacher) *CatalogEngine {
	return &CatalogEngine{
		movies:   movies,
		profiles: profiles,
		cache:    cache,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CatalogEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Refresh fetches the full catalog and caches every entry locally.
//
// When opts.WithDetails is set, entries missing a description are enriched
// from the details proxy; those requests are rate limited so a large catalog
// does not hammer the backend. Per-entry failures are collected, not fatal.
func (e *CatalogEngine) Refresh(ctx context.Context, progress chan<- ProgressUpdate, opts RefreshOpts) (*RefreshResult, error) {
	if e.movies == nil {
		return nil, fmt.Errorf("%w: movie service not initialized", shared.ErrServerUnreachable)
	}

	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	e.sendProgress(progress, fetchCatalogUpdate(1, 1))

	movies, err := e.movies.List(ctx)
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{TotalMovies: len(movies)}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	for i, movie := range movies {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if opts.WithDetails && movie.ImdbID != "" && movie.Description == "" {
			if err := limiter.Wait(ctx); err != nil {
				return result, err
			}

			e.sendProgress(progress, fetchDetailsUpdate(i+1, len(movies), movie.Title))
			details, err := e.movies.Details(ctx, movie.ImdbID)
			if err != nil {
				result.Errors = append(result.Errors, RefreshError{MovieID: movie.ID, Title: movie.Title, Err: err})
			} else {
				movie.Description = details.Plot
				result.DetailsFetched++
			}
		}

		if e.cache != nil {
			e.sendProgress(progress, cacheCatalogUpdate(i+1, len(movies), movie.Title))
			if err := e.cache.CacheMovie(movie); err != nil {
				result.Failed++
				result.Errors = append(result.Errors, RefreshError{MovieID: movie.ID, Title: movie.Title, Err: err})
				continue
			}
		}
		result.Cached++
	}

	return result, nil
}

// FilterMovies applies browsing filters to a catalog listing. Pure: the input
// slice is never modified.
func FilterMovies(movies []models.Movie, opts BrowseOpts) []models.Movie {
	search := ""
	if opts.Search != "" {
		search = shared.NormalizeTitleKey(opts.Search, "")
		search = strings.TrimSuffix(search, "|")
	}

	var out []models.Movie
	for _, movie := range movies {
		if opts.KidSafeOnly && !movie.KidSafe() {
			continue
		}
		if opts.Genre != "" && movie.Genre != opts.Genre {
			continue
		}
		if search != "" && !strings.Contains(shared.NormalizeTitleKey(movie.Title, movie.Director), search) {
			continue
		}
		out = append(out, movie)
	}
	return out
}
