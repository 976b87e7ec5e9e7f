package repositories

import (
	"fmt"
	"strings"

	"reelx/internal/models"
)

// MovieCacheAdapter implements tasks.MovieCacher using MovieCacheRepository.
//
// Catalog refreshes call CacheMovie for every entry; existing entries are
// updated in place and races on the UNIQUE movie_id constraint resolve as
// updates rather than errors.
type MovieCacheAdapter struct {
	repo *MovieCacheRepository
}

// NewMovieCacheAdapter creates a new MovieCacheAdapter with the given repository
func NewMovieCacheAdapter(repo *MovieCacheRepository) *MovieCacheAdapter {
	return &MovieCacheAdapter{repo: repo}
}

// CacheMovie caches a catalog entry, updating it when already present.
func (a *MovieCacheAdapter) CacheMovie(movie models.Movie) error {
	entry := models.NewCachedMovie(movie)

	existing, err := a.repo.GetByMovieID(movie.ID)
	if err == nil && existing != nil {
		return a.repo.Update(entry)
	}

	if err := a.repo.Create(entry); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return a.repo.Update(entry)
		}
		return fmt.Errorf("failed to cache movie: %w", err)
	}

	return nil
}
