package models

import (
	"fmt"
	"time"
)

// CachedMovie is a catalog entry persisted in the local sqlite cache for
// offline browsing. Implements [Model].
type CachedMovie struct {
	id        string
	movie     Movie
	kidSafe   bool
	createdAt time.Time
	updatedAt time.Time
}

// NewCachedMovie creates a cache entry for the given catalog movie.
// The kid-safe flag is computed once at cache time so offline filtering
// does not depend on rating semantics changing underneath it.
func NewCachedMovie(movie Movie) *CachedMovie {
	now := time.Now()
	return &CachedMovie{
		movie:     movie,
		kidSafe:   movie.KidSafe(),
		createdAt: now,
		updatedAt: now,
	}
}

func (c *CachedMovie) ID() string { return c.id }
func (c *CachedMovie) CreatedAt() time.Time { return c.createdAt }
func (c *CachedMovie) UpdatedAt() time.Time { return c.updatedAt }

// Movie returns the cached catalog entry.
func (c *CachedMovie) Movie() Movie { return c.movie }

// KidSafe reports the kid-safe flag computed at cache time.
func (c *CachedMovie) KidSafe() bool { return c.kidSafe }

func (c *CachedMovie) SetID(id string)          { c.id = id }
func (c *CachedMovie) SetCreatedAt(t time.Time) { c.createdAt = t }
func (c *CachedMovie) SetUpdatedAt(t time.Time) { c.updatedAt = t }
func (c *CachedMovie) SetKidSafe(kidSafe bool)  { c.kidSafe = kidSafe }

// Validate checks that the entry references a catalog movie with a title.
func (c *CachedMovie) Validate() error {
	if c.movie.ID == "" {
		return fmt.Errorf("cached movie missing catalog id")
	}
	if c.movie.Title == "" {
		return fmt.Errorf("cached movie missing title")
	}
	return nil
}
