package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"reelx/internal/models"
	"reelx/internal/shared"
)

// MovieCacheRepository implements models.Repository[*models.CachedMovie] for
// the local catalog cache.
//
// Entries are deduplicated on the backend movie id via a UNIQUE constraint;
// the kid-safe flag is stored as computed at cache time so offline filtering
// matches what the viewer saw online.
type MovieCacheRepository struct {
	db *sql.DB
}

// NewMovieCacheRepository creates a new MovieCacheRepository with the given database connection
func NewMovieCacheRepository(db *sql.DB) *MovieCacheRepository {
	return &MovieCacheRepository{db: db}
}

// Create inserts a new [models.CachedMovie] with a generated ID
func (r *MovieCacheRepository) Create(entry *models.CachedMovie) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	entry.SetID(id)

	movie := entry.Movie()
	query := `
		INSERT INTO movie_cache (id, movie_id, title, genre, director, year, rating, duration, description, image_url, imdb_id, kid_safe, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		id,
		movie.ID,
		movie.Title,
		movie.Genre,
		movie.Director,
		movie.Year,
		movie.Rating,
		movie.Duration,
		movie.Description,
		movie.ImageURL,
		movie.ImdbID,
		entry.KidSafe(),
		entry.CreatedAt(),
		entry.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cached movie: %w", err)
	}

	return nil
}

// Get retrieves a cache entry by its local ID
func (r *MovieCacheRepository) Get(id string) (*models.CachedMovie, error) {
	query := selectCachedMovie + " WHERE id = ?"
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByMovieID retrieves a cache entry by the backend's movie id
func (r *MovieCacheRepository) GetByMovieID(movieID string) (*models.CachedMovie, error) {
	query := selectCachedMovie + " WHERE movie_id = ?"
	return r.scanOne(r.db.QueryRow(query, movieID))
}

// Update replaces a cache entry's catalog fields
func (r *MovieCacheRepository) Update(entry *models.CachedMovie) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	entry.SetUpdatedAt(now)

	movie := entry.Movie()
	query := `
		UPDATE movie_cache
		SET title = ?, genre = ?, director = ?, year = ?, rating = ?, duration = ?, description = ?, image_url = ?, imdb_id = ?, kid_safe = ?, updated_at = ?
		WHERE movie_id = ?
	`

	result, err := r.db.Exec(query,
		movie.Title,
		movie.Genre,
		movie.Director,
		movie.Year,
		movie.Rating,
		movie.Duration,
		movie.Description,
		movie.ImageURL,
		movie.ImdbID,
		entry.KidSafe(),
		now,
		movie.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cached movie: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrMovieNotFound, movie.ID)
	}

	return nil
}

// Delete removes a cache entry by its local ID
func (r *MovieCacheRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM movie_cache WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete cached movie: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrMovieNotFound, id)
	}

	return nil
}

// DeleteByMovieID removes a cache entry by the backend's movie id. Entries
// already absent are not an error so catalog refreshes can prune blindly.
func (r *MovieCacheRepository) DeleteByMovieID(movieID string) error {
	if _, err := r.db.Exec("DELETE FROM movie_cache WHERE movie_id = ?", movieID); err != nil {
		return fmt.Errorf("failed to delete cached movie: %w", err)
	}
	return nil
}

// List retrieves cache entries matching the given criteria.
//
// Supported criteria: "genre" (exact), "kid_safe" (bool), "search"
// (case-insensitive substring on the title).
func (r *MovieCacheRepository) List(criteria map[string]any) ([]*models.CachedMovie, error) {
	query := selectCachedMovie
	clauses := []string{}
	args := []any{}

	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		clauses = append(clauses, "genre = ?")
		args = append(args, genre)
	}

	if kidSafe, ok := criteria["kid_safe"].(bool); ok && kidSafe {
		clauses = append(clauses, "kid_safe = 1")
	}

	if search, ok := criteria["search"].(string); ok && search != "" {
		clauses = append(clauses, "title LIKE ? COLLATE NOCASE")
		args = append(args, "%"+search+"%")
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY title ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movie cache: %w", err)
	}
	defer rows.Close()

	var entries []*models.CachedMovie
	for rows.Next() {
		entry, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

const selectCachedMovie = `
	SELECT id, movie_id, title, genre, director, year, rating, duration, description, image_url, imdb_id, kid_safe, created_at, updated_at
	FROM movie_cache`

// scanOne scans a single [sql.Row] into a [models.CachedMovie]
func (r *MovieCacheRepository) scanOne(row *sql.Row) (*models.CachedMovie, error) {
	entry, err := scanCachedMovie(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: cached movie", shared.ErrMovieNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan cached movie: %w", err)
	}
	return entry, nil
}

// scanRow scans a row from [sql.Rows] into a [models.CachedMovie]
func (r *MovieCacheRepository) scanRow(rows *sql.Rows) (*models.CachedMovie, error) {
	entry, err := scanCachedMovie(rows.Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to scan cached movie: %w", err)
	}
	return entry, nil
}

func scanCachedMovie(scan func(dest ...any) error) (*models.CachedMovie, error) {
	var (
		id        string
		movieID   string
		title     string
		genre     string
		director  string
		year      int
		rating    float64
		duration  string
		desc      string
		imageURL  string
		imdbID    string
		kidSafe   bool
		createdAt time.Time
		updatedAt time.Time
	)

	err := scan(&id, &movieID, &title, &genre, &director, &year, &rating, &duration, &desc, &imageURL, &imdbID, &kidSafe, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	entry := models.NewCachedMovie(models.Movie{
		ID:          movieID,
		Title:       title,
		Genre:       genre,
		Director:    director,
		Year:        year,
		Rating:      rating,
		Duration:    duration,
		Description: desc,
		ImageURL:    imageURL,
		ImdbID:      imdbID,
	})
	entry.SetID(id)
	entry.SetKidSafe(kidSafe)
	entry.SetCreatedAt(createdAt)
	entry.SetUpdatedAt(updatedAt)

	return entry, nil
}
