// package models defines the data model for the reelx catalog client
package models

import (
	"time"
)

// Model defines the base interface for all locally persisted models.
// Implementations include CachedMovie.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Account is the read-only projection of a backend account held by the client.
type Account struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Profile is a household member sub-identity under one account.
type Profile struct {
	ID             string `json:"id"`
	OwnerAccountID string `json:"userId"`
	Name           string `json:"name"`
	IsChild        bool   `json:"isChild"`
	AvatarURL      string `json:"imageUrl"`
}

// Movie is a catalog entry.
type Movie struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Director    string  `json:"director"`
	Year        int     `json:"year"`
	Rating      float64 `json:"rating"`
	Duration    string  `json:"duration"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	ImdbID      string  `json:"imdbId"`
}

// KidSafe reports whether the movie is shown to child profiles: animated or
// family titles, or anything rated 7 or lower.
func (m Movie) KidSafe() bool {
	return m.Genre == "animation" || m.Genre == "family" || m.Rating <= 7
}

// MovieDetails carries the OMDb-enriched detail payload proxied by the backend.
type MovieDetails struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
	Response   string `json:"Response"`
}
