// Movie catalog endpoints of the catalog backend
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"reelx/internal/models"
	"reelx/internal/shared"
)

// MovieInput carries the fields for movie create/update (admin console).
// Unlike profiles these are sent as plain JSON.
type MovieInput struct {
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Director    string  `json:"director,omitempty"`
	Year        int     `json:"year,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Duration    string  `json:"duration,omitempty"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	ImdbID      string  `json:"imdbId,omitempty"`
}

// MovieService wraps the backend's /movies endpoints.
type MovieService struct {
	api *APIService
}

// NewMovieService creates a MovieService on top of the given transport.
func NewMovieService(api *APIService) *MovieService {
	return &MovieService{api: api}
}

// List fetches the full catalog. Child-profile filtering happens client-side
// (see tasks.CatalogEngine), matching the backend contract.
func (s *MovieService) List(ctx context.Context) ([]models.Movie, error) {
	resp, err := s.api.Get(ctx, "/movies")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorMessage())
	}

	var movies []models.Movie
	if err := json.Unmarshal(resp.Body, &movies); err != nil {
		return nil, fmt.Errorf("failed to decode movie list: %w", err)
	}

	return movies, nil
}

// Get fetches a single catalog entry by id.
func (s *MovieService) Get(ctx context.Context, id string) (*models.Movie, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	resp, err := s.api.Get(ctx, "/movies/"+id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, id)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorMessage())
	}

	var movie models.Movie
	if err := json.Unmarshal(resp.Body, &movie); err != nil {
		return nil, fmt.Errorf("failed to decode movie: %w", err)
	}

	return &movie, nil
}

// Details fetches OMDb-enriched details for a movie through the backend proxy.
func (s *MovieService) Details(ctx context.Context, imdbID string) (*models.MovieDetails, error) {
	if imdbID == "" {
		return nil, fmt.Errorf("%w: imdb id", shared.ErrMissingArgument)
	}

	resp, err := s.api.Get(ctx, "/movies/details/"+imdbID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, imdbID)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorMessage())
	}

	var details models.MovieDetails
	if err := json.Unmarshal(resp.Body, &details); err != nil {
		return nil, fmt.Errorf("failed to decode movie details: %w", err)
	}
	if details.Response == "False" {
		return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, imdbID)
	}

	return &details, nil
}

// Create adds a catalog entry. Admin only.
func (s *MovieService) Create(ctx context.Context, input MovieInput) (*models.Movie, error) {
	resp, err := s.submit(ctx, http.MethodPost, "/movies", input)
	if err != nil {
		return nil, err
	}
	return decodeMovieResponse(resp)
}

// Update replaces a catalog entry's fields. Admin only.
func (s *MovieService) Update(ctx context.Context, id string, input MovieInput) (*models.Movie, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	resp, err := s.submit(ctx, http.MethodPut, "/movies/"+id, input)
	if err != nil {
		return nil, err
	}
	return decodeMovieResponse(resp)
}

// Delete removes a catalog entry. Admin only.
func (s *MovieService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	resp, err := s.api.Delete(ctx, "/movies/"+id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", shared.ErrMovieNotFound, id)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorMessage())
	}

	return nil
}

func (s *MovieService) submit(ctx context.Context, method, path string, input MovieInput) (*APIResponse, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: movie title is required", shared.ErrInvalidInput)
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode movie: %w", err)
	}

	var resp *APIResponse
	if method == http.MethodPut {
		resp, err = s.api.Put(ctx, path, body)
	} else {
		resp, err = s.api.Post(ctx, path, body)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorMessage())
	}

	return resp, nil
}

// decodeMovieResponse handles both response shapes the backend emits:
// a bare movie document or one wrapped as {"movie": {...}}.
func decodeMovieResponse(resp *APIResponse) (*models.Movie, error) {
	var wrapped struct {
		Movie *models.Movie `json:"movie"`
	}
	if err := json.Unmarshal(resp.Body, &wrapped); err == nil && wrapped.Movie != nil && wrapped.Movie.ID != "" {
		return wrapped.Movie, nil
	}

	var movie models.Movie
	if err := json.Unmarshal(resp.Body, &movie); err != nil {
		return nil, fmt.Errorf("failed to decode movie response: %w", err)
	}
	if movie.ID == "" {
		return nil, fmt.Errorf("%w: response missing movie id", shared.ErrAPIRequest)
	}

	return &movie, nil
}
