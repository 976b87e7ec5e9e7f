// Profile and watchlist endpoints of the catalog backend
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"reelx/internal/models"
	"reelx/internal/shared"
)

// ProfileInput carries the fields for profile create/update. The backend only
// accepts these as multipart form data (the avatar rides along as a file).
type ProfileInput struct {
	Name           string
	IsChild        bool
	OwnerAccountID string
	Avatar         io.Reader // optional avatar image
	AvatarName     string
}

// ProfileService wraps the backend's /profiles endpoints, including the
// per-profile watchlist.
type ProfileService struct {
	api *APIService
}

// NewProfileService creates a ProfileService on top of the given transport.
func NewProfileService(api *APIService) *ProfileService {
	return &ProfileService{api: api}
}

// ListByAccount fetches all profiles belonging to the given account.
func (s *ProfileService) ListByAccount(ctx context.Context, accountID string) ([]models.Profile, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id", shared.ErrMissingArgument)
	}

	resp, err := s.api.Get(ctx, "/profiles/user/"+accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s", shared.ErrProfileLoad, resp.ErrorMessage())
	}

	var profiles []models.Profile
	if err := json.Unmarshal(resp.Body, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profile list: %w", err)
	}

	return profiles, nil
}

// ListAll fetches every profile across accounts. Admin only.
func (s *ProfileService) ListAll(ctx context.Context) ([]models.Profile, error) {
	resp, err := s.api.Get(ctx, "/profiles/all")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s", shared.ErrProfileLoad, resp.ErrorMessage())
	}

	var profiles []models.Profile
	if err := json.Unmarshal(resp.Body, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profile list: %w", err)
	}

	return profiles, nil
}

// Create submits a new profile as multipart form data and returns the
// normalized profile from the response.
func (s *ProfileService) Create(ctx context.Context, input ProfileInput) (*models.Profile, error) {
	resp, err := s.submit(ctx, http.MethodPost, "/profiles", input)
	if err != nil {
		return nil, err
	}
	return decodeProfileResponse(resp)
}

// Update replaces an existing profile's fields, same contract as Create.
func (s *ProfileService) Update(ctx context.Context, id string, input ProfileInput) (*models.Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: profile id", shared.ErrMissingArgument)
	}

	resp, err := s.submit(ctx, http.MethodPut, "/profiles/"+id, input)
	if err != nil {
		return nil, err
	}
	return decodeProfileResponse(resp)
}

// Delete removes a profile.
func (s *ProfileService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: profile id", shared.ErrMissingArgument)
	}

	resp, err := s.api.Delete(ctx, "/profiles/"+id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", shared.ErrProfileNotFound, id)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: %s", shared.ErrProfileMutation, resp.ErrorMessage())
	}

	return nil
}

// Watchlist fetches the movies saved to the given profile's watchlist.
func (s *ProfileService) Watchlist(ctx context.Context, profileID string) ([]models.Movie, error) {
	if profileID == "" {
		return nil, fmt.Errorf("%w: profile id", shared.ErrMissingArgument)
	}

	resp, err := s.api.Get(ctx, "/profiles/"+profileID+"/watchlist")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorMessage())
	}

	var movies []models.Movie
	if err := json.Unmarshal(resp.Body, &movies); err != nil {
		return nil, fmt.Errorf("failed to decode watchlist: %w", err)
	}

	return movies, nil
}

// AddToWatchlist saves a movie to the profile's watchlist.
func (s *ProfileService) AddToWatchlist(ctx context.Context, profileID, movieID string) error {
	resp, err := s.api.Post(ctx, "/profiles/"+profileID+"/watchlist/"+movieID, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorMessage())
	}
	return nil
}

// RemoveFromWatchlist deletes a movie from the profile's watchlist.
func (s *ProfileService) RemoveFromWatchlist(ctx context.Context, profileID, movieID string) error {
	resp, err := s.api.Delete(ctx, "/profiles/"+profileID+"/watchlist/"+movieID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorMessage())
	}
	return nil
}

func (s *ProfileService) submit(ctx context.Context, method, path string, input ProfileInput) (*APIResponse, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: profile name is required", shared.ErrInvalidInput)
	}

	fields := map[string]string{
		"name":    input.Name,
		"isChild": strconv.FormatBool(input.IsChild),
	}
	if input.OwnerAccountID != "" {
		fields["userId"] = input.OwnerAccountID
	}

	var file *MultipartFile
	if input.Avatar != nil {
		name := input.AvatarName
		if name == "" {
			name = "avatar.png"
		}
		file = &MultipartFile{Field: "image", Filename: name, Reader: input.Avatar}
	}

	resp, err := s.api.SubmitForm(ctx, method, path, fields, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s", shared.ErrProfileMutation, resp.ErrorMessage())
	}

	return resp, nil
}

// decodeProfileResponse handles both response shapes the backend emits:
// a bare profile document or one wrapped as {"profile": {...}}.
func decodeProfileResponse(resp *APIResponse) (*models.Profile, error) {
	var wrapped struct {
		Profile *models.Profile `json:"profile"`
	}
	if err := json.Unmarshal(resp.Body, &wrapped); err == nil && wrapped.Profile != nil && wrapped.Profile.ID != "" {
		return wrapped.Profile, nil
	}

	var profile models.Profile
	if err := json.Unmarshal(resp.Body, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("%w: response missing profile id", shared.ErrProfileMutation)
	}

	return &profile, nil
}
