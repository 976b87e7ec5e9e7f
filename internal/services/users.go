// Admin user-management endpoints of the catalog backend
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"reelx/internal/models"
	"reelx/internal/shared"
)

// UserService wraps the backend's /users endpoints (admin console).
type UserService struct {
	api *APIService
}

// NewUserService creates a UserService on top of the given transport.
func NewUserService(api *APIService) *UserService {
	return &UserService{api: api}
}

// List fetches all accounts. Admin only.
func (s *UserService) List(ctx context.Context) ([]models.Account, error) {
	resp, err := s.api.Get(ctx, "/users")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	if resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotAuthorized, resp.ErrorMessage())
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorMessage())
	}

	var users []models.Account
	if err := json.Unmarshal(resp.Body, &users); err != nil {
		return nil, fmt.Errorf("failed to decode user list: %w", err)
	}

	return users, nil
}

// Delete removes an account and its profiles. Admin only.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: user id", shared.ErrMissingArgument)
	}

	resp, err := s.api.Delete(ctx, "/users/"+id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}
	if resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %s", shared.ErrNotAuthorized, resp.ErrorMessage())
	}
	if !resp.OK() {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.ErrorMessage())
	}

	return nil
}
