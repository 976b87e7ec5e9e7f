// Authentication endpoints of the catalog backend
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"reelx/internal/models"
	"reelx/internal/shared"
)

// Credentials carries a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the normalized outcome of a successful login or register.
type AuthResult struct {
	Token   string
	Account models.Account
}

// AuthService wraps the backend's /auth endpoints.
type AuthService struct {
	api *APIService
}

// NewAuthService creates an AuthService on top of the given transport.
func NewAuthService(api *APIService) *AuthService {
	return &AuthService{api: api}
}

// authResponse mirrors the backend's login/register/verify payload.
// The user object is normalized by [models.Account] on decode.
type authResponse struct {
	Token string         `json:"token"`
	User  models.Account `json:"user"`
}

// Login exchanges credentials for a token and account projection.
//
// Transport failures surface as [shared.ErrServerUnreachable]; rejections as
// [shared.ErrInvalidCredentials] with the server's reason attached, so the
// caller can tell the two apart.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	resp, err := s.api.Post(ctx, "/auth/login", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}

	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidCredentials, resp.ErrorMessage())
	}

	return decodeAuthResponse(resp)
}

// Register creates an account. The backend either returns a token directly or
// expects a follow-up login; both are handled here so Register always behaves
// as an implicit login on success.
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	creds := Credentials{Email: email, Password: password}
	body, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	resp, err := s.api.Post(ctx, "/auth/register", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}

	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s", shared.ErrAuthFailed, resp.ErrorMessage())
	}

	result, err := decodeAuthResponse(resp)
	if err == nil && result.Token != "" {
		return result, nil
	}

	return s.Login(ctx, creds)
}

// Verify validates the stored token against the backend and returns the
// account projection. The bearer token is attached by the transport.
func (s *AuthService) Verify(ctx context.Context) (*models.Account, error) {
	resp, err := s.api.Get(ctx, "/auth/verify")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServerUnreachable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %s", shared.ErrTokenExpired, resp.ErrorMessage())
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s", shared.ErrVerifyFailed, resp.ErrorMessage())
	}

	var payload authResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}
	if payload.User.ID == "" {
		return nil, fmt.Errorf("%w: response missing user", shared.ErrVerifyFailed)
	}

	return &payload.User, nil
}

func decodeAuthResponse(resp *APIResponse) (*AuthResult, error) {
	var payload authResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	if payload.Token == "" {
		return nil, fmt.Errorf("%w: response missing token", shared.ErrAuthFailed)
	}

	return &AuthResult{Token: payload.Token, Account: payload.User}, nil
}
