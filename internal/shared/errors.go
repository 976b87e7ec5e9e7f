package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed         = fmt.Errorf("authentication failed")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrTokenExpired       = fmt.Errorf("session token expired")
	ErrVerifyFailed       = fmt.Errorf("token verification failed")
	ErrNotAuthorized      = fmt.Errorf("not authorized")

	// API and service errors
	ErrAPIRequest        = fmt.Errorf("API request failed")
	ErrServerUnreachable = fmt.Errorf("server unreachable")
	ErrMovieNotFound     = fmt.Errorf("movie not found")
	ErrProfileNotFound   = fmt.Errorf("profile not found")
	ErrNoActiveProfile   = fmt.Errorf("no active profile selected")

	// Profile state errors
	ErrProfileLoad     = fmt.Errorf("profile list fetch failed")
	ErrProfileMutation = fmt.Errorf("profile mutation failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// Local state errors
	ErrStateLocked = fmt.Errorf("state directory locked by another process")
)
