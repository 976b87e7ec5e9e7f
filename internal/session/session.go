package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"reelx/internal/models"
	"reelx/internal/services"
	"reelx/internal/shared"
)

// Status is the session's position in the authentication lifecycle.
type Status int

const (
	// StatusUnknown means Initialize has not run yet.
	StatusUnknown Status = iota
	// StatusVerifying means a stored token is being validated against the backend.
	StatusVerifying
	// StatusAuthenticated means the backend has confirmed the current token.
	StatusAuthenticated
	// StatusUnauthenticated means there is no usable token.
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusVerifying:
		return "verifying"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// AuthAPI is the slice of the auth service the session store consumes.
type AuthAPI interface {
	Login(ctx context.Context, creds services.Credentials) (*services.AuthResult, error)
	Register(ctx context.Context, email, password string) (*services.AuthResult, error)
	Verify(ctx context.Context) (*models.Account, error)
}

// Store is the single source of truth for the authenticated account. All
// reads and writes of the token and account projection go through it.
type Store struct {
	mu      sync.Mutex
	api     AuthAPI
	storage StateStorage
	logger  *log.Logger

	status      Status
	token       string
	account     *models.Account
	initialized bool
}

// NewStore creates a session store in [StatusUnknown]. Call Initialize before
// consulting Status.
func NewStore(api AuthAPI, storage StateStorage, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{api: api, storage: storage, logger: logger}
}

// Status returns the current lifecycle status.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Token returns the current session token, or "" when not authenticated.
// Satisfies [services.TokenSource] via [services.TokenSourceFunc].
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Account returns a copy of the authenticated account, or nil.
func (s *Store) Account() *models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == nil {
		return nil
	}
	acct := *s.account
	return &acct
}

// IsAdmin reports whether the authenticated account has the admin flag.
// False whenever there is no authenticated account.
func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account != nil && s.account.IsAdmin
}

// AccountID returns the authenticated account's id, falling back to the
// persisted projection and then the token's subject claim. Profile creation
// uses this so a create fired right after startup still resolves an owner.
func (s *Store) AccountID() string {
	s.mu.Lock()
	token := s.token
	if s.account != nil && s.account.ID != "" {
		id := s.account.ID
		s.mu.Unlock()
		return id
	}
	s.mu.Unlock()

	if acct, err := s.storage.Account(); err == nil && acct != nil && acct.ID != "" {
		return acct.ID
	}
	return tokenSubject(token)
}

// Initialize hydrates the session from storage exactly once. A stored token
// moves the session through [StatusVerifying] while the backend confirms it;
// no token, a plainly expired token, or a rejected token all settle on
// [StatusUnauthenticated]. Verification failure is recovered locally, never
// returned: the stored token is discarded and the session continues as
// logged out.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.initialized = true

	token, err := s.storage.Token()
	if err != nil {
		s.status = StatusUnauthenticated
		s.mu.Unlock()
		return fmt.Errorf("failed to read stored token: %w", err)
	}
	if token == "" {
		s.status = StatusUnauthenticated
		s.mu.Unlock()
		return nil
	}

	if tokenExpired(token, time.Now()) {
		s.logger.Debug("stored token is expired, skipping verification")
		s.status = StatusUnauthenticated
		s.mu.Unlock()
		s.discardStoredSession()
		return nil
	}

	s.status = StatusVerifying
	s.token = token
	s.mu.Unlock()

	acct, err := s.api.Verify(ctx)

	s.mu.Lock()
	if s.status != StatusVerifying {
		// Logout won the race while the round trip was in flight; the
		// session is already cleared, so the verification result is dropped.
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.logger.Warn("stored token rejected", "error", err)
		s.token = ""
		s.account = nil
		s.status = StatusUnauthenticated
		s.mu.Unlock()
		s.discardStoredSession()
		return nil
	}

	s.account = acct
	s.status = StatusAuthenticated
	s.mu.Unlock()

	if err := s.storage.SetAccount(acct); err != nil {
		s.logger.Warn("failed to persist account projection", "error", err)
	}
	return nil
}

// Login exchanges credentials for a session. On failure the previous state is
// left untouched and the service's typed error is returned as is, so callers
// can distinguish a bad password from an unreachable server.
func (s *Store) Login(ctx context.Context, email, password string) (*models.Account, error) {
	result, err := s.api.Login(ctx, services.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return s.adopt(result)
}

// Register creates an account and logs it in. Same error contract as Login.
func (s *Store) Register(ctx context.Context, email, password string) (*models.Account, error) {
	result, err := s.api.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.adopt(result)
}

// adopt installs a successful auth result as the current session and persists
// it. The in-memory state changes first so the session is usable even when
// the storage write fails.
func (s *Store) adopt(result *services.AuthResult) (*models.Account, error) {
	acct := result.Account

	s.mu.Lock()
	s.initialized = true
	s.token = result.Token
	s.account = &acct
	s.status = StatusAuthenticated
	s.mu.Unlock()

	if err := s.storage.SetToken(result.Token); err != nil {
		s.logger.Warn("failed to persist token", "error", err)
	}
	if err := s.storage.SetAccount(&acct); err != nil {
		s.logger.Warn("failed to persist account projection", "error", err)
	}

	out := acct
	return &out, nil
}

// Logout resets the session unconditionally. It is synchronous, requires no
// backend round trip, and never fails: storage errors are logged and the
// in-memory state ends up logged out regardless.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.account = nil
	s.status = StatusUnauthenticated
	s.initialized = true
	s.mu.Unlock()

	if err := s.storage.Clear(); err != nil {
		s.logger.Warn("failed to clear stored session", "error", err)
	}
}

// discardStoredSession drops the persisted token and account after a failed
// or skipped verification. The active profile pointer is left alone so a
// re-login by the same account restores the previous profile.
func (s *Store) discardStoredSession() {
	if err := s.storage.SetToken(""); err != nil {
		s.logger.Warn("failed to discard stored token", "error", err)
	}
	if err := s.storage.SetAccount(nil); err != nil {
		s.logger.Warn("failed to discard stored account", "error", err)
	}
}
