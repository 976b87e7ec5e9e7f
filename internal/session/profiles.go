package session

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"reelx/internal/models"
	"reelx/internal/services"
	"reelx/internal/shared"
)

// ProfileAPI is the slice of the profile service the profile store consumes.
type ProfileAPI interface {
	ListByAccount(ctx context.Context, accountID string) ([]models.Profile, error)
	Create(ctx context.Context, input services.ProfileInput) (*models.Profile, error)
	Update(ctx context.Context, id string, input services.ProfileInput) (*models.Profile, error)
	Delete(ctx context.Context, id string) error
}

// ProfileInput carries the caller-supplied fields for profile create/update.
// The owning account id is resolved by the store, never by the caller.
type ProfileInput struct {
	Name       string
	IsChild    bool
	Avatar     io.Reader
	AvatarName string
}

// loadCall tracks one in-flight profile list request so concurrent loads for
// the same account share a single response.
type loadCall struct {
	accountID string
	done      chan struct{}
	profiles  []models.Profile
	err       error
}

// ProfileStore holds the authenticated account's profile list and the active
// profile selection. The active profile id is the only durable piece; the
// list itself is always refetched from the backend.
type ProfileStore struct {
	mu      sync.Mutex
	api     ProfileAPI
	session *Store
	storage StateStorage
	logger  *log.Logger

	profiles []models.Profile
	active   *models.Profile
	loaded   string // account id the current list belongs to, "" when unloaded
	inflight *loadCall
}

// NewProfileStore creates an empty profile store bound to the given session.
func NewProfileStore(api ProfileAPI, sess *Store, storage StateStorage, logger *log.Logger) *ProfileStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ProfileStore{api: api, session: sess, storage: storage, logger: logger}
}

// Profiles returns a copy of the loaded profile list.
func (p *ProfileStore) Profiles() []models.Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Profile, len(p.profiles))
	copy(out, p.profiles)
	return out
}

// ActiveProfile returns a copy of the active profile, or nil when none is
// selected.
func (p *ProfileStore) ActiveProfile() *models.Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return nil
	}
	prof := *p.active
	return &prof
}

// LoadProfiles fetches the profile list for the given account. A list already
// loaded for that account is returned without a request, and concurrent calls
// for the same account collapse onto one in-flight request whose result they
// all share. A failed load leaves the list empty and returns the error; the
// next call retries.
func (p *ProfileStore) LoadProfiles(ctx context.Context, accountID string) ([]models.Profile, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id", shared.ErrMissingArgument)
	}

	p.mu.Lock()
	if p.loaded == accountID {
		out := make([]models.Profile, len(p.profiles))
		copy(out, p.profiles)
		p.mu.Unlock()
		return out, nil
	}

	if p.inflight != nil && p.inflight.accountID == accountID {
		call := p.inflight
		p.mu.Unlock()
		select {
		case <-call.done:
			if call.err != nil {
				return nil, call.err
			}
			out := make([]models.Profile, len(call.profiles))
			copy(out, call.profiles)
			return out, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	call := &loadCall{accountID: accountID, done: make(chan struct{})}
	p.inflight = call
	p.mu.Unlock()

	profiles, err := p.api.ListByAccount(ctx, accountID)

	p.mu.Lock()
	call.profiles = profiles
	call.err = err
	if p.inflight == call {
		// Still the current load; a Reset in the meantime detaches the call
		// so a post-logout completion leaves the store empty.
		p.inflight = nil
		if err == nil {
			p.profiles = profiles
			p.loaded = accountID
		} else {
			p.profiles = nil
			p.loaded = ""
		}
	}
	p.mu.Unlock()
	close(call.done)

	if err != nil {
		return nil, err
	}
	out := make([]models.Profile, len(profiles))
	copy(out, profiles)
	return out, nil
}

// RestoreActiveProfile resolves the persisted active profile id against the
// loaded list. A match becomes the active profile; a stale id (profile
// deleted, or the list belongs to another account) is discarded from storage
// so it never resurrects. Returns the restored profile, or nil.
func (p *ProfileStore) RestoreActiveProfile() *models.Profile {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, err := p.storage.ActiveProfileID()
	if err != nil {
		p.logger.Warn("failed to read active profile id", "error", err)
		return nil
	}
	if id == "" {
		return nil
	}

	for i := range p.profiles {
		if p.profiles[i].ID == id {
			prof := p.profiles[i]
			p.active = &prof
			out := prof
			return &out
		}
	}

	p.logger.Debug("discarding stale active profile pointer", "id", id)
	if err := p.storage.SetActiveProfileID(""); err != nil {
		p.logger.Warn("failed to discard active profile id", "error", err)
	}
	p.active = nil
	return nil
}

// SelectProfile makes the given profile active and persists the selection.
// What happens next (navigation, filtering) is the caller's concern.
func (p *ProfileStore) SelectProfile(prof models.Profile) error {
	if prof.ID == "" {
		return fmt.Errorf("%w: profile id", shared.ErrMissingArgument)
	}

	p.mu.Lock()
	p.active = &prof
	p.mu.Unlock()

	if err := p.storage.SetActiveProfileID(prof.ID); err != nil {
		return fmt.Errorf("failed to persist active profile: %w", err)
	}
	return nil
}

// CreateProfile submits a new profile for the authenticated account and
// appends it to the loaded list. The owning account id comes from the live
// session, with the persisted projection and token subject as fallbacks.
func (p *ProfileStore) CreateProfile(ctx context.Context, input ProfileInput) (*models.Profile, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: profile name is required", shared.ErrInvalidInput)
	}

	owner := p.session.AccountID()
	if owner == "" {
		return nil, fmt.Errorf("%w: no account to own the profile", shared.ErrNotAuthenticated)
	}

	prof, err := p.api.Create(ctx, services.ProfileInput{
		Name:           input.Name,
		IsChild:        input.IsChild,
		OwnerAccountID: owner,
		Avatar:         input.Avatar,
		AvatarName:     input.AvatarName,
	})
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.loaded != "" {
		p.profiles = append(p.profiles, *prof)
	}
	p.mu.Unlock()

	out := *prof
	return &out, nil
}

// UpdateProfile replaces a profile's fields. The loaded list and, when the
// target is active, the active projection are refreshed from the response.
func (p *ProfileStore) UpdateProfile(ctx context.Context, id string, input ProfileInput) (*models.Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: profile id", shared.ErrMissingArgument)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: profile name is required", shared.ErrInvalidInput)
	}

	prof, err := p.api.Update(ctx, id, services.ProfileInput{
		Name:       input.Name,
		IsChild:    input.IsChild,
		Avatar:     input.Avatar,
		AvatarName: input.AvatarName,
	})
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	for i := range p.profiles {
		if p.profiles[i].ID == id {
			p.profiles[i] = *prof
			break
		}
	}
	if p.active != nil && p.active.ID == id {
		updated := *prof
		p.active = &updated
	}
	p.mu.Unlock()

	out := *prof
	return &out, nil
}

// DeleteProfile removes a profile. Deleting the active profile clears the
// selection, in memory and in storage, so the stale pointer cannot survive a
// restart.
func (p *ProfileStore) DeleteProfile(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: profile id", shared.ErrMissingArgument)
	}

	if err := p.api.Delete(ctx, id); err != nil {
		return err
	}

	p.mu.Lock()
	kept := p.profiles[:0]
	for _, prof := range p.profiles {
		if prof.ID != id {
			kept = append(kept, prof)
		}
	}
	p.profiles = kept
	wasActive := p.active != nil && p.active.ID == id
	if wasActive {
		p.active = nil
	}
	p.mu.Unlock()

	if wasActive {
		if err := p.storage.SetActiveProfileID(""); err != nil {
			p.logger.Warn("failed to clear active profile id", "error", err)
		}
	}
	return nil
}

// Reset drops all in-memory profile state. Called on logout; durable state is
// cleared by the session store's Logout.
func (p *ProfileStore) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profiles = nil
	p.active = nil
	p.loaded = ""
	p.inflight = nil
}
