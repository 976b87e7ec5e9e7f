package session

import "reelx/internal/models"

// StateStorage persists durable client state across application runs.
// Missing keys are reported as empty values, not errors.
type StateStorage interface {
	// Token returns the stored session token, or "" when logged out.
	Token() (string, error)
	// SetToken stores the session token; an empty value deletes it.
	SetToken(token string) error

	// Account returns the persisted account projection, or nil.
	// Kept alongside the token so profile creation can resolve the owning
	// account id even when it races session hydration on first load.
	Account() (*models.Account, error)
	// SetAccount stores the account projection; nil deletes it.
	SetAccount(acct *models.Account) error

	// ActiveProfileID returns the persisted active profile id, or "".
	ActiveProfileID() (string, error)
	// SetActiveProfileID stores the active profile id; "" deletes it.
	SetActiveProfileID(id string) error

	// Clear removes token, account projection, and active profile id in a
	// single atomic operation. Used by logout.
	Clear() error
}
