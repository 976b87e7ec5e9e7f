package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"reelx/internal/models"
)

// client_state keys. One row per key; absence means logged out / unselected.
const (
	keyToken           = "token"
	keyAccount         = "account"
	keyActiveProfileID = "active_profile_id"
)

// StateRepository persists the client's session state in the client_state
// table. Implements session.StateStorage.
type StateRepository struct {
	db *sql.DB
}

// NewStateRepository creates a new StateRepository with the given database connection
func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Token returns the stored session token, or "" when none is stored.
func (r *StateRepository) Token() (string, error) {
	return r.get(keyToken)
}

// SetToken stores the session token; an empty value deletes the row.
func (r *StateRepository) SetToken(token string) error {
	return r.set(keyToken, token)
}

// Account returns the persisted account projection, or nil when none is stored.
func (r *StateRepository) Account() (*models.Account, error) {
	raw, err := r.get(keyAccount)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var acct models.Account
	if err := json.Unmarshal([]byte(raw), &acct); err != nil {
		return nil, fmt.Errorf("failed to decode stored account: %w", err)
	}
	return &acct, nil
}

// SetAccount stores the account projection as JSON; nil deletes the row.
func (r *StateRepository) SetAccount(acct *models.Account) error {
	if acct == nil {
		return r.set(keyAccount, "")
	}

	raw, err := json.Marshal(acct)
	if err != nil {
		return fmt.Errorf("failed to encode account: %w", err)
	}
	return r.set(keyAccount, string(raw))
}

// ActiveProfileID returns the persisted active profile id, or "".
func (r *StateRepository) ActiveProfileID() (string, error) {
	return r.get(keyActiveProfileID)
}

// SetActiveProfileID stores the active profile id; "" deletes the row.
func (r *StateRepository) SetActiveProfileID(id string) error {
	return r.set(keyActiveProfileID, id)
}

// Clear removes all session state in a single transaction so a crash cannot
// leave a token without its account or vice versa.
func (r *StateRepository) Clear() error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM client_state WHERE key IN (?, ?, ?)",
		keyToken, keyAccount, keyActiveProfileID); err != nil {
		return fmt.Errorf("failed to clear client state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}
	return nil
}

func (r *StateRepository) get(key string) (string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM client_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read client state %q: %w", key, err)
	}
	return value, nil
}

func (r *StateRepository) set(key, value string) error {
	if value == "" {
		if _, err := r.db.Exec("DELETE FROM client_state WHERE key = ?", key); err != nil {
			return fmt.Errorf("failed to delete client state %q: %w", key, err)
		}
		return nil
	}

	query := `
		INSERT INTO client_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to write client state %q: %w", key, err)
	}
	return nil
}
