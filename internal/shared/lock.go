package shared

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// StateLock guards the durable client state directory (session database,
// persisted token and profile selection) against concurrent reelx processes.
//
// The token and active-profile keys are a process-wide singleton resource;
// two processes interleaving writes could leave a cleared token next to a
// still-set profile selection.
type StateLock struct {
	lock *flock.Flock
}

// AcquireStateLock takes an advisory lock on <dir>/reelx.lock, creating the
// directory if needed. Returns ErrStateLocked when another process holds it.
func AcquireStateLock(dir string) (*StateLock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	fl := flock.New(filepath.Join(dir, "reelx.lock"))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire state lock: %w", err)
	}
	if !locked {
		return nil, ErrStateLocked
	}

	return &StateLock{lock: fl}, nil
}

// Release drops the advisory lock. Safe to call on a nil receiver.
func (s *StateLock) Release() error {
	if s == nil || s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}
