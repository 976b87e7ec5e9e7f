package session

// Requirement declares what a view needs before it may render.
type Requirement struct {
	RequiresAuth          bool
	RequiresAdmin         bool
	RequiresActiveProfile bool
}

// Decision is the guard's verdict for a view.
type Decision int

const (
	// Wait means the session is still resolving; render nothing yet.
	Wait Decision = iota
	// Allow means the view may render.
	Allow
	// RedirectToLogin means the viewer must authenticate first.
	RedirectToLogin
	// RedirectToUnauthorized means the viewer lacks the admin privilege.
	RedirectToUnauthorized
	// RedirectToProfileSelect means an active profile must be chosen first.
	RedirectToProfileSelect
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToUnauthorized:
		return "redirect-to-unauthorized"
	case RedirectToProfileSelect:
		return "redirect-to-profile-select"
	default:
		return "wait"
	}
}

// Decide is the access-control decision for a single view. It is a pure
// function of the session status, the admin flag, and whether a profile is
// active; it performs no IO and mutates nothing.
//
// The checks run in a fixed order, each short-circuiting the rest:
//
//  1. Unknown or Verifying status wins over everything: Wait.
//  2. RequiresAuth (or RequiresAdmin) without authentication: RedirectToLogin.
//  3. RequiresAdmin without the admin flag: RedirectToUnauthorized.
//  4. RequiresActiveProfile without a selection: RedirectToProfileSelect.
//  5. Otherwise Allow.
//
// Admin therefore implies auth, and an admin missing a profile is still sent
// to profile selection, not unauthorized.
func Decide(status Status, isAdmin, hasActiveProfile bool, req Requirement) Decision {
	if status == StatusUnknown || status == StatusVerifying {
		return Wait
	}
	if (req.RequiresAuth || req.RequiresAdmin) && status != StatusAuthenticated {
		return RedirectToLogin
	}
	if req.RequiresAdmin && !isAdmin {
		return RedirectToUnauthorized
	}
	if req.RequiresActiveProfile && !hasActiveProfile {
		return RedirectToProfileSelect
	}
	return Allow
}

// Guard binds Decide to live stores so callers can check a requirement
// without gathering the inputs themselves.
type Guard struct {
	session  *Store
	profiles *ProfileStore
}

// NewGuard creates a guard over the given stores.
func NewGuard(sess *Store, profiles *ProfileStore) *Guard {
	return &Guard{session: sess, profiles: profiles}
}

// Check evaluates the requirement against the current state of the stores.
func (g *Guard) Check(req Requirement) Decision {
	return Decide(g.session.Status(), g.session.IsAdmin(), g.profiles.ActiveProfile() != nil, req)
}
