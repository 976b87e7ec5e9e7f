package session

import (
	"context"
	"testing"

	"reelx/internal/models"
)

func TestDecide(t *testing.T) {
	admin := Requirement{RequiresAdmin: true}
	auth := Requirement{RequiresAuth: true}
	profile := Requirement{RequiresAuth: true, RequiresActiveProfile: true}

	tests := []struct {
		name    string
		status  Status
		isAdmin bool
		active  bool
		req     Requirement
		want    Decision
	}{
		{"unknown status always waits", StatusUnknown, false, false, Requirement{}, Wait},
		{"verifying status always waits", StatusVerifying, true, true, admin, Wait},
		{"public view allows anonymous", StatusUnauthenticated, false, false, Requirement{}, Allow},
		{"auth view redirects anonymous to login", StatusUnauthenticated, false, false, auth, RedirectToLogin},
		{"admin view redirects anonymous to login first", StatusUnauthenticated, false, false, admin, RedirectToLogin},
		{"admin view rejects a plain account", StatusAuthenticated, false, false, admin, RedirectToUnauthorized},
		{"admin view allows an admin", StatusAuthenticated, true, false, admin, Allow},
		{"profile view redirects without a selection", StatusAuthenticated, false, false, profile, RedirectToProfileSelect},
		{"profile view allows with a selection", StatusAuthenticated, false, true, profile, Allow},
		{"admin missing a profile still selects a profile", StatusAuthenticated, true, false,
			Requirement{RequiresAdmin: true, RequiresActiveProfile: true}, RedirectToProfileSelect},
		{"auth view allows an authenticated account", StatusAuthenticated, false, false, auth, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.status, tt.isAdmin, tt.active, tt.req); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGuardCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("follows the live stores", func(t *testing.T) {
		storage := &memStorage{token: "t1"}
		authAPI := &fakeAuthAPI{verifyAcct: &models.Account{ID: "u1"}}
		sess := NewStore(authAPI, storage, nil)
		profiles := NewProfileStore(&fakeProfileAPI{profiles: []models.Profile{{ID: "p1"}}}, sess, storage, nil)
		guard := NewGuard(sess, profiles)

		req := Requirement{RequiresAuth: true, RequiresActiveProfile: true}
		if got := guard.Check(req); got != Wait {
			t.Errorf("Expected Wait before initialization, got %v", got)
		}

		if err := sess.Initialize(ctx); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		if got := guard.Check(req); got != RedirectToProfileSelect {
			t.Errorf("Expected RedirectToProfileSelect, got %v", got)
		}

		if _, err := profiles.LoadProfiles(ctx, "u1"); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if err := profiles.SelectProfile(models.Profile{ID: "p1"}); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if got := guard.Check(req); got != Allow {
			t.Errorf("Expected Allow, got %v", got)
		}

		sess.Logout()
		profiles.Reset()
		if got := guard.Check(req); got != RedirectToLogin {
			t.Errorf("Expected RedirectToLogin after logout, got %v", got)
		}
	})
}

func TestDecisionString(t *testing.T) {
	cases := map[Decision]string{
		Wait:                    "wait",
		Allow:                   "allow",
		RedirectToLogin:         "redirect-to-login",
		RedirectToUnauthorized:  "redirect-to-unauthorized",
		RedirectToProfileSelect: "redirect-to-profile-select",
	}
	for d, want := range cases {
		if d.String() != want {
			t.Errorf("Decision(%d).String() = %q, want %q", d, d.String(), want)
		}
	}
}
