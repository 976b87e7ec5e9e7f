package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"reelx/internal/models"
	"reelx/internal/repositories"
	"reelx/internal/services"
	"reelx/internal/session"
	"reelx/internal/shared"
	tu "reelx/internal/testing"

	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			api := &services.APIService{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				API:        api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("builds a guard when both stores are provided", func(t *testing.T) {
			api := services.NewAPIService("http://localhost:0", nil, nil)
			auth := services.NewAuthService(api)
			db := newTestDB(t)
			stateRepo := repositories.NewStateRepository(db)
			sess := session.NewStore(auth, stateRepo, nil)
			profiles := session.NewProfileStore(services.NewProfileService(api), sess, stateRepo, nil)

			runner := NewRunner(RunnerOpts{Session: sess, ProfileStore: profiles})
			if runner.guard == nil {
				t.Error("expected guard to be built")
			}

			bare := NewRunner(RunnerOpts{Session: sess})
			if bare.guard != nil {
				t.Error("expected no guard without a profile store")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			if err := runner.writeJSON(data, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			if err := runner.writeJSON(data, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !strings.Contains(output.String(), `"key":"value"`) {
				t.Errorf("expected compact JSON, got %s", output.String())
			}
		})

		t.Run("propagates write failures", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
				t.Error("expected write error")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("count: %d\n", 3); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "count: 3\n" {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("writePlainln surrounds with newlines", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		runner.writePlainln("done")
		if output.String() != "\ndone\n" {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("writePlainHeader", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		runner.writePlainHeader("Catalog")
		if !strings.Contains(output.String(), "Catalog\n") {
			t.Errorf("expected header title, got %q", output.String())
		}
	})
}

func TestDecisionErr(t *testing.T) {
	cases := []struct {
		name     string
		decision session.Decision
		want     error
	}{
		{"allow passes", session.Allow, nil},
		{"login redirect maps to not authenticated", session.RedirectToLogin, shared.ErrNotAuthenticated},
		{"unauthorized redirect maps to not authorized", session.RedirectToUnauthorized, shared.ErrNotAuthorized},
		{"profile redirect maps to no active profile", session.RedirectToProfileSelect, shared.ErrNoActiveProfile},
		{"wait maps to not authenticated", session.Wait, shared.ErrNotAuthenticated},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := decisionErr(tc.decision)
			if tc.want == nil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

// newTestDB opens an in-memory database with the full schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// newTestBackend serves the subset of the catalog API the commands exercise.
func newTestBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"t1","user":{"_id":"u1","email":"ari@example.com"}}`))
	})
	mux.HandleFunc("GET /auth/verify", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"user":{"_id":"u1","email":"ari@example.com"}}`))
	})
	mux.HandleFunc("GET /profiles/user/u1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id":"p1","name":"Ari","isChild":false,"user":"u1"}]`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// newTestApp wires a full runner against the given backend and database,
// mirroring main's composition.
func newTestApp(t *testing.T, serverURL string, db *sql.DB) (*cli.Command, *bytes.Buffer, *repositories.StateRepository) {
	t.Helper()

	stateRepo := repositories.NewStateRepository(db)
	cacheRepo := repositories.NewMovieCacheRepository(db)

	var sessionStore *session.Store
	api := services.NewAPIService(serverURL, nil, services.TokenSourceFunc(func() string {
		if sessionStore == nil {
			return ""
		}
		return sessionStore.Token()
	}))

	authService := services.NewAuthService(api)
	profileService := services.NewProfileService(api)
	movieService := services.NewMovieService(api)

	sessionStore = session.NewStore(authService, stateRepo, nil)
	profileStore := session.NewProfileStore(profileService, sessionStore, stateRepo, nil)

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		API:          api,
		Auth:         authService,
		Profiles:     profileService,
		Movies:       movieService,
		Users:        services.NewUserService(api),
		Session:      sessionStore,
		ProfileStore: profileStore,
		Cache:        cacheRepo,
		Output:       output,
	})

	app := &cli.Command{
		Name:     "reelx",
		Commands: runner.register(),
	}
	return app, output, stateRepo
}

func TestCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("login then select then status round trip", func(t *testing.T) {
		server := newTestBackend(t)
		db := newTestDB(t)

		app, output, stateRepo := newTestApp(t, server.URL, db)
		if err := app.Run(ctx, []string{"reelx", "auth", "login", "--email", "ari@example.com", "--password", "hunter2"}); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if !strings.Contains(output.String(), "Logged in as ari@example.com") {
			t.Errorf("unexpected login output: %q", output.String())
		}
		if token, _ := stateRepo.Token(); token != "t1" {
			t.Errorf("expected token persisted, got %q", token)
		}

		// Fresh process: selection resolves against the restored session.
		app, output, stateRepo = newTestApp(t, server.URL, db)
		if err := app.Run(ctx, []string{"reelx", "profile", "select", "Ari"}); err != nil {
			t.Fatalf("select failed: %v", err)
		}
		if !strings.Contains(output.String(), "Active profile: Ari") {
			t.Errorf("unexpected select output: %q", output.String())
		}
		if id, _ := stateRepo.ActiveProfileID(); id != "p1" {
			t.Errorf("expected active profile persisted, got %q", id)
		}

		app, output, _ = newTestApp(t, server.URL, db)
		if err := app.Run(ctx, []string{"reelx", "auth", "status"}); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !strings.Contains(output.String(), "Authenticated as ari@example.com") {
			t.Errorf("unexpected status output: %q", output.String())
		}
		if !strings.Contains(output.String(), "Active profile: Ari") {
			t.Errorf("expected restored profile in status output: %q", output.String())
		}
	})

	t.Run("logout clears persisted state", func(t *testing.T) {
		server := newTestBackend(t)
		db := newTestDB(t)

		app, _, stateRepo := newTestApp(t, server.URL, db)
		if err := app.Run(ctx, []string{"reelx", "auth", "login", "--email", "ari@example.com", "--password", "hunter2"}); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		app, output, _ := newTestApp(t, server.URL, db)
		if err := app.Run(ctx, []string{"reelx", "auth", "logout"}); err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		if !strings.Contains(output.String(), "Logged out") {
			t.Errorf("unexpected logout output: %q", output.String())
		}
		if token, _ := stateRepo.Token(); token != "" {
			t.Errorf("expected token cleared, got %q", token)
		}
		if id, _ := stateRepo.ActiveProfileID(); id != "" {
			t.Errorf("expected active profile cleared, got %q", id)
		}
	})

	t.Run("guarded command rejects logged out session", func(t *testing.T) {
		server := newTestBackend(t)
		db := newTestDB(t)

		app, _, _ := newTestApp(t, server.URL, db)
		err := app.Run(ctx, []string{"reelx", "watchlist", "show"})
		if !errors.Is(errors.Unwrap(err), shared.ErrNotAuthenticated) && !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("cached browse works without a session", func(t *testing.T) {
		db := newTestDB(t)
		cacheRepo := repositories.NewMovieCacheRepository(db)
		adapter := repositories.NewMovieCacheAdapter(cacheRepo)
		if err := adapter.CacheMovie(models.Movie{
			ID: "m1", Title: "Spirited Away", Genre: "animation", Rating: 8.6,
		}); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		app, output, _ := newTestApp(t, "http://localhost:0", db)
		if err := app.Run(ctx, []string{"reelx", "movie", "list", "--cached"}); err != nil {
			t.Fatalf("cached list failed: %v", err)
		}
		if !strings.Contains(output.String(), "Spirited Away") {
			t.Errorf("expected cached title in output: %q", output.String())
		}
	})
}
