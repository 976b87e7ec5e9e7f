package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"reelx/internal/repositories"
	"reelx/internal/services"
	"reelx/internal/session"
	"reelx/internal/shared"
	"reelx/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config       *shared.Config
	api          *services.APIService
	auth         *services.AuthService
	profiles     *services.ProfileService
	movies       *services.MovieService
	users        *services.UserService
	session      *session.Store
	profileStore *session.ProfileStore
	guard        *session.Guard
	cache        *repositories.MovieCacheRepository
	engine       *tasks.CatalogEngine
	httpClient   *http.Client
	logger       *log.Logger
	output       io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config       *shared.Config
	API          *services.APIService
	Auth         *services.AuthService
	Profiles     *services.ProfileService
	Movies       *services.MovieService
	Users        *services.UserService
	Session      *session.Store
	ProfileStore *session.ProfileStore
	Cache        *repositories.MovieCacheRepository
	HTTPClient   *http.Client
	Logger       *log.Logger
	Output       io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	var guard *session.Guard
	if opts.Session != nil && opts.ProfileStore != nil {
		guard = session.NewGuard(opts.Session, opts.ProfileStore)
	}

	var cacher tasks.MovieCacher
	if opts.Cache != nil {
		cacher = repositories.NewMovieCacheAdapter(opts.Cache)
	}
	engine := tasks.NewCatalogEngine(opts.Movies, opts.Profiles, cacher)

	return &Runner{
		config:       opts.Config,
		api:          opts.API,
		auth:         opts.Auth,
		profiles:     opts.Profiles,
		movies:       opts.Movies,
		users:        opts.Users,
		session:      opts.Session,
		profileStore: opts.ProfileStore,
		guard:        guard,
		cache:        opts.Cache,
		engine:       engine,
		httpClient:   opts.HTTPClient,
		logger:       opts.Logger,
		output:       opts.Output,
	}
}

// SetLogger swaps the runner's logger (the TUI redirects logs to a file).
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, profileCommand, movieCommand, watchlistCommand, adminCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireAccess hydrates the session, restores the persisted profile selection
// when the requirement asks for one, and maps the guard's verdict to a typed
// error. A nil return means the command may proceed.
func (r *Runner) requireAccess(ctx context.Context, req session.Requirement) error {
	if r.session == nil || r.guard == nil {
		return fmt.Errorf("%w: session not initialized", shared.ErrNotAuthenticated)
	}

	if err := r.session.Initialize(ctx); err != nil {
		return err
	}

	if req.RequiresActiveProfile {
		if err := r.restoreProfiles(ctx); err != nil {
			r.logger.Warn("failed to load profiles", "error", err)
		}
	}

	return decisionErr(r.guard.Check(req))
}

// restoreProfiles loads the account's profile list and resolves the persisted
// active profile pointer against it. No-op when logged out.
func (r *Runner) restoreProfiles(ctx context.Context) error {
	accountID := r.session.AccountID()
	if accountID == "" {
		return nil
	}
	if _, err := r.profileStore.LoadProfiles(ctx, accountID); err != nil {
		return err
	}
	r.profileStore.RestoreActiveProfile()
	return nil
}

// decisionErr converts a guard decision into the error a non-interactive
// command reports. The TUI routes on the decision directly instead.
func decisionErr(d session.Decision) error {
	switch d {
	case session.Allow:
		return nil
	case session.RedirectToLogin:
		return fmt.Errorf("%w: run 'reelx auth login' first", shared.ErrNotAuthenticated)
	case session.RedirectToUnauthorized:
		return fmt.Errorf("%w: admin account required", shared.ErrNotAuthorized)
	case session.RedirectToProfileSelect:
		return fmt.Errorf("%w: run 'reelx profile select' first", shared.ErrNoActiveProfile)
	default:
		// Wait cannot surface here: Initialize resolves before the check.
		return fmt.Errorf("%w: session state unresolved", shared.ErrNotAuthenticated)
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
