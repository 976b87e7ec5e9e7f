package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"reelx/internal/session"
	"reelx/internal/shared"
)

// AuthLogin exchanges credentials for a session token and persists it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	if email == "" || password == "" {
		return fmt.Errorf("%w: --email and --password are required", shared.ErrMissingArgument)
	}

	r.logger.Info("logging in", "email", email)

	account, err := r.session.Login(ctx, email, password)
	if err != nil {
		return err
	}

	r.writePlain("✓ Logged in as %s\n", account.Email)
	if account.IsAdmin {
		r.writePlain("Role: admin\n")
	}

	// A previous session by the same account may have left a profile selected.
	if err := r.restoreProfiles(ctx); err == nil {
		if active := r.profileStore.ActiveProfile(); active != nil {
			r.writePlain("Active profile: %s\n", active.Name)
		}
	}

	return nil
}

// AuthRegister creates an account and logs it in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	if email == "" || password == "" {
		return fmt.Errorf("%w: --email and --password are required", shared.ErrMissingArgument)
	}

	r.logger.Info("registering account", "email", email)

	account, err := r.session.Register(ctx, email, password)
	if err != nil {
		return err
	}

	r.writePlain("✓ Account created, logged in as %s\n", account.Email)
	return nil
}

// AuthLogout discards the session and every piece of persisted client state.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.session.Logout()
	r.profileStore.Reset()

	r.writePlain("✓ Logged out\n")
	return nil
}

// AuthStatus reports the session lifecycle status and the active profile.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Initialize(ctx); err != nil {
		return err
	}

	status := r.session.Status()
	switch status {
	case session.StatusAuthenticated:
		account := r.session.Account()
		r.writePlain("✓ Authenticated as %s\n", account.Email)
		if account.IsAdmin {
			r.writePlain("Role: admin\n")
		}
		if err := r.restoreProfiles(ctx); err != nil {
			r.logger.Warn("failed to load profiles", "error", err)
		}
		if active := r.profileStore.ActiveProfile(); active != nil {
			r.writePlain("Active profile: %s\n", active.Name)
		} else {
			r.writePlain("Active profile: none selected\n")
		}
	case session.StatusUnauthenticated:
		r.writePlain("✗ Not authenticated\n")
	default:
		r.writePlain("Session status: %s\n", status)
	}

	return nil
}

// AuthWhoami prints the authenticated account projection.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAccess(ctx, session.Requirement{RequiresAuth: true}); err != nil {
		return err
	}

	account := r.session.Account()
	if cmd.Bool("json") {
		return r.writeJSON(account, cmd.Bool("pretty"))
	}

	r.writePlain("ID: %s\n", account.ID)
	r.writePlain("Email: %s\n", account.Email)
	if account.IsAdmin {
		r.writePlain("Role: admin\n")
	} else {
		r.writePlain("Role: member\n")
	}
	return nil
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in to the catalog backend",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and log in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Log out and clear all persisted session state",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show session status and active profile",
				Action: r.AuthStatus,
			},
			{
				Name:  "whoami",
				Usage: "Show the authenticated account",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.AuthWhoami,
			},
		},
	}
}
