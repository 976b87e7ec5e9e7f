package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"reelx/internal/models"
	"reelx/internal/session"
	"reelx/internal/shared"
)

// ProfileList shows the account's profiles, marking the active one.
func (r *Runner) ProfileList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAccess(ctx, session.Requirement{RequiresAuth: true}); err != nil {
		return err
	}
	if err := r.restoreProfiles(ctx); err != nil {
		return err
	}

	profiles := r.profileStore.Profiles()
	if cmd.Bool("json") {
		return r.writeJSON(profiles, cmd.Bool("pretty"))
	}

	if len(profiles) == 0 {
		r.writePlain("No profiles yet. Create one with 'reelx profile create --name <name>'\n")
		return nil
	}

	active := r.profileStore.ActiveProfile()
	r.writePlainHeader(fmt.Sprintf("Profiles (%d)", len(profiles)))
	for _, profile := range profiles {
		marker := " "
		if active != nil && active.ID == profile.ID {
			marker = "*"
		}
		kind := ""
		if profile.IsChild {
			kind = " (child)"
		}
		r.writePlain("%s %s%s\n", marker, profile.Name, kind)
		r.writePlain("  id: %s\n", profile.ID)
	}
	return nil
}

// ProfileSelect makes a profile active and persists the selection.
func (r *Runner) ProfileSelect(ctx context.Context, cmd *cli.Command) error {
	nameOrID := cmd.StringArg("profile")
	if nameOrID == "" {
		return fmt.Errorf("%w: profile name or id", shared.ErrMissingArgument)
	}

	if err := r.requireAccess(ctx, session.Requirement{RequiresAuth: true}); err != nil {
		return err
	}
	if err := r.restoreProfiles(ctx); err != nil {
		return err
	}

	profile, err := r.resolveProfile(nameOrID)
	if err != nil {
		return err
	}

	if err := r.profileStore.SelectProfile(*profile); err != nil {
		return err
	}

	r.writePlain("✓ Active profile: %s\n", profile.Name)
	return nil
}

// ProfileCreate submits a new profile for the authenticated account.
func (r *Runner) ProfileCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAccess(ctx, session.Requirement{RequiresAuth: true}); err != nil {
		return err
	}

	input := session.ProfileInput{
		Name:    cmd.String("name"),
		IsChild: cmd.Bool("child"),
	}

	if avatarPath := cmd.String("avatar"); avatarPath != "" {
		file, err := os.Open(avatarPath)
		if err != nil {
			return fmt.Errorf("failed to open avatar file: %w", err)
		}
		defer file.Close()
		input.Avatar = file
		input.AvatarName = filepath.Base(avatarPath)
	}

	profile, err := r.profileStore.CreateProfile(ctx, input)
	if err != nil {
		return err
	}

	r.writePlain("✓ Profile created: %s (id: %s)\n", profile.Name, profile.ID)
	return nil
}

// ProfileUpdate replaces a profile's fields.
func (r *Runner) ProfileUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAccess(ctx, session.Requirement{RequiresAuth: true}); err != nil {
		return err
	}
	if err := r.restoreProfiles(ctx); err != nil {
		return err
	}

	profile, err := r.resolveProfile(cmd.StringArg("profile"))
	if err != nil {
		return err
	}

	input := session.ProfileInput{
		Name:    cmd.String("name"),
		IsChild: cmd.Bool("child"),
	}
	if input.Name == "" {
		input.Name = profile.Name
	}
	if !cmd.IsSet("child") {
		input.IsChild = profile.IsChild
	}

	if avatarPath := cmd.String("avatar"); avatarPath != "" {
		file, err := os.Open(avatarPath)
		if err != nil {
			return fmt.Errorf("failed to open avatar file: %w", err)
		}
		defer file.Close()
		input.Avatar = file
		input.AvatarName = filepath.Base(avatarPath)
	}

	updated, err := r.profileStore.UpdateProfile(ctx, profile.ID, input)
	if err != nil {
		return err
	}

	r.writePlain("✓ Profile updated: %s\n", updated.Name)
	return nil
}

// ProfileDelete removes a profile. Deleting the active one clears the selection.
func (r *Runner) ProfileDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAccess(ctx, session.Requirement{RequiresAuth: true}); err != nil {
		return err
	}
	if err := r.restoreProfiles(ctx); err != nil {
		return err
	}

	profile, err := r.resolveProfile(cmd.StringArg("profile"))
	if err != nil {
		return err
	}

	if err := r.profileStore.DeleteProfile(ctx, profile.ID); err != nil {
		return err
	}

	r.writePlain("✓ Profile deleted: %s\n", profile.Name)
	return nil
}

// resolveProfile matches a loaded profile by id first, then by
// case-insensitive name.
func (r *Runner) resolveProfile(nameOrID string) (*models.Profile, error) {
	if nameOrID == "" {
		return nil, fmt.Errorf("%w: profile name or id", shared.ErrMissingArgument)
	}

	profiles := r.profileStore.Profiles()
	for i := range profiles {
		if profiles[i].ID == nameOrID {
			return &profiles[i], nil
		}
	}
	for i := range profiles {
		if strings.EqualFold(profiles[i].Name, nameOrID) {
			return &profiles[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", shared.ErrProfileNotFound, nameOrID)
}

// profileCommand handles household profile operations
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Manage household profiles",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the account's profiles",
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
				Action: r.ProfileList,
			},
			{
				Name:  "select",
				Usage: "Make a profile active",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "profile"},
				},
				Action: r.ProfileSelect,
			},
			{
				Name:  "create",
				Usage: "Create a new profile",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Profile display name",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "child",
						Usage: "Restrict the profile to kid-safe titles",
					},
					&cli.StringFlag{
						Name:  "avatar",
						Usage: "Path to an avatar image",
					},
				},
				Action: r.ProfileCreate,
			},
			{
				Name:  "update",
				Usage: "Update a profile's fields",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "profile"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "New display name",
					},
					&cli.BoolFlag{
						Name:  "child",
						Usage: "Restrict the profile to kid-safe titles",
					},
					&cli.StringFlag{
						Name:  "avatar",
						Usage: "Path to an avatar image",
					},
				},
				Action: r.ProfileUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a profile",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "profile"},
				},
				Action: r.ProfileDelete,
			},
		},
	}
}
