package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"reelx/internal/services"
	"reelx/internal/session"
	"reelx/internal/shared"
)

// adminRequirement is shared by every admin console command.
var adminRequirement = session.Requirement{RequiresAuth: true, RequiresAdmin: true}

// AdminUsers lists every account.
func (r *Runner) AdminUsers(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAccess(ctx, adminRequirement); err != nil {
		return err
	}

	users, err := r.users.List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Accounts (%d)", len(users)))
	for _, user := range users {
		role := "member"
		if user.IsAdmin {
			role = "admin"
		}
		r.writePlain("%s (%s)\n", user.Email, role)
		r.writePlain("  id: %s\n", user.ID)
	}
	return nil
}

// AdminUserDelete removes an account and its profiles.
func (r *Runner) AdminUserDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: user id", shared.ErrMissingArgument)
	}

	if err := r.requireAccess(ctx, adminRequirement); err != nil {
		return err
	}

	if err := r.users.Delete(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Account deleted: %s\n", id)
	return nil
}

// AdminProfiles lists every profile across accounts.
func (r *Runner) AdminProfiles(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAccess(ctx, adminRequirement); err != nil {
		return err
	}

	profiles, err := r.profiles.ListAll(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profiles, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Profiles (%d)", len(profiles)))
	for _, profile := range profiles {
		kind := ""
		if profile.IsChild {
			kind = " (child)"
		}
		r.writePlain("%s%s\n", profile.Name, kind)
		r.writePlain("  id: %s  account: %s\n", profile.ID, profile.OwnerAccountID)
	}
	return nil
}

// AdminMovieCreate adds a catalog entry.
func (r *Runner) AdminMovieCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAccess(ctx, adminRequirement); err != nil {
		return err
	}

	movie, err := r.movies.Create(ctx, movieInputFromFlags(cmd))
	if err != nil {
		return err
	}

	r.writePlain("✓ Movie created: %s (id: %s)\n", movie.Title, movie.ID)
	return nil
}

// AdminMovieUpdate replaces a catalog entry's fields.
func (r *Runner) AdminMovieUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	if err := r.requireAccess(ctx, adminRequirement); err != nil {
		return err
	}

	movie, err := r.movies.Update(ctx, id, movieInputFromFlags(cmd))
	if err != nil {
		return err
	}

	r.writePlain("✓ Movie updated: %s\n", movie.Title)
	return nil
}

// AdminMovieDelete removes a catalog entry, pruning the local cache copy.
func (r *Runner) AdminMovieDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	if err := r.requireAccess(ctx, adminRequirement); err != nil {
		return err
	}

	if err := r.movies.Delete(ctx, id); err != nil {
		return err
	}

	if r.cache != nil {
		if err := r.cache.DeleteByMovieID(id); err != nil {
			r.logger.Warn("failed to prune cached entry", "error", err)
		}
	}

	r.writePlain("✓ Movie deleted: %s\n", id)
	return nil
}

func movieInputFromFlags(cmd *cli.Command) services.MovieInput {
	return services.MovieInput{
		Title:       cmd.String("title"),
		Genre:       cmd.String("genre"),
		Director:    cmd.String("director"),
		Year:        int(cmd.Int("year")),
		Rating:      cmd.Float64("rating"),
		Duration:    cmd.String("duration"),
		Description: cmd.String("description"),
		ImageURL:    cmd.String("image-url"),
		ImdbID:      cmd.String("imdb-id"),
	}
}

func movieFieldFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "title",
			Usage:    "Movie title",
			Required: required,
		},
		&cli.StringFlag{
			Name:     "genre",
			Usage:    "Genre",
			Required: required,
		},
		&cli.StringFlag{
			Name:  "director",
			Usage: "Director",
		},
		&cli.IntFlag{
			Name:  "year",
			Usage: "Release year",
		},
		&cli.Float64Flag{
			Name:  "rating",
			Usage: "Rating (0-10)",
		},
		&cli.StringFlag{
			Name:  "duration",
			Usage: "Runtime, e.g. \"2h 10m\"",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Plot summary",
		},
		&cli.StringFlag{
			Name:  "image-url",
			Usage: "Poster image URL",
		},
		&cli.StringFlag{
			Name:  "imdb-id",
			Usage: "IMDb identifier, e.g. tt0113277",
		},
	}
}

// adminCommand handles the admin console operations
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Admin console (requires an admin account)",
		Commands: []*cli.Command{
			{
				Name:  "users",
				Usage: "Manage accounts",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List every account",
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
						Action: r.AdminUsers,
					},
					{
						Name:  "delete",
						Usage: "Delete an account and its profiles",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Action: r.AdminUserDelete,
					},
				},
			},
			{
				Name:  "profiles",
				Usage: "List every profile across accounts",
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
				Action: r.AdminProfiles,
			},
			{
				Name:  "movie",
				Usage: "Manage catalog entries",
				Commands: []*cli.Command{
					{
						Name:   "create",
						Usage:  "Add a catalog entry",
						Flags:  movieFieldFlags(true),
						Action: r.AdminMovieCreate,
					},
					{
						Name:  "update",
						Usage: "Replace a catalog entry's fields",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags:  movieFieldFlags(false),
						Action: r.AdminMovieUpdate,
					},
					{
						Name:  "delete",
						Usage: "Remove a catalog entry",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Action: r.AdminMovieDelete,
					},
				},
			},
		},
	}
}
