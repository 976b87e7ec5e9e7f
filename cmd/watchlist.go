package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"reelx/internal/session"
	"reelx/internal/shared"
	"reelx/internal/tasks"
)

// WatchlistShow lists the active profile's saved titles.
func (r *Runner) WatchlistShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAccess(ctx, session.Requirement{RequiresAuth: true, RequiresActiveProfile: true}); err != nil {
		return err
	}

	active := r.profileStore.ActiveProfile()
	movies, err := r.profiles.Watchlist(ctx, active.ID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	if len(movies) == 0 {
		r.writePlain("%s's watchlist is empty.\n", active.Name)
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("%s's Watchlist (%d)", active.Name, len(movies)))
	for _, movie := range movies {
		r.writePlain("%s (%d) [%s]\n", movie.Title, movie.Year, movie.Genre)
		r.writePlain("  id: %s\n", movie.ID)
	}
	return nil
}

// WatchlistAdd saves a movie to the active profile's watchlist.
func (r *Runner) WatchlistAdd(ctx context.Context, cmd *cli.Command) error {
	movieID := cmd.StringArg("movie-id")
	if movieID == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	if err := r.requireAccess(ctx, session.Requirement{RequiresAuth: true, RequiresActiveProfile: true}); err != nil {
		return err
	}

	active := r.profileStore.ActiveProfile()
	if err := r.profiles.AddToWatchlist(ctx, active.ID, movieID); err != nil {
		return err
	}

	r.writePlain("✓ Added to %s's watchlist\n", active.Name)
	return nil
}

// WatchlistRemove deletes a movie from the active profile's watchlist.
func (r *Runner) WatchlistRemove(ctx context.Context, cmd *cli.Command) error {
	movieID := cmd.StringArg("movie-id")
	if movieID == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	if err := r.requireAccess(ctx, session.Requirement{RequiresAuth: true, RequiresActiveProfile: true}); err != nil {
		return err
	}

	active := r.profileStore.ActiveProfile()
	if err := r.profiles.RemoveFromWatchlist(ctx, active.ID, movieID); err != nil {
		return err
	}

	r.writePlain("✓ Removed from %s's watchlist\n", active.Name)
	return nil
}

// WatchlistExport writes the active profile's watchlist to disk in one or
// more formats.
func (r *Runner) WatchlistExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAccess(ctx, session.Requirement{RequiresAuth: true, RequiresActiveProfile: true}); err != nil {
		return err
	}

	active := r.profileStore.ActiveProfile()

	r.writePlain("Exporting %s's watchlist...\n\n", active.Name)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchWatchlist:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.FetchDetails:
				r.writePlain("   (%d/%d) %s\n", update.Step, update.Total, update.Message)
			case tasks.WriteExport:
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.ExportWatchlist(ctx, progressCh, active.ID, active.Name, tasks.ExportOpts{
		Formats:     cmd.StringSlice("format"),
		OutputDir:   cmd.String("output"),
		NumWorkers:  int(cmd.Int("workers")),
		RateLimit:   cmd.Float64("rate"),
		WithDetails: cmd.Bool("details"),
	})
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlainln("═══════════════════════════════════════")
	r.writePlain("Export Complete!\n")
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Profile: %s (%d movies)\n", result.Profile, result.TotalMovies)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Written: %d format(s)\n", result.SuccessfulExports)
	if result.FailedExports > 0 {
		r.writePlain("Failed: %d format(s)\n", result.FailedExports)
		for _, formatResult := range result.Results {
			if !formatResult.Success {
				r.writePlain("  - %s: %v\n", formatResult.Format, formatResult.Error)
			}
		}
	}

	return nil
}

// watchlistCommand handles per-profile watchlist operations
func watchlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "watchlist",
		Aliases: []string{"wl"},
		Usage:   "Manage the active profile's watchlist",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "List saved titles",
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
				Action: r.WatchlistShow,
			},
			{
				Name:  "add",
				Usage: "Save a movie to the watchlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "movie-id"},
				},
				Action: r.WatchlistAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a movie from the watchlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "movie-id"},
				},
				Action: r.WatchlistRemove,
			},
			{
				Name:  "export",
				Usage: "Export the watchlist to disk",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export formats (json, csv, markdown, txt)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent format writers",
						Value: 3,
					},
					&cli.Float64Flag{
						Name:  "rate",
						Usage: "Detail requests per second",
						Value: 5.0,
					},
					&cli.BoolFlag{
						Name:  "details",
						Usage: "Enrich entries missing a description before writing",
					},
				},
				Action: r.WatchlistExport,
			},
		},
	}
}
