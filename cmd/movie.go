package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"reelx/internal/models"
	"reelx/internal/session"
	"reelx/internal/shared"
	"reelx/internal/tasks"
)

// MovieList browses the catalog with optional filters. Child profiles only
// ever see kid-safe titles, regardless of flags.
func (r *Runner) MovieList(ctx context.Context, cmd *cli.Command) error {
	opts := tasks.BrowseOpts{
		Genre:       cmd.String("genre"),
		Search:      cmd.String("search"),
		KidSafeOnly: cmd.Bool("kid-safe"),
	}

	var movies []models.Movie

	if cmd.Bool("cached") {
		// Offline browsing reads the local cache and needs no session.
		entries, err := r.cachedMovies(opts)
		if err != nil {
			return err
		}
		movies = entries
	} else {
		if err := r.requireAccess(ctx, session.Requirement{RequiresAuth: true, RequiresActiveProfile: true}); err != nil {
			return err
		}
		if active := r.profileStore.ActiveProfile(); active != nil && active.IsChild {
			opts.KidSafeOnly = true
		}

		catalog, err := r.movies.List(ctx)
		if err != nil {
			return err
		}
		movies = tasks.FilterMovies(catalog, opts)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	if len(movies) == 0 {
		r.writePlain("No movies matched.\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Catalog (%d)", len(movies)))
	for _, movie := range movies {
		r.writePlain("%s (%d) [%s] %.1f\n", movie.Title, movie.Year, movie.Genre, movie.Rating)
		r.writePlain("  id: %s\n", movie.ID)
	}
	return nil
}

// cachedMovies queries the local movie cache with the same filters the
// catalog browse supports.
func (r *Runner) cachedMovies(opts tasks.BrowseOpts) ([]models.Movie, error) {
	if r.cache == nil {
		return nil, fmt.Errorf("%w: local cache not initialized", shared.ErrMissingConfig)
	}

	criteria := map[string]any{}
	if opts.Genre != "" {
		criteria["genre"] = opts.Genre
	}
	if opts.Search != "" {
		criteria["search"] = opts.Search
	}
	if opts.KidSafeOnly {
		criteria["kid_safe"] = true
	}

	entries, err := r.cache.List(criteria)
	if err != nil {
		return nil, err
	}

	movies := make([]models.Movie, 0, len(entries))
	for _, entry := range entries {
		movies = append(movies, entry.Movie())
	}
	return movies, nil
}

// MovieShow prints one catalog entry; --open launches its IMDb page.
func (r *Runner) MovieShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	if err := r.requireAccess(ctx, session.Requirement{RequiresAuth: true, RequiresActiveProfile: true}); err != nil {
		return err
	}

	movie, err := r.movies.Get(ctx, id)
	if err != nil {
		return err
	}

	if active := r.profileStore.ActiveProfile(); active != nil && active.IsChild && !movie.KidSafe() {
		return fmt.Errorf("%w: title not available on a child profile", shared.ErrMovieNotFound)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, cmd.Bool("pretty"))
	}

	r.writePlainHeader(movie.Title)
	r.writePlain("Genre: %s\n", movie.Genre)
	r.writePlain("Director: %s\n", movie.Director)
	r.writePlain("Year: %d\n", movie.Year)
	r.writePlain("Rating: %.1f\n", movie.Rating)
	if movie.Duration != "" {
		r.writePlain("Duration: %s\n", movie.Duration)
	}
	if movie.Description != "" {
		r.writePlain("\n%s\n", movie.Description)
	}

	if cmd.Bool("open") && movie.ImdbID != "" {
		url := "https://www.imdb.com/title/" + movie.ImdbID + "/"
		r.logger.Info("opening browser", "url", url)
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return nil
}

// MovieDetails fetches OMDb-enriched details through the backend proxy.
func (r *Runner) MovieDetails(ctx context.Context, cmd *cli.Command) error {
	imdbID := cmd.StringArg("imdb-id")
	if imdbID == "" {
		return fmt.Errorf("%w: imdb id", shared.ErrMissingArgument)
	}

	if err := r.requireAccess(ctx, session.Requirement{RequiresAuth: true}); err != nil {
		return err
	}

	details, err := r.movies.Details(ctx, imdbID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(details, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s (%s)", details.Title, details.Year))
	r.writePlain("Rated: %s\n", details.Rated)
	r.writePlain("Runtime: %s\n", details.Runtime)
	r.writePlain("Genre: %s\n", details.Genre)
	r.writePlain("Director: %s\n", details.Director)
	r.writePlain("Actors: %s\n", details.Actors)
	r.writePlain("IMDb rating: %s\n", details.ImdbRating)
	if details.Plot != "" {
		r.writePlain("\n%s\n", details.Plot)
	}
	return nil
}

// MovieRefresh re-fetches the catalog into the local cache, optionally
// enriching entries from the details proxy.
func (r *Runner) MovieRefresh(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAccess(ctx, session.Requirement{RequiresAuth: true}); err != nil {
		return err
	}

	r.writePlain("Refreshing catalog cache...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchCatalog:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.FetchDetails:
				r.writePlain("   (%d/%d) %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	result, err := r.engine.Refresh(ctx, progressCh, tasks.RefreshOpts{
		RateLimit:   cmd.Float64("rate"),
		WithDetails: cmd.Bool("details"),
	})
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlainln("═══════════════════════════════════════")
	r.writePlain("Refresh Complete!\n")
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Catalog entries: %d\n", result.TotalMovies)
	r.writePlain("Cached: %d\n", result.Cached)
	if result.DetailsFetched > 0 {
		r.writePlain("Details fetched: %d\n", result.DetailsFetched)
	}
	if result.Failed > 0 {
		r.writePlain("Failed: %d\n", result.Failed)
	}
	for _, refreshErr := range result.Errors {
		r.writePlain("  - %s: %v\n", refreshErr.Title, refreshErr.Err)
	}

	return nil
}

// movieCommand handles catalog browsing operations
func movieCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movie",
		Aliases: []string{"movies"},
		Usage:   "Browse the movie catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog entries",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "genre",
						Usage: "Filter by exact genre",
					},
					&cli.StringFlag{
						Name:  "search",
						Usage: "Filter by title or director substring",
					},
					&cli.BoolFlag{
						Name:  "kid-safe",
						Usage: "Restrict to kid-safe titles",
					},
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Browse the local cache instead of the backend",
					},
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
				Action: r.MovieList,
			},
			{
				Name:  "show",
				Usage: "Show a single catalog entry",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the title's IMDb page in a browser",
					},
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
				Action: r.MovieShow,
			},
			{
				Name:  "details",
				Usage: "Fetch OMDb details for a title",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "imdb-id"},
				},
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
				Action: r.MovieDetails,
			},
			{
				Name:  "refresh",
				Usage: "Re-fetch the catalog into the local cache",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "details",
						Usage: "Enrich entries missing a description from the details proxy",
					},
					&cli.Float64Flag{
						Name:  "rate",
						Usage: "Detail requests per second",
						Value: 5.0,
					},
				},
				Action: r.MovieRefresh,
			},
		},
	}
}
