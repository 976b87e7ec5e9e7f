package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"reelx/internal/formatter"
	"reelx/internal/shared"
)

// ExportOpts contains configuration for watchlist exports.
type ExportOpts struct {
	Formats     []string // Export formats: json, csv, markdown, txt (default: json)
	OutputDir   string   // Base output directory (default: watchlist_export_{epoch})
	NumWorkers  int      // Concurrent format writers (default: 3)
	RateLimit   float64  // Detail requests per second (default: 5)
	WithDetails bool     // Enrich entries missing a description before writing
}

// FormatExportResult records the outcome of writing one export format.
type FormatExportResult struct {
	Format  string
	File    string
	Success bool
	Error   error
}

// ExportResult summarizes a watchlist export.
type ExportResult struct {
	Profile           string
	TotalMovies       int
	OutputDirectory   string
	SuccessfulExports int
	FailedExports     int
	Results           []FormatExportResult
	ManifestPath      string
}

type exportJob struct {
	format string
	step   int
}

// ExportWatchlist writes a profile's watchlist to disk in one or more formats.
//
// Formats are written concurrently by a small worker pool; detail enrichment,
// when requested, is rate limited like a catalog refresh. A manifest file
// summarizing the export is written last.
func (e *CatalogEngine) ExportWatchlist(ctx context.Context, progress chan<- ProgressUpdate, profileID, profileName string, opts ExportOpts) (*ExportResult, error) {
	if e.profiles == nil {
		return nil, fmt.Errorf("%w: profile service not initialized", shared.ErrServerUnreachable)
	}
	if profileID == "" {
		return nil, fmt.Errorf("%w: profile id", shared.ErrMissingArgument)
	}

	if len(opts.Formats) == 0 {
		opts.Formats = []string{"json"}
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("watchlist_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	e.sendProgress(progress, fetchWatchlistUpdate(1, 1, profileName))

	movies, err := e.profiles.Watchlist(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if opts.WithDetails && e.movies != nil {
		limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
		for i := range movies {
			if movies[i].ImdbID == "" || movies[i].Description != "" {
				continue
			}
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
			e.sendProgress(progress, fetchDetailsUpdate(i+1, len(movies), movies[i].Title))
			if details, err := e.movies.Details(ctx, movies[i].ImdbID); err == nil {
				movies[i].Description = details.Plot
			}
		}
	}

	export := &formatter.MovieExport{
		Name:    fmt.Sprintf("%s's Watchlist", profileName),
		Profile: profileName,
		Movies:  movies,
	}

	result := &ExportResult{
		Profile:         profileName,
		TotalMovies:     len(movies),
		OutputDirectory: opts.OutputDir,
		Results:         make([]FormatExportResult, 0, len(opts.Formats)),
	}

	jobs := make(chan exportJob, len(opts.Formats))
	results := make(chan FormatExportResult, len(opts.Formats))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				path := filepath.Join(opts.OutputDir, "watchlist"+formatter.ExtensionFor(job.format))
				written, err := formatter.WriteExport(export, job.format, path)
				results <- FormatExportResult{
					Format:  job.format,
					File:    written,
					Success: err == nil,
					Error:   err,
				}
			}
		}()
	}

	for i, format := range opts.Formats {
		jobs <- exportJob{format: format, step: i + 1}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(progress, exportWrittenUpdate(completed, len(opts.Formats), res.File))
		} else {
			result.FailedExports++
			e.sendProgress(progress, exportFailedUpdate(completed, len(opts.Formats), res.Format, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	return result, nil
}
