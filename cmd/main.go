package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"reelx/internal/repositories"
	"reelx/internal/services"
	"reelx/internal/session"
	"reelx/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	stateDir := config.State.ResolveDir()
	stateLock, err := shared.AcquireStateLock(stateDir)
	if err != nil {
		if errors.Is(err, shared.ErrStateLocked) {
			logger.Fatal("another reelx process holds the session state, exiting")
		}
		logger.Fatalf("failed to lock state directory: %v", err)
	}
	defer stateLock.Release()

	dbPath := config.Database.Path
	if dbPath == "" {
		dbPath = filepath.Join(stateDir, "reelx.db")
	}

	db, err := shared.NewDatabase(dbPath)
	if err != nil {
		logger.Fatalf("failed to open local database: %v", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	if err := shared.RunMigrations(db); err != nil {
		logger.Fatalf("failed to migrate local database: %v", err)
	}

	stateRepo := repositories.NewStateRepository(db)
	cacheRepo := repositories.NewMovieCacheRepository(db)

	// The token source closes over the session store, which itself needs the
	// auth service built on this transport. Declared first to break the cycle.
	var sessionStore *session.Store
	httpClient := &http.Client{Timeout: config.Server.Timeout()}
	api := services.NewAPIService(config.Server.BaseURL, httpClient, services.TokenSourceFunc(func() string {
		if sessionStore == nil {
			return ""
		}
		return sessionStore.Token()
	}))

	authService := services.NewAuthService(api)
	profileService := services.NewProfileService(api)
	movieService := services.NewMovieService(api)
	userService := services.NewUserService(api)

	sessionStore = session.NewStore(authService, stateRepo, logger)
	profileStore := session.NewProfileStore(profileService, sessionStore, stateRepo, logger)

	runner := NewRunner(RunnerOpts{
		Config:       config,
		API:          api,
		Auth:         authService,
		Profiles:     profileService,
		Movies:       movieService,
		Users:        userService,
		Session:      sessionStore,
		ProfileStore: profileStore,
		Cache:        cacheRepo,
		HTTPClient:   httpClient,
		Logger:       logger,
	})

	app := &cli.Command{
		Name:     "reelx",
		Usage:    "Browse the movie catalog and manage household profiles",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
