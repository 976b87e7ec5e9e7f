package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"reelx/internal/shared"
	"reelx/internal/ui"
)

// TUI launches the interactive terminal UI for browsing the catalog.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil || r.profileStore == nil {
		return fmt.Errorf("%w: session not initialized", shared.ErrNotAuthenticated)
	}
	if r.movies == nil || r.profiles == nil {
		return fmt.Errorf("%w: catalog services not initialized", shared.ErrServerUnreachable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := filepath.Join(r.config.State.ResolveDir(), "reelx-tui.log")
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.session, r.profileStore, r.movies, r.profiles)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive catalog browser",
		Action:  r.TUI,
	}
}
