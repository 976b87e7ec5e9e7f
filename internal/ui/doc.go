// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the streaming client's view flow:
//  1. [LoginView] : Authenticate with the catalog backend
//  2. [ProfileSelectView] : Pick the household profile to browse as
//  3. [CatalogView] : Browse the catalog, filtered for child profiles
//  4. [DetailView] : Inspect a single title
//  5. [WatchlistView] : Review the active profile's saved titles
//
// Every navigation decision goes through the session guard: views declare
// what they require and the guard's verdict picks the view actually shown,
// so an expired session or a missing profile selection can never render a
// protected view.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, w, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
