package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"reelx/internal/models"
	"reelx/internal/services"
	"reelx/internal/session"
	"reelx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	LoginView
	ProfileSelectView
	CatalogView
	DetailView
	WatchlistView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	session  *session.Store
	profiles *session.ProfileStore
	guard    *session.Guard
	movies   *services.MovieService
	plists   *services.ProfileService
	width    int
	height   int

	emailInput    textinput.Model
	passwordInput textinput.Model
	focusPassword bool

	profileList   list.Model
	catalogList   list.Model
	watchlistList list.Model
	catalog       []models.Movie
	watchlist     map[string]bool
	selectedMovie *models.Movie
	status        string
	err           error
	help          help.Model
	keys          keyMap
}

// profileItem wraps [models.Profile] to implement list.Item.
type profileItem struct {
	profile models.Profile
}

func (i profileItem) FilterValue() string { return i.profile.Name }
func (i profileItem) Title() string       { return i.profile.Name }
func (i profileItem) Description() string {
	if i.profile.IsChild {
		return "child profile"
	}
	return "standard profile"
}

// movieItem wraps [models.Movie] to implement list.Item.
type movieItem struct {
	movie models.Movie
	saved bool
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string {
	if i.saved {
		return "★ " + i.movie.Title
	}
	return i.movie.Title
}
func (i movieItem) Description() string {
	desc := i.movie.Genre
	if i.movie.Year > 0 {
		desc = fmt.Sprintf("%s • %d", desc, i.movie.Year)
	}
	if i.movie.Rating > 0 {
		desc = fmt.Sprintf("%s • %.1f", desc, i.movie.Rating)
	}
	return desc
}

type sessionReadyMsg struct {
	err error
}

type loginResultMsg struct {
	account *models.Account
	err     error
}

type profilesLoadedMsg struct {
	profiles []models.Profile
	restored *models.Profile
	err      error
}

type catalogFetchedMsg struct {
	movies []models.Movie
	err    error
}

type watchlistFetchedMsg struct {
	movies []models.Movie
	err    error
}

type watchlistToggledMsg struct {
	movieID string
	saved   bool
	err     error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, sess *session.Store, profiles *session.ProfileStore, movies *services.MovieService, plists *services.ProfileService) *Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	return &Model{
		ctx:           ctx,
		view:          LoadingView,
		session:       sess,
		profiles:      profiles,
		guard:         session.NewGuard(sess, profiles),
		movies:        movies,
		plists:        plists,
		emailInput:    email,
		passwordInput: password,
		watchlist:     map[string]bool{},
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

// Init hydrates the session from storage before showing anything.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		return sessionReadyMsg{err: m.session.Initialize(m.ctx)}
	}
}

// route picks the view the guard allows for the catalog requirement.
func (m *Model) route() tea.Cmd {
	req := session.Requirement{RequiresAuth: true, RequiresActiveProfile: true}
	switch m.guard.Check(req) {
	case session.Wait:
		m.view = LoadingView
		return nil
	case session.RedirectToLogin:
		m.view = LoginView
		return nil
	case session.RedirectToProfileSelect:
		m.view = ProfileSelectView
		if len(m.profiles.Profiles()) == 0 {
			return m.loadProfiles()
		}
		m.rebuildProfileList()
		return nil
	default:
		m.view = CatalogView
		if m.catalog == nil {
			return m.fetchCatalog()
		}
		return nil
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.profileList, &m.catalogList, &m.watchlistList} {
			if l.Width() == 0 {
				l.SetSize(msg.Width-4, msg.Height-8)
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case ProfileSelectView:
			return m.handleProfileSelectKeys(msg)
		case CatalogView:
			return m.handleCatalogKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case WatchlistView:
			return m.handleWatchlistKeys(msg)
		default:
			if msg.String() == "q" || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		}

	case sessionReadyMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		return m, m.route()

	case loginResultMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = ""
		m.passwordInput.SetValue("")
		return m, m.loadProfiles()

	case profilesLoadedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			m.view = ProfileSelectView
			return m, nil
		}
		m.rebuildProfileList()
		if msg.restored != nil {
			return m, m.route()
		}
		m.view = ProfileSelectView
		return m, nil

	case catalogFetchedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.catalog = msg.movies
		m.rebuildCatalogList()
		m.view = CatalogView
		return m, m.fetchWatchlist()

	case watchlistFetchedMsg:
		if msg.err != nil {
			return m, nil
		}
		m.watchlist = map[string]bool{}
		for _, movie := range msg.movies {
			m.watchlist[movie.ID] = true
		}
		m.rebuildCatalogList()
		m.rebuildWatchlistList(msg.movies)
		return m, nil

	case watchlistToggledMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.watchlist[msg.movieID] = msg.saved
		if !msg.saved {
			delete(m.watchlist, msg.movieID)
		}
		m.rebuildCatalogList()
		return m, m.fetchWatchlist()
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LoginView:
		return m.renderLogin()
	case ProfileSelectView:
		return m.renderProfileSelect()
	case CatalogView:
		return m.renderCatalog()
	case DetailView:
		return m.renderDetail()
	case WatchlistView:
		return m.renderWatchlist()
	default:
		return styles.help.Render("Checking session...")
	}
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab":
		m.focusPassword = !m.focusPassword
		if m.focusPassword {
			m.emailInput.Blur()
			m.passwordInput.Focus()
		} else {
			m.passwordInput.Blur()
			m.emailInput.Focus()
		}
		return m, nil
	case "enter":
		if !m.focusPassword {
			m.focusPassword = true
			m.emailInput.Blur()
			m.passwordInput.Focus()
			return m, nil
		}
		return m, m.login(m.emailInput.Value(), m.passwordInput.Value())
	}

	var cmd tea.Cmd
	if m.focusPassword {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	} else {
		m.emailInput, cmd = m.emailInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleProfileSelectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "ctrl+l":
		return m, m.logout()
	case "enter":
		if selected, ok := m.profileList.SelectedItem().(profileItem); ok {
			if err := m.profiles.SelectProfile(selected.profile); err != nil {
				m.status = err.Error()
				return m, nil
			}
			m.catalog = nil
			return m, m.route()
		}
	}

	var cmd tea.Cmd
	m.profileList, cmd = m.profileList.Update(msg)
	return m, cmd
}

func (m *Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "p":
		m.view = ProfileSelectView
		m.rebuildProfileList()
		return m, nil
	case "ctrl+l":
		return m, m.logout()
	case "l":
		m.view = WatchlistView
		return m, m.fetchWatchlist()
	case "w":
		if selected, ok := m.catalogList.SelectedItem().(movieItem); ok {
			return m, m.toggleWatchlist(selected.movie.ID)
		}
	case "enter":
		if selected, ok := m.catalogList.SelectedItem().(movieItem); ok {
			movie := selected.movie
			m.selectedMovie = &movie
			m.view = DetailView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.catalogList, cmd = m.catalogList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = CatalogView
		return m, nil
	case "w":
		if m.selectedMovie != nil {
			return m, m.toggleWatchlist(m.selectedMovie.ID)
		}
	}
	return m, nil
}

func (m *Model) handleWatchlistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = CatalogView
		return m, nil
	case "w":
		if selected, ok := m.watchlistList.SelectedItem().(movieItem); ok {
			return m, m.toggleWatchlist(selected.movie.ID)
		}
	}

	var cmd tea.Cmd
	m.watchlistList, cmd = m.watchlistList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ProfileSelectView:
		m.profileList, cmd = m.profileList.Update(msg)
	case CatalogView:
		m.catalogList, cmd = m.catalogList.Update(msg)
	case WatchlistView:
		m.watchlistList, cmd = m.watchlistList.Update(msg)
	}
	return m, cmd
}

func (m *Model) login(email, password string) tea.Cmd {
	return func() tea.Msg {
		acct, err := m.session.Login(m.ctx, email, password)
		return loginResultMsg{account: acct, err: err}
	}
}

func (m *Model) logout() tea.Cmd {
	m.session.Logout()
	m.profiles.Reset()
	m.catalog = nil
	m.watchlist = map[string]bool{}
	m.selectedMovie = nil
	return m.route()
}

func (m *Model) loadProfiles() tea.Cmd {
	return func() tea.Msg {
		accountID := m.session.AccountID()
		profiles, err := m.profiles.LoadProfiles(m.ctx, accountID)
		if err != nil {
			return profilesLoadedMsg{err: err}
		}
		restored := m.profiles.RestoreActiveProfile()
		return profilesLoadedMsg{profiles: profiles, restored: restored}
	}
}

func (m *Model) fetchCatalog() tea.Cmd {
	return func() tea.Msg {
		movies, err := m.movies.List(m.ctx)
		if err != nil {
			return catalogFetchedMsg{err: err}
		}

		opts := tasks.BrowseOpts{}
		if active := m.profiles.ActiveProfile(); active != nil && active.IsChild {
			opts.KidSafeOnly = true
		}
		return catalogFetchedMsg{movies: tasks.FilterMovies(movies, opts)}
	}
}

func (m *Model) fetchWatchlist() tea.Cmd {
	active := m.profiles.ActiveProfile()
	if active == nil {
		return nil
	}
	return func() tea.Msg {
		movies, err := m.plists.Watchlist(m.ctx, active.ID)
		return watchlistFetchedMsg{movies: movies, err: err}
	}
}

func (m *Model) toggleWatchlist(movieID string) tea.Cmd {
	active := m.profiles.ActiveProfile()
	if active == nil {
		return nil
	}
	saved := m.watchlist[movieID]
	return func() tea.Msg {
		var err error
		if saved {
			err = m.plists.RemoveFromWatchlist(m.ctx, active.ID, movieID)
		} else {
			err = m.plists.AddToWatchlist(m.ctx, active.ID, movieID)
		}
		return watchlistToggledMsg{movieID: movieID, saved: !saved, err: err}
	}
}

func (m *Model) rebuildProfileList() {
	profiles := m.profiles.Profiles()
	items := make([]list.Item, len(profiles))
	for i, prof := range profiles {
		items[i] = profileItem{profile: prof}
	}
	m.profileList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.profileList.Title = "Who's watching?"
	m.profileList.SetSize(m.width-4, m.height-8)
}

func (m *Model) rebuildCatalogList() {
	items := make([]list.Item, len(m.catalog))
	for i, movie := range m.catalog {
		items[i] = movieItem{movie: movie, saved: m.watchlist[movie.ID]}
	}
	title := "Catalog"
	if active := m.profiles.ActiveProfile(); active != nil {
		title = fmt.Sprintf("Catalog · %s", active.Name)
	}
	selected := m.catalogList.Index()
	m.catalogList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.catalogList.Title = title
	m.catalogList.Select(selected)
	m.catalogList.SetSize(m.width-4, m.height-8)
}

func (m *Model) rebuildWatchlistList(movies []models.Movie) {
	items := make([]list.Item, len(movies))
	for i, movie := range movies {
		items[i] = movieItem{movie: movie, saved: true}
	}
	m.watchlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.watchlistList.Title = "Watchlist"
	m.watchlistList.SetSize(m.width-4, m.height-8)
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Sign in")
	fields := fmt.Sprintf("%s\n%s", m.emailInput.View(), m.passwordInput.View())

	status := ""
	if m.status != "" {
		status = "\n" + styles.err.Render(m.status)
	}

	enterKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in"))
	tabKey := key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field"))
	helpView := m.help.ShortHelpView([]key.Binding{enterKey, tabKey})

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, fields, status, helpView)
}

func (m *Model) renderProfileSelect() string {
	status := ""
	if m.status != "" {
		status = "\n" + styles.err.Render(m.status)
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.logout, m.keys.quit})
	return fmt.Sprintf("%s%s\n\n%s", m.profileList.View(), status, helpView)
}

func (m *Model) renderCatalog() string {
	status := ""
	if m.status != "" {
		status = "\n" + styles.warn.Render(m.status)
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.toggle, m.keys.watchlist, m.keys.profiles, m.keys.quit})
	return fmt.Sprintf("%s%s\n\n%s", m.catalogList.View(), status, helpView)
}

func (m *Model) renderDetail() string {
	if m.selectedMovie == nil {
		return styles.help.Render("Nothing selected")
	}
	movie := m.selectedMovie

	title := styles.title.Render(movie.Title)
	info := fmt.Sprintf("Genre: %s\nDirector: %s\nYear: %d\nRating: %.1f\nDuration: %s",
		movie.Genre, movie.Director, movie.Year, movie.Rating, movie.Duration)
	if movie.Description != "" {
		info += "\n\n" + movie.Description
	}

	saved := ""
	if m.watchlist[movie.ID] {
		saved = "\n" + styles.ok.Render("★ On your watchlist")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.toggle, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, saved, helpView)
}

func (m *Model) renderWatchlist() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.toggle, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.watchlistList.View(), helpView)
}
