// Package tui is the interactive search screen.
//
// The model drives two search engines, one for users and one for
// repositories. Engines notify through a coalescing channel; on every
// notification the model pulls fresh snapshots, so it never renders a state
// older than the one it already has.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/s0up4200/gitexplore/favorites"
	"github.com/s0up4200/gitexplore/github"
	"github.com/s0up4200/gitexplore/profile"
	"github.com/s0up4200/gitexplore/search"
)

// Lines reserved for tabs, input, sort line, status and footer.
const chromeLines = 6

// Styles.
var (
	styleSelected = lipgloss.NewStyle().Bold(true).Reverse(true)
	styleTab      = lipgloss.NewStyle().Padding(0, 1)
	styleTabOn    = styleTab.Bold(true).Underline(true)
	styleHeader   = lipgloss.NewStyle().Bold(true)
	styleFooter   = lipgloss.NewStyle().Faint(true)
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	styleMessage  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	styleFavorite = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Tab selects which search the screen shows
type Tab int

const (
	TabUsers Tab = iota
	TabRepositories
)

// FavoriteStore is the part of the favorites store the screen needs
type FavoriteStore interface {
	List(ctx context.Context) ([]favorites.Favorite, error)
	Upsert(ctx context.Context, f favorites.Favorite) (favorites.Favorite, error)
	Delete(ctx context.Context, username string) error
}

// Options configures New
type Options struct {
	API       github.API
	Favorites FavoriteStore
	Logger    zerolog.Logger
	// Term is submitted as soon as the program starts when non-empty
	Term string
}

// Messages.
type (
	engineUpdatedMsg   struct{}
	favoritesLoadedMsg struct {
		usernames []string
		err       error
	}
	favoriteToggledMsg struct {
		username string
		added    bool
		err      error
	}
	profileLoadedMsg struct {
		username string
		state    profile.State
	}
)

// Model is the Bubble Tea model for the search screen.
type Model struct {
	ctx    context.Context
	api    github.API
	store  FavoriteStore
	logger zerolog.Logger

	users       *search.Engine[github.UserSummary]
	repos       *search.Engine[github.RepositorySummary]
	updates     chan struct{}
	unsubscribe []func()

	userState search.State[github.UserSummary]
	repoState search.State[github.RepositorySummary]

	input   textinput.Model
	spinner spinner.Model

	tab        Tab
	inputFocus bool
	cursor     int
	offset     int
	width      int
	height     int
	sortIdx    int
	order      github.SortOrder

	favorites map[string]bool
	message   string

	// profile view, nil when the list is shown
	loader  *profile.Loader
	profile profile.State

	initialTerm string
	quitting    bool
}

// New creates a Model. Close must be called once the program exits.
func New(ctx context.Context, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Search GitHub"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.SetValue(opts.Term)
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		ctx:         ctx,
		api:         opts.API,
		store:       opts.Favorites,
		logger:      opts.Logger,
		users:       search.NewUserSearch(opts.API, opts.Logger),
		repos:       search.NewRepositorySearch(opts.API, opts.Logger),
		updates:     make(chan struct{}, 1),
		input:       ti,
		spinner:     sp,
		inputFocus:  true,
		width:       80,
		height:      24,
		order:       github.OrderDesc,
		favorites:   make(map[string]bool),
		initialTerm: strings.TrimSpace(opts.Term),
	}
	m.userState = m.users.Snapshot()
	m.repoState = m.repos.Snapshot()

	signal := func() {
		select {
		case m.updates <- struct{}{}:
		default:
		}
	}
	m.unsubscribe = append(m.unsubscribe,
		m.users.Subscribe(func(search.State[github.UserSummary]) { signal() }),
		m.repos.Subscribe(func(search.State[github.RepositorySummary]) { signal() }),
	)
	return m
}

// Close detaches the model from its engines
func (m Model) Close() {
	for _, unsubscribe := range m.unsubscribe {
		unsubscribe()
	}
}

// Quitting returns true if the user chose to exit.
func (m Model) Quitting() bool {
	return m.quitting
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, m.waitForUpdate(), m.loadFavorites()}
	if m.initialTerm != "" {
		m.submit(m.initialTerm)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampViewport()
		m.loadMoreIfNeeded()
		return m, nil

	case engineUpdatedMsg:
		m.refresh()
		return m, m.waitForUpdate()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case favoritesLoadedMsg:
		if msg.err != nil {
			m.message = "Couldn't load favorites."
			m.logger.Warn().Err(msg.err).Msg("Failed to load favorites")
			return m, nil
		}
		for _, username := range msg.usernames {
			m.favorites[strings.ToLower(username)] = true
		}
		return m, nil

	case favoriteToggledMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Couldn't update favorite %s.", msg.username)
			m.logger.Warn().Err(msg.err).Str("username", msg.username).Msg("Failed to update favorite")
			return m, nil
		}
		key := strings.ToLower(msg.username)
		if msg.added {
			m.favorites[key] = true
			m.message = fmt.Sprintf("Added %s to favorites.", msg.username)
		} else {
			delete(m.favorites, key)
			m.message = fmt.Sprintf("Removed %s from favorites.", msg.username)
		}
		return m, nil

	case profileLoadedMsg:
		if m.loader != nil && m.loader.Username() == msg.username {
			m.profile = msg.state
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.loader != nil {
			return m.updateProfile(msg)
		}
		if m.inputFocus {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.submit(m.input.Value()) {
			m.focusList()
		}
		return m, nil

	case "esc":
		m.focusList()
		return m, nil

	case "tab":
		m.switchTab()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear any inline message on next keypress.
	m.message = ""

	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "/":
		m.inputFocus = true
		m.input.Focus()
		return m, textinput.Blink

	case "tab":
		m.switchTab()
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.clampViewport()
		}
		return m, nil

	case "down", "j":
		if m.cursor < m.rowCount()-1 {
			m.cursor++
			m.clampViewport()
		}
		m.loadMoreIfNeeded()
		return m, nil

	case "s":
		if m.tab == TabUsers {
			m.sortIdx = (m.sortIdx + 1) % len(github.UserSorts)
			m.resubmit()
		}
		return m, nil

	case "o":
		if m.tab == TabUsers && m.sort() != github.SortBestMatch {
			if m.order == github.OrderAsc {
				m.order = github.OrderDesc
			} else {
				m.order = github.OrderAsc
			}
			m.resubmit()
		}
		return m, nil

	case "x":
		if m.tab == TabUsers {
			m.users.ClearError()
		} else {
			m.repos.ClearError()
		}
		return m, nil

	case "r":
		if m.tab == TabUsers {
			m.users.Retry(m.ctx)
		} else {
			m.repos.Retry(m.ctx)
		}
		return m, nil

	case "f":
		if u, ok := m.selectedUser(); ok {
			return m, m.toggleFavorite(u)
		}
		return m, nil

	case "enter":
		if u, ok := m.selectedUser(); ok {
			m.loader = profile.NewLoader(m.api, u.Login, m.logger)
			m.profile = profile.State{Status: profile.StatusLoading}
			return m, m.fetchProfile(m.loader)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "backspace":
		m.loader = nil
		m.profile = profile.State{}
		return m, nil

	case "r":
		if m.profile.Status == profile.StatusFailed {
			m.loader.Reset()
			m.profile = profile.State{Status: profile.StatusLoading}
			return m, m.fetchProfile(m.loader)
		}
	}
	return m, nil
}

// submit starts a search on the current tab. A blank term is ignored.
func (m *Model) submit(term string) bool {
	if m.tab == TabRepositories {
		return m.repos.SubmitSearch(m.ctx, search.Query{Term: term})
	}
	return m.users.SubmitSearch(m.ctx, search.Query{Term: term, Sort: m.sort(), Order: m.order})
}

// resubmit repeats the current user query with the selected sort
func (m *Model) resubmit() {
	term := m.userState.Query.Term
	if term == "" {
		term = m.input.Value()
	}
	m.users.SubmitSearch(m.ctx, search.Query{Term: term, Sort: m.sort(), Order: m.order})
}

func (m Model) sort() github.UserSort {
	return github.UserSorts[m.sortIdx]
}

// refresh pulls the latest snapshots, ignoring any that are not newer
func (m *Model) refresh() {
	if s := m.users.Snapshot(); s.Version > m.userState.Version {
		if s.Generation != m.userState.Generation && m.tab == TabUsers {
			m.cursor, m.offset = 0, 0
		}
		m.userState = s
	}
	if s := m.repos.Snapshot(); s.Version > m.repoState.Version {
		if s.Generation != m.repoState.Generation && m.tab == TabRepositories {
			m.cursor, m.offset = 0, 0
		}
		m.repoState = s
	}
	m.clampViewport()
	m.loadMoreIfNeeded()
}

// loadMoreIfNeeded asks the engine for the next page once the last loaded
// row is on screen. Nothing is requested while the tab shows an error; r
// retries explicitly.
func (m *Model) loadMoreIfNeeded() {
	n := m.rowCount()
	if n == 0 || m.offset+m.visibleRows() < n {
		return
	}
	switch m.tab {
	case TabUsers:
		if m.userState.LastError != nil {
			return
		}
		last := m.userState.Items[n-1]
		m.users.LoadMoreIfNeeded(m.ctx, &last)
	case TabRepositories:
		if m.repoState.LastError != nil {
			return
		}
		last := m.repoState.Items[n-1]
		m.repos.LoadMoreIfNeeded(m.ctx, &last)
	}
}

func (m *Model) switchTab() {
	if m.tab == TabUsers {
		m.tab = TabRepositories
	} else {
		m.tab = TabUsers
	}
	m.cursor, m.offset = 0, 0
}

func (m *Model) focusList() {
	m.inputFocus = false
	m.input.Blur()
}

func (m Model) rowCount() int {
	if m.tab == TabRepositories {
		return len(m.repoState.Items)
	}
	return len(m.userState.Items)
}

func (m Model) selectedUser() (github.UserSummary, bool) {
	if m.tab != TabUsers || m.cursor >= len(m.userState.Items) {
		return github.UserSummary{}, false
	}
	return m.userState.Items[m.cursor], true
}

func (m Model) waitForUpdate() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		<-updates
		return engineUpdatedMsg{}
	}
}

func (m Model) loadFavorites() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		favs, err := store.List(ctx)
		if err != nil {
			return favoritesLoadedMsg{err: err}
		}
		usernames := make([]string, 0, len(favs))
		for _, f := range favs {
			usernames = append(usernames, f.Username)
		}
		return favoritesLoadedMsg{usernames: usernames}
	}
}

func (m Model) toggleFavorite(u github.UserSummary) tea.Cmd {
	if m.store == nil {
		return nil
	}
	store, ctx := m.store, m.ctx
	isFavorite := m.favorites[strings.ToLower(u.Login)]
	return func() tea.Msg {
		if isFavorite {
			err := store.Delete(ctx, u.Login)
			return favoriteToggledMsg{username: u.Login, added: false, err: err}
		}
		_, err := store.Upsert(ctx, favorites.Favorite{
			Username:  u.Login,
			AvatarURL: u.AvatarURL,
			UserID:    u.ID,
		})
		return favoriteToggledMsg{username: u.Login, added: true, err: err}
	}
}

func (m Model) fetchProfile(loader *profile.Loader) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return profileLoadedMsg{username: loader.Username(), state: loader.Fetch(ctx)}
	}
}

// visibleRows returns how many result rows fit in the viewport.
func (m Model) visibleRows() int {
	extra := chromeLines
	if m.message != "" {
		extra++
	}
	rows := m.height - extra
	if rows < 1 {
		rows = 1
	}
	return rows
}

// clampViewport ensures the cursor is visible within the scrolled viewport.
func (m *Model) clampViewport() {
	if n := m.rowCount(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}
