package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zaukho/zx/internal/formatter"
	"github.com/zaukho/zx/internal/guard"
	"github.com/zaukho/zx/internal/models"
	"github.com/zaukho/zx/internal/session"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	GateView ViewState = iota
	LoginView
	BrowseView
	DetailView
	WatchlistView
	LibraryView
)

// Catalog is the slice of the API client the TUI consumes.
type Catalog interface {
	Trending(ctx context.Context) ([]models.Content, error)
	Content(ctx context.Context, id int) (*models.Content, error)
	Watchlist(ctx context.Context) ([]models.WatchlistEntry, error)
	WatchlistAdd(ctx context.Context, contentID int) error
	Library(ctx context.Context) ([]models.LibraryEntry, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	sessions *session.Manager
	gate     *guard.Guard
	catalog  Catalog
	width    int
	height   int

	contentList   list.Model
	watchlistList list.Model
	libraryList   list.Model
	detail        *models.Content

	emailInput    textinput.Model
	passwordInput textinput.Model
	focusPassword bool
	status        string

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, sessions *session.Manager, gate *guard.Guard, catalog Catalog) *Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	return &Model{
		ctx:           ctx,
		view:          GateView,
		sessions:      sessions,
		gate:          gate,
		catalog:       catalog,
		emailInput:    email,
		passwordInput: password,
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

// Init asks the route guard which view the session may land on.
func (m *Model) Init() tea.Cmd {
	return m.decideGate()
}

func (m *Model) decideGate() tea.Cmd {
	return func() tea.Msg {
		return gateDecidedMsg(m.gate.RequireAuth(m.ctx, guard.HomePath))
	}
}

func (m *Model) fetchContents() tea.Cmd {
	return func() tea.Msg {
		contents, err := m.catalog.Trending(m.ctx)
		return contentsFetchedMsg(contents, err)
	}
}

func (m *Model) fetchDetail(id int) tea.Cmd {
	return func() tea.Msg {
		content, err := m.catalog.Content(m.ctx, id)
		return detailFetchedMsg(content, err)
	}
}

func (m *Model) fetchWatchlist() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.catalog.Watchlist(m.ctx)
		return watchlistFetchedMsg(entries, err)
	}
}

func (m *Model) fetchLibrary() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.catalog.Library(m.ctx)
		return libraryFetchedMsg(entries, err)
	}
}

func (m *Model) saveToWatchlist(id int) tea.Cmd {
	return func() tea.Msg {
		return watchlistSavedMsg(m.catalog.WatchlistAdd(m.ctx, id))
	}
}

func (m *Model) login() tea.Cmd {
	email, password := m.emailInput.Value(), m.passwordInput.Value()
	return func() tea.Msg {
		return loginDoneMsg(m.sessions.Login(m.ctx, email, password))
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.contentList, &m.watchlistList, &m.libraryList} {
			// A nil item slice means list.New has not run yet; resizing a
			// zero-value list panics on its nil delegate.
			if l.Items() != nil {
				l.SetSize(msg.Width-4, msg.Height-8)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && m.view != LoginView {
			return m, tea.Quit
		}
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case BrowseView:
			return m.handleBrowseKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case WatchlistView, LibraryView:
			return m.handleListKeys(msg)
		}
		return m, nil

	case Msg:
		return m.handleAppMsg(msg)
	}

	return m.updateLists(msg)
}

// handleAppMsg dispatches the Msg union.
func (m *Model) handleAppMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgGateDecided:
		decision := msg.data.(guard.Decision)
		if decision.Allowed {
			m.view = BrowseView
			return m, m.fetchContents()
		}
		m.view = LoginView
		return m, textinput.Blink

	case MsgLoginDone:
		if err, ok := msg.data.(error); ok && err != nil {
			m.status = styles.err.Render(m.sessions.Snapshot().Err)
			return m, nil
		}
		m.status = ""
		m.view = BrowseView
		return m, m.fetchContents()

	case MsgContentsFetched:
		data := msg.data.(struct {
			contents []models.Content
			err      error
		})
		if data.err != nil {
			m.err = data.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(data.contents))
		for i, content := range data.contents {
			items[i] = contentItem{content: content}
		}
		m.contentList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.contentList.Title = "Trending"
		m.contentList.SetSize(m.width-4, m.height-8)
		return m, nil

	case MsgDetailFetched:
		data := msg.data.(struct {
			content *models.Content
			err     error
		})
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Error: %v", data.err))
			m.view = BrowseView
			return m, nil
		}
		m.detail = data.content
		m.view = DetailView
		return m, nil

	case MsgWatchlistFetched:
		data := msg.data.(struct {
			entries []models.WatchlistEntry
			err     error
		})
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Error: %v", data.err))
			m.view = BrowseView
			return m, nil
		}
		items := make([]list.Item, len(data.entries))
		for i, entry := range data.entries {
			items[i] = watchlistItem{entry: entry}
		}
		m.watchlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.watchlistList.Title = "My Watchlist"
		m.watchlistList.SetSize(m.width-4, m.height-8)
		m.view = WatchlistView
		return m, nil

	case MsgLibraryFetched:
		data := msg.data.(struct {
			entries []models.LibraryEntry
			err     error
		})
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Error: %v", data.err))
			m.view = BrowseView
			return m, nil
		}
		items := make([]list.Item, len(data.entries))
		for i, entry := range data.entries {
			items[i] = libraryItem{entry: entry}
		}
		m.libraryList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.libraryList.Title = "My Library"
		m.libraryList.SetSize(m.width-4, m.height-8)
		m.view = LibraryView
		return m, nil

	case MsgWatchlistSaved:
		if err, ok := msg.data.(error); ok && err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Error: %v", err))
		} else {
			m.status = styles.ok.Render("Saved to watchlist")
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.tab):
		m.focusPassword = !m.focusPassword
		if m.focusPassword {
			m.emailInput.Blur()
			return m, m.passwordInput.Focus()
		}
		m.passwordInput.Blur()
		return m, m.emailInput.Focus()

	case key.Matches(msg, m.keys.enter):
		if !m.focusPassword {
			m.focusPassword = true
			m.emailInput.Blur()
			return m, m.passwordInput.Focus()
		}
		m.status = styles.warn.Render("Signing in...")
		return m, m.login()

	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	if m.focusPassword {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	} else {
		m.emailInput, cmd = m.emailInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.contentList.SelectedItem().(contentItem); ok {
			return m, m.fetchDetail(item.content.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.watchlist):
		return m, m.fetchWatchlist()
	case key.Matches(msg, m.keys.library):
		return m, m.fetchLibrary()
	case key.Matches(msg, m.keys.add):
		if item, ok := m.contentList.SelectedItem().(contentItem); ok {
			return m, m.saveToWatchlist(item.content.ID)
		}
		return m, nil
	}

	if m.contentList.Items() == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.contentList, cmd = m.contentList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.detail = nil
		m.view = BrowseView
		return m, nil
	case key.Matches(msg, m.keys.add):
		if m.detail != nil {
			return m, m.saveToWatchlist(m.detail.ID)
		}
	}
	return m, nil
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.back) {
		m.view = BrowseView
		return m, nil
	}

	var cmd tea.Cmd
	if m.view == WatchlistView {
		m.watchlistList, cmd = m.watchlistList.Update(msg)
	} else {
		m.libraryList, cmd = m.libraryList.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case BrowseView:
		if m.contentList.Items() != nil {
			m.contentList, cmd = m.contentList.Update(msg)
		}
	case WatchlistView:
		m.watchlistList, cmd = m.watchlistList.Update(msg)
	case LibraryView:
		m.libraryList, cmd = m.libraryList.Update(msg)
	}
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case GateView:
		return styles.warn.Render("Checking authentication...")
	case LoginView:
		return m.renderLogin()
	case BrowseView:
		if m.contentList.Items() == nil {
			return styles.warn.Render("Loading...")
		}
		return m.renderList(m.contentList)
	case DetailView:
		return m.renderDetail()
	case WatchlistView:
		return m.renderList(m.watchlistList)
	case LibraryView:
		return m.renderList(m.libraryList)
	}
	return ""
}

func (m *Model) renderLogin() string {
	view := styles.title.Render("Sign in") + "\n\n"
	view += m.emailInput.View() + "\n"
	view += m.passwordInput.View() + "\n\n"
	if m.status != "" {
		view += m.status + "\n\n"
	}
	view += styles.help.Render("tab: switch field • enter: submit • ctrl+c: quit")
	return view
}

func (m *Model) renderList(l list.Model) string {
	view := l.View()
	if m.status != "" {
		view += "\n" + m.status
	}
	return view + "\n" + m.help.View(m.keys)
}

func (m *Model) renderDetail() string {
	if m.detail == nil {
		return styles.warn.Render("Loading...")
	}

	c := m.detail
	view := styles.title.Render(c.Title) + "\n"
	view += c.Kind
	if c.ReleaseYear > 0 {
		view += fmt.Sprintf(" • %d", c.ReleaseYear)
	}
	view += "\n\n"
	if c.Description != "" {
		view += c.Description + "\n\n"
	}
	view += fmt.Sprintf("Buy: %s  Rent: %s\n", formatter.FormatPrice(c.PriceBuy), formatter.FormatPrice(c.PriceRent))
	if m.status != "" {
		view += "\n" + m.status
	}
	view += "\n" + styles.help.Render("a: save to watchlist • esc: back • q: quit")
	return view
}
