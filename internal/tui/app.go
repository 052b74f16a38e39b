package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"marquee/internal/domain"
	"marquee/internal/search"
	"marquee/internal/store"
	"marquee/internal/tui/components"
	"marquee/internal/tui/styles"
)

// ApplicationState represents the current screen
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateDetail
)

// Focus identifies which pane receives key input while browsing
type Focus int

const (
	FocusSearch Focus = iota
	FocusResults
)

// Vertical chrome: search bar, pagination strip, status line
const chromeHeight = 4

// Model is the main Bubble Tea model for the application
type Model struct {
	State ApplicationState
	Ready bool

	// Collaborators
	Client  domain.SearchClient
	History *store.HistoryStore // nil when history is disabled
	coord   *search.Coordinator

	// UI components
	input      textinput.Model
	results    components.ResultsList
	pagination components.Pagination
	detail     components.Detail
	spin       spinner.Model

	// Dimensions
	Width  int
	Height int

	// UI state
	focus         Focus
	inFlight      int    // outstanding remote calls, drives the spinner
	debounceToken uint64 // latest token handed to DebounceCmd
	suggestions   []string
	trending      []domain.Movie
	statusErr     string // transient non-search errors (trending, details)
}

// NewModel creates a new application model
func NewModel(client domain.SearchClient, coord *search.Coordinator, history *store.HistoryStore) Model {
	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.Prompt = "🔍 "
	ti.CharLimit = 100
	ti.PromptStyle = styles.AccentStyle
	ti.ShowSuggestions = true
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	m := Model{
		State:      StateBrowsing,
		Client:     client,
		History:    history,
		coord:      coord,
		input:      ti,
		results:    components.NewResultsList(),
		pagination: components.NewPagination(),
		detail:     components.NewDetail(),
		spin:       sp,
		focus:      FocusSearch,
	}
	m.refreshSuggestions()
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		LoadTrendingCmd(m.Client),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.results.SetSize(msg.Width, msg.Height-chromeHeight)
		m.detail.SetSize(msg.Width, msg.Height-chromeHeight)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if m.inFlight == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case QueryDebouncedMsg:
		req := m.coord.CommitInput(msg.Token)
		m.syncFromCoordinator(false)
		if req == nil {
			return m, nil
		}
		m.inFlight++
		return m, tea.Batch(
			FetchPageCmd(m.Client, *req),
			SaveQueryCmd(m.History, req.Query),
			m.spin.Tick,
		)

	case SearchResultMsg:
		m.inFlight--
		if m.coord.ApplyResult(msg.Req, msg.Page) {
			m.syncFromCoordinator(msg.Req.Append)
		}
		return m, nil

	case SearchFailedMsg:
		m.inFlight--
		if m.coord.ApplyFailure(msg.Req, msg.Err) {
			m.syncFromCoordinator(true)
		}
		return m, nil

	case TrendingLoadedMsg:
		m.trending = msg.Page.Movies
		if len(m.coord.CurrentPages()) == 0 {
			m.results.SetMovies(m.trending, false)
		}
		return m, nil

	case MovieDetailsLoadedMsg:
		m.detail.SetDetails(msg.Details)
		return m, nil

	case ErrMsg:
		m.statusErr = msg.Error()
		if m.State == StateDetail && m.detail.Loading() {
			m.State = StateBrowsing
			m.detail.Clear()
		}
		return m, nil
	}

	// Remaining messages (cursor blink etc.) go to the focused input
	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.results, cmd = m.results.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.State == StateDetail {
		return m.handleDetailKeys(msg)
	}

	if m.focus == FocusSearch {
		return m.handleSearchKeys(msg)
	}
	return m.handleResultsKeys(msg)
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape), key.Matches(msg, Keys.Quit):
		m.State = StateBrowsing
		m.detail.Clear()
		return m, nil
	}
	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		if m.input.Value() != "" {
			m.input.SetValue("")
			m.coord.SetQuery("")
			m.refreshSuggestions()
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyTab:
		// Tab first completes a pending history suggestion; with none it
		// moves focus to the list
		if m.hasPendingSuggestion() {
			break
		}
		fallthrough
	case tea.KeyDown, tea.KeyEnter:
		if m.results.Count() > 0 {
			m.focus = FocusResults
			m.input.Blur()
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if m.input.Value() == before {
		return m, cmd
	}

	m.statusErr = ""
	m.refreshSuggestions()

	token := m.coord.SetQuery(m.input.Value())
	m.syncFromCoordinator(false)
	m.debounceToken = token
	if token == 0 {
		// Cleared input: back to the trending feed
		if len(m.coord.CurrentPages()) == 0 {
			m.results.SetMovies(m.trending, false)
		}
		return m, cmd
	}
	return m, tea.Batch(cmd, DebounceCmd(token))
}

func (m Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Filter input swallows keys while focused
	if m.results.Filtering() {
		switch msg.Type {
		case tea.KeyEscape:
			m.results.ClearFilter()
			return m, nil
		case tea.KeyEnter:
			m.results.AcceptFilter()
			return m, nil
		}
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Escape):
		if m.results.FilterActive() {
			m.results.ClearFilter()
			return m, nil
		}
		m.focus = FocusSearch
		return m, m.input.Focus()

	case key.Matches(msg, Keys.Search):
		m.focus = FocusSearch
		return m, m.input.Focus()

	case key.Matches(msg, Keys.Up):
		if m.results.SelectedIndex() == 0 {
			m.focus = FocusSearch
			return m, m.input.Focus()
		}
		m.results.MoveUp()
		return m, nil

	case key.Matches(msg, Keys.Down):
		m.results.MoveDown()
		return m, nil

	case key.Matches(msg, Keys.Home):
		m.results.MoveTop()
		return m, nil

	case key.Matches(msg, Keys.End):
		m.results.MoveBottom()
		return m, nil

	case key.Matches(msg, Keys.Filter):
		return m, m.results.StartFilter()

	case key.Matches(msg, Keys.Enter):
		selected := m.results.Selected()
		if selected == nil {
			return m, nil
		}
		m.State = StateDetail
		m.detail.SetLoading()
		return m, LoadDetailsCmd(m.Client, selected.ID)

	case key.Matches(msg, Keys.PrevPage):
		return m.selectAdjacentPage(-1)

	case key.Matches(msg, Keys.NextPage):
		return m.selectAdjacentPage(+1)

	case key.Matches(msg, Keys.LoadMore):
		req := m.coord.LoadMore()
		if req == nil {
			return m, nil
		}
		m.inFlight++
		return m, tea.Batch(FetchPageCmd(m.Client, *req), m.spin.Tick)
	}

	return m, nil
}

// selectAdjacentPage issues selectPage(first-1) or selectPage(last+1).
// The coordinator rejects out-of-range pages, so the boundary guard here
// is cosmetic only.
func (m Model) selectAdjacentPage(dir int) (tea.Model, tea.Cmd) {
	var target int
	if dir < 0 {
		first, ok := m.coord.FirstOfCurrentPages()
		if !ok {
			return m, nil
		}
		target = first - 1
	} else {
		last, ok := m.coord.LastOfCurrentPages()
		if !ok {
			return m, nil
		}
		target = last + 1
	}

	req := m.coord.SelectPage(target)
	if req == nil {
		return m, nil
	}
	m.inFlight++
	return m, tea.Batch(FetchPageCmd(m.Client, *req), m.spin.Tick)
}

// syncFromCoordinator refreshes the list and strip from derived state
func (m *Model) syncFromCoordinator(keepCursor bool) {
	movies := m.coord.Movies()
	if len(m.coord.CurrentPages()) > 0 || m.coord.NoResultsFound() {
		m.results.SetMovies(movies, keepCursor)
	}
	m.pagination.SetState(m.coord.PagesToPickFrom(), m.coord.CurrentPages(), m.coord.TotalPages())
}

// hasPendingSuggestion reports whether the search bar currently shows an
// inline history completion that tab would accept. Mirrors textinput's
// case-insensitive prefix matching.
func (m Model) hasPendingSuggestion() bool {
	val := strings.ToLower(m.input.Value())
	if val == "" {
		return false
	}
	for _, s := range m.suggestions {
		if ls := strings.ToLower(s); strings.HasPrefix(ls, val) && ls != val {
			return true
		}
	}
	return false
}

// refreshSuggestions pulls history suggestions for the current input
func (m *Model) refreshSuggestions() {
	if m.History == nil {
		m.suggestions = nil
		return
	}
	m.suggestions = m.History.Suggest(m.input.Value(), 5)
	m.input.SetSuggestions(m.suggestions)
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateDetail {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.detail.View(),
			"",
			styles.DimStyle.Render("esc back · q quit"),
		)
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	body := m.results.View(m.focus == FocusResults)
	if body == "" {
		body = m.emptyStateView()
	}
	b.WriteString(body)
	b.WriteString("\n")

	if strip := m.pagination.View(); strip != "" {
		b.WriteString(strip)
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine())

	return b.String()
}

// emptyStateView fills the body when there is nothing to list
func (m Model) emptyStateView() string {
	if m.coord.NoResultsFound() {
		return styles.DimStyle.Render(fmt.Sprintf("No results for %q", m.coord.Query()))
	}
	if len(m.suggestions) > 0 {
		var b strings.Builder
		b.WriteString(styles.DimStyle.Render("Recent searches:"))
		for _, s := range m.suggestions {
			b.WriteString("\n  ")
			b.WriteString(styles.SubtitleStyle.Render(s))
		}
		return b.String()
	}
	return styles.DimStyle.Render("Type to search the catalog")
}

// statusLine renders errors, progress, and key hints
func (m Model) statusLine() string {
	if err := m.coord.Err(); err != nil {
		style := styles.ErrorStyle
		if err.Kind == search.ErrorBadInput {
			style = styles.SubtitleStyle
		}
		return style.Render(err.Message)
	}
	if m.statusErr != "" {
		return styles.ErrorStyle.Render(m.statusErr)
	}
	if m.inFlight > 0 {
		return m.spin.View() + styles.DimStyle.Render(" searching…")
	}
	if m.focus == FocusResults {
		return styles.DimStyle.Render("enter details · / filter · h/l page · m more · q quit")
	}
	return styles.DimStyle.Render("enter/tab results · esc clear · ctrl+c quit")
}
