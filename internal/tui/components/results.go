package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"marquee/internal/domain"
	"marquee/internal/tui/styles"
)

// resultRow is one visible list entry after filtering
type resultRow struct {
	movie   domain.Movie
	matched []int // rune positions in the title that matched the filter
}

// movieSource implements fuzzy.Source over the loaded movies
type movieSource []domain.Movie

func (s movieSource) String(i int) string { return strings.ToLower(s[i].Title) }
func (s movieSource) Len() int            { return len(s) }

// ResultsList renders the loaded window of movies with cursor navigation
// and an optional local fuzzy filter. The filter narrows what is shown;
// it never touches the loaded window itself.
type ResultsList struct {
	movies []domain.Movie
	rows   []resultRow

	cursor int
	offset int
	width  int
	height int

	filter    textinput.Model
	filtering bool
}

// NewResultsList creates an empty results list
func NewResultsList() ResultsList {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.CharLimit = 60

	return ResultsList{filter: ti}
}

// SetMovies replaces the displayed movies. The cursor is preserved when
// keepCursor is set (load-more appends), otherwise reset to the top.
func (l *ResultsList) SetMovies(movies []domain.Movie, keepCursor bool) {
	l.movies = movies
	l.applyFilter()
	if !keepCursor {
		l.cursor = 0
		l.offset = 0
	}
	l.clampCursor()
}

// SetSize updates the component dimensions
func (l *ResultsList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.filter.Width = width - 6
}

// Count returns the number of visible rows
func (l ResultsList) Count() int { return len(l.rows) }

// Selected returns the movie under the cursor, or nil
func (l ResultsList) Selected() *domain.Movie {
	if l.cursor < 0 || l.cursor >= len(l.rows) {
		return nil
	}
	m := l.rows[l.cursor].movie
	return &m
}

// SelectedIndex returns the cursor position among visible rows
func (l ResultsList) SelectedIndex() int { return l.cursor }

func (l *ResultsList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
	l.scrollToCursor()
}

func (l *ResultsList) MoveDown() {
	if l.cursor < len(l.rows)-1 {
		l.cursor++
	}
	l.scrollToCursor()
}

func (l *ResultsList) MoveTop() {
	l.cursor = 0
	l.scrollToCursor()
}

func (l *ResultsList) MoveBottom() {
	l.cursor = len(l.rows) - 1
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.scrollToCursor()
}

// AtBottom reports whether the cursor sits on the last visible row.
// The app uses it to offer "load more" on overscroll.
func (l ResultsList) AtBottom() bool {
	return len(l.rows) > 0 && l.cursor == len(l.rows)-1
}

// StartFilter enters filter mode and focuses the filter input
func (l *ResultsList) StartFilter() tea.Cmd {
	l.filtering = true
	l.filter.SetValue("")
	l.applyFilter()
	return l.filter.Focus()
}

// Filtering returns true while the filter input is focused
func (l ResultsList) Filtering() bool { return l.filtering && l.filter.Focused() }

// FilterActive returns true while a non-empty filter narrows the list
func (l ResultsList) FilterActive() bool { return l.filtering && l.filter.Value() != "" }

// ClearFilter leaves filter mode and restores the full list
func (l *ResultsList) ClearFilter() {
	l.filtering = false
	l.filter.Blur()
	l.filter.SetValue("")
	l.applyFilter()
	l.clampCursor()
}

// AcceptFilter keeps the current narrowing but returns key handling to the list
func (l *ResultsList) AcceptFilter() {
	l.filter.Blur()
	if l.filter.Value() == "" {
		l.filtering = false
	}
}

// Update feeds key messages to the filter input while it is focused
func (l ResultsList) Update(msg tea.Msg) (ResultsList, tea.Cmd) {
	if !l.Filtering() {
		return l, nil
	}
	var cmd tea.Cmd
	l.filter, cmd = l.filter.Update(msg)
	l.applyFilter()
	l.clampCursor()
	return l, cmd
}

// applyFilter recomputes the visible rows from the filter input
func (l *ResultsList) applyFilter() {
	query := strings.TrimSpace(strings.ToLower(l.filter.Value()))
	if !l.filtering || query == "" {
		l.rows = make([]resultRow, len(l.movies))
		for i, m := range l.movies {
			l.rows[i] = resultRow{movie: m}
		}
		return
	}

	matches := fuzzy.FindFrom(query, movieSource(l.movies))
	l.rows = make([]resultRow, len(matches))
	for i, match := range matches {
		l.rows[i] = resultRow{
			movie:   l.movies[match.Index],
			matched: match.MatchedIndexes,
		}
	}
}

func (l *ResultsList) clampCursor() {
	if l.cursor >= len(l.rows) {
		l.cursor = len(l.rows) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.scrollToCursor()
}

func (l *ResultsList) scrollToCursor() {
	visible := l.visibleRows()
	if visible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visible {
		l.offset = l.cursor - visible + 1
	}
}

// visibleRows returns how many list rows fit, reserving one line for the
// filter input when active.
func (l ResultsList) visibleRows() int {
	h := l.height
	if l.filtering {
		h--
	}
	return h
}

// View renders the list
func (l ResultsList) View(focused bool) string {
	var b strings.Builder

	if l.filtering {
		b.WriteString(l.filter.View())
		b.WriteString("\n")
	}

	visible := l.visibleRows()
	end := l.offset + visible
	if end > len(l.rows) {
		end = len(l.rows)
	}

	for i := l.offset; i < end; i++ {
		row := l.rows[i]
		selected := focused && i == l.cursor
		b.WriteString(l.renderRow(row, selected))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (l ResultsList) renderRow(row resultRow, selected bool) string {
	rating := ""
	if row.movie.VoteCount > 0 {
		rating = fmt.Sprintf("  ★ %.1f", row.movie.VoteAverage)
	}
	year := ""
	if y := row.movie.Year(); y > 0 {
		year = fmt.Sprintf(" (%d)", y)
	}

	marker := "  "
	if selected {
		marker = styles.AccentStyle.Render("❯ ")
	}

	maxTitle := l.width - len(rating) - len(year) - 4
	title := styles.Truncate(row.movie.Title, maxTitle)

	suffix := styles.DimStyle
	if selected {
		suffix = styles.SubtitleStyle
	}

	return marker + highlightMatches(title, row.matched, selected) + suffix.Render(year+rating)
}

// highlightMatches renders a title with filter-matched runes emphasized,
// batching consecutive runes with the same style.
func highlightMatches(title string, matched []int, selected bool) string {
	normal := styles.SubtitleStyle
	match := styles.MatchHighlightStyle
	if selected {
		normal = styles.TitleStyle
		match = styles.MatchHighlightSelectedStyle
	}

	if len(matched) == 0 {
		return normal.Render(title)
	}

	matchSet := make(map[int]bool, len(matched))
	for _, idx := range matched {
		matchSet[idx] = true
	}

	var b strings.Builder
	runes := []rune(title)
	i := 0
	for i < len(runes) {
		isMatch := matchSet[i]
		start := i
		for i < len(runes) && matchSet[i] == isMatch {
			i++
		}
		segment := string(runes[start:i])
		if isMatch {
			b.WriteString(match.Render(segment))
		} else {
			b.WriteString(normal.Render(segment))
		}
	}
	return b.String()
}
