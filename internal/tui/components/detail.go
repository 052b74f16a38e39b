package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"marquee/internal/domain"
	"marquee/internal/tui/styles"
)

// Detail renders the full record of a single movie. It owns no state
// beyond what is passed in.
type Detail struct {
	details *domain.MovieDetails
	loading bool
	width   int
	height  int
}

// NewDetail creates an empty detail view
func NewDetail() Detail {
	return Detail{}
}

// SetSize updates the component dimensions
func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// SetLoading marks the view as waiting for a fetch
func (d *Detail) SetLoading() {
	d.loading = true
	d.details = nil
}

// SetDetails sets the fetched record
func (d *Detail) SetDetails(details *domain.MovieDetails) {
	d.details = details
	d.loading = false
}

// Loading reports whether a fetch is pending
func (d Detail) Loading() bool { return d.loading }

// Clear resets the view
func (d *Detail) Clear() {
	d.details = nil
	d.loading = false
}

// View renders the detail pane
func (d Detail) View() string {
	if d.loading {
		return styles.DimStyle.Render("Loading…")
	}
	if d.details == nil {
		return ""
	}

	m := d.details
	w := d.width - 2
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(m.DisplayTitle()))
	b.WriteString("\n")
	if m.Tagline != "" {
		b.WriteString(styles.TaglineStyle.Render(m.Tagline))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	var meta []string
	if r := m.FormattedRuntime(); r != "" {
		meta = append(meta, r)
	}
	if g := m.GenreLine(); g != "" {
		meta = append(meta, g)
	}
	if m.VoteCount > 0 {
		meta = append(meta, fmt.Sprintf("★ %.1f (%d votes)", m.VoteAverage, m.VoteCount))
	}
	if len(meta) > 0 {
		b.WriteString(styles.SubtitleStyle.Render(strings.Join(meta, "  ·  ")))
		b.WriteString("\n\n")
	}

	if m.HasPoster() {
		b.WriteString(styles.DimStyle.Render("Poster: " + m.PosterURL))
	} else {
		b.WriteString(styles.PlaceholderStyle.Render("no poster available"))
	}
	b.WriteString("\n\n")

	if m.Overview != "" {
		b.WriteString(lipgloss.NewStyle().Width(w).Render(m.Overview))
		b.WriteString("\n\n")
	}

	if len(m.Directors) > 0 {
		b.WriteString(styles.AccentStyle.Render("Directed by "))
		b.WriteString(styles.SubtitleStyle.Render(strings.Join(m.Directors, ", ")))
		b.WriteString("\n")
	}

	if len(m.Cast) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentStyle.Render("Cast"))
		b.WriteString("\n")
		for _, c := range m.Cast {
			b.WriteString(styles.SubtitleStyle.Render("  " + c.Name))
			if c.Character != "" {
				b.WriteString(styles.DimStyle.Render(" as " + c.Character))
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
