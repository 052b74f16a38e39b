package components

import (
	"fmt"
	"strconv"
	"strings"

	"marquee/internal/tui/styles"
)

// Pagination renders the page-number strip. It is a pure projection over
// coordinator-derived state and renders nothing while the window is empty.
type Pagination struct {
	pages  []int // strip entries, ascending
	loaded map[int]bool
	first  int
	last   int
	total  int
}

// NewPagination creates an empty pagination strip
func NewPagination() Pagination {
	return Pagination{loaded: make(map[int]bool)}
}

// SetState updates the strip from the coordinator's derived state:
// the pages to pick from, the loaded window, and the total page count.
func (p *Pagination) SetState(pages, loaded []int, totalPages int) {
	p.pages = pages
	p.loaded = make(map[int]bool, len(loaded))
	for _, n := range loaded {
		p.loaded[n] = true
	}
	p.first, p.last = 0, 0
	if len(loaded) > 0 {
		p.first = loaded[0]
		p.last = loaded[len(loaded)-1]
	}
	p.total = totalPages
}

// PrevEnabled reports whether a previous page exists to select
func (p Pagination) PrevEnabled() bool { return p.first > 1 }

// NextEnabled reports whether a next page exists to select
func (p Pagination) NextEnabled() bool { return p.last > 0 && p.last < p.total }

// View renders the strip, or an empty string when there is nothing to page
func (p Pagination) View() string {
	if len(p.pages) == 0 {
		return ""
	}

	var parts []string

	prev := styles.PageControlDisabledStyle.Render("‹ prev")
	if p.PrevEnabled() {
		prev = styles.PageControlStyle.Render("‹ prev")
	}
	parts = append(parts, prev)

	lastSeen := 0
	for _, n := range p.pages {
		if lastSeen != 0 && n > lastSeen+1 {
			parts = append(parts, styles.DimStyle.Render("…"))
		}
		lastSeen = n

		label := strconv.Itoa(n)
		if p.loaded[n] {
			parts = append(parts, styles.PageCurrentStyle.Render(label))
		} else {
			parts = append(parts, styles.PageStyle.Render(label))
		}
	}

	next := styles.PageControlDisabledStyle.Render("next ›")
	if p.NextEnabled() {
		next = styles.PageControlStyle.Render("next ›")
	}
	parts = append(parts, next)

	parts = append(parts, styles.DimStyle.Render(fmt.Sprintf("  %d/%d", p.last, p.total)))

	return strings.Join(parts, " ")
}
