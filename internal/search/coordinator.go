// Package search owns the reactive state behind the search screen: the
// committed query, the window of loaded result pages, and the current
// error/empty status. It is the single authority mediating between user
// input events and the remote catalog, so typing, explicit paging, and
// "load more" cannot race each other into an inconsistent view.
//
// The coordinator is a plain state machine: it performs no I/O itself
// (beyond logging failures) and owns no timers. Input methods return a
// Request or a debounce token describing the work the caller must run;
// results come back through ApplyResult/ApplyFailure. Every async path
// carries a generation number, and a response is applied only while its
// generation is still current, which gives switch/latest-wins semantics
// without cancelling the underlying calls. All methods must be called
// from a single goroutine; in the TUI that is the Bubble Tea update loop.
package search

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"marquee/internal/domain"
)

const (
	// DebounceInterval is how long typing must pause before a query commits.
	DebounceInterval = 500 * time.Millisecond

	// MinQueryLength is the minimum trimmed query length that triggers a search.
	MinQueryLength = 3
)

// Fixed user-facing messages. Server failure details go to the log, not the UI.
const (
	BadInputMessage    = "Type at least 3 characters to search"
	ServerErrorMessage = "Something went wrong, please try again later"
)

// ErrorKind tags the two representable error states.
type ErrorKind int

const (
	ErrorBadInput ErrorKind = iota
	ErrorServer
)

// Error is the current search error shown to the user. At most one is
// active at a time; BadInput and ServerError overwrite one another.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Request identifies one remote page fetch the caller should issue.
// Gen captures the pipeline generation at issue time; ApplyResult and
// ApplyFailure discard the response once the generation has moved on.
type Request struct {
	Query  string
	Page   int
	Gen    uint64
	Append bool // append to the window instead of replacing it
}

// Coordinator is the search/pagination state machine.
type Coordinator struct {
	logger *slog.Logger

	inputText string // latest raw typed text
	query     string // last committed valid query

	window    []domain.ResultPage // loaded pages, ascending page order
	noResults bool
	err       *Error

	inputGen  uint64 // debounce generation for typed text
	searchGen uint64 // fresh-search pipeline (query commit + explicit page select)
	moreGen   uint64 // load-more pipeline, independent of searchGen
}

// NewCoordinator creates a coordinator. A nil logger falls back to slog.Default.
func NewCoordinator(logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{logger: logger}
}

// SetQuery records raw typed text and returns the debounce token the caller
// must deliver back via CommitInput after DebounceInterval. Each call
// invalidates any earlier pending token, so only the latest keystroke's
// timer has effect. Empty input is handled immediately: any error clears
// with no delay and no token is issued (returns 0).
func (c *Coordinator) SetQuery(text string) uint64 {
	c.inputText = text
	c.inputGen++
	if strings.TrimSpace(text) == "" {
		c.err = nil
		return 0
	}
	return c.inputGen
}

// CommitInput handles a debounce timer firing for the given token. Stale
// tokens are ignored. A valid committed query (trimmed length >= 3) clears
// any error and returns the page-1 request for a fresh search; a too-short
// one surfaces BadInput instead. The window is only replaced when the
// response for the new query arrives.
func (c *Coordinator) CommitInput(token uint64) *Request {
	if token == 0 || token != c.inputGen {
		return nil
	}
	trimmed := strings.TrimSpace(c.inputText)
	if len([]rune(trimmed)) < MinQueryLength {
		c.err = &Error{Kind: ErrorBadInput, Message: BadInputMessage}
		return nil
	}
	c.err = nil
	c.query = trimmed
	c.searchGen++
	return &Request{Query: c.query, Page: 1, Gen: c.searchGen}
}

// SelectPage requests that the window be replaced by the single given page
// of the current query. Out-of-range pages (including any page while the
// window is empty, when TotalPages is 0) are a no-op and return nil.
// Page selection shares the fresh-search pipeline, so a select racing a
// query commit resolves to whichever fired last.
func (c *Coordinator) SelectPage(n int) *Request {
	if n < 1 || n > c.TotalPages() {
		return nil
	}
	c.searchGen++
	return &Request{Query: c.query, Page: n, Gen: c.searchGen}
}

// LoadMore requests the page after the last loaded one, to be appended to
// the window. Returns nil when the window is empty or already ends at the
// last page. The load-more pipeline has its own generation: it is
// latest-wins relative to itself only, and can race a fresh search.
func (c *Coordinator) LoadMore() *Request {
	last, ok := c.LastOfCurrentPages()
	if !ok || last >= c.TotalPages() {
		return nil
	}
	c.moreGen++
	return &Request{Query: c.query, Page: last + 1, Gen: c.moreGen, Append: true}
}

// ApplyResult applies a successful remote response. Responses from a
// superseded generation are discarded. Fresh-search responses replace the
// window and recompute the no-results flag; load-more responses append.
// A success never touches the error state; that belongs to the input
// pipeline (CommitInput / SetQuery).
func (c *Coordinator) ApplyResult(req Request, page domain.ResultPage) bool {
	if req.Append {
		if req.Gen != c.moreGen {
			return false
		}
		c.window = append(c.window, page)
		return true
	}
	if req.Gen != c.searchGen {
		return false
	}
	c.window = []domain.ResultPage{page}
	c.noResults = len(page.Movies) == 0
	return true
}

// ApplyFailure converts a remote failure into a ServerError with a fixed
// user-facing message, logging the underlying cause. The window is left
// untouched. Failures from superseded generations are discarded like
// their successful counterparts.
func (c *Coordinator) ApplyFailure(req Request, err error) bool {
	current := c.searchGen
	if req.Append {
		current = c.moreGen
	}
	if req.Gen != current {
		return false
	}
	c.logger.Error("remote search failed", "query", req.Query, "page", req.Page, "error", err)
	c.err = &Error{Kind: ErrorServer, Message: ServerErrorMessage}
	return true
}

// Query returns the last committed valid query.
func (c *Coordinator) Query() string { return c.query }

// TotalPages returns the page count reported by the remote, or 0 when the
// window is empty.
func (c *Coordinator) TotalPages() int {
	if len(c.window) == 0 {
		return 0
	}
	return c.window[0].TotalPages
}

// CurrentPages returns the page numbers present in the window, ascending.
func (c *Coordinator) CurrentPages() []int {
	pages := make([]int, len(c.window))
	for i, p := range c.window {
		pages[i] = p.Page
	}
	return pages
}

// FirstOfCurrentPages returns the lowest loaded page number.
func (c *Coordinator) FirstOfCurrentPages() (int, bool) {
	if len(c.window) == 0 {
		return 0, false
	}
	return c.window[0].Page, true
}

// LastOfCurrentPages returns the highest loaded page number.
func (c *Coordinator) LastOfCurrentPages() (int, bool) {
	if len(c.window) == 0 {
		return 0, false
	}
	return c.window[len(c.window)-1].Page, true
}

// PagesToPickFrom returns the compact pagination strip: the first two and
// last two pages, the loaded window, and two pages of context on each side
// of it, clamped to [1, TotalPages], deduplicated, and sorted ascending.
// The strip stays bounded no matter how large TotalPages gets while always
// surfacing the extremes and the local neighborhood.
func (c *Coordinator) PagesToPickFrom() []int {
	total := c.TotalPages()
	if total == 0 {
		return nil
	}
	first, _ := c.FirstOfCurrentPages()
	last, _ := c.LastOfCurrentPages()

	candidates := []int{1, 2, first - 2, first - 1}
	candidates = append(candidates, c.CurrentPages()...)
	candidates = append(candidates, last+1, last+2, total-1, total)

	seen := make(map[int]bool, len(candidates))
	pages := make([]int, 0, len(candidates))
	for _, p := range candidates {
		if p < 1 || p > total || seen[p] {
			continue
		}
		seen[p] = true
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// Movies returns the flattened concatenation of all loaded pages' items,
// in window order.
func (c *Coordinator) Movies() []domain.Movie {
	var n int
	for _, p := range c.window {
		n += len(p.Movies)
	}
	movies := make([]domain.Movie, 0, n)
	for _, p := range c.window {
		movies = append(movies, p.Movies...)
	}
	return movies
}

// NoResultsFound reports whether the most recent full-query search
// returned zero items.
func (c *Coordinator) NoResultsFound() bool { return c.noResults }

// Err returns the active error, or nil.
func (c *Coordinator) Err() *Error { return c.err }
