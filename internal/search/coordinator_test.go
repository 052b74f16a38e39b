package search

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marquee/internal/domain"
)

func page(n, total int, titles ...string) domain.ResultPage {
	movies := make([]domain.Movie, len(titles))
	for i, t := range titles {
		movies[i] = domain.Movie{ID: n*1000 + i, Title: t}
	}
	return domain.ResultPage{Page: n, TotalPages: total, TotalResults: total * 20, Movies: movies}
}

// commit types a query and fires its debounce timer.
func commit(c *Coordinator, query string) *Request {
	return c.CommitInput(c.SetQuery(query))
}

func TestCommitInputValidQuery(t *testing.T) {
	c := NewCoordinator(nil)

	req := commit(c, "matrix")
	require.NotNil(t, req)
	assert.Equal(t, "matrix", req.Query)
	assert.Equal(t, 1, req.Page)
	assert.False(t, req.Append)

	ok := c.ApplyResult(*req, page(1, 5, "The Matrix", "The Matrix Reloaded"))
	require.True(t, ok)
	assert.Equal(t, 5, c.TotalPages())
	assert.Equal(t, []int{1}, c.CurrentPages())
	assert.Len(t, c.Movies(), 2)
	assert.False(t, c.NoResultsFound())
}

func TestCommitInputTrimsQuery(t *testing.T) {
	c := NewCoordinator(nil)

	req := commit(c, "  dune  ")
	require.NotNil(t, req)
	assert.Equal(t, "dune", req.Query)
}

func TestCommitInputTooShort(t *testing.T) {
	for _, q := range []string{"a", "ab", "  ab  ", " x "} {
		t.Run(fmt.Sprintf("%q", q), func(t *testing.T) {
			c := NewCoordinator(nil)

			req := commit(c, q)
			assert.Nil(t, req, "too-short query must not issue a request")

			err := c.Err()
			require.NotNil(t, err)
			assert.Equal(t, ErrorBadInput, err.Kind)
			assert.Equal(t, BadInputMessage, err.Message)
			assert.Empty(t, c.CurrentPages(), "window must be untouched")
		})
	}
}

func TestEmptyInputClearsErrorImmediately(t *testing.T) {
	c := NewCoordinator(nil)

	require.Nil(t, commit(c, "ab"))
	require.NotNil(t, c.Err())

	// Clearing the field clears the error with no debounce round-trip.
	token := c.SetQuery("")
	assert.Zero(t, token, "empty input must not schedule a debounce")
	assert.Nil(t, c.Err())
}

func TestEmptyInputLeavesWindowUntouched(t *testing.T) {
	c := NewCoordinator(nil)
	req := commit(c, "matrix")
	require.True(t, c.ApplyResult(*req, page(1, 3, "The Matrix")))

	c.SetQuery("")
	assert.Equal(t, []int{1}, c.CurrentPages())
	assert.Len(t, c.Movies(), 1)
}

func TestDebounceLatestWins(t *testing.T) {
	c := NewCoordinator(nil)

	stale := c.SetQuery("abc")
	fresh := c.SetQuery("abcdef")

	// The older timer fires first but its token is stale.
	assert.Nil(t, c.CommitInput(stale))

	req := c.CommitInput(fresh)
	require.NotNil(t, req)
	assert.Equal(t, "abcdef", req.Query)
}

func TestInFlightResultDiscardedAfterNewQuery(t *testing.T) {
	c := NewCoordinator(nil)

	reqOld := commit(c, "matrix")
	require.NotNil(t, reqOld)
	reqNew := commit(c, "dune")
	require.NotNil(t, reqNew)

	// Old response arrives after the new query superseded it.
	assert.False(t, c.ApplyResult(*reqOld, page(1, 9, "The Matrix")))
	assert.Empty(t, c.CurrentPages())

	require.True(t, c.ApplyResult(*reqNew, page(1, 2, "Dune")))
	assert.Equal(t, "Dune", c.Movies()[0].Title)
}

func TestNoResultsFound(t *testing.T) {
	c := NewCoordinator(nil)

	req := commit(c, "zzzzzz")
	require.True(t, c.ApplyResult(*req, page(1, 0)))
	assert.True(t, c.NoResultsFound())

	// A later non-empty response resets the flag.
	req = commit(c, "matrix")
	require.True(t, c.ApplyResult(*req, page(1, 1, "The Matrix")))
	assert.False(t, c.NoResultsFound())
}

func TestSelectPageReplacesWindow(t *testing.T) {
	c := NewCoordinator(nil)
	req := commit(c, "matrix")
	require.True(t, c.ApplyResult(*req, page(1, 10, "a", "b")))

	sel := c.SelectPage(7)
	require.NotNil(t, sel)
	assert.Equal(t, "matrix", sel.Query)
	assert.Equal(t, 7, sel.Page)

	require.True(t, c.ApplyResult(*sel, page(7, 10, "g")))
	assert.Equal(t, []int{7}, c.CurrentPages())
	assert.Len(t, c.Movies(), 1)
}

func TestSelectPageOutOfRange(t *testing.T) {
	c := NewCoordinator(nil)
	req := commit(c, "matrix")
	require.True(t, c.ApplyResult(*req, page(1, 10, "a")))

	assert.Nil(t, c.SelectPage(0))
	assert.Nil(t, c.SelectPage(11))
	assert.Equal(t, []int{1}, c.CurrentPages())
	assert.Len(t, c.Movies(), 1)
}

func TestSelectPageEmptyWindow(t *testing.T) {
	c := NewCoordinator(nil)
	assert.Nil(t, c.SelectPage(1), "no pages to select while the window is empty")
}

func TestSelectPageIdempotent(t *testing.T) {
	c := NewCoordinator(nil)
	req := commit(c, "matrix")
	require.True(t, c.ApplyResult(*req, page(1, 10, "a", "b")))

	// Re-selecting the already-loaded page re-fetches but the applied
	// response leaves items and totals unchanged.
	sel := c.SelectPage(1)
	require.NotNil(t, sel)
	require.True(t, c.ApplyResult(*sel, page(1, 10, "a", "b")))

	assert.Equal(t, []int{1}, c.CurrentPages())
	assert.Equal(t, 10, c.TotalPages())
	assert.Len(t, c.Movies(), 2)
}

func TestLoadMoreMonotonicAppend(t *testing.T) {
	c := NewCoordinator(nil)
	req := commit(c, "matrix")
	require.True(t, c.ApplyResult(*req, page(1, 10, "p1a", "p1b")))

	const n = 4
	for i := 0; i < n; i++ {
		more := c.LoadMore()
		require.NotNil(t, more)
		assert.Equal(t, i+2, more.Page)
		assert.True(t, more.Append)
		require.True(t, c.ApplyResult(*more, page(more.Page, 10, fmt.Sprintf("p%d", more.Page))))
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, c.CurrentPages())

	titles := make([]string, 0)
	for _, m := range c.Movies() {
		titles = append(titles, m.Title)
	}
	assert.Equal(t, []string{"p1a", "p1b", "p2", "p3", "p4", "p5"}, titles)
}

func TestLoadMoreAtLastPage(t *testing.T) {
	c := NewCoordinator(nil)
	req := commit(c, "matrix")
	require.True(t, c.ApplyResult(*req, page(1, 1, "only")))

	assert.Nil(t, c.LoadMore())
}

func TestLoadMoreEmptyWindow(t *testing.T) {
	c := NewCoordinator(nil)
	assert.Nil(t, c.LoadMore())
}

func TestLoadMoreLatestWins(t *testing.T) {
	c := NewCoordinator(nil)
	req := commit(c, "matrix")
	require.True(t, c.ApplyResult(*req, page(1, 10, "p1")))

	first := c.LoadMore()
	second := c.LoadMore()
	require.NotNil(t, first)
	require.NotNil(t, second)

	// Only the latest load-more response lands.
	assert.False(t, c.ApplyResult(*first, page(2, 10, "stale")))
	require.True(t, c.ApplyResult(*second, page(3, 10, "fresh")))
	assert.Equal(t, []int{1, 3}, c.CurrentPages())
}

func TestServerErrorKeepsWindow(t *testing.T) {
	c := NewCoordinator(nil)
	req := commit(c, "matrix")
	require.True(t, c.ApplyResult(*req, page(1, 10, "a")))

	sel := c.SelectPage(2)
	require.NotNil(t, sel)
	require.True(t, c.ApplyFailure(*sel, errors.New("connection refused")))

	err := c.Err()
	require.NotNil(t, err)
	assert.Equal(t, ErrorServer, err.Kind)
	assert.Equal(t, ServerErrorMessage, err.Message)

	// The previous window survives the failure.
	assert.Equal(t, []int{1}, c.CurrentPages())
	assert.Len(t, c.Movies(), 1)
}

func TestStaleFailureDiscarded(t *testing.T) {
	c := NewCoordinator(nil)

	reqOld := commit(c, "matrix")
	reqNew := commit(c, "dune")
	require.NotNil(t, reqNew)

	assert.False(t, c.ApplyFailure(*reqOld, errors.New("timeout")))
	assert.Nil(t, c.Err())
}

func TestValidCommitClearsServerError(t *testing.T) {
	c := NewCoordinator(nil)

	req := commit(c, "matrix")
	require.True(t, c.ApplyFailure(*req, errors.New("boom")))
	require.NotNil(t, c.Err())

	req = commit(c, "matrix reloaded")
	require.NotNil(t, req)
	assert.Nil(t, c.Err(), "a new valid commit clears the error")
}

func TestBadInputOverwritesServerError(t *testing.T) {
	c := NewCoordinator(nil)

	req := commit(c, "matrix")
	require.True(t, c.ApplyFailure(*req, errors.New("boom")))

	require.Nil(t, commit(c, "ab"))
	err := c.Err()
	require.NotNil(t, err)
	assert.Equal(t, ErrorBadInput, err.Kind)
}

func TestPagesToPickFrom(t *testing.T) {
	tests := []struct {
		name   string
		pages  []int
		total  int
		expect []int
	}{
		{
			name:   "middle of a large catalog",
			pages:  []int{50},
			total:  100,
			expect: []int{1, 2, 48, 49, 50, 51, 52, 99, 100},
		},
		{
			name:   "window at the start",
			pages:  []int{1},
			total:  100,
			expect: []int{1, 2, 3, 99, 100},
		},
		{
			name:   "window at the end",
			pages:  []int{100},
			total:  100,
			expect: []int{1, 2, 98, 99, 100},
		},
		{
			name:   "multi-page window",
			pages:  []int{1, 2, 3},
			total:  10,
			expect: []int{1, 2, 3, 4, 5, 9, 10},
		},
		{
			name:   "small catalog collapses to all pages",
			pages:  []int{2},
			total:  3,
			expect: []int{1, 2, 3},
		},
		{
			name:   "single page",
			pages:  []int{1},
			total:  1,
			expect: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCoordinator(nil)
			req := commit(c, "matrix")
			require.NotNil(t, req)
			require.True(t, c.ApplyResult(*req, page(tt.pages[0], tt.total, "seed")))
			for _, p := range tt.pages[1:] {
				more := c.LoadMore()
				require.NotNil(t, more)
				require.Equal(t, p, more.Page)
				require.True(t, c.ApplyResult(*more, page(p, tt.total)))
			}
			assert.Equal(t, tt.expect, c.PagesToPickFrom())
		})
	}
}

func TestPagesToPickFromEmptyWindow(t *testing.T) {
	c := NewCoordinator(nil)
	assert.Nil(t, c.PagesToPickFrom())
}

func TestBoundaryGetters(t *testing.T) {
	c := NewCoordinator(nil)

	_, ok := c.FirstOfCurrentPages()
	assert.False(t, ok)
	_, ok = c.LastOfCurrentPages()
	assert.False(t, ok)

	req := commit(c, "matrix")
	require.True(t, c.ApplyResult(*req, page(3, 10, "a")))
	more := c.LoadMore()
	require.True(t, c.ApplyResult(*more, page(4, 10, "b")))

	first, ok := c.FirstOfCurrentPages()
	require.True(t, ok)
	assert.Equal(t, 3, first)
	last, ok := c.LastOfCurrentPages()
	require.True(t, ok)
	assert.Equal(t, 4, last)
}
