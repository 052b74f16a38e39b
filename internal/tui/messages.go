package tui

import (
	"marquee/internal/domain"
	"marquee/internal/search"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// QueryDebouncedMsg signals that the debounce interval elapsed for a
// typed query. The token is handed back to the coordinator, which
// ignores it when more typing happened in the meantime.
type QueryDebouncedMsg struct {
	Token uint64
}

// SearchResultMsg carries one fetched result page with the request that
// produced it, so the coordinator can discard superseded responses.
type SearchResultMsg struct {
	Req  search.Request
	Page domain.ResultPage
}

// SearchFailedMsg signals that a page fetch failed
type SearchFailedMsg struct {
	Req search.Request
	Err error
}

// TrendingLoadedMsg carries the initial trending feed
type TrendingLoadedMsg struct {
	Page domain.ResultPage
}

// MovieDetailsLoadedMsg signals that a movie's full record is ready
type MovieDetailsLoadedMsg struct {
	Details *domain.MovieDetails
}

// QuerySavedMsg signals that a query was written to the history store
type QuerySavedMsg struct{}
