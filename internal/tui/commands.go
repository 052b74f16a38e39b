package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"marquee/internal/domain"
	"marquee/internal/search"
	"marquee/internal/store"
)

// Command factories for async operations

const requestTimeout = 15 * time.Second

// DebounceCmd delivers the typed-query token back after the debounce
// interval. Tokens from superseded keystrokes arrive too, but the
// coordinator discards them.
func DebounceCmd(token uint64) tea.Cmd {
	return tea.Tick(search.DebounceInterval, func(time.Time) tea.Msg {
		return QueryDebouncedMsg{Token: token}
	})
}

// FetchPageCmd fetches one result page for a coordinator request
func FetchPageCmd(client domain.SearchClient, req search.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := client.SearchMovies(ctx, req.Query, req.Page)
		if err != nil {
			return SearchFailedMsg{Req: req, Err: err}
		}
		return SearchResultMsg{Req: req, Page: *page}
	}
}

// LoadTrendingCmd fetches the trending feed shown before the first search
func LoadTrendingCmd(client domain.SearchClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := client.TrendingMovies(ctx, 1)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading trending feed"}
		}
		return TrendingLoadedMsg{Page: *page}
	}
}

// LoadDetailsCmd fetches the full record for one movie
func LoadDetailsCmd(client domain.SearchClient, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		details, err := client.MovieDetails(ctx, id)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading movie details"}
		}
		return MovieDetailsLoadedMsg{Details: details}
	}
}

// SaveQueryCmd records a committed query in the search history
func SaveQueryCmd(history *store.HistoryStore, query string) tea.Cmd {
	if history == nil {
		return nil
	}
	return func() tea.Msg {
		if err := history.Add(query); err != nil {
			return ErrMsg{Err: err, Context: "saving search history"}
		}
		return QuerySavedMsg{}
	}
}
