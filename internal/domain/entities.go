package domain

import (
	"fmt"
	"strings"
)

// Movie is one catalog entry as returned by the remote search API.
type Movie struct {
	ID          int     // TMDB movie ID
	Title       string  // Display title
	Overview    string  // Plot synopsis
	ReleaseDate string  // "2006-01-02" or empty when unknown
	PosterPath  string  // Raw poster path ("/abc.jpg"), empty when none
	PosterURL   string  // Full poster URL, empty when no poster
	VoteAverage float64 // 0-10 community rating
	VoteCount   int
}

// Year returns the release year, or 0 when the release date is unknown.
func (m Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	var year int
	if _, err := fmt.Sscanf(m.ReleaseDate[:4], "%d", &year); err != nil {
		return 0
	}
	return year
}

// DisplayTitle returns "Title (Year)" or just the title when the year is unknown.
func (m Movie) DisplayTitle() string {
	if y := m.Year(); y > 0 {
		return fmt.Sprintf("%s (%d)", m.Title, y)
	}
	return m.Title
}

// HasPoster reports whether the movie carries a poster image.
func (m Movie) HasPoster() bool {
	return m.PosterURL != ""
}

// CastMember is one credited actor on a movie.
type CastMember struct {
	Name      string
	Character string
}

// MovieDetails is the full record for a single movie.
type MovieDetails struct {
	Movie
	Tagline   string
	Runtime   int // Minutes, 0 when unknown
	Genres    []string
	Cast      []CastMember
	Directors []string
}

// FormattedRuntime returns the runtime in a human-readable format.
func (d MovieDetails) FormattedRuntime() string {
	if d.Runtime <= 0 {
		return ""
	}
	h := d.Runtime / 60
	m := d.Runtime % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// GenreLine returns the genres joined for display.
func (d MovieDetails) GenreLine() string {
	return strings.Join(d.Genres, ", ")
}

// ResultPage is one page of search results for a given (query, page).
// TotalPages is assumed stable across pages of one query session.
type ResultPage struct {
	Page         int
	TotalPages   int
	TotalResults int
	Movies       []Movie
}
