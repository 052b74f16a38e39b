package domain

import "context"

// SearchClient provides remote catalog access.
type SearchClient interface {
	// SearchMovies returns one page of results for a free-text query.
	SearchMovies(ctx context.Context, query string, page int) (*ResultPage, error)

	// MovieDetails returns the full record for a single movie.
	MovieDetails(ctx context.Context, id int) (*MovieDetails, error)

	// TrendingMovies returns one page of the current trending feed.
	TrendingMovies(ctx context.Context, page int) (*ResultPage, error)
}
