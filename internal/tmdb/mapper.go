package tmdb

import "marquee/internal/domain"

// maxCastMembers bounds the cast list carried into the detail view.
const maxCastMembers = 10

func (c *Client) posterURL(path string) string {
	if path == "" || c.imageBaseURL == "" {
		return ""
	}
	return c.imageBaseURL + path
}

func (c *Client) mapMovie(r movieResult) domain.Movie {
	return domain.Movie{
		ID:          r.ID,
		Title:       r.Title,
		Overview:    r.Overview,
		ReleaseDate: r.ReleaseDate,
		PosterPath:  r.PosterPath,
		PosterURL:   c.posterURL(r.PosterPath),
		VoteAverage: r.VoteAverage,
		VoteCount:   r.VoteCount,
	}
}

func (c *Client) mapResultPage(resp *pagedResponse) *domain.ResultPage {
	movies := make([]domain.Movie, len(resp.Results))
	for i, r := range resp.Results {
		movies[i] = c.mapMovie(r)
	}
	return &domain.ResultPage{
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
		Movies:       movies,
	}
}

func (c *Client) mapMovieDetails(resp *movieDetailsResponse) *domain.MovieDetails {
	d := &domain.MovieDetails{
		Movie: domain.Movie{
			ID:          resp.ID,
			Title:       resp.Title,
			Overview:    resp.Overview,
			ReleaseDate: resp.ReleaseDate,
			PosterPath:  resp.PosterPath,
			PosterURL:   c.posterURL(resp.PosterPath),
			VoteAverage: resp.VoteAverage,
			VoteCount:   resp.VoteCount,
		},
		Tagline: resp.Tagline,
		Runtime: resp.Runtime,
	}

	for _, g := range resp.Genres {
		d.Genres = append(d.Genres, g.Name)
	}

	for _, cast := range resp.Credits.Cast {
		if len(d.Cast) >= maxCastMembers {
			break
		}
		d.Cast = append(d.Cast, domain.CastMember{Name: cast.Name, Character: cast.Character})
	}

	for _, crew := range resp.Credits.Crew {
		if crew.Job == "Director" {
			d.Directors = append(d.Directors, crew.Name)
		}
	}

	return d
}
