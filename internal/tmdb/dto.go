package tmdb

// Wire types for TMDB API responses

type movieResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
}

type pagedResponse struct {
	Page         int           `json:"page"`
	Results      []movieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type castCredit struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

type crewCredit struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type credits struct {
	Cast []castCredit `json:"cast"`
	Crew []crewCredit `json:"crew"`
}

type movieDetailsResponse struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Tagline     string  `json:"tagline"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Runtime     int     `json:"runtime"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Genres      []genre `json:"genres"`
	Credits     credits `json:"credits"`
}
