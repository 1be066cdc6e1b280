package catalog

// Movie is a catalog list entry, with the fields the client renders.
type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
}

// Page is one page of a paged catalog listing.
type Page struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Genre is a catalog genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the detail view of a single movie.
type MovieDetails struct {
	Movie
	Genres  []Genre `json:"genres"`
	Runtime int     `json:"runtime"`
	Tagline string  `json:"tagline"`
	Status  string  `json:"status"`
}

// GenrePage is the body of GET /api/movies/genre/{id}.
type GenrePage struct {
	Movies     []Movie `json:"movies"`
	TotalPages int     `json:"totalPages"`
}
