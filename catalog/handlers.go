package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ryantanww/MovAI/apperror"
	"github.com/ryantanww/MovAI/auth"
)

const (
	msgFetchFailed   = "Failed to fetch movies!"
	msgMovieNotFound = "Movie not found!"
	msgBadWindow     = "Trending window must be day or week!"
	msgBadGenre      = "Invalid genre id!"
	msgBadPage       = "Invalid page!"
	msgBadMovieID    = "Invalid movie id!"
	msgEmptyQuery    = "A search query is required!"
)

// CatalogHandlers proxies catalog reads for the mobile client.
type CatalogHandlers struct {
	client *Client
}

// NewCatalogHandlers creates the HTTP handlers for the movie catalog proxy.
// The client is shared; handlers hold no per-request state.
func NewCatalogHandlers(client *Client) *CatalogHandlers {
	return &CatalogHandlers{client: client}
}

// Routes mounts the catalog endpoints on r.
func (h *CatalogHandlers) Routes(r chi.Router) {
	r.Get("/popular", h.HandlePopular())
	r.Get("/top-rated", h.HandleTopRated())
	r.Get("/trending/{window}", h.HandleTrending())
	r.Get("/genres", h.HandleGenres())
	r.Get("/genre/{id}", h.HandleGenre())
	r.Get("/genre/{id}/random", h.HandleRandomGenre())
	r.Get("/search", h.HandleSearch())
	r.Get("/{id}", h.HandleDetails())
}

func upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	auth.WriteError(w, r, apperror.NewExternalServiceError(msgFetchFailed, err))
}

func positiveIntParam(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil && n > 0
}

// HandlePopular godoc
// @Summary Popular movies from a random page
// @Tags movies
// @Produce json
// @Success 200 {array} catalog.Movie
// @Failure 502 {object} apperror.ErrorResponse
// @Router /movies/popular [get]
func (h *CatalogHandlers) HandlePopular() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movies, err := h.client.RandomPopular(r.Context())
		if err != nil {
			upstreamError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, movies)
	}
}

// HandleTopRated godoc
// @Summary Top-rated movies from a random page
// @Tags movies
// @Produce json
// @Success 200 {array} catalog.Movie
// @Failure 502 {object} apperror.ErrorResponse
// @Router /movies/top-rated [get]
func (h *CatalogHandlers) HandleTopRated() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movies, err := h.client.RandomTopRated(r.Context())
		if err != nil {
			upstreamError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, movies)
	}
}

// HandleTrending godoc
// @Summary Trending movies from a random page
// @Tags movies
// @Produce json
// @Param window path string true "day or week"
// @Success 200 {array} catalog.Movie
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 502 {object} apperror.ErrorResponse
// @Router /movies/trending/{window} [get]
func (h *CatalogHandlers) HandleTrending() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window := chi.URLParam(r, "window")
		if window != WindowDay && window != WindowWeek {
			auth.WriteError(w, r, apperror.NewValidationError(msgBadWindow, nil))
			return
		}
		movies, err := h.client.RandomTrending(r.Context(), window)
		if err != nil {
			upstreamError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, movies)
	}
}

// HandleGenres godoc
// @Summary All movie genres
// @Tags movies
// @Produce json
// @Success 200 {array} catalog.Genre
// @Failure 502 {object} apperror.ErrorResponse
// @Router /movies/genres [get]
func (h *CatalogHandlers) HandleGenres() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		genres, err := h.client.Genres(r.Context())
		if err != nil {
			upstreamError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, genres)
	}
}

// HandleGenre godoc
// @Summary One page of a genre
// @Tags movies
// @Produce json
// @Param id path int true "Genre ID"
// @Param page query int false "Page, default 1"
// @Success 200 {object} catalog.GenrePage
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 502 {object} apperror.ErrorResponse
// @Router /movies/genre/{id} [get]
func (h *CatalogHandlers) HandleGenre() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		genreID, ok := positiveIntParam(chi.URLParam(r, "id"))
		if !ok {
			auth.WriteError(w, r, apperror.NewValidationError(msgBadGenre, nil))
			return
		}
		page := 1
		if raw := r.URL.Query().Get("page"); raw != "" {
			if page, ok = positiveIntParam(raw); !ok {
				auth.WriteError(w, r, apperror.NewValidationError(msgBadPage, nil))
				return
			}
		}

		res, err := h.client.ByGenre(r.Context(), genreID, page)
		if err != nil {
			upstreamError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, res)
	}
}

// HandleRandomGenre godoc
// @Summary A random page of a genre
// @Tags movies
// @Produce json
// @Param id path int true "Genre ID"
// @Success 200 {array} catalog.Movie
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 502 {object} apperror.ErrorResponse
// @Router /movies/genre/{id}/random [get]
func (h *CatalogHandlers) HandleRandomGenre() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		genreID, ok := positiveIntParam(chi.URLParam(r, "id"))
		if !ok {
			auth.WriteError(w, r, apperror.NewValidationError(msgBadGenre, nil))
			return
		}
		movies, err := h.client.RandomByGenre(r.Context(), genreID)
		if err != nil {
			upstreamError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, movies)
	}
}

// HandleSearch godoc
// @Summary Search movies by title
// @Tags movies
// @Produce json
// @Param query query string true "Search text"
// @Success 200 {array} catalog.Movie
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 502 {object} apperror.ErrorResponse
// @Router /movies/search [get]
func (h *CatalogHandlers) HandleSearch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if query == "" {
			auth.WriteError(w, r, apperror.NewValidationError(msgEmptyQuery, nil))
			return
		}
		movies, err := h.client.Search(r.Context(), query)
		if err != nil {
			upstreamError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, movies)
	}
}

// HandleDetails godoc
// @Summary Movie details
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} catalog.MovieDetails
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Failure 502 {object} apperror.ErrorResponse
// @Router /movies/{id} [get]
func (h *CatalogHandlers) HandleDetails() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || movieID <= 0 {
			auth.WriteError(w, r, apperror.NewValidationError(msgBadMovieID, err))
			return
		}
		d, err := h.client.Details(r.Context(), movieID)
		if err != nil {
			if errors.Is(err, ErrMovieNotFound) {
				auth.WriteError(w, r, apperror.NewNotFoundError(msgMovieNotFound, nil))
				return
			}
			upstreamError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, d)
	}
}
