// Package catalog is a thin server-side proxy over the TMDB v3 movie catalog,
// so the catalog API key stays on the server.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ryantanww/MovAI/config"
	"github.com/ryantanww/MovAI/logging"
)

// MaxPages is the deepest page the catalog will serve.
const MaxPages = 500

// ErrMovieNotFound is returned by Details for an unknown movie id.
var ErrMovieNotFound = errors.New("movie not found")

// StatusError is a non-2xx answer from the catalog.
type StatusError struct {
	Path   string
	Status int
}

// Error reports the upstream path and the status it answered with.
func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog %s: unexpected status %d", e.Path, e.Status)
}

// Catalog is what the chat package needs from the movie catalog.
type Catalog interface {
	RandomPopular(ctx context.Context) ([]Movie, error)
	RandomTopRated(ctx context.Context) ([]Movie, error)
	RandomTrending(ctx context.Context, window string) ([]Movie, error)
	RandomByGenre(ctx context.Context, genreID int) ([]Movie, error)
}

// Client talks to the TMDB v3 API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     logging.Logger
	// intN picks a page in [0, n). Replaced in tests.
	intN func(n int) int
}

var _ Catalog = (*Client)(nil)

// NewClient creates a TMDB client from cfg. Every request carries cfg.APIKey
// as the api_key query parameter and is bounded by cfg.Timeout.
func NewClient(cfg *config.CatalogConfig, log logging.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log.With("component", "catalog"),
		intN:    rand.IntN,
	}
}

// get fetches path with query params (plus the api key) and decodes the JSON body into dst.
func (c *Client) get(ctx context.Context, path string, params url.Values, dst any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.log.Warn(ctx, "catalog request failed", "path", path, "status", resp.StatusCode)
		return &StatusError{Path: path, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return nil
}

func (c *Client) page(ctx context.Context, path string, params url.Values, page int) (*Page, error) {
	if params == nil {
		params = url.Values{}
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	var p Page
	if err := c.get(ctx, path, params, &p); err != nil {
		return nil, err
	}
	if p.Results == nil {
		p.Results = []Movie{}
	}
	return &p, nil
}

// randomPage reads total_pages from the first page, clamps it to MaxPages
// and returns the results of a random page in [1, total].
func (c *Client) randomPage(ctx context.Context, path string, params url.Values) ([]Movie, error) {
	first, err := c.page(ctx, path, cloneValues(params), 0)
	if err != nil {
		return nil, err
	}
	total := min(first.TotalPages, MaxPages)
	if total <= 1 {
		return first.Results, nil
	}

	n := c.intN(total) + 1
	if n == 1 {
		return first.Results, nil
	}
	p, err := c.page(ctx, path, cloneValues(params), n)
	if err != nil {
		return nil, err
	}
	return p.Results, nil
}

func cloneValues(v url.Values) url.Values {
	out := url.Values{}
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// Trending windows accepted by RandomTrending.
const (
	WindowDay  = "day"
	WindowWeek = "week"
)

// RandomPopular returns the movies of a random page of the popular list.
func (c *Client) RandomPopular(ctx context.Context) ([]Movie, error) {
	return c.randomPage(ctx, "/movie/popular", nil)
}

// RandomTopRated returns the movies of a random page of the top-rated list.
func (c *Client) RandomTopRated(ctx context.Context) ([]Movie, error) {
	return c.randomPage(ctx, "/movie/top_rated", nil)
}

// RandomTrending returns a random page of movies trending over window
// ("day" or "week").
func (c *Client) RandomTrending(ctx context.Context, window string) ([]Movie, error) {
	if window != WindowDay && window != WindowWeek {
		return nil, fmt.Errorf("unknown trending window %q", window)
	}
	return c.randomPage(ctx, "/trending/movie/"+window, nil)
}

// RandomByGenre returns the movies of a random discover page for genreID.
func (c *Client) RandomByGenre(ctx context.Context, genreID int) ([]Movie, error) {
	return c.randomPage(ctx, "/discover/movie", url.Values{"with_genres": {strconv.Itoa(genreID)}})
}

// ByGenre returns one specific page of a genre listing.
func (c *Client) ByGenre(ctx context.Context, genreID, page int) (*GenrePage, error) {
	if page < 1 {
		page = 1
	}
	p, err := c.page(ctx, "/discover/movie", url.Values{"with_genres": {strconv.Itoa(genreID)}}, min(page, MaxPages))
	if err != nil {
		return nil, err
	}
	return &GenrePage{Movies: p.Results, TotalPages: min(p.TotalPages, MaxPages)}, nil
}

// Genres lists every movie genre the catalog knows.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var body struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.get(ctx, "/genre/movie/list", nil, &body); err != nil {
		return nil, err
	}
	if body.Genres == nil {
		body.Genres = []Genre{}
	}
	return body.Genres, nil
}

// Search returns the first page of movies whose title matches query.
func (c *Client) Search(ctx context.Context, query string) ([]Movie, error) {
	p, err := c.page(ctx, "/search/movie", url.Values{"query": {query}}, 0)
	if err != nil {
		return nil, err
	}
	return p.Results, nil
}

// Details returns one movie. Unknown ids give ErrMovieNotFound.
func (c *Client) Details(ctx context.Context, movieID int64) (*MovieDetails, error) {
	var d MovieDetails
	err := c.get(ctx, "/movie/"+strconv.FormatInt(movieID, 10), nil, &d)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &d, nil
}
