// Package tmdb implements domain.SearchClient against The Movie Database API.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"marquee/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Marquee/1.0"
)

// Client is an authenticated TMDB API client.
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	language     string
	httpClient   *http.Client
	logger       *slog.Logger
}

// Options configures optional client behavior.
type Options struct {
	ImageBaseURL string // Prefix for poster paths, e.g. "https://image.tmdb.org/t/p/w342"
	Language     string // ISO 639-1 result language, e.g. "en-US"
}

// NewClient creates a new TMDB API client.
func NewClient(baseURL, apiKey string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:      baseURL,
		imageBaseURL: opts.ImageBaseURL,
		apiKey:       apiKey,
		language:     opts.Language,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated GET against the API.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	if c.language != "" {
		query.Set("language", c.language)
	}
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("tmdb request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("tmdb request failed", "path", path, "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized:
		return nil, domain.ErrAuthFailed
	case http.StatusNotFound:
		return nil, domain.ErrMovieNotFound
	default:
		c.logger.Error("tmdb request error", "path", path, "status", resp.StatusCode)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

// SearchMovies returns one page of results for a free-text query.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*domain.ResultPage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	body, err := c.doRequest(ctx, "/search/movie", params)
	if err != nil {
		return nil, err
	}

	var resp pagedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("tmdb parse error", "path", "/search/movie", "error", err)
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return c.mapResultPage(&resp), nil
}

// TrendingMovies returns one page of this week's trending feed.
func (c *Client) TrendingMovies(ctx context.Context, page int) (*domain.ResultPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	body, err := c.doRequest(ctx, "/trending/movie/week", params)
	if err != nil {
		return nil, err
	}

	var resp pagedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("tmdb parse error", "path", "/trending/movie/week", "error", err)
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return c.mapResultPage(&resp), nil
}

// MovieDetails returns the full record for a single movie, credits included.
func (c *Client) MovieDetails(ctx context.Context, id int) (*domain.MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits")

	body, err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", id), params)
	if err != nil {
		return nil, err
	}

	var resp movieDetailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("tmdb parse error", "path", "/movie/{id}", "error", err)
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return c.mapMovieDetails(&resp), nil
}
