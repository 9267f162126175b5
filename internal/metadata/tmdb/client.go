// Package tmdb searches The Movie Database for movies and TV shows.
// Uses Bearer token authentication with a read access token. When no token is
// configured, movie searches fall back to a static demo set.
package tmdb

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p"
	searchLimit    = 12
)

// Client provides access to the TMDB search API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	token       string

	// BaseURL is overridable for tests.
	BaseURL string
}

// NewClient creates a TMDB client. An empty token enables demo-mode fallbacks.
func NewClient(token string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		// TMDB allows ~50 req/s; stay well under it.
		rateLimiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
		logger:      logger,
		token:       token,
		BaseURL:     defaultBaseURL,
	}
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}

// posterURL builds a w500 poster URL from a TMDB poster path.
func posterURL(path string) *string {
	if path == "" {
		return nil
	}
	u := imageBaseURL + "/w500" + path
	return &u
}
