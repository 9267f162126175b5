// Package steam searches games through the rawg2steam proxy, which serves a
// RAWG-compatible API backed by Steam CDN images and needs no API key.
package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tasteid/internal/models"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://rawg2steam.phalco.de/api"

// Client provides access to the rawg2steam game search API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger

	// BaseURL is overridable for tests.
	BaseURL string
}

// NewClient creates a game search client.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:      logger,
		BaseURL:     defaultBaseURL,
	}
}

type game struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Released        string   `json:"released"`
	BackgroundImage *string  `json:"background_image"`
	BoxArt          *string  `json:"box_art"`
	Rating          float64  `json:"rating"`
	Metacritic      *float64 `json:"metacritic"`
	Genres          []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Platforms []struct {
		Platform struct {
			Name string `json:"name"`
		} `json:"platform"`
	} `json:"platforms"`
	Developers []struct {
		Name string `json:"name"`
	} `json:"developers"`
}

type searchResponse struct {
	Count   int    `json:"count"`
	Results []game `json:"results"`
}

// Search searches for games, degrading to an empty list on failure.
func (c *Client) Search(ctx context.Context, query string) []models.SearchResult {
	results, err := c.search(ctx, query)
	if err != nil {
		c.logger.Error("game search failed", "query", query, "error", err.Error())
		return nil
	}
	return results
}

func (c *Client) search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("search", query)

	searchURL := c.BaseURL + "/games?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	out := make([]models.SearchResult, 0, len(searchResp.Results))
	for _, g := range searchResp.Results {
		out = append(out, toSearchResult(g))
	}
	return out, nil
}

func toSearchResult(g game) models.SearchResult {
	// Prefer box art (vertical poster) over the wide background image.
	image := g.BoxArt
	if image == nil {
		image = g.BackgroundImage
	}

	var year *string
	if len(g.Released) >= 4 {
		y := g.Released[:4]
		year = &y
	}

	// Metacritic is on a 0-100 scale; prefer it normalized over the
	// coarser community rating.
	var rating *float64
	if g.Metacritic != nil {
		v := *g.Metacritic / 10
		rating = &v
	} else if g.Rating > 0 {
		v := g.Rating
		rating = &v
	}

	meta := map[string]any{
		"genres":    names(len(g.Genres), func(i int) string { return g.Genres[i].Name }),
		"platforms": names(len(g.Platforms), func(i int) string { return g.Platforms[i].Platform.Name }),
		"steamId":   g.ID,
	}
	if len(g.Developers) > 0 {
		meta["developer"] = g.Developers[0].Name
	}

	return models.SearchResult{
		ExternalID: strconv.Itoa(g.ID),
		Type:       models.MediaTypeGame,
		Title:      g.Name,
		Image:      image,
		Year:       year,
		Rating:     rating,
		Metadata:   meta,
	}
}

// names collects up to three entries from an accessor.
func names(n int, get func(int) string) []string {
	if n > 3 {
		n = 3
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, get(i))
	}
	return out
}
