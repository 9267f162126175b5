// Package books searches the Google Books volumes API. An API key is optional;
// unauthenticated requests work with lower quotas.
package books

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tasteid/internal/models"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://www.googleapis.com/books/v1"
	maxResults     = 12
)

// Client provides access to the Google Books API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	apiKey      string

	// BaseURL is overridable for tests.
	BaseURL string
}

// NewClient creates a Google Books client. apiKey may be empty.
func NewClient(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:      logger,
		apiKey:      apiKey,
		BaseURL:     defaultBaseURL,
	}
}

type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title         string   `json:"title"`
		Authors       []string `json:"authors"`
		PublishedDate string   `json:"publishedDate"`
		Categories    []string `json:"categories"`
		PageCount     int      `json:"pageCount"`
		AverageRating float64  `json:"averageRating"`
		ImageLinks    struct {
			Thumbnail  string `json:"thumbnail"`
			Small      string `json:"small"`
			Medium     string `json:"medium"`
			Large      string `json:"large"`
			ExtraLarge string `json:"extraLarge"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

type searchResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

// Search searches for books, degrading to an empty list on failure.
// Volumes without cover images are dropped.
func (c *Client) Search(ctx context.Context, query string) []models.SearchResult {
	results, err := c.search(ctx, query)
	if err != nil {
		c.logger.Error("Google Books search failed", "query", query, "error", err.Error())
		return nil
	}
	return results
}

func (c *Client) search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprintf("%d", maxResults))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	searchURL := c.BaseURL + "/volumes?" + params.Encode()

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

	out := make([]models.SearchResult, 0, len(searchResp.Items))
	for _, v := range searchResp.Items {
		cover := bestCover(v)
		if cover == nil {
			continue
		}
		out = append(out, toSearchResult(v, cover))
	}
	return out, nil
}

// bestCover picks the highest-quality cover, upgrades it to HTTPS and bumps
// the zoom level Google defaults to.
func bestCover(v volume) *string {
	links := v.VolumeInfo.ImageLinks
	u := links.ExtraLarge
	for _, candidate := range []string{links.Large, links.Medium, links.Small, links.Thumbnail} {
		if u != "" {
			break
		}
		u = candidate
	}
	if u == "" {
		return nil
	}
	u = strings.Replace(u, "http://", "https://", 1)
	u = strings.Replace(u, "zoom=1", "zoom=2", 1)
	return &u
}

func toSearchResult(v volume, cover *string) models.SearchResult {
	info := v.VolumeInfo

	var year *string
	if y, _, _ := strings.Cut(info.PublishedDate, "-"); y != "" {
		year = &y
	}

	var rating *float64
	if info.AverageRating > 0 {
		r := info.AverageRating
		rating = &r
	}

	meta := map[string]any{}
	if len(info.Authors) > 0 {
		meta["author"] = info.Authors[0]
	}
	if len(info.Categories) > 0 {
		categories := info.Categories
		if len(categories) > 3 {
			categories = categories[:3]
		}
		meta["categories"] = categories
	}
	if info.PageCount > 0 {
		meta["pageCount"] = info.PageCount
	}

	return models.SearchResult{
		ExternalID: v.ID,
		Type:       models.MediaTypeBook,
		Title:      info.Title,
		Image:      cover,
		Year:       year,
		Rating:     rating,
		Metadata:   meta,
	}
}
