// Package art searches the Art Institute of Chicago public API. Images are
// served through the museum's IIIF endpoint; no API key is required.
package art

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tasteid/internal/models"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.artic.edu/api/v1"
	iiifBaseURL    = "https://www.artic.edu/iiif/2"
	searchLimit    = 12
	searchFields   = "id,title,artist_display,artist_title,date_display,medium_display,image_id"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// Client provides access to the Art Institute of Chicago API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger

	// BaseURL is overridable for tests.
	BaseURL string
}

// NewClient creates an artwork search client.
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

type artwork struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	ArtistDisplay string `json:"artist_display"`
	ArtistTitle   string `json:"artist_title"`
	DateDisplay   string `json:"date_display"`
	MediumDisplay string `json:"medium_display"`
	ImageID       string `json:"image_id"`
}

type searchResponse struct {
	Data []artwork `json:"data"`
}

// imageURL builds an IIIF URL at 600px width.
func imageURL(imageID string) *string {
	if imageID == "" {
		return nil
	}
	u := fmt.Sprintf("%s/%s/full/600,/0/default.jpg", iiifBaseURL, imageID)
	return &u
}

// Search searches for artworks, degrading to an empty list on failure.
// Works without a digitized image are dropped.
func (c *Client) Search(ctx context.Context, query string) []models.SearchResult {
	results, err := c.search(ctx, query)
	if err != nil {
		c.logger.Error("artwork search failed", "query", query, "error", err.Error())
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
	params.Set("limit", strconv.Itoa(searchLimit))
	params.Set("fields", searchFields)

	searchURL := c.BaseURL + "/artworks/search?" + params.Encode()

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

	out := make([]models.SearchResult, 0, len(searchResp.Data))
	for _, a := range searchResp.Data {
		if a.ImageID == "" {
			continue
		}
		out = append(out, toSearchResult(a))
	}
	return out, nil
}

func toSearchResult(a artwork) models.SearchResult {
	artist := a.ArtistTitle
	if artist == "" {
		// artist_display is a free-form block; the first line is the name.
		artist, _, _ = strings.Cut(a.ArtistDisplay, "\n")
	}

	// date_display is free-form ("c. 1503-1519"); extract the first year.
	var year *string
	if match := yearPattern.FindString(a.DateDisplay); match != "" {
		year = &match
	}

	meta := map[string]any{}
	if artist != "" {
		meta["artist"] = artist
	}
	if a.MediumDisplay != "" {
		meta["medium"] = a.MediumDisplay
	}

	return models.SearchResult{
		ExternalID: strconv.Itoa(a.ID),
		Type:       models.MediaTypeArt,
		Title:      a.Title,
		Image:      imageURL(a.ImageID),
		Year:       year,
		Metadata:   meta,
	}
}
