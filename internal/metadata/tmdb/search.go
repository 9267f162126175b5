package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tasteid/internal/models"
)

type movieResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"` // TV results use name
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
}

type searchResponse struct {
	Page    int           `json:"page"`
	Results []movieResult `json:"results"`
}

// Movies implements metadata.Searcher for the movie domain.
type Movies struct{ *Client }

// TV implements metadata.Searcher for the TV domain.
type TV struct{ *Client }

// Search searches TMDB movies, degrading to the static fallback set when no
// token is configured or the upstream call fails.
func (m Movies) Search(ctx context.Context, query string) []models.SearchResult {
	if m.token == "" {
		m.logger.Warn("TMDB token not configured, using fallback data")
		return filterFallbackMovies(query)
	}

	results, err := m.search(ctx, "/search/movie", query)
	if err != nil {
		m.logger.Error("TMDB movie search failed", "query", query, "error", err.Error())
		return filterFallbackMovies(query)
	}
	return toSearchResults(results, models.MediaTypeMovie)
}

// Search searches TMDB TV shows, degrading to an empty list on failure.
func (t TV) Search(ctx context.Context, query string) []models.SearchResult {
	if t.token == "" {
		t.logger.Warn("TMDB token not configured")
		return nil
	}

	results, err := t.search(ctx, "/search/tv", query)
	if err != nil {
		t.logger.Error("TMDB tv search failed", "query", query, "error", err.Error())
		return nil
	}
	return toSearchResults(results, models.MediaTypeTV)
}

func (c *Client) search(ctx context.Context, path, query string) ([]movieResult, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("include_adult", "false")

	searchURL := c.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

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

	if len(searchResp.Results) > searchLimit {
		searchResp.Results = searchResp.Results[:searchLimit]
	}
	return searchResp.Results, nil
}

func toSearchResults(results []movieResult, mediaType models.MediaType) []models.SearchResult {
	out := make([]models.SearchResult, 0, len(results))
	for _, r := range results {
		title := r.Title
		date := r.ReleaseDate
		if mediaType == models.MediaTypeTV {
			title = r.Name
			date = r.FirstAirDate
		}

		var year *string
		if y, _, found := strings.Cut(date, "-"); found || y != "" {
			if y != "" {
				year = &y
			}
		}

		var rating *float64
		if r.VoteAverage > 0 {
			v := r.VoteAverage
			rating = &v
		}

		out = append(out, models.SearchResult{
			ExternalID: strconv.Itoa(r.ID),
			Type:       mediaType,
			Title:      title,
			Image:      posterURL(r.PosterPath),
			Year:       year,
			Rating:     rating,
		})
	}
	return out
}
