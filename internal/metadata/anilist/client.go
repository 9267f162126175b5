// Package anilist searches the AniList GraphQL API for anime and manga.
// AniList requires no authentication for searches.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tasteid/internal/models"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://graphql.anilist.co"
	perPage        = 12
)

const searchQuery = `
query ($search: String, $type: MediaType, $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    media(search: $search, type: $type, sort: POPULARITY_DESC) {
      id
      title { romaji english native }
      coverImage { large }
      startDate { year }
      averageScore
      studios(isMain: true) { nodes { name } }
      staff(perPage: 3, sort: [RELEVANCE]) { nodes { name { full } } }
      volumes
      chapters
      genres
      type
      format
    }
  }
}
`

// Client provides access to the AniList GraphQL API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger

	// BaseURL is overridable for tests.
	BaseURL string
}

// NewClient creates an AniList client.
// AniList rate-limits unauthenticated clients to 90 requests per minute.
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

type media struct {
	ID    int `json:"id"`
	Title struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
		Native  string `json:"native"`
	} `json:"title"`
	CoverImage struct {
		Large string `json:"large"`
	} `json:"coverImage"`
	StartDate struct {
		Year int `json:"year"`
	} `json:"startDate"`
	AverageScore float64 `json:"averageScore"`
	Studios      struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"studios"`
	Staff struct {
		Nodes []struct {
			Name struct {
				Full string `json:"full"`
			} `json:"name"`
		} `json:"nodes"`
	} `json:"staff"`
	Volumes  int      `json:"volumes"`
	Chapters int      `json:"chapters"`
	Genres   []string `json:"genres"`
	Type     string   `json:"type"`
	Format   string   `json:"format"`
}

type searchResponse struct {
	Data struct {
		Page struct {
			Media []media `json:"media"`
		} `json:"Page"`
	} `json:"data"`
}

// Anime implements metadata.Searcher for the anime domain.
type Anime struct{ *Client }

// Manga implements metadata.Searcher for the manga domain.
type Manga struct{ *Client }

// Search searches AniList anime, degrading to an empty list on failure.
func (a Anime) Search(ctx context.Context, query string) []models.SearchResult {
	return a.searchMedia(ctx, query, "ANIME")
}

// Search searches AniList manga, degrading to an empty list on failure.
func (m Manga) Search(ctx context.Context, query string) []models.SearchResult {
	return m.searchMedia(ctx, query, "MANGA")
}

func (c *Client) searchMedia(ctx context.Context, query, mediaType string) []models.SearchResult {
	results, err := c.search(ctx, query, mediaType)
	if err != nil {
		c.logger.Error("AniList search failed",
			"query", query, "type", mediaType, "error", err.Error())
		return nil
	}
	return results
}

func (c *Client) search(ctx context.Context, query, mediaType string) ([]models.SearchResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	body, err := json.Marshal(map[string]any{
		"query": searchQuery,
		"variables": map[string]any{
			"search":  query,
			"type":    mediaType,
			"page":    1,
			"perPage": perPage,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
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

	out := make([]models.SearchResult, 0, len(searchResp.Data.Page.Media))
	for _, m := range searchResp.Data.Page.Media {
		out = append(out, toSearchResult(m))
	}
	return out, nil
}

func toSearchResult(m media) models.SearchResult {
	title := m.Title.English
	if title == "" {
		title = m.Title.Romaji
	}

	var image *string
	if m.CoverImage.Large != "" {
		image = &m.CoverImage.Large
	}

	var year *string
	if m.StartDate.Year > 0 {
		y := strconv.Itoa(m.StartDate.Year)
		year = &y
	}

	// AniList scores are 0-100; normalize to the 0-10 scale.
	var rating *float64
	if m.AverageScore > 0 {
		v := m.AverageScore / 10
		rating = &v
	}

	isManga := m.Type == "MANGA"
	mediaType := models.MediaTypeAnime
	if isManga {
		mediaType = models.MediaTypeManga
	}

	genres := m.Genres
	if len(genres) > 3 {
		genres = genres[:3]
	}

	meta := map[string]any{
		"genres":      genres,
		"format":      m.Format,
		"nativeTitle": m.Title.Native,
	}
	if isManga {
		if len(m.Staff.Nodes) > 0 {
			meta["mangaka"] = m.Staff.Nodes[0].Name.Full
		}
		if m.Volumes > 0 {
			meta["volumes"] = m.Volumes
		}
		if m.Chapters > 0 {
			meta["chapters"] = m.Chapters
		}
	} else if len(m.Studios.Nodes) > 0 {
		meta["studio"] = m.Studios.Nodes[0].Name
	}

	return models.SearchResult{
		ExternalID: strconv.Itoa(m.ID),
		Type:       mediaType,
		Title:      title,
		Image:      image,
		Year:       year,
		Rating:     rating,
		Metadata:   meta,
	}
}
