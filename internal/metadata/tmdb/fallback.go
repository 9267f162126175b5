package tmdb

import (
	"strings"

	"tasteid/internal/models"
)

type fallbackMovie struct {
	id         string
	title      string
	posterPath string
	year       string
	rating     float64
}

// Demo-mode movie set served when no API token is configured.
var fallbackMovies = []fallbackMovie{
	{"603", "The Matrix", "/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg", "1999", 8.7},
	{"604", "The Matrix Reloaded", "/9TGHDvWrqKBzwDxDodHYXEmOE6J.jpg", "2003", 7.0},
	{"155", "The Dark Knight", "/qJ2tW6WMUDux911r6m7haRef0WH.jpg", "2008", 9.0},
	{"27205", "Inception", "/edv5CZvWj09upOsy2Y6IwDhK8bt.jpg", "2010", 8.8},
	{"157336", "Interstellar", "/gEU2QniE6E77NI6lCU6MxlNBvIx.jpg", "2014", 8.7},
	{"238", "The Godfather", "/3bhkrj58Vtu7enYsRolD1fZdja1.jpg", "1972", 9.2},
	{"278", "The Shawshank Redemption", "/9cqNxx0GxF0bflZmeSMuL5tnGzr.jpg", "1994", 9.3},
	{"680", "Pulp Fiction", "/d5iIlFn5s0ImszYzBPb8JPIfbXD.jpg", "1994", 8.9},
	{"550", "Fight Club", "/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg", "1999", 8.8},
	{"120", "The Lord of the Rings: The Fellowship of the Ring", "/6oom5QYQ2yQTMJIbnvbkBL9cHo6.jpg", "2001", 8.8},
	{"872585", "Oppenheimer", "/8Gxv8gSFCU0XGDykEGv7zR1n2ua.jpg", "2023", 8.1},
	{"569094", "Spider-Man: Across the Spider-Verse", "/8Vt6mWEReuy4Of61Lnj5Xj704m8.jpg", "2023", 8.4},
}

// filterFallbackMovies matches the demo set by case-insensitive substring.
func filterFallbackMovies(query string) []models.SearchResult {
	q := strings.ToLower(query)
	var out []models.SearchResult
	for _, m := range fallbackMovies {
		if !strings.Contains(strings.ToLower(m.title), q) {
			continue
		}
		year := m.year
		rating := m.rating
		out = append(out, models.SearchResult{
			ExternalID: m.id,
			Type:       models.MediaTypeMovie,
			Title:      m.title,
			Image:      posterURL(m.posterPath),
			Year:       &year,
			Rating:     &rating,
		})
	}
	return out
}
