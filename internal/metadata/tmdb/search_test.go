package tmdb

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tasteid/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestMovies_SearchParsesResults(t *testing.T) {
	var gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("query")
		assert.Equal(t, "/search/movie", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[
			{"id":603,"title":"The Matrix","poster_path":"/matrix.jpg","release_date":"1999-03-31","vote_average":8.2},
			{"id":999,"title":"No Poster","release_date":"","vote_average":0}
		]}`))
	}))
	defer server.Close()

	client := NewClient("tmdb-token", testLogger())
	client.BaseURL = server.URL

	results := Movies{client}.Search(context.Background(), "matrix")
	assert.Equal(t, "Bearer tmdb-token", gotAuth)
	assert.Equal(t, "matrix", gotQuery)

	require.Len(t, results, 2)
	first := results[0]
	assert.Equal(t, "603", first.ExternalID)
	assert.Equal(t, models.MediaTypeMovie, first.Type)
	assert.Equal(t, "The Matrix", first.Title)
	require.NotNil(t, first.Image)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/matrix.jpg", *first.Image)
	require.NotNil(t, first.Year)
	assert.Equal(t, "1999", *first.Year)
	require.NotNil(t, first.Rating)
	assert.Equal(t, 8.2, *first.Rating)

	// Missing poster, date, and zero rating come back as nils, not zero values.
	second := results[1]
	assert.Nil(t, second.Image)
	assert.Nil(t, second.Year)
	assert.Nil(t, second.Rating)
}

func TestMovies_SearchFallsBackWithoutToken(t *testing.T) {
	client := NewClient("", testLogger())

	results := Movies{client}.Search(context.Background(), "matrix")
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Contains(t, r.Title, "Matrix")
		assert.Equal(t, models.MediaTypeMovie, r.Type)
	}
}

func TestMovies_SearchFallsBackOnUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("tmdb-token", testLogger())
	client.BaseURL = server.URL

	results := Movies{client}.Search(context.Background(), "inception")
	require.Len(t, results, 1)
	assert.Equal(t, "Inception", results[0].Title)
}

func TestTV_SearchUsesNameAndFirstAirDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/tv", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[
			{"id":1396,"name":"Breaking Bad","poster_path":"/bb.jpg","first_air_date":"2008-01-20","vote_average":8.9}
		]}`))
	}))
	defer server.Close()

	client := NewClient("tmdb-token", testLogger())
	client.BaseURL = server.URL

	results := TV{client}.Search(context.Background(), "breaking")
	require.Len(t, results, 1)
	assert.Equal(t, "Breaking Bad", results[0].Title)
	assert.Equal(t, models.MediaTypeTV, results[0].Type)
	require.NotNil(t, results[0].Year)
	assert.Equal(t, "2008", *results[0].Year)
}

func TestTV_SearchDegradesToEmpty(t *testing.T) {
	// No token: TV has no fallback set.
	client := NewClient("", testLogger())
	assert.Empty(t, TV{client}.Search(context.Background(), "breaking"))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	withToken := NewClient("tmdb-token", testLogger())
	withToken.BaseURL = server.URL
	assert.Empty(t, TV{withToken}.Search(context.Background(), "breaking"))
}

func TestFilterFallbackMovies_CaseInsensitiveSubstring(t *testing.T) {
	results := filterFallbackMovies("THE MATRIX")
	require.Len(t, results, 2)

	assert.Empty(t, filterFallbackMovies("zzz-no-such-movie"))
}

func TestSearchCapsResultCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[` +
			`{"id":1,"title":"A"},{"id":2,"title":"B"},{"id":3,"title":"C"},{"id":4,"title":"D"},` +
			`{"id":5,"title":"E"},{"id":6,"title":"F"},{"id":7,"title":"G"},{"id":8,"title":"H"},` +
			`{"id":9,"title":"I"},{"id":10,"title":"J"},{"id":11,"title":"K"},{"id":12,"title":"L"},` +
			`{"id":13,"title":"M"},{"id":14,"title":"N"}]}`))
	}))
	defer server.Close()

	client := NewClient("tmdb-token", testLogger())
	client.BaseURL = server.URL

	results := Movies{client}.Search(context.Background(), "letters")
	assert.Len(t, results, searchLimit)
}
