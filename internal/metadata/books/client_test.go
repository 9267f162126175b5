package books

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

func TestSearch_ParsesVolumes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "dune", r.URL.Query().Get("q"))
		assert.Equal(t, "books-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalItems":2,"items":[
			{"id":"vol1","volumeInfo":{
				"title":"Dune",
				"authors":["Frank Herbert","Someone Else"],
				"publishedDate":"1965-08-01",
				"categories":["Fiction","Science Fiction","Classics","Extra"],
				"pageCount":412,
				"averageRating":4.5,
				"imageLinks":{"thumbnail":"http://books.google.com/cover?id=vol1&zoom=1"}
			}},
			{"id":"vol2","volumeInfo":{"title":"Coverless Companion"}}
		]}`))
	}))
	defer server.Close()

	client := NewClient("books-key", testLogger())
	client.BaseURL = server.URL

	results := client.Search(context.Background(), "dune")
	// The coverless volume is dropped.
	require.Len(t, results, 1)

	book := results[0]
	assert.Equal(t, "vol1", book.ExternalID)
	assert.Equal(t, models.MediaTypeBook, book.Type)
	assert.Equal(t, "Dune", book.Title)
	require.NotNil(t, book.Year)
	assert.Equal(t, "1965", *book.Year)
	require.NotNil(t, book.Rating)
	assert.Equal(t, 4.5, *book.Rating)

	// Cover is upgraded to https and zoom=2.
	require.NotNil(t, book.Image)
	assert.Equal(t, "https://books.google.com/cover?id=vol1&zoom=2", *book.Image)

	assert.Equal(t, "Frank Herbert", book.Metadata["author"])
	assert.Equal(t, 412, book.Metadata["pageCount"])
	categories, ok := book.Metadata["categories"].([]string)
	require.True(t, ok)
	assert.Len(t, categories, 3)
}

func TestSearch_OmitsKeyParamWhenUnset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalItems":0}`))
	}))
	defer server.Close()

	client := NewClient("", testLogger())
	client.BaseURL = server.URL

	assert.Empty(t, client.Search(context.Background(), "anything"))
}

func TestSearch_DegradesToEmptyOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("books-key", testLogger())
	client.BaseURL = server.URL

	assert.Empty(t, client.Search(context.Background(), "dune"))
}

func TestBestCover_QualityCascade(t *testing.T) {
	var v volume
	assert.Nil(t, bestCover(v))

	v.VolumeInfo.ImageLinks.Thumbnail = "http://img/thumb"
	v.VolumeInfo.ImageLinks.Medium = "http://img/medium"
	got := bestCover(v)
	require.NotNil(t, got)
	assert.Equal(t, "https://img/medium", *got)

	v.VolumeInfo.ImageLinks.ExtraLarge = "http://img/xl"
	got = bestCover(v)
	require.NotNil(t, got)
	assert.Equal(t, "https://img/xl", *got)
}
