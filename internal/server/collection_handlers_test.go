package server

import (
	"net/http"
	"testing"

	"tasteid/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextFreePosition(t *testing.T) {
	tests := []struct {
		name     string
		used     []int
		expected int
	}{
		{"empty grid", nil, 0},
		{"dense prefix", []int{0, 1, 2}, 3},
		{"gap from delete", []int{0, 2, 3}, 1},
		{"only high slots", []int{7, 8}, 0},
		{"full grid", []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, nextFreePosition(tt.used))
		})
	}
}

func TestCreateCollection_AssignsSequentialSlots(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")

	first := createCollection(t, app, token, "Favorites", "movie")
	second := createCollection(t, app, token, "Playing", "game")

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, models.MediaTypeGame, second.Type)
}

func TestCreateCollection_ReusesFreedSlot(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")

	createCollection(t, app, token, "One", "movie")
	middle := createCollection(t, app, token, "Two", "movie")
	createCollection(t, app, token, "Three", "movie")

	resp := doJSON(t, app, http.MethodDelete, "/api/collections/"+middle.ID, token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The freed slot 1 is the lowest unused position.
	replacement := createCollection(t, app, token, "Four", "movie")
	assert.Equal(t, 1, replacement.Position)
}

func TestCreateCollection_EnforcesGridCap(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")

	for i := 0; i < models.MaxCollections; i++ {
		createCollection(t, app, token, "Collection", "movie")
	}

	var body map[string]string
	resp := doJSON(t, app, http.MethodPost, "/api/collections/", token,
		fiber.Map{"name": "Overflow"}, &body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, models.CodeCapacity, body["code"])
}

func TestCreateCollection_Validation(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")

	resp := doJSON(t, app, http.MethodPost, "/api/collections/", token,
		fiber.Map{"name": "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/collections/", token,
		fiber.Map{"name": "Stuff", "type": "podcast"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateCollection_DefaultsToMovieType(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")

	collection := createCollection(t, app, token, "Untyped", "")
	assert.Equal(t, models.MediaTypeMovie, collection.Type)
}

func TestGetCollections_ReturnsOwnInPositionOrder(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")
	_, otherToken := createTestUser(t, s, "b@example.com", "bob")

	createCollection(t, app, token, "Mine", "movie")
	createCollection(t, app, otherToken, "Theirs", "movie")

	var collections []models.Collection
	resp := doJSON(t, app, http.MethodGet, "/api/collections/", token, nil, &collections)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, collections, 1)
	assert.Equal(t, "Mine", collections[0].Name)
}

func TestGetCollection_ForeignReadsAsNotFound(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")
	_, otherToken := createTestUser(t, s, "b@example.com", "bob")

	foreign := createCollection(t, app, otherToken, "Theirs", "movie")

	resp := doJSON(t, app, http.MethodGet, "/api/collections/"+foreign.ID, token, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/collections/"+foreign.ID, token, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteCollection_CascadesItems(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")

	collection := createCollection(t, app, token, "Doomed", "movie")
	item := addItem(t, app, token, collection.ID, fiber.Map{
		"externalId": "603", "type": "movie", "title": "The Matrix",
	})

	resp := doJSON(t, app, http.MethodDelete, "/api/collections/"+collection.ID, token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	orphan, err := s.itemRepo.GetByID(t.Context(), item.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan)
}

func TestCollections_RequireAuth(t *testing.T) {
	_, app := setupTestServer(t)

	resp := doJSON(t, app, http.MethodGet, "/api/collections/", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
