package server

import (
	"net/http"
	"testing"

	"tasteid/internal/models"
	"tasteid/internal/swipe"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSwipeSession(t *testing.T, app *fiber.App, token, collectionID string) swipe.Snapshot {
	t.Helper()

	var state swipe.Snapshot
	resp := doJSON(t, app, http.MethodPost, "/api/swipe/open/"+collectionID, token, nil, &state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return state
}

func TestOpenSwipe_StartsAtFirstItem(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")
	collection := createCollection(t, app, token, "Deck", "movie")
	addItem(t, app, token, collection.ID, movieBody("1", "A", ""))
	addItem(t, app, token, collection.ID, movieBody("2", "B", ""))

	state := openSwipeSession(t, app, token, collection.ID)
	assert.True(t, state.Active)
	assert.Equal(t, 1, state.Current)
	assert.Equal(t, 2, state.Total)
	require.NotNil(t, state.CurrentItem)
	assert.Equal(t, "A", state.CurrentItem.Title)
}

func TestOpenSwipe_EmptyCollectionRejected(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")
	collection := createCollection(t, app, token, "Empty", "movie")

	resp := doJSON(t, app, http.MethodPost, "/api/swipe/open/"+collection.ID, token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOpenSwipe_ForeignCollectionIsNotFound(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")
	_, otherToken := createTestUser(t, s, "b@example.com", "bob")
	foreign := createCollection(t, app, otherToken, "Theirs", "movie")
	addItem(t, app, otherToken, foreign.ID, movieBody("1", "A", ""))

	resp := doJSON(t, app, http.MethodPost, "/api/swipe/open/"+foreign.ID, token, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSwipe_RightSavesToLikes(t *testing.T) {
	s, app := setupTestServer(t)
	user, token := createTestUser(t, s, "a@example.com", "alice")
	collection := createCollection(t, app, token, "Deck", "movie")
	addItem(t, app, token, collection.ID, movieBody("603", "The Matrix", "https://img/matrix.jpg"))
	addItem(t, app, token, collection.ID, movieBody("604", "Reloaded", ""))

	openSwipeSession(t, app, token, collection.ID)

	var result struct {
		Swiped swipe.Action   `json:"swiped"`
		State  swipe.Snapshot `json:"state"`
	}
	resp := doJSON(t, app, http.MethodPost, "/api/swipe/", token,
		fiber.Map{"direction": "right"}, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.SwipeRight, result.Swiped.Direction)
	assert.Equal(t, "The Matrix", result.Swiped.Item.Title)
	assert.Equal(t, 2, result.State.Current)

	likes := likesCollection(t, s, user.ID)
	require.Len(t, likes.Items, 1)
	assert.Equal(t, "603", likes.Items[0].ExternalID)

	saved, err := s.savedItemRepo.ListByUser(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestSwipe_LeftAndDownDoNotSave(t *testing.T) {
	s, app := setupTestServer(t)
	user, token := createTestUser(t, s, "a@example.com", "alice")
	collection := createCollection(t, app, token, "Deck", "movie")
	addItem(t, app, token, collection.ID, movieBody("1", "A", ""))
	addItem(t, app, token, collection.ID, movieBody("2", "B", ""))

	openSwipeSession(t, app, token, collection.ID)

	doJSON(t, app, http.MethodPost, "/api/swipe/", token, fiber.Map{"direction": "left"}, nil)
	doJSON(t, app, http.MethodPost, "/api/swipe/", token, fiber.Map{"direction": "down"}, nil)

	saved, err := s.savedItemRepo.ListByUser(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, saved)

	likes, err := s.collectionRepo.GetByUserAndName(t.Context(), user.ID, models.LikesCollectionName)
	require.NoError(t, err)
	assert.Nil(t, likes)
}

func TestSwipe_InvalidDirectionRejected(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")
	collection := createCollection(t, app, token, "Deck", "movie")
	addItem(t, app, token, collection.ID, movieBody("1", "A", ""))
	openSwipeSession(t, app, token, collection.ID)

	resp := doJSON(t, app, http.MethodPost, "/api/swipe/", token,
		fiber.Map{"direction": "up"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSwipe_WithoutSessionRejected(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")

	resp := doJSON(t, app, http.MethodPost, "/api/swipe/", token,
		fiber.Map{"direction": "left"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSwipe_ExhaustionClosesSession(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")
	collection := createCollection(t, app, token, "Deck", "movie")
	addItem(t, app, token, collection.ID, movieBody("1", "Only", ""))

	openSwipeSession(t, app, token, collection.ID)

	var result struct {
		State swipe.Snapshot `json:"state"`
	}
	doJSON(t, app, http.MethodPost, "/api/swipe/", token, fiber.Map{"direction": "left"}, &result)
	assert.False(t, result.State.Active)
}

func TestUndoSwipe(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")
	collection := createCollection(t, app, token, "Deck", "movie")
	addItem(t, app, token, collection.ID, movieBody("1", "A", ""))
	addItem(t, app, token, collection.ID, movieBody("2", "B", ""))

	// Nothing to undo yet.
	resp := doJSON(t, app, http.MethodPost, "/api/swipe/undo", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	openSwipeSession(t, app, token, collection.ID)
	doJSON(t, app, http.MethodPost, "/api/swipe/", token, fiber.Map{"direction": "left"}, nil)

	var state swipe.Snapshot
	resp = doJSON(t, app, http.MethodPost, "/api/swipe/undo", token, nil, &state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, state.Current)
	assert.Equal(t, 0, state.Swipes)
}

func TestCloseSwipe_IsIdempotent(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")
	collection := createCollection(t, app, token, "Deck", "movie")
	addItem(t, app, token, collection.ID, movieBody("1", "A", ""))

	openSwipeSession(t, app, token, collection.ID)

	resp := doJSON(t, app, http.MethodPost, "/api/swipe/close", token, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, http.MethodPost, "/api/swipe/close", token, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var state swipe.Snapshot
	doJSON(t, app, http.MethodGet, "/api/swipe/", token, nil, &state)
	assert.False(t, state.Active)
}

func TestGetSwipeState_IdleByDefault(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "a@example.com", "alice")

	var state swipe.Snapshot
	resp := doJSON(t, app, http.MethodGet, "/api/swipe/", token, nil, &state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, state.Active)
	assert.Equal(t, 0, state.Total)
}
