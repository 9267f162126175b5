package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tasteid/internal/config"
	"tasteid/internal/database"
	"tasteid/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServer builds a server over an in-memory SQLite database with the
// full route table mounted. Redis is absent; all cache paths fail open.
func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled :memory: DSN would hand each connection its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{JWTSecret: "test-secret"}
	s := New(cfg, db, nil)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// createTestUser persists a user and returns it with a valid bearer token.
func createTestUser(t *testing.T, s *Server, email, username string) (*models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:    email,
		Password: string(hashed),
		Username: username,
		Name:     "Test User",
	}
	require.NoError(t, s.userRepo.Create(t.Context(), user))

	token, err := s.generateToken(user.ID)
	require.NoError(t, err)
	return user, token
}

// doJSON performs a request with an optional body and bearer token, decoding
// the JSON response into out when non-nil.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// createCollection persists a collection through the API and returns it.
func createCollection(t *testing.T, app *fiber.App, token, name, mediaType string) models.Collection {
	t.Helper()

	var collection models.Collection
	resp := doJSON(t, app, http.MethodPost, "/api/collections/", token,
		fiber.Map{"name": name, "type": mediaType}, &collection)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return collection
}

// addItem persists an item through the API and returns it.
func addItem(t *testing.T, app *fiber.App, token, collectionID string, body fiber.Map) models.Item {
	t.Helper()

	var item models.Item
	resp := doJSON(t, app, http.MethodPost, "/api/collections/"+collectionID+"/items", token, body, &item)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return item
}
