package server

import (
	"context"
	"strings"

	"tasteid/internal/cache"
	"tasteid/internal/models"

	"github.com/gofiber/fiber/v2"
)

// nextFreePosition returns the lowest grid slot in [0, MaxCollections) absent
// from used, or -1 when the grid is full. Deletes leave gaps behind, so this
// must scan the used set; a count-based allocation would hand out duplicates.
func nextFreePosition(used []int) int {
	occupied := make(map[int]bool, len(used))
	for _, p := range used {
		occupied[p] = true
	}
	for p := 0; p < models.MaxCollections; p++ {
		if !occupied[p] {
			return p
		}
	}
	return -1
}

// allocateSlot finds the next free grid slot for the user, enforcing the
// nine-collection cap.
func (s *Server) allocateSlot(ctx context.Context, userID string) (int, error) {
	used, err := s.collectionRepo.UsedPositions(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(used) >= models.MaxCollections {
		return 0, models.NewCapacityError("Collection limit reached")
	}
	pos := nextFreePosition(used)
	if pos < 0 {
		return 0, models.NewCapacityError("Collection limit reached")
	}
	return pos, nil
}

// getOwnedCollection loads the collection and verifies ownership. Foreign
// collections read as NotFound so their existence is never confirmed.
func (s *Server) getOwnedCollection(ctx context.Context, userID, collectionID string) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if collection.UserID != userID {
		return nil, models.NewNotFoundError("Collection", collectionID)
	}
	return collection, nil
}

// CreateCollection handles POST /api/collections
func (s *Server) CreateCollection(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Collection name is required"))
	}

	collectionType := models.MediaTypeMovie
	if req.Type != "" {
		collectionType = models.MediaType(req.Type)
		if !models.ValidMediaType(collectionType) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid collection type"))
		}
	}

	position, err := s.allocateSlot(ctx, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	collection := &models.Collection{
		UserID:   userID,
		Name:     name,
		Type:     collectionType,
		Position: position,
		Items:    []models.Item{},
	}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	s.invalidateProfile(ctx, userID)
	return c.Status(fiber.StatusCreated).JSON(collection)
}

// GetCollections handles GET /api/collections
func (s *Server) GetCollections(c *fiber.Ctx) error {
	collections, err := s.collectionRepo.GetByUser(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(collections)
}

// GetCollection handles GET /api/collections/:id
func (s *Server) GetCollection(c *fiber.Ctx) error {
	collection, err := s.getOwnedCollection(c.Context(), currentUserID(c), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(collection)
}

// DeleteCollection handles DELETE /api/collections/:id. Items cascade; other
// collections keep their grid slots.
func (s *Server) DeleteCollection(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	collection, err := s.getOwnedCollection(ctx, userID, c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.collectionRepo.Delete(ctx, collection.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	s.invalidateProfile(ctx, userID)
	return c.JSON(fiber.Map{"success": true})
}

// invalidateProfile drops the cached public profile after a write.
func (s *Server) invalidateProfile(ctx context.Context, userID string) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return
	}
	cache.Invalidate(ctx, profileCacheKey(user.Username))
}
