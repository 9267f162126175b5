package server

import (
	"context"
	"encoding/json"

	"tasteid/internal/models"

	"github.com/gofiber/fiber/v2"
)

// itemRequest carries the fields copied from a search result when adding or
// saving an item. Metadata is passed through opaquely as JSON.
type itemRequest struct {
	ExternalID string          `json:"externalId"`
	Type       string          `json:"type"`
	Title      string          `json:"title"`
	Image      *string         `json:"image"`
	Year       *string         `json:"year"`
	Rating     *float64        `json:"rating"`
	Review     *string         `json:"review"`
	Metadata   json.RawMessage `json:"metadata"`
}

func (r *itemRequest) validate() error {
	if r.ExternalID == "" || r.Title == "" {
		return models.NewValidationError("externalId and title are required")
	}
	if !models.ValidMediaType(models.MediaType(r.Type)) {
		return models.NewValidationError("Invalid item type")
	}
	return nil
}

// metadataString normalizes the raw metadata into the stored JSON string form.
func (r *itemRequest) metadataString() *string {
	if len(r.Metadata) == 0 || string(r.Metadata) == "null" {
		return nil
	}
	s := string(r.Metadata)
	return &s
}

// AddItem handles POST /api/collections/:id/items. The item is appended: its
// position is the current item count, which keeps positions dense since items
// are only ever appended or removed-and-reindexed. The first item with an
// image becomes the collection cover. Duplicates are permitted here; only the
// save-via-swipe path dedupes.
func (s *Server) AddItem(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	collection, err := s.getOwnedCollection(ctx, userID, c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := req.validate(); err != nil {
		return models.RespondWithAppError(c, err)
	}

	count, err := s.itemRepo.CountByCollection(ctx, collection.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	item := &models.Item{
		CollectionID: collection.ID,
		ExternalID:   req.ExternalID,
		Type:         models.MediaType(req.Type),
		Title:        req.Title,
		Image:        req.Image,
		Year:         req.Year,
		Rating:       req.Rating,
		Review:       req.Review,
		Metadata:     req.metadataString(),
		Position:     int(count),
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	// First item with an image sets the cover; later adds never touch it.
	if count == 0 && item.Image != nil {
		if err := s.collectionRepo.UpdateCoverImage(ctx, collection.ID, item.Image); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	s.invalidateProfile(ctx, userID)
	return c.Status(fiber.StatusCreated).JSON(item)
}

// RemoveItem handles DELETE /api/collections/:id/items/:itemId. After the
// delete, sibling positions are rewritten to the dense 0..N-1 sequence and
// only then is the cover image re-derived from the new first item — reading
// the first item before reindexing completes would sync the cover against
// stale ordering.
func (s *Server) RemoveItem(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	collection, err := s.getOwnedCollection(ctx, userID, c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	itemID := c.Params("itemId")
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if item == nil || item.CollectionID != collection.ID {
		return models.RespondWithAppError(c,
			models.NewNotFoundError("Item", itemID))
	}

	if err := s.itemRepo.Delete(ctx, item.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if err := s.itemRepo.ReindexPositions(ctx, collection.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if err := s.resyncCoverImage(ctx, collection); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	s.invalidateProfile(ctx, userID)
	return c.JSON(fiber.Map{"success": true})
}

// resyncCoverImage rewrites the collection cover when it no longer matches the
// first item's image (nil when the collection emptied). The write is skipped
// when nothing changed.
func (s *Server) resyncCoverImage(ctx context.Context, collection *models.Collection) error {
	first, err := s.itemRepo.FirstByPosition(ctx, collection.ID)
	if err != nil {
		return err
	}

	var newCover *string
	if first != nil {
		newCover = first.Image
	}

	if !equalImage(collection.CoverImage, newCover) {
		return s.collectionRepo.UpdateCoverImage(ctx, collection.ID, newCover)
	}
	return nil
}

func equalImage(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
