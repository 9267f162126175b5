package server

import (
	"context"

	"tasteid/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetSavedItems handles GET /api/saved-items, newest first.
func (s *Server) GetSavedItems(c *fiber.Ctx) error {
	items, err := s.savedItemRepo.ListByUser(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(items)
}

// SaveItem handles POST /api/saved-items — the right-swipe save path.
func (s *Server) SaveItem(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := req.validate(); err != nil {
		return models.RespondWithAppError(c, err)
	}

	item, err := s.saveItemForUser(ctx, userID, &req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.invalidateProfile(ctx, userID)
	return c.JSON(item)
}

// DeleteSavedItem handles DELETE /api/saved-items/:id. Removing a saved item
// does not touch any collection item mirroring it.
func (s *Server) DeleteSavedItem(c *fiber.Ctx) error {
	id := c.Params("id")
	deleted, err := s.savedItemRepo.Delete(c.Context(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if !deleted {
		return models.RespondWithAppError(c, models.NewNotFoundError("Saved item", id))
	}
	return c.JSON(fiber.Map{"success": true})
}

// saveItemForUser routes a liked item into the user's "My Likes" collection
// and the saved-item lookup table:
//
//  1. Find or create "My Likes". Creation uses the standard slot allocation;
//     a full grid aborts the whole save with a capacity error.
//  2. An item already in the collection for (externalId, type) short-circuits
//     unchanged — no duplicate collection entries.
//  3. Otherwise the item is appended with the usual cover-on-first-item rule.
//  4. The SavedItem row is upserted unconditionally, even after a
//     short-circuit, so it always carries the latest metadata.
func (s *Server) saveItemForUser(ctx context.Context, userID string, req *itemRequest) (*models.Item, error) {
	likes, err := s.collectionRepo.GetByUserAndName(ctx, userID, models.LikesCollectionName)
	if err != nil {
		return nil, err
	}
	if likes == nil {
		position, err := s.allocateSlot(ctx, userID)
		if err != nil {
			return nil, err
		}
		likes = &models.Collection{
			UserID:   userID,
			Name:     models.LikesCollectionName,
			Type:     models.MediaTypeMovie, // default; holds mixed content
			Position: position,
		}
		if err := s.collectionRepo.Create(ctx, likes); err != nil {
			return nil, err
		}
	}

	mediaType := models.MediaType(req.Type)
	item, err := s.itemRepo.FindInCollection(ctx, likes.ID, req.ExternalID, mediaType)
	if err != nil {
		return nil, err
	}

	if item == nil {
		count, err := s.itemRepo.CountByCollection(ctx, likes.ID)
		if err != nil {
			return nil, err
		}

		item = &models.Item{
			CollectionID: likes.ID,
			ExternalID:   req.ExternalID,
			Type:         mediaType,
			Title:        req.Title,
			Image:        req.Image,
			Year:         req.Year,
			Rating:       req.Rating,
			Metadata:     req.metadataString(),
			Position:     int(count),
		}
		if err := s.itemRepo.Create(ctx, item); err != nil {
			return nil, err
		}

		if count == 0 && item.Image != nil {
			if err := s.collectionRepo.UpdateCoverImage(ctx, likes.ID, item.Image); err != nil {
				return nil, err
			}
		}
	}

	// Unconditional: refreshes the lookup row even when the collection item
	// already existed with older data.
	saved := &models.SavedItem{
		UserID:     userID,
		ExternalID: req.ExternalID,
		Type:       mediaType,
		Title:      req.Title,
		Image:      req.Image,
		Metadata:   req.metadataString(),
	}
	if err := s.savedItemRepo.Upsert(ctx, saved); err != nil {
		return nil, err
	}

	return item, nil
}

// saveSwipedItem is the swipe manager's side-effect callback. Only a right
// swipe persists anything; other directions are recorded by the session alone.
func (s *Server) saveSwipedItem(ctx context.Context, userID string, item models.Item, direction models.SwipeDirection) error {
	if direction != models.SwipeRight {
		return nil
	}

	req := &itemRequest{
		ExternalID: item.ExternalID,
		Type:       string(item.Type),
		Title:      item.Title,
		Image:      item.Image,
		Year:       item.Year,
		Rating:     item.Rating,
	}
	if item.Metadata != nil {
		req.Metadata = []byte(*item.Metadata)
	}

	_, err := s.saveItemForUser(ctx, userID, req)
	return err
}
