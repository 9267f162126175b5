package server

import (
	"github.com/gofiber/fiber/v2"

	"tasteid/internal/models"
)

// OpenSwipe handles POST /api/swipe/open/:collectionId. Any previous session
// for the caller is replaced.
func (s *Server) OpenSwipe(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	collection, err := s.getOwnedCollection(ctx, userID, c.Params("collectionId"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if !s.swipes.Open(userID, collection) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Collection has no items to swipe"))
	}

	return c.JSON(s.swipes.State(userID))
}

// Swipe handles POST /api/swipe. A right swipe saves the current item; the
// deck advances either way.
func (s *Server) Swipe(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Direction string `json:"direction"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	direction := models.SwipeDirection(req.Direction)
	if !models.ValidSwipeDirection(direction) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid swipe direction"))
	}

	action, ok := s.swipes.Swipe(c.Context(), userID, direction)
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No active swipe session"))
	}

	return c.JSON(fiber.Map{
		"swiped": action,
		"state":  s.swipes.State(userID),
	})
}

// UndoSwipe handles POST /api/swipe/undo
func (s *Server) UndoSwipe(c *fiber.Ctx) error {
	userID := currentUserID(c)

	if !s.swipes.Undo(userID) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Nothing to undo"))
	}

	return c.JSON(s.swipes.State(userID))
}

// CloseSwipe handles POST /api/swipe/close. Closing an already-closed session
// is a no-op.
func (s *Server) CloseSwipe(c *fiber.Ctx) error {
	s.swipes.Close(currentUserID(c))
	return c.JSON(fiber.Map{"success": true})
}

// GetSwipeState handles GET /api/swipe
func (s *Server) GetSwipeState(c *fiber.Ctx) error {
	return c.JSON(s.swipes.State(currentUserID(c)))
}
