package server

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"tasteid/internal/cache"
	"tasteid/internal/models"

	"github.com/gofiber/fiber/v2"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)

const profileCacheTTL = 5 * time.Minute

func profileCacheKey(username string) string {
	return fmt.Sprintf("profile:%s", username)
}

// GetMyProfile handles GET /api/users/me. Collections and their items are
// returned in position order.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByIDWithCollections(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Name        *string `json:"name"`
		Bio         *string `json:"bio"`
		AccentColor string  `json:"accentColor"`
		BgTexture   string  `json:"bgTexture"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(ctx, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	// Update fields if provided
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.AccentColor != "" {
		user.AccentColor = req.AccentColor
	}
	if req.BgTexture != "" {
		texture := models.Texture(req.BgTexture)
		if !models.ValidTexture(texture) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid background texture"))
		}
		user.BgTexture = texture
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	cache.Invalidate(ctx, profileCacheKey(user.Username))
	return c.JSON(user)
}

// CompleteOnboarding handles POST /api/users/me/onboarding. It claims the
// chosen username, marks onboarding done, and creates the three default
// collections when the user has none yet.
func (s *Server) CompleteOnboarding(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req struct {
		Username    string `json:"username"`
		Bio         string `json:"bio"`
		AccentColor string `json:"accentColor"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if !usernamePattern.MatchString(req.Username) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid username. Use 3-20 lowercase letters, numbers, or underscores."))
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	// Reject a username held by anyone else; re-claiming your own is fine.
	if req.Username != user.Username {
		taken, err := s.userRepo.UsernameTaken(ctx, req.Username)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if taken {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Username is already taken"))
		}
	}

	oldUsername := user.Username
	user.Username = req.Username
	if bio := strings.TrimSpace(req.Bio); bio != "" {
		user.Bio = &bio
	}
	if req.AccentColor != "" {
		user.AccentColor = req.AccentColor
	}
	user.OnboardingCompleted = true

	if err := s.userRepo.Update(ctx, user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	// First onboarding seeds the default grid.
	count, err := s.collectionRepo.CountByUser(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if count == 0 {
		defaults := []models.Collection{
			{UserID: userID, Name: "Favorites", Type: models.MediaTypeMixed, Position: 0},
			{UserID: userID, Name: "Watchlist", Type: models.MediaTypeMovie, Position: 1},
			{UserID: userID, Name: "Playing", Type: models.MediaTypeGame, Position: 2},
		}
		for i := range defaults {
			if err := s.collectionRepo.Create(ctx, &defaults[i]); err != nil {
				return models.RespondWithError(c, fiber.StatusInternalServerError, err)
			}
		}
	}

	cache.Invalidate(ctx, profileCacheKey(oldUsername), profileCacheKey(user.Username))
	return c.JSON(user)
}

// CheckUsername handles GET /api/users/check-username?username=
func (s *Server) CheckUsername(c *fiber.Ctx) error {
	username := c.Query("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username is required"))
	}

	if !usernamePattern.MatchString(username) {
		return c.JSON(fiber.Map{
			"available": false,
			"error":     "Invalid username format",
		})
	}

	// The caller's own username counts as available to them.
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err == nil && user.Username == username {
		return c.JSON(fiber.Map{"available": true, "isCurrentUser": true})
	}

	taken, err := s.userRepo.UsernameTaken(c.Context(), username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{"available": !taken})
}

// GetProfile handles GET /api/users/:username. Profiles are public to any
// authenticated caller and cached briefly.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	username := c.Params("username")

	var user *models.User
	err := cache.CacheAside(ctx, profileCacheKey(username), &user, profileCacheTTL, func() error {
		u, err := s.userRepo.GetByUsernameWithCollections(ctx, username)
		if err != nil {
			return err
		}
		if u == nil {
			return models.NewNotFoundError("User", username)
		}
		u.Password = ""
		u.Email = ""
		user = u
		return nil
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(user)
}
