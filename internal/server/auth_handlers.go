package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tasteid/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Signup handles POST /api/auth/signup. The username is derived from the
// email local part and disambiguated with a numeric suffix on collision.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email and password are required"))
	}

	// Check if user already exists
	existing, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("User already exists"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	username, err := s.deriveUsername(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	user := &models.User{
		Email:       req.Email,
		Password:    string(hashedPassword),
		Username:    username,
		Name:        req.Name,
		AccentColor: "#6366f1",
		BgTexture:   models.TextureGrain,
	}

	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// deriveUsername builds a username from the email local part: lowercased,
// stripped to [a-z0-9], padded to the 3-char minimum, and suffixed with the
// first free counter when taken.
func (s *Server) deriveUsername(ctx context.Context, email string) (string, error) {
	local, _, _ := strings.Cut(email, "@")

	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if len(base) < 3 {
		base = base + strings.Repeat("0", 3-len(base))
	}
	if len(base) > 20 {
		base = base[:20]
	}

	username := base
	for counter := 1; ; counter++ {
		taken, err := s.userRepo.UsernameTaken(ctx, username)
		if err != nil {
			return "", err
		}
		if !taken {
			return username, nil
		}
		suffix := strconv.Itoa(counter)
		if len(base)+len(suffix) > 20 {
			username = base[:20-len(suffix)] + suffix
		} else {
			username = base + suffix
		}
	}
}

// generateToken creates a JWT token for the given user ID
func (s *Server) generateToken(userID string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	// Tokens are valid for 7 days.
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iss": "tasteid-api",
		"aud": "tasteid-client",
		"exp": now.Add(time.Hour * 24 * 7).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
