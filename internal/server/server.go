// Package server contains the HTTP surface of the TasteID API: route wiring,
// authentication, and the handlers that enforce the collection grid and item
// ordering invariants.
package server

import (
	"context"
	"strings"
	"time"

	"tasteid/internal/cache"
	"tasteid/internal/config"
	"tasteid/internal/database"
	"tasteid/internal/metadata"
	"tasteid/internal/metadata/anilist"
	"tasteid/internal/metadata/art"
	"tasteid/internal/metadata/books"
	"tasteid/internal/metadata/steam"
	"tasteid/internal/metadata/tmdb"
	"tasteid/internal/middleware"
	"tasteid/internal/models"
	"tasteid/internal/repository"
	"tasteid/internal/swipe"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	userRepo       repository.UserRepository
	collectionRepo repository.CollectionRepository
	itemRepo       repository.ItemRepository
	savedItemRepo  repository.SavedItemRepository
	search         *metadata.Registry
	swipes         *swipe.Manager
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)

	return New(cfg, db, cache.GetClient()), nil
}

// New wires a server around existing database and Redis handles. Tests use
// this directly with an in-memory database and a nil Redis client.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		userRepo:       repository.NewUserRepository(db),
		collectionRepo: repository.NewCollectionRepository(db),
		itemRepo:       repository.NewItemRepository(db),
		savedItemRepo:  repository.NewSavedItemRepository(db),
		search:         newSearchRegistry(cfg),
	}
	s.swipes = swipe.NewManager(s.saveSwipedItem, middleware.Logger)
	return s
}

// newSearchRegistry binds one provider per search domain.
func newSearchRegistry(cfg *config.Config) *metadata.Registry {
	logger := middleware.Logger

	tmdbClient := tmdb.NewClient(cfg.TMDBReadAccessToken, logger)
	anilistClient := anilist.NewClient(logger)

	registry := metadata.NewRegistry()
	registry.Register("movies", tmdb.Movies{Client: tmdbClient})
	registry.Register("tv", tmdb.TV{Client: tmdbClient})
	registry.Register("anime", anilist.Anime{Client: anilistClient})
	registry.Register("manga", anilist.Manga{Client: anilistClient})
	registry.Register("games", steam.NewClient(logger))
	registry.Register("books", books.NewClient(cfg.GoogleBooksKey, logger))
	registry.Register("art", art.NewClient(logger))
	return registry
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Request ID for tracing
	app.Use(requestid.New())

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware
	app.Use(middleware.StructuredLogger())

	// Prometheus metrics
	prometheus := fiberprometheus.New("tasteid")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	api.Get("/", s.HealthCheck)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Post("/me/onboarding", s.CompleteOnboarding)
	users.Get("/check-username", s.CheckUsername)
	// Generic /:username route must be last
	users.Get("/:username", s.GetProfile)

	// Collection routes
	collections := protected.Group("/collections")
	collections.Post("/", s.CreateCollection)
	collections.Get("/", s.GetCollections)
	collections.Post("/:id/items", s.AddItem)
	collections.Delete("/:id/items/:itemId", s.RemoveItem)
	collections.Get("/:id", s.GetCollection)
	collections.Delete("/:id", s.DeleteCollection)

	// Saved item routes
	saved := protected.Group("/saved-items")
	saved.Get("/", s.GetSavedItems)
	saved.Post("/", s.SaveItem)
	saved.Delete("/:id", s.DeleteSavedItem)

	// Swipe session routes
	swipes := protected.Group("/swipe")
	swipes.Get("/", s.GetSwipeState)
	swipes.Post("/open/:collectionId", s.OpenSwipe)
	swipes.Post("/", s.Swipe)
	swipes.Post("/undo", s.UndoSwipe)
	swipes.Post("/close", s.CloseSwipe)

	// Metadata search routes
	protected.Get("/search/:domain",
		middleware.RateLimit(s.redis, 30, time.Minute, "search"), s.Search)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": "ok",
		"db":     dbStatus,
		"redis":  redisStatus,
	})
}

// AuthRequired returns a middleware validating the Bearer JWT and storing the
// caller's user ID in c.Locals("userID").
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token subject"))
		}

		c.Locals("userID", sub)
		return c.Next()
	}
}

// currentUserID returns the authenticated user's ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) string {
	if uid, ok := c.Locals("userID").(string); ok {
		return uid
	}
	return ""
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
