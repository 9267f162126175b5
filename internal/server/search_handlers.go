package server

import (
	"fmt"
	"strings"
	"time"

	"tasteid/internal/cache"
	"tasteid/internal/models"

	"github.com/gofiber/fiber/v2"
)

const searchCacheTTL = time.Hour

// Search handles GET /api/search/:domain?q=. Results are cached per domain
// and normalized query since upstream catalogs change slowly.
func (s *Server) Search(c *fiber.Ctx) error {
	domain := c.Params("domain")
	provider, ok := s.search.Lookup(domain)
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Search domain", domain))
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Query parameter q is required"))
	}

	ctx := c.Context()
	key := fmt.Sprintf("search:%s:%s", domain, strings.ToLower(query))

	var results []models.SearchResult
	err := cache.CacheAside(ctx, key, &results, searchCacheTTL, func() error {
		results = provider.Search(ctx, query)
		return nil
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	return c.JSON(fiber.Map{
		"domain":  domain,
		"query":   query,
		"results": results,
	})
}
