package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"permafrost/services"
)

type CacheHandlers struct {
	cache *services.CacheService
}

func NewCacheHandlers(cache *services.CacheService) *CacheHandlers {
	return &CacheHandlers{
		cache: cache,
	}
}

// GetCacheStatus returns cache mode and hit/miss statistics.
func (h *CacheHandlers) GetCacheStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.cache.Status())
}

// ClearCache drops all cached evaluations (admin endpoint).
func (h *CacheHandlers) ClearCache(c echo.Context) error {
	if err := h.cache.Clear(); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Cache cleared successfully",
	})
}
