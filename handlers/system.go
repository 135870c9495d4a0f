package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"permafrost/services"
)

// SystemHandlers covers health and liveness.
type SystemHandlers struct {
	mongo     *services.MongoDBService
	cache     *services.CacheService
	narrative *services.NarrativeService
	discord   *services.DiscordBotService
	startedAt time.Time
}

func NewSystemHandlers(mongo *services.MongoDBService, cache *services.CacheService, narrative *services.NarrativeService, discord *services.DiscordBotService) *SystemHandlers {
	return &SystemHandlers{
		mongo:     mongo,
		cache:     cache,
		narrative: narrative,
		discord:   discord,
		startedAt: time.Now(),
	}
}

// Health reports service status. The engine itself is always healthy if the
// process is up; optional backends report their own state.
func (sh *SystemHandlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(sh.startedAt).Seconds()),
		"mongodb":        sh.mongo.Enabled(),
		"cache_mode":     string(sh.cache.GetCacheMode()),
		"narrative":      sh.narrative.Enabled(),
		"discord":        sh.discord.Enabled(),
	})
}
