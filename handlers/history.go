package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"permafrost/models"
	"permafrost/services"
)

// HistoryHandlers serves the decision history and similarity lookup.
type HistoryHandlers struct {
	historyService *services.HistoryService
}

func NewHistoryHandlers(historyService *services.HistoryService) *HistoryHandlers {
	return &HistoryHandlers{
		historyService: historyService,
	}
}

// GetHistory returns recent decision records, newest first. When ?since=
// (and optionally ?until=, both RFC 3339) is present, the time window is
// returned instead, oldest first.
func (hh *HistoryHandlers) GetHistory(c echo.Context) error {
	if sinceStr := c.QueryParam("since"); sinceStr != "" {
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid since parameter, expected RFC 3339"})
		}
		until := time.Now().UTC()
		if untilStr := c.QueryParam("until"); untilStr != "" {
			if until, err = time.Parse(time.RFC3339, untilStr); err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid until parameter, expected RFC 3339"})
			}
		}
		records := hh.historyService.GetHistoryRange(since, until)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"count":   len(records),
			"records": records,
		})
	}

	limit := 50
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	records := hh.historyService.GetHistory(limit)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}

// FindSimilar returns the historical decisions closest to a posted record,
// scored by cosine similarity over the numeric feature vector. ?k= bounds
// the result count (default 3).
func (hh *HistoryHandlers) FindSimilar(c echo.Context) error {
	var record models.DecisionRecord
	if err := c.Bind(&record); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	k := 3
	if kStr := c.QueryParam("k"); kStr != "" {
		if parsed, err := strconv.Atoi(kStr); err == nil && parsed > 0 {
			k = parsed
		}
	}

	similar := hh.historyService.FindSimilar(record, k)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":   len(similar),
		"matches": similar,
	})
}
