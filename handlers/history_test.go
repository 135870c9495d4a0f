package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permafrost/models"
	"permafrost/services"
)

func newTestHistoryHandlers() (*HistoryHandlers, *services.HistoryService) {
	hs := services.NewHistoryService(nil)
	return NewHistoryHandlers(hs), hs
}

func getHistory(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetHistoryTimeWindow(t *testing.T) {
	hh, hs := newTestHistoryHandlers()
	e := echo.New()

	first := hs.Record(models.DecisionRecord{StrategyName: "glacier_intra"})
	hs.Record(models.DecisionRecord{StrategyName: "deep_archive_intra"})

	// RFC 3339 formatting truncates sub-second precision, so the parsed
	// window starts at or before the first record.
	since := first.Timestamp.Format(time.RFC3339)
	c, rec := getHistory(e, "/api/history?since="+since)
	require.NoError(t, hh.GetHistory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count   int                     `json:"count"`
		Records []models.DecisionRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "glacier_intra", body.Records[0].StrategyName)

	// A window entirely in the future matches nothing.
	future := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	c, rec = getHistory(e, "/api/history?since="+future)
	require.NoError(t, hh.GetHistory(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Count)
}

func TestGetHistoryRejectsBadTimeWindow(t *testing.T) {
	hh, _ := newTestHistoryHandlers()
	e := echo.New()

	c, rec := getHistory(e, "/api/history?since=yesterday")
	require.NoError(t, hh.GetHistory(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = getHistory(e, "/api/history?since=2026-08-01T00:00:00Z&until=later")
	require.NoError(t, hh.GetHistory(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
