package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permafrost/config"
	"permafrost/models"
	"permafrost/services"
)

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{Enabled: true, TTL: 60},
	}
}

func newTestScenarioHandlers(t *testing.T) *ScenarioHandlers {
	t.Helper()

	scenarioService := services.NewScenarioService("", nil)
	require.NoError(t, scenarioService.Load())

	calc := services.NewCalculatorService(services.NewPricingService(nil))
	return NewScenarioHandlers(
		scenarioService,
		services.NewComparisonService(calc),
		services.NewCacheService(testConfig()),
		services.NewHistoryService(nil),
		services.NewNarrativeService("", ""),
		services.NewAlertService(nil, nil),
	)
}

func TestListScenariosEndpoint(t *testing.T) {
	sh := newTestScenarioHandlers(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/scenarios", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, sh.ListScenarios(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var scenarios []models.Scenario
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scenarios))
	require.Len(t, scenarios, 4)
	assert.Equal(t, "ransomware", scenarios[0].ID)
}

func TestGetScenarioNotFound(t *testing.T) {
	sh := newTestScenarioHandlers(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("no-such-scenario")

	require.NoError(t, sh.GetScenario(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEvaluateScenarioEndpoint(t *testing.T) {
	sh := newTestScenarioHandlers(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("accidental_delete")

	require.NoError(t, sh.EvaluateScenario(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var eval models.ScenarioEvaluation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eval))

	assert.Equal(t, "accidental_delete", eval.ScenarioID)
	require.Len(t, eval.Evaluations, 2)
	assert.Equal(t, "glacier_intra", eval.Evaluations[0].StrategyName)
	assert.Equal(t, 6.61, eval.Evaluations[0].Restore.TotalTimeHours)
	require.Len(t, eval.Ranking, 2)
	assert.Equal(t, 0.0, eval.Ranking[0].RegretUSD)
	assert.Nil(t, eval.Narrative)
}

func TestEvaluateScenarioCSVFormat(t *testing.T) {
	sh := newTestScenarioHandlers(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/?format=csv", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("accidental_delete")

	require.NoError(t, sh.EvaluateScenario(c))
	require.Equal(t, http.StatusOK, rec.Code)

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "strategy,"))
	assert.True(t, strings.HasPrefix(lines[1], "glacier_intra,"))
}

func TestEvaluateAdHocScenario(t *testing.T) {
	sh := newTestScenarioHandlers(t)
	e := echo.New()

	body := `{
		"id": "adhoc", "name": "Ad hoc",
		"parameters": {"rto_minutes": 480, "cost_per_minute_outage": 100, "planning_horizon_years": 1},
		"strategies": [
			{"name": "only", "profile": {"tier": "glacier", "destination": "intra_aws", "size_gb": 2000, "bandwidth_mbps": 2000, "efficiency": 0.85}}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, sh.EvaluateAdHoc(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var eval models.ScenarioEvaluation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eval))
	assert.Equal(t, "adhoc", eval.ScenarioID)
	require.Len(t, eval.Evaluations, 1)
}

func TestEvaluateAdHocRejectsBrokenScenario(t *testing.T) {
	sh := newTestScenarioHandlers(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id": "empty", "strategies": []}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, sh.EvaluateAdHoc(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompareStrategiesEndpoint(t *testing.T) {
	sh := newTestScenarioHandlers(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/?a=glacier_intra&b=deep_archive_intra", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("accidental_delete")

	require.NoError(t, sh.CompareStrategies(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var row models.ComparisonRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	assert.Equal(t, "glacier_intra", row.StrategyA)
	assert.Equal(t, "deep_archive_intra", row.StrategyB)
	// Deep archive is slower (longer thaw) but cheaper to keep.
	assert.Positive(t, row.RecoveryTimeDeltaHours)
	assert.Negative(t, row.MonthlyStorageDeltaUSD)
	assert.Len(t, row.Insights, 4)
}

func TestCompareStrategiesUnknownName(t *testing.T) {
	sh := newTestScenarioHandlers(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/?a=glacier_intra&b=nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("accidental_delete")

	require.NoError(t, sh.CompareStrategies(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
