package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"permafrost/models"
	"permafrost/services"
	"permafrost/utils"
)

// ScenarioHandlers serves the scenario catalog and runs evaluations and
// comparisons against it.
type ScenarioHandlers struct {
	scenarioService   *services.ScenarioService
	comparisonService *services.ComparisonService
	cache             *services.CacheService
	historyService    *services.HistoryService
	narrativeService  *services.NarrativeService
	alertService      *services.AlertService
}

func NewScenarioHandlers(
	scenarioService *services.ScenarioService,
	comparisonService *services.ComparisonService,
	cache *services.CacheService,
	historyService *services.HistoryService,
	narrativeService *services.NarrativeService,
	alertService *services.AlertService,
) *ScenarioHandlers {
	return &ScenarioHandlers{
		scenarioService:   scenarioService,
		comparisonService: comparisonService,
		cache:             cache,
		historyService:    historyService,
		narrativeService:  narrativeService,
		alertService:      alertService,
	}
}

// ListScenarios returns the catalog in load order.
func (sh *ScenarioHandlers) ListScenarios(c echo.Context) error {
	return c.JSON(http.StatusOK, sh.scenarioService.List())
}

// GetScenario returns one scenario by id.
func (sh *ScenarioHandlers) GetScenario(c echo.Context) error {
	scenario, ok := sh.scenarioService.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "scenario not found: " + c.Param("id")})
	}
	return c.JSON(http.StatusOK, scenario)
}

// EvaluateScenario runs the full pipeline for a catalog scenario.
// Supports ?format=csv|yaml|table and ?narrative=true.
func (sh *ScenarioHandlers) EvaluateScenario(c echo.Context) error {
	scenario, ok := sh.scenarioService.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "scenario not found: " + c.Param("id")})
	}
	return sh.respondEvaluation(c, scenario)
}

// EvaluateAdHoc runs the pipeline for a scenario posted in the request body,
// without touching the catalog.
func (sh *ScenarioHandlers) EvaluateAdHoc(c echo.Context) error {
	var scenario models.Scenario
	if err := c.Bind(&scenario); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	parsed, err := services.ParseScenario(scenario)
	if err != nil {
		return domainError(c, err)
	}
	return sh.respondEvaluation(c, parsed)
}

// CompareStrategies compares strategies within one scenario. With ?a= and ?b=
// it returns a single delta row; without them, every ordered pair.
func (sh *ScenarioHandlers) CompareStrategies(c echo.Context) error {
	scenario, ok := sh.scenarioService.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "scenario not found: " + c.Param("id")})
	}

	eval, err := sh.evaluate(scenario)
	if err != nil {
		return domainError(c, err)
	}

	nameA := c.QueryParam("a")
	nameB := c.QueryParam("b")
	if nameA == "" && nameB == "" {
		return c.JSON(http.StatusOK, sh.comparisonService.CompareAll(eval.Evaluations))
	}

	var evalA, evalB *models.StrategyEvaluation
	for i := range eval.Evaluations {
		switch eval.Evaluations[i].StrategyName {
		case nameA:
			evalA = &eval.Evaluations[i]
		case nameB:
			evalB = &eval.Evaluations[i]
		}
	}
	if evalA == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown strategy: " + nameA})
	}
	if evalB == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown strategy: " + nameB})
	}

	return c.JSON(http.StatusOK, sh.comparisonService.Compare(*evalA, *evalB))
}

// evaluate runs the cache-wrapped pipeline and returns the full scenario
// evaluation. Side effects (history, alert checks) only run on cache misses,
// so repeated reads do not multiply history rows.
func (sh *ScenarioHandlers) evaluate(scenario models.Scenario) (*models.ScenarioEvaluation, error) {
	key := services.ScenarioKey(scenario)
	if cached, ok := sh.cache.GetScenarioEvaluation(key); ok {
		return cached, nil
	}

	evals, err := sh.comparisonService.EvaluateScenario(scenario)
	if err != nil {
		return nil, err
	}

	eval := &models.ScenarioEvaluation{
		ScenarioID:   scenario.ID,
		ScenarioName: scenario.Name,
		BusinessUnit: scenario.BusinessUnit,
		Parameters:   scenario.Parameters,
		Evaluations:  evals,
		Ranking:      sh.comparisonService.RankAndRegret(evals),
	}
	sh.cache.SetScenarioEvaluation(key, eval)

	for _, se := range evals {
		sh.historyService.RecordEvaluation(scenario.ID, scenario.Parameters, se)
	}
	sh.alertService.CheckEvaluations(scenario.ID, evals)

	return eval, nil
}

func (sh *ScenarioHandlers) respondEvaluation(c echo.Context, scenario models.Scenario) error {
	eval, err := sh.evaluate(scenario)
	if err != nil {
		return domainError(c, err)
	}

	if wantNarrative, _ := strconv.ParseBool(c.QueryParam("narrative")); wantNarrative {
		eval.Narrative = sh.narrativeService.Generate(c.Request().Context(), *eval)
	}

	switch formatParam(c) {
	case utils.FormatCSV:
		data, err := utils.EvaluationsCSV(eval.Evaluations)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.Blob(http.StatusOK, "text/csv", data)
	case utils.FormatTable:
		return c.String(http.StatusOK, utils.RankingTable(eval.Ranking))
	case utils.FormatYAML:
		data, err := utils.RenderYAML(eval)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.Blob(http.StatusOK, "application/x-yaml", data)
	default:
		return c.JSON(http.StatusOK, eval)
	}
}
