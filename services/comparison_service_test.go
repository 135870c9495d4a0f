package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permafrost/models"
)

func newTestComparison() *ComparisonService {
	return NewComparisonService(newTestCalculator())
}

func testScenario(t *testing.T) models.Scenario {
	t.Helper()
	s, err := models.NewScenario(
		"unit-test", "Unit test scenario", "payments",
		models.ScenarioParameters{
			RTOMinutes:               8 * 60,
			CostPerMinuteOutage:      100,
			DetectionDelayMinutes:    20,
			IncidentFrequencyPerYear: 0.5,
			PlanningHorizonYears:     3,
		},
		[]models.Strategy{
			{Name: "glacier_intra", Profile: mustTestProfile(t, "glacier", "intra_aws", 2000, 2000, 0.85)},
			{Name: "deep_archive_intra", Profile: mustTestProfile(t, "deep_archive", "intra_aws", 2000, 2000, 0.85)},
		},
	)
	require.NoError(t, err)
	return s
}

func TestEvaluateScenarioPreservesDeclarationOrder(t *testing.T) {
	cs := newTestComparison()
	scenario := testScenario(t)

	for i := 0; i < 20; i++ {
		evals, err := cs.EvaluateScenario(scenario)
		require.NoError(t, err)
		require.Len(t, evals, 2)
		assert.Equal(t, "glacier_intra", evals[0].StrategyName)
		assert.Equal(t, "deep_archive_intra", evals[1].StrategyName)
	}
}

func TestEvaluateScenarioMatchesDirectEvaluation(t *testing.T) {
	cs := newTestComparison()
	scenario := testScenario(t)

	evals, err := cs.EvaluateScenario(scenario)
	require.NoError(t, err)

	for _, ev := range evals {
		strategy, ok := scenario.Strategy(ev.StrategyName)
		require.True(t, ok)

		direct, err := cs.calc.EvaluateProfile(strategy.Profile, scenario.Parameters)
		require.NoError(t, err)
		assert.Equal(t, direct.Restore, ev.Restore)
		assert.Equal(t, direct.Downtime, ev.Downtime)
		assert.Equal(t, direct.Risk, ev.Risk)
	}
}

func TestEvaluateScenarioFailsFastWithNoPartialOutput(t *testing.T) {
	cs := newTestComparison()
	scenario := testScenario(t)
	scenario.Strategies = append(scenario.Strategies, models.Strategy{
		Name: "tape_backup",
		Profile: models.RestoreProfile{
			Tier: "tape", Destination: models.DestinationIntraAWS,
			SizeGB: 2000, BandwidthMbps: 2000, Efficiency: 0.85,
		},
	})

	evals, err := cs.EvaluateScenario(scenario)
	require.Error(t, err)
	assert.Nil(t, evals)
	assert.Contains(t, err.Error(), "tape_backup")
}

func TestEvaluateScenarioRejectsStructuralErrors(t *testing.T) {
	cs := newTestComparison()

	_, err := cs.EvaluateScenario(models.Scenario{ID: "empty"})
	var structErr *models.ScenarioStructureError
	require.ErrorAs(t, err, &structErr)

	dup := testScenario(t)
	dup.Strategies[1].Name = dup.Strategies[0].Name
	_, err = cs.EvaluateScenario(dup)
	require.ErrorAs(t, err, &structErr)
	assert.Contains(t, err.Error(), "duplicate strategy name")
}

func TestCompareSignConvention(t *testing.T) {
	cs := newTestComparison()
	a := models.StrategyEvaluation{
		StrategyName: "a",
		Restore:      models.RestoreResult{MonthlyStorageUSD: 7.2, TotalCostUSD: 20, TotalTimeHours: 6.61},
		Downtime:     models.DowntimeResult{EndToEndDowntimeHours: 6.94},
		Risk:         models.RiskResult{DowntimeLossUSD: 100, ExpectedRiskOverHorizonUSD: 300},
	}
	b := models.StrategyEvaluation{
		StrategyName: "b",
		Restore:      models.RestoreResult{MonthlyStorageUSD: 1.98, TotalCostUSD: 40, TotalTimeHours: 14.53},
		Downtime:     models.DowntimeResult{EndToEndDowntimeHours: 14.86},
		Risk:         models.RiskResult{DowntimeLossUSD: 250, ExpectedRiskOverHorizonUSD: 750},
	}

	row := cs.Compare(a, b)
	assert.Equal(t, "a", row.StrategyA)
	assert.Equal(t, "b", row.StrategyB)
	// Deltas are B minus A: negative means B is cheaper/faster.
	assert.Equal(t, -5.22, row.MonthlyStorageDeltaUSD)
	assert.Equal(t, 20.0, row.RestoreCostDeltaUSD)
	assert.Equal(t, 7.92, row.RecoveryTimeDeltaHours)
	assert.Equal(t, 7.92, row.DowntimeDeltaHours)
	assert.Equal(t, 150.0, row.DowntimeLossDeltaUSD)
	assert.Equal(t, 450.0, row.HorizonRiskDeltaUSD)

	require.Len(t, row.Insights, 4)
	assert.Contains(t, row.Insights[0], "saves")
	assert.Contains(t, row.Insights[1], "more expensive")
	assert.Contains(t, row.Insights[2], "slower")
}

func TestCompareIdenticalStrategies(t *testing.T) {
	cs := newTestComparison()
	ev := models.StrategyEvaluation{
		StrategyName: "a",
		Restore:      models.RestoreResult{MonthlyStorageUSD: 7.2, TotalCostUSD: 20},
	}
	twin := ev
	twin.StrategyName = "b"

	row := cs.Compare(ev, twin)
	assert.Equal(t, 0.0, row.MonthlyStorageDeltaUSD)
	assert.Contains(t, row.Insights[0], "same monthly cost")
	assert.Contains(t, row.Insights[1], "same cost")
}

func TestCompareAllOrderedPairs(t *testing.T) {
	cs := newTestComparison()
	evals := []models.StrategyEvaluation{
		{StrategyName: "a"}, {StrategyName: "b"}, {StrategyName: "c"},
	}

	rows := cs.CompareAll(evals)
	require.Len(t, rows, 3)
	assert.Equal(t, "a", rows[0].StrategyA)
	assert.Equal(t, "b", rows[0].StrategyB)
	assert.Equal(t, "a", rows[1].StrategyA)
	assert.Equal(t, "c", rows[1].StrategyB)
	assert.Equal(t, "b", rows[2].StrategyA)
	assert.Equal(t, "c", rows[2].StrategyB)
}

func TestRankAndRegret(t *testing.T) {
	cs := newTestComparison()
	evals := []models.StrategyEvaluation{
		{StrategyName: "expensive", Risk: models.RiskResult{TotalRiskPerEventUSD: 500}},
		{StrategyName: "cheap", Risk: models.RiskResult{TotalRiskPerEventUSD: 100}},
		{StrategyName: "middle", Risk: models.RiskResult{TotalRiskPerEventUSD: 250}},
	}

	ranked := cs.RankAndRegret(evals)
	require.Len(t, ranked, 3)

	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "cheap", ranked[0].StrategyName)
	assert.Equal(t, 0.0, ranked[0].RegretUSD)

	assert.Equal(t, "middle", ranked[1].StrategyName)
	assert.Equal(t, 150.0, ranked[1].RegretUSD)

	assert.Equal(t, "expensive", ranked[2].StrategyName)
	assert.Equal(t, 400.0, ranked[2].RegretUSD)
}

func TestRankAndRegretTieKeepsDeclarationOrder(t *testing.T) {
	cs := newTestComparison()
	evals := []models.StrategyEvaluation{
		{StrategyName: "first", Risk: models.RiskResult{TotalRiskPerEventUSD: 100}},
		{StrategyName: "second", Risk: models.RiskResult{TotalRiskPerEventUSD: 100}},
	}

	ranked := cs.RankAndRegret(evals)
	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].StrategyName)
	assert.Equal(t, "second", ranked[1].StrategyName)
	assert.Equal(t, 0.0, ranked[0].RegretUSD)
	assert.Equal(t, 0.0, ranked[1].RegretUSD)
}

func TestRankAndRegretEmpty(t *testing.T) {
	cs := newTestComparison()
	assert.Nil(t, cs.RankAndRegret(nil))
}
