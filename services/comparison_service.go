package services

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"permafrost/models"
	"permafrost/utils"
)

// ComparisonService evaluates all strategies of a scenario and derives
// rankings, regret, and pairwise deltas.
type ComparisonService struct {
	calc *CalculatorService
}

func NewComparisonService(calc *CalculatorService) *ComparisonService {
	return &ComparisonService{calc: calc}
}

// EvaluateScenario runs the calculator pipeline once per strategy. Strategies
// are independent, so they are evaluated concurrently; results come back in
// declaration order regardless of completion order. The first error aborts
// the whole evaluation with no partial output.
func (cs *ComparisonService) EvaluateScenario(scenario models.Scenario) ([]models.StrategyEvaluation, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	evals := make([]models.StrategyEvaluation, len(scenario.Strategies))
	errs := make([]error, len(scenario.Strategies))

	var wg sync.WaitGroup
	for i, strategy := range scenario.Strategies {
		wg.Add(1)
		go func(i int, strategy models.Strategy) {
			defer wg.Done()
			eval, err := cs.calc.EvaluateProfile(strategy.Profile, scenario.Parameters)
			if err != nil {
				errs[i] = fmt.Errorf("strategy %q: %w", strategy.Name, err)
				return
			}
			eval.StrategyName = strategy.Name
			eval.Description = strategy.Description
			evals[i] = eval
		}(i, strategy)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return evals, nil
}

// Compare builds the pairwise delta row for two evaluated strategies.
// Every delta is B minus A, so negative cost/time deltas always read as
// "B is cheaper" / "B is faster".
func (cs *ComparisonService) Compare(a, b models.StrategyEvaluation) models.ComparisonRow {
	row := models.ComparisonRow{
		StrategyA:              a.StrategyName,
		StrategyB:              b.StrategyName,
		MonthlyStorageDeltaUSD: utils.Round2(b.Restore.MonthlyStorageUSD - a.Restore.MonthlyStorageUSD),
		RestoreCostDeltaUSD:    utils.Round2(b.Restore.TotalCostUSD - a.Restore.TotalCostUSD),
		RecoveryTimeDeltaHours: utils.Round2(b.Restore.TotalTimeHours - a.Restore.TotalTimeHours),
		DowntimeDeltaHours:     utils.Round2(b.Downtime.EndToEndDowntimeHours - a.Downtime.EndToEndDowntimeHours),
		DowntimeLossDeltaUSD:   utils.Round2(b.Risk.DowntimeLossUSD - a.Risk.DowntimeLossUSD),
		HorizonRiskDeltaUSD:    utils.Round2(b.Risk.ExpectedRiskOverHorizonUSD - a.Risk.ExpectedRiskOverHorizonUSD),
	}
	row.Insights = buildInsights(row)
	return row
}

// CompareAll produces every ordered pair (i < j) in declaration order.
func (cs *ComparisonService) CompareAll(evals []models.StrategyEvaluation) []models.ComparisonRow {
	rows := make([]models.ComparisonRow, 0, len(evals)*(len(evals)-1)/2)
	for i := 0; i < len(evals); i++ {
		for j := i + 1; j < len(evals); j++ {
			rows = append(rows, cs.Compare(evals[i], evals[j]))
		}
	}
	return rows
}

// RankAndRegret orders evaluations ascending by per-event risk. Ties keep
// declaration order (stable sort), so the output is deterministic. Regret is
// the distance to the cheapest strategy; the minimum has regret exactly 0.
func (cs *ComparisonService) RankAndRegret(evals []models.StrategyEvaluation) []models.RankedStrategy {
	if len(evals) == 0 {
		return nil
	}

	ranked := make([]models.RankedStrategy, len(evals))
	for i, ev := range evals {
		ranked[i] = models.RankedStrategy{
			StrategyName:         ev.StrategyName,
			TotalRiskPerEventUSD: ev.Risk.TotalRiskPerEventUSD,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalRiskPerEventUSD < ranked[j].TotalRiskPerEventUSD
	})

	minRisk := ranked[0].TotalRiskPerEventUSD
	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].RegretUSD = utils.Round2(ranked[i].TotalRiskPerEventUSD - minRisk)
	}
	return ranked
}

func buildInsights(row models.ComparisonRow) []string {
	insights := make([]string, 0, 4)
	b := row.StrategyB

	switch {
	case almostZero(row.MonthlyStorageDeltaUSD):
		insights = append(insights, "Storage: same monthly cost.")
	case row.MonthlyStorageDeltaUSD < 0:
		insights = append(insights, fmt.Sprintf("Storage: %s saves $%.2f/month.", b, -row.MonthlyStorageDeltaUSD))
	default:
		insights = append(insights, fmt.Sprintf("Storage: %s costs $%.2f/month more.", b, row.MonthlyStorageDeltaUSD))
	}

	switch {
	case almostZero(row.RestoreCostDeltaUSD):
		insights = append(insights, "Restore event: same cost.")
	case row.RestoreCostDeltaUSD < 0:
		insights = append(insights, fmt.Sprintf("Restore event: %s is $%.2f cheaper.", b, -row.RestoreCostDeltaUSD))
	default:
		insights = append(insights, fmt.Sprintf("Restore event: %s is $%.2f more expensive.", b, row.RestoreCostDeltaUSD))
	}

	switch {
	case almostZero(row.RecoveryTimeDeltaHours):
		insights = append(insights, "Recovery time: same.")
	case row.RecoveryTimeDeltaHours < 0:
		insights = append(insights, fmt.Sprintf("Recovery time: %s is %.2fh faster.", b, -row.RecoveryTimeDeltaHours))
	default:
		insights = append(insights, fmt.Sprintf("Recovery time: %s is %.2fh slower.", b, row.RecoveryTimeDeltaHours))
	}

	switch {
	case almostZero(row.DowntimeLossDeltaUSD):
		insights = append(insights, "Downtime impact: same estimated value at risk per event.")
	case row.DowntimeLossDeltaUSD < 0:
		insights = append(insights, fmt.Sprintf("Downtime impact: %s reduces per-event downtime loss by $%.2f.", b, -row.DowntimeLossDeltaUSD))
	default:
		insights = append(insights, fmt.Sprintf("Downtime impact: %s increases per-event downtime loss by $%.2f.", b, row.DowntimeLossDeltaUSD))
	}

	return insights
}

func almostZero(v float64) bool {
	return math.Abs(v) < 1e-9
}
