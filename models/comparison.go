package models

// ComparisonRow holds signed deltas between two evaluated strategies.
// Sign convention for every delta column: B's value minus A's value.
// A negative cost or time delta therefore always means "B is cheaper/faster".
type ComparisonRow struct {
	StrategyA string `json:"strategy_a" yaml:"strategy_a"`
	StrategyB string `json:"strategy_b" yaml:"strategy_b"`

	MonthlyStorageDeltaUSD float64 `json:"monthly_storage_delta_usd" yaml:"monthly_storage_delta_usd"`
	RestoreCostDeltaUSD    float64 `json:"restore_cost_delta_usd" yaml:"restore_cost_delta_usd"`
	RecoveryTimeDeltaHours float64 `json:"recovery_time_delta_hours" yaml:"recovery_time_delta_hours"`
	DowntimeDeltaHours     float64 `json:"downtime_delta_hours" yaml:"downtime_delta_hours"`
	DowntimeLossDeltaUSD   float64 `json:"downtime_loss_delta_usd" yaml:"downtime_loss_delta_usd"`
	HorizonRiskDeltaUSD    float64 `json:"horizon_risk_delta_usd" yaml:"horizon_risk_delta_usd"`

	Insights []string `json:"insights" yaml:"insights"`
}

// RankedStrategy is one row of the regret table, ordered ascending by
// per-event risk. The minimum-risk strategy has RegretUSD exactly 0.
type RankedStrategy struct {
	Rank                 int     `json:"rank" yaml:"rank"`
	StrategyName         string  `json:"strategy_name" yaml:"strategy_name"`
	TotalRiskPerEventUSD float64 `json:"total_risk_per_event_usd" yaml:"total_risk_per_event_usd"`
	RegretUSD            float64 `json:"regret_usd" yaml:"regret_usd"`
}
