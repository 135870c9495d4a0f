package models

// DowntimeResult combines restore time with detection delay against the RTO.
type DowntimeResult struct {
	EndToEndDowntimeHours   float64 `json:"end_to_end_downtime_hours" yaml:"end_to_end_downtime_hours"`
	RestoreOnlyRTOMissHours float64 `json:"restore_only_rto_miss_hours" yaml:"restore_only_rto_miss_hours"`
	EndToEndRTOMissHours    float64 `json:"end_to_end_rto_miss_hours" yaml:"end_to_end_rto_miss_hours"`

	// ExactRTOMissHours is the end-to-end miss before display rounding.
	// Loss pricing multiplies this by cost per minute, so it must not
	// inherit the 2-decimal rounding of the fields above. Not serialized.
	ExactRTOMissHours float64 `json:"-" yaml:"-"`
}

// RiskResult translates downtime into money. DowntimeLossUSD is billed on
// end-to-end RTO-miss hours: time inside the recovery objective is planned
// for and carries no loss.
type RiskResult struct {
	DowntimeLossUSD              float64 `json:"downtime_loss_usd" yaml:"downtime_loss_usd"`
	ExpectedRegulatoryPenaltyUSD float64 `json:"expected_regulatory_penalty_usd" yaml:"expected_regulatory_penalty_usd"`
	TotalRiskPerEventUSD         float64 `json:"total_risk_per_event_usd" yaml:"total_risk_per_event_usd"`
	ExpectedRiskOverHorizonUSD   float64 `json:"expected_risk_over_horizon_usd" yaml:"expected_risk_over_horizon_usd"`
}

// StrategyEvaluation is the full pipeline output for one strategy.
type StrategyEvaluation struct {
	StrategyName string         `json:"strategy_name" yaml:"strategy_name"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
	Profile      RestoreProfile `json:"profile" yaml:"profile"`
	Restore      RestoreResult  `json:"restore" yaml:"restore"`
	Downtime     DowntimeResult `json:"downtime" yaml:"downtime"`
	Risk         RiskResult     `json:"risk" yaml:"risk"`
}

// ScenarioEvaluation is what a scenario run hands to the presentation layer:
// per-strategy evaluations in declaration order plus the ranking.
type ScenarioEvaluation struct {
	ScenarioID   string               `json:"scenario_id" yaml:"scenario_id"`
	ScenarioName string               `json:"scenario_name" yaml:"scenario_name"`
	BusinessUnit string               `json:"business_unit,omitempty" yaml:"business_unit,omitempty"`
	Parameters   ScenarioParameters   `json:"parameters" yaml:"parameters"`
	Evaluations  []StrategyEvaluation `json:"evaluations" yaml:"evaluations"`
	Ranking      []RankedStrategy     `json:"ranking" yaml:"ranking"`
	Narrative    *string              `json:"narrative,omitempty" yaml:"narrative,omitempty"`
}
