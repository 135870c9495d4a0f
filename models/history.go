package models

import "time"

// DecisionRecord is the append-only history row for one evaluated restore
// decision. Fields are deliberately flat numbers and strings so records
// serialize cleanly to Mongo/JSON and feed the similarity vector directly.
type DecisionRecord struct {
	ID        string    `json:"id" bson:"id"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`

	ScenarioID   string `json:"scenario_id,omitempty" bson:"scenario_id,omitempty"`
	StrategyName string `json:"strategy_name,omitempty" bson:"strategy_name,omitempty"`
	Tier         string `json:"tier" bson:"tier"`
	Destination  string `json:"destination" bson:"destination"`

	SizeGB        float64 `json:"size_gb" bson:"size_gb"`
	BandwidthMbps float64 `json:"bandwidth_mbps" bson:"bandwidth_mbps"`
	Efficiency    float64 `json:"efficiency" bson:"efficiency"`
	RTOHours      float64 `json:"rto_hours" bson:"rto_hours"`

	TotalTimeHours        float64 `json:"total_time_hours" bson:"total_time_hours"`
	EndToEndDowntimeHours float64 `json:"end_to_end_downtime_hours" bson:"end_to_end_downtime_hours"`
	RTOMissHours          float64 `json:"rto_miss_hours" bson:"rto_miss_hours"`
	TotalCostUSD          float64 `json:"total_cost_usd" bson:"total_cost_usd"`
	MonthlyStorageUSD     float64 `json:"monthly_storage_usd" bson:"monthly_storage_usd"`
	CostPerMinuteOutage   float64 `json:"cost_per_minute_outage" bson:"cost_per_minute_outage"`
	DowntimeLossUSD       float64 `json:"downtime_loss_usd" bson:"downtime_loss_usd"`

	IncidentFrequencyPerYear float64 `json:"incident_frequency_per_year" bson:"incident_frequency_per_year"`
	PlanningHorizonYears     float64 `json:"planning_horizon_years" bson:"planning_horizon_years"`
	ExpectedHorizonLossUSD   float64 `json:"expected_horizon_loss_usd" bson:"expected_horizon_loss_usd"`
}

// FeatureVector flattens the record into the fixed-order numeric vector used
// for cosine-similarity lookup. Order must stay stable across releases or
// stored history becomes incomparable.
func (r DecisionRecord) FeatureVector() []float64 {
	return []float64{
		r.SizeGB,
		r.BandwidthMbps,
		r.Efficiency,
		r.RTOHours,
		r.TotalTimeHours,
		r.EndToEndDowntimeHours,
		r.RTOMissHours,
		r.TotalCostUSD,
		r.MonthlyStorageUSD,
		r.CostPerMinuteOutage,
		r.DowntimeLossUSD,
		r.IncidentFrequencyPerYear,
		r.PlanningHorizonYears,
		r.ExpectedHorizonLossUSD,
	}
}

// SimilarDecision pairs a historical record with its similarity score in (0, 1].
type SimilarDecision struct {
	Record     DecisionRecord `json:"record"`
	Similarity float64        `json:"similarity"`
}
