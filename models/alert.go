package models

import "time"

// Alert metrics that rules can watch on each scenario evaluation.
const (
	AlertMetricRTOMissHours   = "end_to_end_rto_miss_hours"
	AlertMetricHorizonRiskUSD = "expected_risk_over_horizon_usd"
	AlertMetricEventRiskUSD   = "total_risk_per_event_usd"
)

// AlertRule fires when an evaluated strategy crosses a threshold.
type AlertRule struct {
	ID         string    `json:"id" bson:"id"`
	Name       string    `json:"name" bson:"name"`
	ScenarioID string    `json:"scenario_id,omitempty" bson:"scenario_id,omitempty"` // empty = all scenarios
	Metric     string    `json:"metric" bson:"metric"`
	Threshold  float64   `json:"threshold" bson:"threshold"`
	Enabled    bool      `json:"enabled" bson:"enabled"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// AlertEvent is one firing, kept in alert history.
type AlertEvent struct {
	RuleID       string    `json:"rule_id" bson:"rule_id"`
	RuleName     string    `json:"rule_name" bson:"rule_name"`
	ScenarioID   string    `json:"scenario_id" bson:"scenario_id"`
	StrategyName string    `json:"strategy_name" bson:"strategy_name"`
	Metric       string    `json:"metric" bson:"metric"`
	Threshold    float64   `json:"threshold" bson:"threshold"`
	Observed     float64   `json:"observed" bson:"observed"`
	Message      string    `json:"message" bson:"message"`
	Timestamp    time.Time `json:"timestamp" bson:"timestamp"`
}
