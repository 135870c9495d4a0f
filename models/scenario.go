package models

// ScenarioParameters are the business-side inputs shared by every strategy
// in a scenario.
type ScenarioParameters struct {
	RTOMinutes                   float64 `json:"rto_minutes" yaml:"rto_minutes"`
	RPOMinutes                   float64 `json:"rpo_minutes" yaml:"rpo_minutes"`
	CostPerMinuteOutage          float64 `json:"cost_per_minute_outage" yaml:"cost_per_minute_outage"`
	DetectionDelayMinutes        float64 `json:"detection_delay_minutes" yaml:"detection_delay_minutes"`
	RegulatoryPenaltyProbability float64 `json:"regulatory_penalty_probability" yaml:"regulatory_penalty_probability"`
	RegulatoryPenaltyAmount      float64 `json:"regulatory_penalty_amount" yaml:"regulatory_penalty_amount"`
	IncidentFrequencyPerYear     float64 `json:"incident_frequency_per_year" yaml:"incident_frequency_per_year"`
	PlanningHorizonYears         float64 `json:"planning_horizon_years" yaml:"planning_horizon_years"`

	// DiscountRateAnnual is accepted and carried through serialization but
	// applied nowhere: the horizon expectation stays strictly linear in v1.
	DiscountRateAnnual float64 `json:"discount_rate_annual,omitempty" yaml:"discount_rate_annual,omitempty"`
}

// Validate checks numeric domains. Every field is a backstop check; the
// scenario loader is the primary validation layer.
func (sp ScenarioParameters) Validate() error {
	if sp.RTOMinutes < 0 {
		return &InvalidInputError{Field: "rto_minutes", Reason: "must be >= 0"}
	}
	if sp.RPOMinutes < 0 {
		return &InvalidInputError{Field: "rpo_minutes", Reason: "must be >= 0"}
	}
	if sp.CostPerMinuteOutage < 0 {
		return &InvalidInputError{Field: "cost_per_minute_outage", Reason: "must be >= 0"}
	}
	if sp.DetectionDelayMinutes < 0 {
		return &InvalidInputError{Field: "detection_delay_minutes", Reason: "must be >= 0"}
	}
	if sp.RegulatoryPenaltyProbability < 0 || sp.RegulatoryPenaltyProbability > 1 {
		return &InvalidInputError{Field: "regulatory_penalty_probability", Reason: "must be in [0, 1]"}
	}
	if sp.RegulatoryPenaltyAmount < 0 {
		return &InvalidInputError{Field: "regulatory_penalty_amount", Reason: "must be >= 0"}
	}
	if sp.IncidentFrequencyPerYear < 0 {
		return &InvalidInputError{Field: "incident_frequency_per_year", Reason: "must be >= 0"}
	}
	if sp.PlanningHorizonYears < 0 {
		return &InvalidInputError{Field: "planning_horizon_years", Reason: "must be >= 0"}
	}
	if sp.DiscountRateAnnual < 0 {
		return &InvalidInputError{Field: "discount_rate_annual", Reason: "must be >= 0"}
	}
	return nil
}

// Strategy is a named restore option inside a scenario.
type Strategy struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Profile     RestoreProfile `json:"profile" yaml:"profile"`
}

// Scenario groups alternative restore strategies under one set of business
// parameters. Strategies is a slice so declaration order survives YAML and
// JSON round-trips; name uniqueness is enforced by NewScenario.
type Scenario struct {
	ID           string             `json:"id" yaml:"id"`
	Name         string             `json:"name" yaml:"name"`
	BusinessUnit string             `json:"business_unit" yaml:"business_unit"`
	Parameters   ScenarioParameters `json:"parameters" yaml:"parameters"`
	Strategies   []Strategy         `json:"strategies" yaml:"strategies"`
}

// NewScenario validates structure and contents: at least one strategy,
// unique strategy names, in-domain parameters and profiles.
func NewScenario(id, name, businessUnit string, params ScenarioParameters, strategies []Strategy) (Scenario, error) {
	s := Scenario{
		ID:           id,
		Name:         name,
		BusinessUnit: businessUnit,
		Parameters:   params,
		Strategies:   strategies,
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Validate re-checks the scenario's structural invariants.
func (s Scenario) Validate() error {
	if s.ID == "" {
		return &ScenarioStructureError{Reason: "missing id"}
	}
	if len(s.Strategies) == 0 {
		return &ScenarioStructureError{ScenarioID: s.ID, Reason: "no strategies defined"}
	}
	seen := make(map[string]struct{}, len(s.Strategies))
	for _, st := range s.Strategies {
		if st.Name == "" {
			return &ScenarioStructureError{ScenarioID: s.ID, Reason: "strategy with empty name"}
		}
		if _, dup := seen[st.Name]; dup {
			return &ScenarioStructureError{ScenarioID: s.ID, Reason: "duplicate strategy name: " + st.Name}
		}
		seen[st.Name] = struct{}{}
		if err := st.Profile.Validate(); err != nil {
			return err
		}
	}
	return s.Parameters.Validate()
}

// Strategy returns the named strategy, preserving the slice as the single
// source of order.
func (s Scenario) Strategy(name string) (Strategy, bool) {
	for _, st := range s.Strategies {
		if st.Name == name {
			return st, true
		}
	}
	return Strategy{}, false
}
