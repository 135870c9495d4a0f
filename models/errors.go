package models

import "fmt"

// UnknownTierError is returned when a storage tier key is not present in the
// pricing table. The engine never falls back to a default tier.
type UnknownTierError struct {
	Tier string
}

func (e *UnknownTierError) Error() string {
	return fmt.Sprintf("unknown storage tier: %q", e.Tier)
}

// UnknownDestinationError is returned for an unrecognized restore destination.
type UnknownDestinationError struct {
	Destination string
}

func (e *UnknownDestinationError) Error() string {
	return fmt.Sprintf("unknown restore destination: %q", e.Destination)
}

// InvalidInputError is returned for numeric inputs outside their stated
// domain (non-positive size or bandwidth, efficiency outside (0,1],
// negative time or cost parameters, probability outside [0,1]).
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// ScenarioStructureError is returned when a scenario is structurally broken:
// no strategies, duplicate strategy names, or a missing required field.
// Primary validation lives in the scenario loader; the engine only re-checks
// defensively.
type ScenarioStructureError struct {
	ScenarioID string
	Reason     string
}

func (e *ScenarioStructureError) Error() string {
	if e.ScenarioID == "" {
		return fmt.Sprintf("invalid scenario: %s", e.Reason)
	}
	return fmt.Sprintf("invalid scenario %s: %s", e.ScenarioID, e.Reason)
}
