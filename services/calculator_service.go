package services

import (
	"math"

	"permafrost/models"
	"permafrost/utils"
)

// CalculatorService is the deterministic restore-economics pipeline:
// restore physics -> downtime -> risk. All methods are pure functions over
// their inputs; the only state is the injected pricing table.
type CalculatorService struct {
	pricing *PricingService
}

func NewCalculatorService(pricing *PricingService) *CalculatorService {
	return &CalculatorService{pricing: pricing}
}

// ComputeRestore converts one restore profile into time and cost estimates.
// Transfer time uses the 1 GB = 1e9 bytes convention: size in megabits
// divided by effective Mbps, divided by 3600 seconds per hour.
func (cs *CalculatorService) ComputeRestore(profile models.RestoreProfile) (models.RestoreResult, error) {
	if err := profile.Validate(); err != nil {
		return models.RestoreResult{}, err
	}

	tierPricing, err := cs.pricing.TierPricing(profile.Tier)
	if err != nil {
		return models.RestoreResult{}, err
	}
	egressRate, err := cs.pricing.EgressPerGB(profile.Destination)
	if err != nil {
		return models.RestoreResult{}, err
	}

	effectiveMbps := profile.BandwidthMbps * profile.Efficiency
	if effectiveMbps <= 0 {
		return models.RestoreResult{}, &models.InvalidInputError{
			Field:  "effective_throughput_mbps",
			Reason: "bandwidth_mbps * efficiency must be > 0",
		}
	}

	thawHours := tierPricing.ThawHours
	transferHours := (profile.SizeGB * 8000) / (effectiveMbps * 3600)

	retrievalCost := profile.SizeGB * tierPricing.RetrievalPerGB
	egressCost := profile.SizeGB * egressRate

	return models.RestoreResult{
		ThawTimeHours:     utils.Round2(thawHours),
		TransferTimeHours: utils.Round2(transferHours),
		TotalTimeHours:    utils.Round2(thawHours + transferHours),
		RetrievalCostUSD:  utils.Round2(retrievalCost),
		EgressCostUSD:     utils.Round2(egressCost),
		TotalCostUSD:      utils.Round2(retrievalCost + egressCost),
		MonthlyStorageUSD: utils.Round2(profile.SizeGB * tierPricing.StoragePerGBMonth),
	}, nil
}

// ComputeDowntime folds detection delay into restore time and measures both
// RTO miss variants against the objective.
func (cs *CalculatorService) ComputeDowntime(restore models.RestoreResult, detectionDelayMinutes, rtoMinutes float64) (models.DowntimeResult, error) {
	if detectionDelayMinutes < 0 {
		return models.DowntimeResult{}, &models.InvalidInputError{Field: "detection_delay_minutes", Reason: "must be >= 0"}
	}
	if rtoMinutes < 0 {
		return models.DowntimeResult{}, &models.InvalidInputError{Field: "rto_minutes", Reason: "must be >= 0"}
	}

	rtoHours := rtoMinutes / 60
	endToEnd := restore.TotalTimeHours + detectionDelayMinutes/60
	miss := math.Max(0, endToEnd-rtoHours)

	return models.DowntimeResult{
		EndToEndDowntimeHours:   utils.Round2(endToEnd),
		RestoreOnlyRTOMissHours: utils.Round2(math.Max(0, restore.TotalTimeHours-rtoHours)),
		EndToEndRTOMissHours:    utils.Round2(miss),
		ExactRTOMissHours:       miss,
	}, nil
}

// ComputeRisk prices the downtime. Loss is billed on end-to-end RTO-miss
// hours; time recovered within the objective carries no loss. The miss is
// taken at full precision, not the display-rounded figure: at outage costs
// in the tens of thousands per minute, 2-decimal rounding of hours moves
// the loss by thousands of dollars. The horizon expectation is strictly
// linear: per-event risk x frequency x horizon. params.DiscountRateAnnual
// is reserved and not applied.
func (cs *CalculatorService) ComputeRisk(downtime models.DowntimeResult, params models.ScenarioParameters) (models.RiskResult, error) {
	if err := params.Validate(); err != nil {
		return models.RiskResult{}, err
	}

	downtimeLoss := downtime.ExactRTOMissHours * 60 * params.CostPerMinuteOutage
	expectedPenalty := params.RegulatoryPenaltyProbability * params.RegulatoryPenaltyAmount
	perEvent := downtimeLoss + expectedPenalty

	return models.RiskResult{
		DowntimeLossUSD:              utils.Round2(downtimeLoss),
		ExpectedRegulatoryPenaltyUSD: utils.Round2(expectedPenalty),
		TotalRiskPerEventUSD:         utils.Round2(perEvent),
		ExpectedRiskOverHorizonUSD:   utils.Round2(perEvent * params.IncidentFrequencyPerYear * params.PlanningHorizonYears),
	}, nil
}

// EvaluateProfile runs the full pipeline for a bare profile plus scalar
// parameters, without requiring a Scenario wrapper. This is the direct input
// path used by the /api/restore endpoint.
func (cs *CalculatorService) EvaluateProfile(profile models.RestoreProfile, params models.ScenarioParameters) (models.StrategyEvaluation, error) {
	restore, err := cs.ComputeRestore(profile)
	if err != nil {
		return models.StrategyEvaluation{}, err
	}
	downtime, err := cs.ComputeDowntime(restore, params.DetectionDelayMinutes, params.RTOMinutes)
	if err != nil {
		return models.StrategyEvaluation{}, err
	}
	risk, err := cs.ComputeRisk(downtime, params)
	if err != nil {
		return models.StrategyEvaluation{}, err
	}

	return models.StrategyEvaluation{
		Profile:  profile,
		Restore:  restore,
		Downtime: downtime,
		Risk:     risk,
	}, nil
}
