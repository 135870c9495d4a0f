package services

import (
	"permafrost/models"
)

// Default sweep axes, used when a request supplies none.
var (
	DefaultSensitivityBandwidths   = []float64{100, 500, 1000}
	DefaultSensitivityEfficiencies = []float64{0.5, 0.7, 0.9}
)

// SensitivityService sweeps the restore calculator over a bandwidth x
// efficiency grid to show where the RTO is missed.
type SensitivityService struct {
	calc *CalculatorService
}

func NewSensitivityService(calc *CalculatorService) *SensitivityService {
	return &SensitivityService{calc: calc}
}

// Grid evaluates the Cartesian product of the axes: bandwidth is the outer
// loop, efficiency the inner one, so row order is deterministic. Each cell is
// an independent ComputeRestore call; there is no smoothing or interpolation.
// An rtoHours of 0 disables the miss flag.
func (ss *SensitivityService) Grid(profile models.RestoreProfile, bandwidths, efficiencies []float64, rtoHours float64) (models.SensitivityGrid, error) {
	if rtoHours < 0 {
		return models.SensitivityGrid{}, &models.InvalidInputError{Field: "rto_hours", Reason: "must be >= 0"}
	}
	if len(bandwidths) == 0 {
		bandwidths = DefaultSensitivityBandwidths
	}
	if len(efficiencies) == 0 {
		efficiencies = DefaultSensitivityEfficiencies
	}

	grid := models.SensitivityGrid{
		Profile:          profile,
		RTOHours:         rtoHours,
		BandwidthsMbps:   bandwidths,
		EfficiencyValues: efficiencies,
		Cells:            make([]models.SensitivityCell, 0, len(bandwidths)*len(efficiencies)),
	}

	for _, bw := range bandwidths {
		for _, eff := range efficiencies {
			cell := profile
			cell.BandwidthMbps = bw
			cell.Efficiency = eff

			result, err := ss.calc.ComputeRestore(cell)
			if err != nil {
				return models.SensitivityGrid{}, err
			}
			grid.Cells = append(grid.Cells, models.SensitivityCell{
				BandwidthMbps:  bw,
				Efficiency:     eff,
				TotalTimeHours: result.TotalTimeHours,
				RTOMissed:      rtoHours > 0 && result.TotalTimeHours > rtoHours,
			})
		}
	}
	return grid, nil
}
