package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permafrost/models"
)

func newTestSensitivity() *SensitivityService {
	return NewSensitivityService(newTestCalculator())
}

func TestGridDefaultAxes(t *testing.T) {
	ss := newTestSensitivity()
	profile := mustTestProfile(t, "glacier", "internet", 5000, 1000, 0.7)

	grid, err := ss.Grid(profile, nil, nil, 24)
	require.NoError(t, err)

	assert.Equal(t, DefaultSensitivityBandwidths, grid.BandwidthsMbps)
	assert.Equal(t, DefaultSensitivityEfficiencies, grid.EfficiencyValues)
	assert.Len(t, grid.Cells, 9)
	assert.Equal(t, 24.0, grid.RTOHours)
}

func TestGridSweepOrderBandwidthOuter(t *testing.T) {
	ss := newTestSensitivity()
	profile := mustTestProfile(t, "glacier", "internet", 1000, 1000, 0.8)

	grid, err := ss.Grid(profile, []float64{100, 500, 1000}, []float64{0.5, 0.9}, 0)
	require.NoError(t, err)
	require.Len(t, grid.Cells, 6)

	want := []struct{ bw, eff float64 }{
		{100, 0.5}, {100, 0.9},
		{500, 0.5}, {500, 0.9},
		{1000, 0.5}, {1000, 0.9},
	}
	for i, w := range want {
		assert.Equal(t, w.bw, grid.Cells[i].BandwidthMbps, "cell %d", i)
		assert.Equal(t, w.eff, grid.Cells[i].Efficiency, "cell %d", i)
	}
}

func TestGridCellsMatchDirectComputation(t *testing.T) {
	ss := newTestSensitivity()
	profile := mustTestProfile(t, "deep_archive", "internet", 5000, 1000, 0.7)

	grid, err := ss.Grid(profile, []float64{500, 1000}, []float64{0.5, 0.9}, 24)
	require.NoError(t, err)

	for _, cell := range grid.Cells {
		cellProfile := profile
		cellProfile.BandwidthMbps = cell.BandwidthMbps
		cellProfile.Efficiency = cell.Efficiency

		direct, err := ss.calc.ComputeRestore(cellProfile)
		require.NoError(t, err)
		assert.Equal(t, direct.TotalTimeHours, cell.TotalTimeHours)
		assert.Equal(t, direct.TotalTimeHours > 24, cell.RTOMissed)
	}
}

func TestGridZeroRTODisablesMissFlag(t *testing.T) {
	ss := newTestSensitivity()
	profile := mustTestProfile(t, "deep_archive", "internet", 50000, 100, 0.5)

	grid, err := ss.Grid(profile, nil, nil, 0)
	require.NoError(t, err)
	for _, cell := range grid.Cells {
		assert.False(t, cell.RTOMissed)
	}
}

func TestGridSlowCellsMissFastCellsHold(t *testing.T) {
	ss := newTestSensitivity()
	profile := mustTestProfile(t, "glacier", "internet", 5000, 1000, 0.7)

	grid, err := ss.Grid(profile, []float64{100, 2000}, []float64{0.9}, 24)
	require.NoError(t, err)
	require.Len(t, grid.Cells, 2)

	// 5000 GB at 90 Mbps effective takes days; at 1800 Mbps it fits in a day.
	assert.True(t, grid.Cells[0].RTOMissed)
	assert.False(t, grid.Cells[1].RTOMissed)
}

func TestGridRejectsNegativeRTO(t *testing.T) {
	ss := newTestSensitivity()
	profile := mustTestProfile(t, "glacier", "internet", 1000, 1000, 0.8)

	_, err := ss.Grid(profile, nil, nil, -1)
	var inputErr *models.InvalidInputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "rto_hours", inputErr.Field)
}
