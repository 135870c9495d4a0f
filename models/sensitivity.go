package models

// SensitivityCell is one grid point of a bandwidth/efficiency sweep.
// Rows are emitted with bandwidth as the outer loop and efficiency as the
// inner loop; each cell is an independent restore computation.
type SensitivityCell struct {
	BandwidthMbps  float64 `json:"bandwidth_mbps" yaml:"bandwidth_mbps"`
	Efficiency     float64 `json:"efficiency" yaml:"efficiency"`
	TotalTimeHours float64 `json:"total_time_hours" yaml:"total_time_hours"`
	RTOMissed      bool    `json:"rto_missed" yaml:"rto_missed"`
}

// SensitivityGrid carries the sweep plus the axes it was computed over.
type SensitivityGrid struct {
	Profile          RestoreProfile    `json:"profile" yaml:"profile"`
	RTOHours         float64           `json:"rto_hours" yaml:"rto_hours"`
	BandwidthsMbps   []float64         `json:"bandwidths_mbps" yaml:"bandwidths_mbps"`
	EfficiencyValues []float64         `json:"efficiency_values" yaml:"efficiency_values"`
	Cells            []SensitivityCell `json:"cells" yaml:"cells"`
}
