package models

import "strings"

// StorageTier identifies a cold-storage tier in the pricing table.
type StorageTier string

const (
	TierGlacier     StorageTier = "glacier"
	TierDeepArchive StorageTier = "deep_archive"
)

// Destination identifies where restored data is delivered.
type Destination string

const (
	DestinationInternet Destination = "internet"
	DestinationIntraAWS Destination = "intra_aws"
)

// RestoreProfile is one physical restore configuration. Instances are only
// created through NewRestoreProfile, so a live profile is always in-domain.
type RestoreProfile struct {
	Tier          StorageTier `json:"tier" yaml:"tier"`
	Destination   Destination `json:"destination" yaml:"destination"`
	SizeGB        float64     `json:"size_gb" yaml:"size_gb"`
	BandwidthMbps float64     `json:"bandwidth_mbps" yaml:"bandwidth_mbps"`
	Efficiency    float64     `json:"efficiency" yaml:"efficiency"`
}

// NewRestoreProfile validates and normalizes the inputs. Tier and destination
// keys are case-insensitive; numeric domains are size_gb > 0,
// bandwidth_mbps > 0, efficiency in (0, 1].
func NewRestoreProfile(tier, destination string, sizeGB, bandwidthMbps, efficiency float64) (RestoreProfile, error) {
	p := RestoreProfile{
		Tier:          StorageTier(strings.ToLower(strings.TrimSpace(tier))),
		Destination:   Destination(strings.ToLower(strings.TrimSpace(destination))),
		SizeGB:        sizeGB,
		BandwidthMbps: bandwidthMbps,
		Efficiency:    efficiency,
	}
	if err := p.Validate(); err != nil {
		return RestoreProfile{}, err
	}
	return p, nil
}

// Validate re-checks the profile's invariants. Used defensively on profiles
// decoded straight from YAML or JSON.
func (p RestoreProfile) Validate() error {
	if p.SizeGB <= 0 {
		return &InvalidInputError{Field: "size_gb", Reason: "must be > 0"}
	}
	if p.BandwidthMbps <= 0 {
		return &InvalidInputError{Field: "bandwidth_mbps", Reason: "must be > 0"}
	}
	if p.Efficiency <= 0 || p.Efficiency > 1 {
		return &InvalidInputError{Field: "efficiency", Reason: "must be in (0, 1]"}
	}
	switch p.Destination {
	case DestinationInternet, DestinationIntraAWS:
	default:
		return &UnknownDestinationError{Destination: string(p.Destination)}
	}
	return nil
}

// RestoreResult is the derived time/cost breakdown for one profile. All
// fields are rounded to 2 decimals at construction; see utils.Round2.
type RestoreResult struct {
	ThawTimeHours     float64 `json:"thaw_time_hours" yaml:"thaw_time_hours"`
	TransferTimeHours float64 `json:"transfer_time_hours" yaml:"transfer_time_hours"`
	TotalTimeHours    float64 `json:"total_time_hours" yaml:"total_time_hours"`
	RetrievalCostUSD  float64 `json:"retrieval_cost_usd" yaml:"retrieval_cost_usd"`
	EgressCostUSD     float64 `json:"egress_cost_usd" yaml:"egress_cost_usd"`
	TotalCostUSD      float64 `json:"total_cost_usd" yaml:"total_cost_usd"`
	MonthlyStorageUSD float64 `json:"monthly_storage_usd" yaml:"monthly_storage_usd"`
}
