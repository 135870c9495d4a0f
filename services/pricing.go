package services

import (
	"strings"

	"permafrost/models"
)

// TierPricing holds the static rate card for one cold-storage tier.
type TierPricing struct {
	RetrievalPerGB    float64 `json:"retrieval_per_gb" yaml:"retrieval_per_gb"`
	ThawHours         float64 `json:"thaw_hours" yaml:"thaw_hours"`
	StoragePerGBMonth float64 `json:"storage_per_gb_month" yaml:"storage_per_gb_month"`
}

// PricingTable is the injected, immutable reference data for the calculator.
// It is passed into services explicitly rather than living as a package
// singleton, so tests can run with overridden rates.
type PricingTable struct {
	Tiers       map[models.StorageTier]TierPricing `json:"tiers" yaml:"tiers"`
	EgressPerGB map[models.Destination]float64     `json:"egress_per_gb" yaml:"egress_per_gb"`
}

// DefaultPricingTable returns the built-in rate card. Values mirror the
// published per-GB list prices these estimates are normally run with;
// deployments override them through configuration.
func DefaultPricingTable() PricingTable {
	return PricingTable{
		Tiers: map[models.StorageTier]TierPricing{
			models.TierGlacier: {
				RetrievalPerGB:    0.01,
				ThawHours:         4.0,
				StoragePerGBMonth: 0.0036,
			},
			models.TierDeepArchive: {
				RetrievalPerGB:    0.02,
				ThawHours:         12.0,
				StoragePerGBMonth: 0.00099,
			},
		},
		EgressPerGB: map[models.Destination]float64{
			models.DestinationInternet: 0.09,
			models.DestinationIntraAWS: 0.00,
		},
	}
}

type PricingService struct {
	table PricingTable
}

// NewPricingService wraps a pricing table. A zero-valued table falls back to
// the defaults; a partial override replaces only the sections it names.
func NewPricingService(override *PricingTable) *PricingService {
	table := DefaultPricingTable()
	if override != nil {
		if len(override.Tiers) > 0 {
			table.Tiers = override.Tiers
		}
		if len(override.EgressPerGB) > 0 {
			table.EgressPerGB = override.EgressPerGB
		}
	}
	return &PricingService{table: table}
}

// TierPricing resolves the rate card for a tier. Unknown tiers are an error,
// never a silent default.
func (ps *PricingService) TierPricing(tier models.StorageTier) (TierPricing, error) {
	key := models.StorageTier(strings.ToLower(strings.TrimSpace(string(tier))))
	pricing, ok := ps.table.Tiers[key]
	if !ok {
		return TierPricing{}, &models.UnknownTierError{Tier: string(tier)}
	}
	return pricing, nil
}

// EgressPerGB resolves the per-GB egress rate for a destination.
func (ps *PricingService) EgressPerGB(dest models.Destination) (float64, error) {
	key := models.Destination(strings.ToLower(strings.TrimSpace(string(dest))))
	rate, ok := ps.table.EgressPerGB[key]
	if !ok {
		return 0, &models.UnknownDestinationError{Destination: string(dest)}
	}
	return rate, nil
}

// Table returns a copy of the active rate card for presentation.
func (ps *PricingService) Table() PricingTable {
	tiers := make(map[models.StorageTier]TierPricing, len(ps.table.Tiers))
	for k, v := range ps.table.Tiers {
		tiers[k] = v
	}
	egress := make(map[models.Destination]float64, len(ps.table.EgressPerGB))
	for k, v := range ps.table.EgressPerGB {
		egress[k] = v
	}
	return PricingTable{Tiers: tiers, EgressPerGB: egress}
}
