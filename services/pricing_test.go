package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permafrost/models"
)

func TestDefaultPricingTable(t *testing.T) {
	ps := NewPricingService(nil)

	glacier, err := ps.TierPricing(models.TierGlacier)
	require.NoError(t, err)
	assert.Equal(t, 0.01, glacier.RetrievalPerGB)
	assert.Equal(t, 4.0, glacier.ThawHours)
	assert.Equal(t, 0.0036, glacier.StoragePerGBMonth)

	deep, err := ps.TierPricing(models.TierDeepArchive)
	require.NoError(t, err)
	assert.Equal(t, 0.02, deep.RetrievalPerGB)
	assert.Equal(t, 12.0, deep.ThawHours)
	assert.Equal(t, 0.00099, deep.StoragePerGBMonth)

	internet, err := ps.EgressPerGB(models.DestinationInternet)
	require.NoError(t, err)
	assert.Equal(t, 0.09, internet)

	intra, err := ps.EgressPerGB(models.DestinationIntraAWS)
	require.NoError(t, err)
	assert.Equal(t, 0.0, intra)
}

func TestPricingLookupIsCaseInsensitive(t *testing.T) {
	ps := NewPricingService(nil)

	_, err := ps.TierPricing(models.StorageTier(" Glacier "))
	assert.NoError(t, err)

	_, err = ps.EgressPerGB(models.Destination("INTERNET"))
	assert.NoError(t, err)
}

func TestPricingUnknownKeys(t *testing.T) {
	ps := NewPricingService(nil)

	_, err := ps.TierPricing(models.StorageTier("tape"))
	var tierErr *models.UnknownTierError
	require.ErrorAs(t, err, &tierErr)
	assert.Equal(t, "tape", tierErr.Tier)

	_, err = ps.EgressPerGB(models.Destination("carrier_pigeon"))
	var destErr *models.UnknownDestinationError
	require.ErrorAs(t, err, &destErr)
}

func TestPricingPartialOverride(t *testing.T) {
	override := &PricingTable{
		Tiers: map[models.StorageTier]TierPricing{
			models.TierGlacier: {RetrievalPerGB: 0.05, ThawHours: 2, StoragePerGBMonth: 0.004},
		},
	}
	ps := NewPricingService(override)

	glacier, err := ps.TierPricing(models.TierGlacier)
	require.NoError(t, err)
	assert.Equal(t, 0.05, glacier.RetrievalPerGB)
	assert.Equal(t, 2.0, glacier.ThawHours)

	// Tier section was replaced wholesale, so deep_archive is gone.
	_, err = ps.TierPricing(models.TierDeepArchive)
	assert.Error(t, err)

	// Egress section was not overridden and keeps defaults.
	rate, err := ps.EgressPerGB(models.DestinationInternet)
	require.NoError(t, err)
	assert.Equal(t, 0.09, rate)
}

func TestPricingTableReturnsCopy(t *testing.T) {
	ps := NewPricingService(nil)
	table := ps.Table()
	table.Tiers[models.TierGlacier] = TierPricing{RetrievalPerGB: 99}

	glacier, err := ps.TierPricing(models.TierGlacier)
	require.NoError(t, err)
	assert.Equal(t, 0.01, glacier.RetrievalPerGB)
}
