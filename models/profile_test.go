package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRestoreProfileNormalizes(t *testing.T) {
	p, err := NewRestoreProfile("  Glacier ", "INTERNET", 1000, 500, 0.8)
	require.NoError(t, err)
	assert.Equal(t, TierGlacier, p.Tier)
	assert.Equal(t, DestinationInternet, p.Destination)
}

func TestNewRestoreProfileDomains(t *testing.T) {
	cases := []struct {
		name       string
		sizeGB     float64
		bandwidth  float64
		efficiency float64
	}{
		{"zero size", 0, 500, 0.8},
		{"negative size", -1, 500, 0.8},
		{"zero bandwidth", 1000, 0, 0.8},
		{"zero efficiency", 1000, 500, 0},
		{"efficiency above one", 1000, 500, 1.01},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRestoreProfile("glacier", "internet", tc.sizeGB, tc.bandwidth, tc.efficiency)
			var inputErr *InvalidInputError
			assert.ErrorAs(t, err, &inputErr)
		})
	}

	// Efficiency exactly 1 is in-domain.
	_, err := NewRestoreProfile("glacier", "internet", 1000, 500, 1.0)
	assert.NoError(t, err)
}

func TestNewRestoreProfileUnknownDestination(t *testing.T) {
	_, err := NewRestoreProfile("glacier", "sneakernet", 1000, 500, 0.8)
	var destErr *UnknownDestinationError
	require.ErrorAs(t, err, &destErr)
	assert.Equal(t, "sneakernet", destErr.Destination)
}
