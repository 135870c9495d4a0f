package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSchemaVersion(t *testing.T) {
	cases := []struct {
		declared string
		ok       bool
	}{
		{"1.0.0", true},
		{"1.0.5", true},
		{"1.1.0", true},
		{"v1.1.0", true}, // v-prefix tolerated
		{" 1.0.0 ", true},
		{"0.9.0", false}, // older than minimum
		{"1.2.0", false}, // newer than current
		{"2.0.0", false},
		{"", false},
		{"not-a-version", false},
	}

	for _, tc := range cases {
		err := CheckSchemaVersion(tc.declared, nil)
		if tc.ok {
			assert.NoError(t, err, "declared %q", tc.declared)
		} else {
			assert.Error(t, err, "declared %q", tc.declared)
		}
	}
}

func TestCheckSchemaVersionCustomRange(t *testing.T) {
	cfg := &SchemaConfig{Current: "3.0.0", MinSupported: "2.0.0"}

	assert.NoError(t, CheckSchemaVersion("2.5.0", cfg))
	assert.Error(t, CheckSchemaVersion("1.9.0", cfg))
	assert.Error(t, CheckSchemaVersion("3.0.1", cfg))
}
