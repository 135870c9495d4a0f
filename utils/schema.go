package utils

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
)

// SchemaConfig holds the scenario catalog schema version requirements.
type SchemaConfig struct {
	Current      string
	MinSupported string
}

var DefaultSchemaConfig = SchemaConfig{
	Current:      "1.1.0",
	MinSupported: "1.0.0",
}

// CheckSchemaVersion validates a scenario file's declared schema_version
// against the supported range. Files newer than Current are rejected so an
// old binary never half-reads a newer catalog.
func CheckSchemaVersion(declared string, cfg *SchemaConfig) error {
	if cfg == nil {
		cfg = &DefaultSchemaConfig
	}
	declared = strings.TrimPrefix(strings.TrimSpace(declared), "v")
	if declared == "" {
		return fmt.Errorf("missing schema_version")
	}

	ver, err := version.NewVersion(declared)
	if err != nil {
		return fmt.Errorf("unparseable schema_version %q: %w", declared, err)
	}
	minSupported, _ := version.NewVersion(cfg.MinSupported)
	current, _ := version.NewVersion(cfg.Current)

	if ver.LessThan(minSupported) {
		return fmt.Errorf("schema_version %s is older than minimum supported %s", declared, cfg.MinSupported)
	}
	if ver.GreaterThan(current) {
		return fmt.Errorf("schema_version %s is newer than supported %s", declared, cfg.Current)
	}
	return nil
}
