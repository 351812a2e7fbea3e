package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk layout of SUPABOX_CONFIG.
//
//	upstream:
//	  timezone: Europe/London
//	  timeout: 15s
//	  boxing:
//	    page_size: 50
//	  mma:
//	    tournament_id: 19906
type fileConfig struct {
	Upstream *UpstreamConfig `yaml:"upstream"`
}

// LoadFile overlays the YAML file at path onto cfg. Keys missing from the
// file leave cfg untouched.
// The path parameter is expected to come from a trusted source (environment or CLI flag).
func LoadFile(path string, cfg *UpstreamConfig) error {
	// #nosec G304 -- path is provided by the operator, not request input
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	fc := fileConfig{Upstream: cfg}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}
