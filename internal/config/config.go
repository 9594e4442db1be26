// Package config loads the optional YAML file controlling the lowering
// pass's deviations from its default pipeline (internal/lower.Config).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sunholo/corelower/internal/lower"
)

// FileConfig mirrors lower.Config's fields in YAML form.
type FileConfig struct {
	DisableEagerWrap bool   `yaml:"disable_eager_wrap"`
	StartCounter     uint64 `yaml:"start_counter"`
	TrustTypeCheck   bool   `yaml:"trust_type_check"`
}

// Load reads path and unmarshals it into a lower.Config. A missing path
// ("") returns the zero Config, i.e. the default pipeline.
func Load(path string) (lower.Config, error) {
	if path == "" {
		return lower.Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return lower.Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return lower.Config{}, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return lower.Config{
		DisableEagerWrap: fc.DisableEagerWrap,
		StartCounter:     fc.StartCounter,
		TrustTypeCheck:   fc.TrustTypeCheck,
	}, nil
}
