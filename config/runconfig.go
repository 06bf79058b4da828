package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// RunConfig holds the ambient, non-physics knobs of a run: worker count,
// rendezvous cadence, logging, and output location (§5, §6). Physics
// parameters live in RawParams/kmc.Params; this is deliberately kept
// separate so the parameter file format stays exactly what §6 specifies.
type RunConfig struct {
	Workers             int    `yaml:"workers"`
	RendezvousInterval  uint64 `yaml:"rendezvous_interval"`
	LogLevel            string `yaml:"log_level"`
	ResultsDir          string `yaml:"results_dir"`
}

// LoadRunConfig starts from the embedded defaults and overlays path if
// it is non-empty and exists, matching the teacher's defaults-then-
// overlay YAML loading pattern.
func LoadRunConfig(path string) (RunConfig, error) {
	var cfg RunConfig
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return RunConfig{}, fmt.Errorf("config: reading run config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("config: parsing run config %s: %w", path, err)
	}
	return cfg, nil
}
