package ext

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level weave.yaml manifest (SPEC_FULL.md §4.7):
// declares which Go packages provide a VTable for which Extension type
// tag, and carries the small set of cmd/weave runner options. Grounded
// on the teacher's internal/ext/config.go Config/Dep shape, trimmed to
// weave's single-interface binding model (a Dep here binds one VTable,
// not an arbitrary set of funcs/types/consts).
type Config struct {
	Extensions []ExtensionDep `yaml:"extensions"`
	Runner     RunnerConfig   `yaml:"runner"`
}

// ExtensionDep binds one Go package to one Extension type tag.
type ExtensionDep struct {
	// Tag is the Extension type tag this package's VTable answers for.
	Tag string `yaml:"tag"`
	// Pkg is the Go import path providing a VTable implementation.
	Pkg string `yaml:"pkg"`
	// VTableType is the Go type name implementing ext.VTable within Pkg.
	VTableType string `yaml:"vtable_type"`
}

// RunnerConfig holds cmd/weave's REPL/runner options (SPEC_FULL.md
// §4.7's second bullet).
type RunnerConfig struct {
	HistoryPath string `yaml:"history_path"`
	Prompt      string `yaml:"prompt"`
	Backend     string `yaml:"backend"`
}

// LoadConfig reads and validates a weave.yaml manifest at path. A
// missing file is not an error: cmd/weave then uses its built-in
// defaults (SPEC_FULL.md §4.7).
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, d := range cfg.Extensions {
		if d.Tag == "" || d.Pkg == "" || d.VTableType == "" {
			return Config{}, fmt.Errorf("%s: extension entry missing tag/pkg/vtable_type", path)
		}
	}
	return cfg, nil
}
