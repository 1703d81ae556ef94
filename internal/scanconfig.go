package internal

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ExtractConfig selects which item kinds an extract run keeps and where
// the DER payloads are written.
type ExtractConfig struct {
	Kinds  []string `yaml:"kinds"`
	OutDir string   `yaml:"outDir,omitempty"`
}

// ScanConfig is the full YAML configuration file structure.
type ScanConfig struct {
	Strict  bool           `yaml:"strict,omitempty"`
	Extract *ExtractConfig `yaml:"extract,omitempty"`
}

// Wants reports whether the extract configuration selects the given kind.
// An empty kind list and the special name "all" select everything.
func (c *ExtractConfig) Wants(kind string) bool {
	if c == nil || len(c.Kinds) == 0 {
		return true
	}
	return slices.Contains(c.Kinds, "all") || slices.Contains(c.Kinds, kind)
}

// LoadScanConfig loads configuration from the specified YAML file and
// validates the kind names it references.
func LoadScanConfig(path string) (*ScanConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg ScanConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if cfg.Extract != nil {
		for _, kind := range cfg.Extract.Kinds {
			if kind != "all" && !IsValidKind(kind) {
				return nil, fmt.Errorf("unknown item kind %q in %s", kind, path)
			}
		}
	}

	return &cfg, nil
}
