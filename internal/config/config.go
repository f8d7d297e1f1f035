// Package config defines the configuration model for the pipeline binary.
// It is intentionally small and explicit: a Config can be decoded from a JSON
// or YAML file (chosen by extension) and passed through the program without
// additional glue code. Every field has a default, so running with no config
// file at all is valid.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"marketpipe/internal/storage"
)

// Default directory layout, mirroring the upstream dataset convention.
const (
	DefaultInputDir  = "data/raw"
	DefaultOutputDir = "data/processed"
	DefaultJob       = "marketpipe"
)

// Config is the top-level configuration for a pipeline run.
type Config struct {
	// Job names the run for logging and metrics labeling.
	Job string `json:"job" yaml:"job"`

	// InputDir holds the nine required marketplace extracts.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives the three result files. Created if absent.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Mirror optionally loads the result tables into a database after the
	// CSV outputs are written. Empty Kind disables it.
	Mirror storage.Config `json:"mirror" yaml:"mirror"`
}

// Default returns a Config with every field at its default.
func Default() Config {
	return Config{
		Job:       DefaultJob,
		InputDir:  DefaultInputDir,
		OutputDir: DefaultOutputDir,
	}
}

// Load reads a config file and applies defaults for unset fields. The format
// is selected by extension: .yaml/.yml decode as YAML, anything else as JSON.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode yaml config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode json config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Job) == "" {
		c.Job = DefaultJob
	}
	if strings.TrimSpace(c.InputDir) == "" {
		c.InputDir = DefaultInputDir
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		c.OutputDir = DefaultOutputDir
	}
}
