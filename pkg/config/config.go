// Package config loads the YAML configuration used by the gridbox CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chazu/gridbox/pkg/compact"
	"github.com/chazu/gridbox/pkg/engine"
	"github.com/chazu/gridbox/pkg/kernel/sdfx"
)

// Config holds every tunable of the CLI. Zero values are replaced by
// defaults on load.
type Config struct {
	// DefaultStep is the lattice step of boxes created without :step.
	DefaultStep float64 `yaml:"default_step"`

	LogMode  string `yaml:"log_mode"`
	LogLevel string `yaml:"log_level"`

	// MeshCells is the marching cubes resolution along the longest axis.
	MeshCells int `yaml:"mesh_cells"`

	// Thickness is the extent given to axes a region does not span when
	// meshing. Zero derives it from the region size.
	Thickness float64 `yaml:"thickness"`

	EvalTimeout time.Duration `yaml:"eval_timeout"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DefaultStep: compact.DefaultStep,
		LogMode:     "dev",
		LogLevel:    "info",
		MeshCells:   sdfx.DefaultMeshCells,
		EvalTimeout: engine.EvalTimeout,
	}
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML, rejecting unknown keys, and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.DefaultStep == 0 {
		c.DefaultStep = d.DefaultStep
	}
	if c.LogMode == "" {
		c.LogMode = d.LogMode
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.MeshCells == 0 {
		c.MeshCells = d.MeshCells
	}
	if c.EvalTimeout == 0 {
		c.EvalTimeout = d.EvalTimeout
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.DefaultStep < 0:
		return fmt.Errorf("default_step must not be negative, got %v", c.DefaultStep)
	case c.MeshCells < 0:
		return fmt.Errorf("mesh_cells must not be negative, got %d", c.MeshCells)
	case c.Thickness < 0:
		return fmt.Errorf("thickness must not be negative, got %v", c.Thickness)
	case c.EvalTimeout < 0:
		return fmt.Errorf("eval_timeout must not be negative, got %s", c.EvalTimeout)
	}
	return nil
}
