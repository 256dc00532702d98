// Package config loads the twisty CLI configuration from YAML and merges
// command line overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/chazu/twisty/pkg/engine"
	"github.com/chazu/twisty/pkg/export"
	"github.com/chazu/twisty/pkg/kernel/sdfx"
)

// Config holds render and output settings.
type Config struct {
	// Meshing
	MeshCells int `yaml:"mesh_cells"`

	// Evaluation
	EvalTimeout time.Duration `yaml:"eval_timeout"`

	// Output
	LogLevel string `yaml:"log_level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
}

// Default returns the built-in settings. An empty Output means stdout.
func Default() Config {
	return Config{
		MeshCells:   sdfx.DefaultMeshCells,
		EvalTimeout: engine.DefaultEvalTimeout,
		LogLevel:    logrus.InfoLevel.String(),
		Format:      string(export.FormatJSON),
	}
}

// Load reads a YAML config file on top of Default.
// Fields not set in the file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	MeshCells   int
	EvalTimeout time.Duration
	LogLevel    string
	Format      string
	Output      string
}

// Resolve applies CLI flags, which take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.MeshCells > 0 {
		c.MeshCells = flags.MeshCells
	}
	if flags.EvalTimeout > 0 {
		c.EvalTimeout = flags.EvalTimeout
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	if c.MeshCells < 8 {
		return fmt.Errorf("config: mesh_cells %d below minimum 8", c.MeshCells)
	}
	if c.EvalTimeout <= 0 {
		return fmt.Errorf("config: eval_timeout must be positive, got %s", c.EvalTimeout)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	f, err := export.ParseFormat(c.Format)
	if err != nil {
		return fmt.Errorf("config: format: %w", err)
	}
	if f != export.FormatJSON && c.Output == "" {
		return fmt.Errorf("config: %s output needs a file path", f)
	}
	return nil
}

// Level returns the parsed log level, InfoLevel when invalid.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
