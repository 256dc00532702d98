package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "twisty.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 200, cfg.MeshCells)
	assert.Equal(t, 5*time.Second, cfg.EvalTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Format)
	assert.Empty(t, cfg.Output)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
mesh_cells: 64
eval_timeout: 2s
log_level: debug
format: stl
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MeshCells)
	assert.Equal(t, 2*time.Second, cfg.EvalTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "stl", cfg.Format)
	assert.Empty(t, cfg.Output, "unset fields keep defaults")
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "config: read")

	_, err = Load(writeConfig(t, "mesh_cells: [1, 2"))
	assert.ErrorContains(t, err, "config: parse")
}

func TestResolve(t *testing.T) {
	cfg := Default()
	cfg.Resolve(Flags{})
	assert.Equal(t, Default(), cfg, "empty flags change nothing")

	cfg.Resolve(Flags{
		MeshCells:   32,
		EvalTimeout: time.Second,
		LogLevel:    "warn",
		Format:      "dxf",
		Output:      "scene.dxf",
	})
	assert.Equal(t, Config{
		MeshCells:   32,
		EvalTimeout: time.Second,
		LogLevel:    "warn",
		Format:      "dxf",
		Output:      "scene.dxf",
	}, cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"coarse mesh", func(c *Config) { c.MeshCells = 4 }, "mesh_cells"},
		{"zero timeout", func(c *Config) { c.EvalTimeout = 0 }, "eval_timeout"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad format", func(c *Config) { c.Format = "obj" }, "format"},
		{"dxf to stdout", func(c *Config) { c.Format = "dxf" }, "file path"},
		{"dxf to file", func(c *Config) { c.Format = "dxf"; c.Output = "out.dxf" }, ""},
		{"stl to stdout", func(c *Config) { c.Format = "stl" }, "file path"},
		{"stl to file", func(c *Config) { c.Format = "stl"; c.Output = "out.stl" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLevelFallback(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "nonsense"
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}
