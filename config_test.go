package blackhole

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gravity.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 600, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, "Black Hole", cfg.Window.Title)
	assert.Zero(t, cfg.Simulation.MaxParticles)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
debug = true

[window]
width = 800

[simulation]
max_particles = 5000
seed = 42

[shaders]
dir = "shaders"
watch = true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height, "unset keys keep defaults")
	assert.Equal(t, "Black Hole", cfg.Window.Title)
	assert.Equal(t, 5000, cfg.Simulation.MaxParticles)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
	assert.Equal(t, "shaders", cfg.Shaders.Dir)
	assert.True(t, cfg.Shaders.Watch)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.toml")},
		{"unknown key", writeConfig(t, "[window]\ndepth = 3\n")},
		{"bad syntax", writeConfig(t, "[window\n")},
		{"wrong type", writeConfig(t, "[window]\nwidth = \"wide\"\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.path)
			assert.Error(t, err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"negative cap", func(c *Config) { c.Simulation.MaxParticles = -5 }},
		{"watch without dir", func(c *Config) { c.Shaders.Watch = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestParseFlags(t *testing.T) {
	path := writeConfig(t, "[window]\nwidth = 800\nheight = 700\n[simulation]\nmax_particles = 10\n")

	cfg, err := ParseFlags("gravity", []string{"-config", path, "-height", "400", "-debug", "-seed", "9"})
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width, "file value kept when flag is not set")
	assert.Equal(t, 400, cfg.Window.Height, "explicit flag overrides file")
	assert.Equal(t, 10, cfg.Simulation.MaxParticles)
	assert.Equal(t, uint64(9), cfg.Simulation.Seed)
	assert.True(t, cfg.Debug)
}

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := ParseFlags("gravity", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseFlags_Invalid(t *testing.T) {
	_, err := ParseFlags("gravity", []string{"-width", "0"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseFlags("gravity", []string{"-unknown"})
	assert.Error(t, err)
}
