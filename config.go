package blackhole

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

var ErrInvalidConfig = errors.New("invalid config")

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type SimulationConfig struct {
	// MaxParticles caps the particle count; 0 means unbounded.
	MaxParticles int `toml:"max_particles"`
	// Seed for spawn jitter; 0 seeds from the clock.
	Seed uint64 `toml:"seed"`
}

type ShaderConfig struct {
	Dir   string `toml:"dir"`
	Watch bool   `toml:"watch"`
}

type Config struct {
	Debug      bool             `toml:"debug"`
	Window     WindowConfig     `toml:"window"`
	Simulation SimulationConfig `toml:"simulation"`
	Shaders    ShaderConfig     `toml:"shaders"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  600,
			Height: 600,
			Title:  "Black Hole",
		},
	}
}

// LoadConfig returns the defaults overlaid with the TOML file at path.
// An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Simulation.MaxParticles < 0 {
		return fmt.Errorf("%w: max_particles %d", ErrInvalidConfig, c.Simulation.MaxParticles)
	}
	if c.Shaders.Watch && c.Shaders.Dir == "" {
		return fmt.Errorf("%w: shader watch needs a shader dir", ErrInvalidConfig)
	}
	return nil
}

// ParseFlags loads the file named by -config, then applies the flags that
// were set explicitly on top of it.
func ParseFlags(name string, args []string) (Config, error) {
	defaults := DefaultConfig()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	configPath := fs.String("config", "", "path to a TOML config file")
	width := fs.Int("width", defaults.Window.Width, "window width")
	height := fs.Int("height", defaults.Window.Height, "window height")
	debug := fs.Bool("debug", false, "enable debug logging")
	shaderDir := fs.String("shaders", "", "directory with WGSL overrides")
	watch := fs.Bool("watch", false, "reload shaders when files in -shaders change")
	maxParticles := fs.Int("max-particles", 0, "particle cap, 0 for unbounded")
	seed := fs.Uint64("seed", 0, "spawn jitter seed, 0 for time based")

	if err := fs.Parse(args); err != nil {
		return defaults, err
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return cfg, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Window.Width = *width
		case "height":
			cfg.Window.Height = *height
		case "debug":
			cfg.Debug = *debug
		case "shaders":
			cfg.Shaders.Dir = *shaderDir
		case "watch":
			cfg.Shaders.Watch = *watch
		case "max-particles":
			cfg.Simulation.MaxParticles = *maxParticles
		case "seed":
			cfg.Simulation.Seed = *seed
		}
	})

	return cfg, cfg.Validate()
}
