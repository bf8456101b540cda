// Package config loads the settings of the dissolve command from an optional YAML file,
// DISSOLVE_* environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable the loader reads.
// Nested keys use underscores: dissolve.duration is DISSOLVE_DISSOLVE_DURATION.
const EnvPrefix = "DISSOLVE"

const userConfigDir = "~/.config/dissolve"

// Config is the complete configuration of a dissolve run. Every field can be set from a
// config file, a DISSOLVE_* environment variable or a command-line flag.
type Config struct {
	// Image is the path of the image to dissolve. Empty selects the built-in test card.
	Image string `mapstructure:"image" yaml:"image"`
	// Watch reloads the image and restarts the transition when the file changes.
	Watch bool `mapstructure:"watch" yaml:"watch"`

	Window   WindowConfig   `mapstructure:"window" yaml:"window"`
	Dissolve DissolveConfig `mapstructure:"dissolve" yaml:"dissolve"`
	Render   RenderConfig   `mapstructure:"render" yaml:"render"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// WindowConfig describes the window opened for a windowed run. Headless runs use Width and
// Height as the host bounds.
type WindowConfig struct {
	Title       string `mapstructure:"title" yaml:"title"`
	Width       int    `mapstructure:"width" yaml:"width"`
	Height      int    `mapstructure:"height" yaml:"height"`
	Transparent bool   `mapstructure:"transparent" yaml:"transparent"`
}

// DissolveConfig tunes the particle transition.
type DissolveConfig struct {
	Duration     time.Duration `mapstructure:"duration" yaml:"duration"`
	CellSize     float64       `mapstructure:"cell_size" yaml:"cell_size"`
	MaxParticles int           `mapstructure:"max_particles" yaml:"max_particles"`
	Spread       float64       `mapstructure:"spread" yaml:"spread"`
	Seed         uint64        `mapstructure:"seed" yaml:"seed"`
	Workers      int           `mapstructure:"workers" yaml:"workers"`

	// Loop restarts the dissolve each time it completes.
	Loop bool `mapstructure:"loop" yaml:"loop"`
}

// RenderConfig selects the backend, the display link rate and the GPU adapter.
type RenderConfig struct {
	FrameLimit           float64 `mapstructure:"frame_limit" yaml:"frame_limit"`
	PresentMode          string  `mapstructure:"present_mode" yaml:"present_mode"`
	ForceFallbackAdapter bool    `mapstructure:"force_fallback_adapter" yaml:"force_fallback_adapter"`
	Headless             bool    `mapstructure:"headless" yaml:"headless"`

	// DisplayScale overrides the scale reported by the platform. 0 asks the platform.
	DisplayScale float64 `mapstructure:"display_scale" yaml:"display_scale"`
	Profile      bool    `mapstructure:"profile" yaml:"profile"`
}

// LogConfig selects the level ("debug", "info", "warn", "error") and format ("text" or
// "json") of the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Dissolve",
			Width:  1280,
			Height: 720,
		},
		Dissolve: DissolveConfig{
			Duration:     1200 * time.Millisecond,
			CellSize:     4,
			MaxParticles: 40000,
			Spread:       1,
		},
		Render: RenderConfig{
			FrameLimit:  60,
			PresentMode: PresentModeVSync,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"image":         "image",
	"watch":         "watch",
	"title":         "window.title",
	"width":         "window.width",
	"height":        "window.height",
	"transparent":   "window.transparent",
	"duration":      "dissolve.duration",
	"cell-size":     "dissolve.cell_size",
	"max-particles": "dissolve.max_particles",
	"spread":        "dissolve.spread",
	"seed":          "dissolve.seed",
	"workers":       "dissolve.workers",
	"loop":          "dissolve.loop",
	"frame-limit":   "render.frame_limit",
	"present-mode":  "render.present_mode",
	"fallback":      "render.force_fallback_adapter",
	"headless":      "render.headless",
	"display-scale": "render.display_scale",
	"profile":       "render.profile",
	"log-level":     "log.level",
	"log-format":    "log.format",
}

// Load reads the configuration. cfgFile may be empty, in which case dissolve.yaml is looked up
// in the working directory, then in ~/.config/dissolve, and a missing file is not an error.
// A leading ~ in cfgFile and in the image path is expanded. Only flags that were set on the
// command line override file and environment values.
//
// Parameters:
//   - cfgFile: explicit config file path, or ""
//   - flags: the command flags to bind, or nil
//
// Returns:
//   - *Config: the loaded configuration
//   - error: error if the file cannot be read or a value cannot be decoded
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("dissolve")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := homedir.Expand(userConfigDir); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	image, err := homedir.Expand(cfg.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to expand image path: %w", err)
	}
	cfg.Image = image
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can find keys that appear in no file.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("image", d.Image)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.transparent", d.Window.Transparent)
	v.SetDefault("dissolve.duration", d.Dissolve.Duration)
	v.SetDefault("dissolve.cell_size", d.Dissolve.CellSize)
	v.SetDefault("dissolve.max_particles", d.Dissolve.MaxParticles)
	v.SetDefault("dissolve.spread", d.Dissolve.Spread)
	v.SetDefault("dissolve.seed", d.Dissolve.Seed)
	v.SetDefault("dissolve.workers", d.Dissolve.Workers)
	v.SetDefault("dissolve.loop", d.Dissolve.Loop)
	v.SetDefault("render.frame_limit", d.Render.FrameLimit)
	v.SetDefault("render.present_mode", d.Render.PresentMode)
	v.SetDefault("render.force_fallback_adapter", d.Render.ForceFallbackAdapter)
	v.SetDefault("render.headless", d.Render.Headless)
	v.SetDefault("render.display_scale", d.Render.DisplayScale)
	v.SetDefault("render.profile", d.Render.Profile)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Dump writes the configuration as YAML.
//
// Parameters:
//   - w: the destination
//
// Returns:
//   - error: error if encoding or writing fails
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
