package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dissolve.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// isolateHome points the home directory at an empty temp dir so a developer's own config
// never leaks into a test.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	return home
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1200*time.Millisecond, cfg.Dissolve.Duration)
	assert.Equal(t, PresentModeVSync, cfg.Render.PresentMode)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	isolateHome(t)
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
image: photo.png
window:
  width: 800
  transparent: true
dissolve:
  duration: 2s
  cell_size: 6
  seed: 42
  loop: true
render:
  present_mode: uncapped
log:
  level: debug
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "photo.png", cfg.Image)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep their defaults")
	assert.True(t, cfg.Window.Transparent)
	assert.Equal(t, 2*time.Second, cfg.Dissolve.Duration)
	assert.Equal(t, 6.0, cfg.Dissolve.CellSize)
	assert.Equal(t, uint64(42), cfg.Dissolve.Seed)
	assert.True(t, cfg.Dissolve.Loop)
	assert.Equal(t, PresentModeUncapped, cfg.Render.PresentMode)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadFindsUserConfigDir(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".config", "dissolve")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dissolve.yaml"), []byte("image: ~/pics/cat.png\n"), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "pics", "cat.png"), cfg.Image)
}

func TestLoadExpandsConfigPath(t *testing.T) {
	home := isolateHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "custom.yaml"), []byte("window:\n  title: tilde\n"), 0o644))

	cfg, err := Load("~/custom.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, "tilde", cfg.Window.Title)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "dissolve:\n  duration: 2s\n")
	t.Setenv("DISSOLVE_DISSOLVE_DURATION", "500ms")
	t.Setenv("DISSOLVE_WINDOW_TITLE", "from env")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Dissolve.Duration)
	assert.Equal(t, "from env", cfg.Window.Title)
}

func TestLoadChangedFlagsWin(t *testing.T) {
	path := writeConfig(t, "window:\n  width: 800\n  height: 600\n")
	t.Setenv("DISSOLVE_WINDOW_HEIGHT", "500")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("width", 0, "")
	flags.Int("height", 0, "")
	flags.Bool("headless", false, "")
	require.NoError(t, flags.Parse([]string{"--height=300", "--headless"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Window.Width, "an unchanged flag does not override the file")
	assert.Equal(t, 300, cfg.Window.Height)
	assert.True(t, cfg.Render.Headless)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Dissolve.CellSize = 0
	cfg.Dissolve.MaxParticles = 0
	cfg.Dissolve.Duration = -time.Second
	cfg.Render.PresentMode = "mailbox"
	cfg.Render.DisplayScale = -1
	cfg.Log.Format = "xml"
	cfg.Watch = true

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	for _, want := range []string{"window size", "cell_size", "max_particles", "duration", "present_mode", "display_scale", "log.format", "watch needs"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateLogLevel(t *testing.T) {
	tests := []struct {
		level string
		ok    bool
	}{
		{"", true},
		{"debug", true},
		{"WARN", true},
		{"warning", true},
		{"trace", false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := Default()
			cfg.Log.Level = tt.level
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
			}
		})
	}
}

func TestDumpWritesLoadableYAML(t *testing.T) {
	cfg := Default()
	cfg.Image = "card.png"
	cfg.Dissolve.Seed = 7

	var buf bytes.Buffer
	require.NoError(t, cfg.Dump(&buf))
	assert.Contains(t, buf.String(), "image: card.png")
	assert.Contains(t, buf.String(), "max_particles: 40000")

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &raw))
	assert.Contains(t, raw, "dissolve")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("dropped")
	logger.Warn("kept", "frames", 3)

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
	assert.Contains(t, buf.String(), `"frames":3`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("Warning").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("bogus").String())
}
