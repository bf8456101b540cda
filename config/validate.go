package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

const (
	PresentModeVSync    = "vsync"
	PresentModeUncapped = "uncapped"
)

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks the config and returns every problem found, joined. Each error wraps
// ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if c.Watch && c.Image == "" {
		invalid("watch needs an image file")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		invalid("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}

	if c.Dissolve.Duration < 0 {
		invalid("dissolve.duration %s is negative", c.Dissolve.Duration)
	}
	if !(c.Dissolve.CellSize > 0) || math.IsInf(c.Dissolve.CellSize, 0) {
		invalid("dissolve.cell_size %g must be a positive number", c.Dissolve.CellSize)
	}
	if c.Dissolve.MaxParticles < 1 {
		invalid("dissolve.max_particles %d is below minimum 1", c.Dissolve.MaxParticles)
	}
	if c.Dissolve.Spread < 0 || math.IsNaN(c.Dissolve.Spread) {
		invalid("dissolve.spread %g is negative", c.Dissolve.Spread)
	}
	if c.Dissolve.Workers < 0 {
		invalid("dissolve.workers %d is negative", c.Dissolve.Workers)
	}

	if c.Render.FrameLimit < 0 {
		invalid("render.frame_limit %g is negative", c.Render.FrameLimit)
	}
	switch strings.ToLower(c.Render.PresentMode) {
	case PresentModeVSync, PresentModeUncapped:
	default:
		invalid("render.present_mode %q is not valid (use vsync or uncapped)", c.Render.PresentMode)
	}
	if c.Render.DisplayScale < 0 || math.IsNaN(c.Render.DisplayScale) || math.IsInf(c.Render.DisplayScale, 0) {
		invalid("render.display_scale %g must be 0 or positive", c.Render.DisplayScale)
	}

	if c.Log.Level != "" && !validLogLevels[strings.ToLower(c.Log.Level)] {
		invalid("log.level %q is not valid (use debug, info, warn, error)", c.Log.Level)
	}
	if c.Log.Format != "" && c.Log.Format != "text" && c.Log.Format != "json" {
		invalid("log.format %q is not valid (use text or json)", c.Log.Format)
	}

	return errors.Join(errs...)
}
