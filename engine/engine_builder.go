package engine

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/host"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/profiler"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables frame statistics.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler to tick each frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithWindow sets the window whose message loop drives the display link.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithHost sets the surface host the display link draws.
//
// Parameters:
//   - h: the host to drive
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithHost(h host.SurfaceHost) EngineBuilderOption {
	return func(e *engine) {
		e.host = h
	}
}

// WithHostBounds sets how window geometry becomes host bounds on resize and content scale
// changes. Pass the window backend's HostBounds so layout uses the scale the host resolves.
//
// Parameters:
//   - fn: returns the host bounds for the current window geometry
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithHostBounds(fn func() common.Rect) EngineBuilderOption {
	return func(e *engine) {
		e.hostBounds = fn
	}
}

// WithRenderFrameLimit sets the display link rate in frames per second.
// Default 60. Pass 0 to draw on every loop iteration.
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameInterval(fps)
	}
}

// WithClock replaces time.Now for frame pacing.
//
// Parameters:
//   - now: the clock to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		e.now = now
	}
}

// WithLogger sets the logger. Defaults to the module logger.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger
	}
}
