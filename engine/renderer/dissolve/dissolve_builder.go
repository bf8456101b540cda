package dissolve

import (
	"log/slog"
	"runtime"
	"time"
)

// RendererBuilderOption is a functional option for configuring a Renderer.
type RendererBuilderOption func(*dissolveRenderer)

func defaultWorkers() int {
	return max(1, runtime.NumCPU())
}

// WithDuration sets how long a dissolve runs.
//
// Parameters:
//   - d: the animation length; non-positive completes on the first frame
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithDuration(d time.Duration) RendererBuilderOption {
	return func(r *dissolveRenderer) {
		r.duration = d
	}
}

// WithCellSize sets the particle cell edge in points.
//
// Parameters:
//   - size: the cell size; non-positive selects the default
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithCellSize(size float64) RendererBuilderOption {
	return func(r *dissolveRenderer) {
		if size > 0 {
			r.cellSize = size
		}
	}
}

// WithMaxParticles caps the particle count of one transition.
//
// Parameters:
//   - n: the maximum number of particles
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithMaxParticles(n int) RendererBuilderOption {
	return func(r *dissolveRenderer) {
		if n > 0 {
			r.maxParticles = n
		}
	}
}

// WithSpread scales how far particles travel. 1 is the default.
//
// Parameters:
//   - spread: the travel multiplier
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithSpread(spread float64) RendererBuilderOption {
	return func(r *dissolveRenderer) {
		r.spread = spread
	}
}

// WithSeed selects the jitter pattern.
//
// Parameters:
//   - seed: the jitter seed
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithSeed(seed uint64) RendererBuilderOption {
	return func(r *dissolveRenderer) {
		r.seed = seed
	}
}

// WithWorkers sets how many workers sample the particle field.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithWorkers(n int) RendererBuilderOption {
	return func(r *dissolveRenderer) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithClock replaces time.Now as the timeline clock.
//
// Parameters:
//   - clock: the clock to use
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithClock(clock Clock) RendererBuilderOption {
	return func(r *dissolveRenderer) {
		r.clock = clock
	}
}

// WithBackend replaces the WebGPU backend.
//
// Parameters:
//   - backend: the backend to render with
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithBackend(backend RendererBackend) RendererBuilderOption {
	return func(r *dissolveRenderer) {
		r.backend = backend
	}
}

// WithLogger sets the logger. Defaults to the module logger.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *dissolveRenderer) {
		r.logger = logger
	}
}
