package engine

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/host"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/profiler"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/window"
)

// defaultFrameRate is the display link rate when none is configured.
const defaultFrameRate = 60

// engine implements the Engine interface.
// Drives the host surface from the window's message loop.
type engine struct {
	window window.Window
	host   host.SurfaceHost

	// hostBounds maps the current window geometry to host bounds.
	hostBounds func() common.Rect

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	frameCallback    func(deltaTime float32)

	now       func() time.Time
	lastFrame time.Time
	frames    int

	quit     atomic.Bool
	quitOnce sync.Once

	logger *slog.Logger
}

// Engine is the display link: it asks the host surface for one frame per refresh interval on
// the window goroutine and routes window geometry changes to the host.
type Engine interface {
	// Window returns the underlying window, or nil for a headless engine.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Host returns the surface host being driven.
	//
	// Returns:
	//   - host.SurfaceHost: the host
	Host() host.SurfaceHost

	// EnableProfiler enables frame statistics in the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics.
	DisableProfiler()

	// SetFrameCallback registers the function called at the start of each display frame,
	// before the surface is drawn.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds since the previous frame
	SetFrameCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets the display link rate in frames per second.
	// Pass 0 to draw on every loop iteration.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Step runs one display link iteration: if a frame interval has elapsed, it calls the frame
	// callback and draws the host surface once.
	//
	// Returns:
	//   - bool: true if a frame was drawn
	Step() bool

	// Frames returns how many frames have been drawn.
	//
	// Returns:
	//   - int: the frame count
	Frames() int

	// Run pumps window messages and drives the display link until the window closes or Quit
	// is called. Without a window it loops on the calling goroutine until Quit.
	Run()

	// Quit tears the host down and closes the window.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Running reports whether Quit has not run yet.
	//
	// Returns:
	//   - bool: true until Quit
	Running() bool
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
// When both a window and a host are configured, window resize and content scale changes
// are routed to host.Layout with the bounds from WithHostBounds, or the middle third of the
// window by default.
//
// Parameters:
//   - options: functional options for engine configuration (window, host, profiling, frame rate)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		renderFrameLimit: time.Second / defaultFrameRate,
		now:              time.Now,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.logger == nil {
		e.logger = common.Logger()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger), profiler.WithClock(e.now))
	}

	if e.window != nil && e.host != nil {
		if e.hostBounds == nil {
			e.hostBounds = func() common.Rect {
				return window.HostBounds(e.window.Bounds())
			}
		}
		e.window.SetResizeCallback(func(common.Rect) {
			if !e.host.TornDown() {
				e.host.Layout(e.hostBounds())
			}
		})
		e.window.SetContentScaleCallback(func(scale float64) {
			if !e.host.TornDown() {
				e.logger.Debug("content scale changed", "scale", scale)
				e.host.Layout(e.hostBounds())
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Host() host.SurfaceHost {
	return e.host
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetFrameCallback(callback func(deltaTime float32)) {
	e.frameCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameInterval(fps)
}

func (e *engine) Step() bool {
	if e.quit.Load() {
		return false
	}

	now := e.now()
	if e.renderFrameLimit > 0 && !e.lastFrame.IsZero() && now.Sub(e.lastFrame) < e.renderFrameLimit {
		return false
	}
	var dt float32
	if !e.lastFrame.IsZero() {
		dt = float32(now.Sub(e.lastFrame).Seconds())
	}
	e.lastFrame = now

	if e.frameCallback != nil {
		e.frameCallback(dt)
	}
	// The callback may have quit.
	if e.quit.Load() {
		return false
	}

	if e.host != nil && !e.host.TornDown() {
		if s := e.host.Surface(); s != nil {
			s.Draw()
		}
	}
	e.frames++

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}
	return true
}

func (e *engine) Frames() int {
	return e.frames
}

func (e *engine) Run() {
	defer e.Quit()

	if e.window != nil {
		e.window.SetUpdateCallback(func() {
			e.Step()
		})
		e.window.ProcessMessages()
		return
	}

	for !e.quit.Load() {
		if e.Step() {
			continue
		}
		if remaining := e.renderFrameLimit - e.now().Sub(e.lastFrame); remaining > 0 {
			time.Sleep(remaining)
		} else {
			runtime.Gosched()
		}
	}
}

// Quit tears the host down before closing the window so the surface is released while the
// window still exists. Guarded by sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.quit.Store(true)
		if e.host != nil {
			e.host.Teardown()
		}
		if e.window != nil && e.window.IsRunning() {
			if err := e.window.Close(); err != nil {
				e.logger.Warn("failed to close window", "error", err)
			}
		}
		e.logger.Info("engine stopped", "frames", e.frames)
	})
}

func (e *engine) Running() bool {
	return !e.quit.Load()
}

// frameInterval converts a frame rate into a frame duration; non-positive rates are uncapped.
func frameInterval(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
