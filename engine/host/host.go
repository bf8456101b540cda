package host

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/device"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/renderer"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/surface"
)

// SurfaceHost owns a GPU device and a drawable surface, keeps the surface sized to three times
// the host bounds at the current display scale, and hands transitions to a renderer.
//
// All methods must be called from the same goroutine (the UI goroutine). The host starts no
// goroutines of its own.
type SurfaceHost interface {
	// Layout recomputes the surface geometry for new host bounds. Cheap and idempotent.
	//
	// Parameters:
	//   - bounds: the host's visible bounds
	Layout(bounds common.Rect)

	// Begin hands a transition to the renderer and requests exactly one draw.
	// Returns immediately. Calling it again before the previous transition completes
	// re-primes the renderer. Panics if the host has been torn down.
	//
	// Parameters:
	//   - image: the source bitmap (borrowed)
	//   - targetFrame: where the image sits in host coordinates
	//   - onComplete: invoked at most once when the transition finishes
	//   - onFirstFrameRendered: invoked at most once when the first frame is on screen
	Begin(image common.Bitmap, targetFrame common.Rect, onComplete, onFirstFrameRendered func())

	// Teardown detaches the draw delegate, cancels the renderer, detaches and releases the
	// surface, then drops the device reference. Later calls do nothing.
	Teardown()

	// Close calls Teardown. It lets a host be released with defer.
	//
	// Returns:
	//   - error: always nil
	Close() error

	// Bounds returns the bounds passed to the last Layout.
	Bounds() common.Rect

	// Scale returns the device scale factor resolved by the last Layout.
	Scale() float64

	// Surface returns the drawable surface, or nil after Teardown.
	Surface() surface.Surface

	// Device returns the GPU device, or nil after Teardown.
	Device() *device.Device

	// TornDown reports whether Teardown has run.
	TornDown() bool
}

// surfaceHost is the implementation of the SurfaceHost interface.
type surfaceHost struct {
	backend  Backend
	renderer renderer.Renderer

	device  *device.Device
	surface surface.Surface

	bounds   common.Rect
	scale    float64
	tornDown bool

	fatal  func(err error)
	logger *slog.Logger
}

var _ SurfaceHost = &surfaceHost{}

// NewSurfaceHost acquires the GPU device, creates the drawable surface, installs r as its
// delegate and lays the surface out for bounds.
//
// A missing device or surface is unrecoverable: the fatal handler runs (by default it logs
// the cause and exits the process). Resources acquired before the failure are released first.
//
// Parameters:
//   - backend: the platform backend supplying device, surface and display scale
//   - r: the renderer driving the transition
//   - bounds: the initial host bounds
//   - options: functional options (fatal handler, logger)
//
// Returns:
//   - SurfaceHost: the initialized host
func NewSurfaceHost(backend Backend, r renderer.Renderer, bounds common.Rect, options ...SurfaceHostBuilderOption) SurfaceHost {
	h := &surfaceHost{
		backend:  backend,
		renderer: r,
		scale:    1,
		fatal:    exitOnFatal,
	}
	for _, opt := range options {
		opt(h)
	}
	if h.logger == nil {
		h.logger = common.Logger()
	}

	dev, err := backend.AcquireDevice()
	if err != nil {
		h.fatal(fmt.Errorf("failed to acquire GPU device: %w", err))
		return h
	}

	s, err := backend.CreateSurface(dev)
	if err != nil {
		dev.Release()
		h.fatal(fmt.Errorf("failed to create drawable surface: %w", err))
		return h
	}

	h.device = dev
	h.surface = s

	// Particles travel beyond the content rectangle, so neither the surface nor the host may
	// clip, and the surface must blend over whatever is behind it.
	s.SetOpaque(false)
	s.SetClipsToBounds(false)
	backend.SetClipsToBounds(false)
	s.SetDelegate(r)

	backend.AttachSurface(s)
	h.Layout(bounds)

	h.logger.Info("surface host initialized", "bounds", bounds, "scale", h.scale)
	return h
}

func (h *surfaceHost) Layout(bounds common.Rect) {
	h.bounds = bounds
	if h.surface == nil {
		return
	}

	expanded := ExpandedRect(bounds)
	h.surface.SetFrame(expanded)

	h.scale = ResolveScale(h.backend.DisplayScale, h.backend.DefaultDisplayScale)
	h.surface.SetDrawableSize(common.PixelSizeOf(expanded.Size, h.scale))
}

func (h *surfaceHost) Begin(image common.Bitmap, targetFrame common.Rect, onComplete, onFirstFrameRendered func()) {
	if h.tornDown {
		panic("host: Begin called after Teardown")
	}
	if h.surface == nil || h.device == nil {
		panic("host: Begin called on a host that failed to initialize")
	}

	// The display may have changed since the last layout notification.
	h.Layout(h.bounds)

	h.renderer.PrepareResources(h.device, renderer.Transition{
		Image:                image,
		TargetFrame:          targetFrame,
		OnComplete:           onComplete,
		OnFirstFrameRendered: onFirstFrameRendered,
	})
	h.surface.Draw()

	h.logger.Debug("transition started", "target", targetFrame, "drawable", h.surface.DrawableSize())
}

func (h *surfaceHost) Teardown() {
	if h.tornDown {
		return
	}
	h.tornDown = true

	// The delegate goes first so a late draw can never reach a renderer mid-cancel.
	if h.surface != nil {
		h.surface.SetDelegate(nil)
	}
	if h.renderer != nil {
		h.renderer.Cancel()
	}
	if h.surface != nil {
		h.surface.RemoveFromParent()
		h.surface.Release()
		h.surface = nil
	}
	if h.device != nil {
		h.device.Release()
		h.device = nil
	}

	h.logger.Info("surface host torn down")
}

func (h *surfaceHost) Close() error {
	h.Teardown()
	return nil
}

func (h *surfaceHost) Bounds() common.Rect {
	return h.bounds
}

func (h *surfaceHost) Scale() float64 {
	return h.scale
}

func (h *surfaceHost) Surface() surface.Surface {
	return h.surface
}

func (h *surfaceHost) Device() *device.Device {
	return h.device
}

func (h *surfaceHost) TornDown() bool {
	return h.tornDown
}

// ExpandedRect returns the surface rectangle for the given host bounds: the bounds grown by
// their own width and height on every side, i.e. three times as wide and tall, same center.
//
// Parameters:
//   - bounds: the host bounds
//
// Returns:
//   - common.Rect: the expanded rectangle in host coordinates
func ExpandedRect(bounds common.Rect) common.Rect {
	return bounds.Inset(-bounds.Width(), -bounds.Height())
}
