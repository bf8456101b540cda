package surface

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/device"
	"github.com/cogentcore/webgpu/wgpu"
)

// windowSurface presents into a platform window through a WebGPU swap chain.
type windowSurface struct {
	base

	surface     *wgpu.Surface
	format      wgpu.TextureFormat
	presentMode PresentMode
	label       string
}

var _ Surface = &windowSurface{}

// NewWindowSurface wraps a WebGPU window surface. The surface takes its own reference on dev
// and takes ownership of s.
//
// Parameters:
//   - dev: the device the swap chain is configured for
//   - s: the platform surface, typically created from a window surface descriptor
//   - options: functional options (present mode, label)
//
// Returns:
//   - Surface: the drawable surface, opaque and clipping by default
func NewWindowSurface(dev *device.Device, s *wgpu.Surface, options ...SurfaceBuilderOption) Surface {
	cfg := newSurfaceConfig(options)
	w := &windowSurface{
		base:        newBase(dev.Retain()),
		surface:     s,
		presentMode: cfg.presentMode,
		label:       cfg.label,
	}
	w.self = w

	capabilities := s.GetCapabilities(dev.Adapter())
	if len(capabilities.Formats) > 0 {
		w.format = capabilities.Formats[0]
	} else {
		w.format = wgpu.TextureFormatBGRA8Unorm
	}
	return w
}

func (w *windowSurface) Format() wgpu.TextureFormat {
	return w.format
}

// configure rebuilds the swap chain for the current drawable size and compositing mode.
func (w *windowSurface) configure() {
	capabilities := w.surface.GetCapabilities(w.dev.Adapter())
	w.surface.Configure(w.dev.Adapter(), w.dev.Device(), &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      w.format,
		Width:       uint32(w.size.Width),
		Height:      uint32(w.size.Height),
		PresentMode: w.presentMode.toWGPU(),
		AlphaMode:   chooseAlphaMode(capabilities.AlphaModes, w.opaque),
	})
	w.configured = w.size
	common.Logger().Debug("window surface configured", "label", w.label, "width", w.size.Width, "height", w.size.Height, "opaque", w.opaque)
}

func (w *windowSurface) AcquireFrame() (*Frame, error) {
	if w.released {
		return nil, ErrReleased
	}
	if w.size.Empty() {
		return nil, ErrZeroSize
	}
	if w.needsConfigure() {
		w.configure()
	}

	tex, err := w.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire swap chain texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create swap chain view: %w", err)
	}

	return &Frame{
		View:    view,
		texture: tex,
		ownTex:  true,
		present: func() { w.surface.Present() },
	}, nil
}

func (w *windowSurface) Release() {
	if w.released {
		return
	}
	w.released = true
	w.delegate = nil
	if w.surface != nil {
		w.surface.Release()
		w.surface = nil
	}
	w.dev.Release()
}
