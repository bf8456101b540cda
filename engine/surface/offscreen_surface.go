package surface

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/device"
	"github.com/cogentcore/webgpu/wgpu"
)

// offscreenSurface renders into a texture it owns instead of a window.
type offscreenSurface struct {
	base

	format  wgpu.TextureFormat
	label   string
	target  *wgpu.Texture
	onFrame func()
}

// Offscreen is a Surface that renders into a texture instead of a window.
type Offscreen interface {
	Surface

	// Texture returns the current target texture, or nil before the first frame.
	Texture() *wgpu.Texture

	// OnPresent registers a function called each time a frame is presented.
	OnPresent(fn func())
}

var _ Offscreen = &offscreenSurface{}

// NewOffscreenSurface creates a surface backed by a device texture. The surface takes its own
// reference on dev. The target texture is (re)allocated lazily when a frame is acquired after
// the drawable size changed.
//
// Parameters:
//   - dev: the device used to allocate the target texture
//   - options: functional options (format, label)
//
// Returns:
//   - Offscreen: the drawable surface, opaque and clipping by default
func NewOffscreenSurface(dev *device.Device, options ...SurfaceBuilderOption) Offscreen {
	cfg := newSurfaceConfig(options)
	o := &offscreenSurface{
		base:   newBase(dev.Retain()),
		format: cfg.format,
		label:  cfg.label,
	}
	o.self = o
	return o
}

func (o *offscreenSurface) Format() wgpu.TextureFormat {
	return o.format
}

func (o *offscreenSurface) Texture() *wgpu.Texture {
	return o.target
}

func (o *offscreenSurface) OnPresent(fn func()) {
	o.onFrame = fn
}

func (o *offscreenSurface) configure() error {
	if o.target != nil {
		o.target.Release()
		o.target = nil
	}
	tex, err := o.dev.Device().CreateTexture(&wgpu.TextureDescriptor{
		Label: o.label + " Target",
		Size: wgpu.Extent3D{
			Width:              uint32(o.size.Width),
			Height:             uint32(o.size.Height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        o.format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("failed to create offscreen target: %w", err)
	}
	o.target = tex
	o.configured = o.size
	common.Logger().Debug("offscreen surface configured", "label", o.label, "width", o.size.Width, "height", o.size.Height)
	return nil
}

func (o *offscreenSurface) AcquireFrame() (*Frame, error) {
	if o.released {
		return nil, ErrReleased
	}
	if o.size.Empty() {
		return nil, ErrZeroSize
	}
	if o.needsConfigure() || o.target == nil {
		if err := o.configure(); err != nil {
			return nil, err
		}
	}

	view, err := o.target.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create offscreen view: %w", err)
	}
	return &Frame{
		View:    view,
		texture: o.target,
		ownTex:  false,
		present: o.onFrame,
	}, nil
}

func (o *offscreenSurface) Release() {
	if o.released {
		return
	}
	o.released = true
	o.delegate = nil
	if o.target != nil {
		o.target.Release()
		o.target = nil
	}
	o.dev.Release()
}
