package surface

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/device"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrReleased is returned when a frame is requested from a released surface.
	ErrReleased = errors.New("surface has been released")

	// ErrZeroSize is returned when a frame is requested while the drawable size is empty.
	ErrZeroSize = errors.New("surface drawable size is empty")
)

// Delegate receives "render a frame now" requests from a Surface.
type Delegate interface {
	// Draw renders one frame into the drawable.
	//
	// Parameters:
	//   - d: the drawable requesting the frame
	Draw(d Drawable)
}

// Drawable is the view of a Surface handed to its Delegate.
type Drawable interface {
	// Device returns the GPU device the surface renders with.
	Device() *device.Device

	// Format returns the texture format of acquired frames.
	Format() wgpu.TextureFormat

	// Frame returns the surface rectangle in the host's coordinate space.
	Frame() common.Rect

	// DrawableSize returns the backing size in device pixels.
	DrawableSize() common.PixelSize

	// Opaque reports whether the surface composites opaquely.
	Opaque() bool

	// AcquireFrame returns the next texture to render into. The caller must Present or
	// Discard the frame.
	//
	// Returns:
	//   - *Frame: the acquired frame
	//   - error: ErrReleased, ErrZeroSize, or the backend error
	AcquireFrame() (*Frame, error)
}

// Parent is the container a Surface is attached to.
type Parent interface {
	// DetachSurface removes s from the container.
	DetachSurface(s Surface)
}

// Surface is a GPU-backed drawable that a host sizes, positions and asks to draw.
type Surface interface {
	Drawable

	// SetFrame positions and sizes the surface in the host's coordinate space.
	SetFrame(frame common.Rect)

	// SetDrawableSize sets the backing size in device pixels. The swap chain is reconfigured
	// on the next frame acquisition when the size changed.
	SetDrawableSize(size common.PixelSize)

	// SetOpaque selects opaque or alpha-blended compositing.
	SetOpaque(opaque bool)

	// ClipsToBounds reports whether content outside the frame is clipped.
	ClipsToBounds() bool

	// SetClipsToBounds enables or disables clipping to the frame.
	SetClipsToBounds(clips bool)

	// Delegate returns the current draw delegate, or nil.
	Delegate() Delegate

	// SetDelegate installs or clears (nil) the draw delegate.
	SetDelegate(d Delegate)

	// Draw synchronously asks the delegate to render one frame.
	// Does nothing without a delegate or after Release.
	Draw()

	// AttachTo records the container the surface lives in.
	AttachTo(p Parent)

	// RemoveFromParent detaches the surface from its container, if any.
	RemoveFromParent()

	// Release frees the GPU resources and the device reference held by the surface.
	// Safe to call more than once.
	Release()
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

func (m PresentMode) toWGPU() wgpu.PresentMode {
	switch m {
	case PresentModeUncapped:
		return wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		return wgpu.PresentModeFifo
	}
}

// Frame is one acquired render target. View is valid until Present or Discard.
type Frame struct {
	// View is the texture view to use as the color attachment.
	View *wgpu.TextureView

	texture *wgpu.Texture
	present func()
	ownTex  bool
	done    bool
}

// Present hands the frame to the display and releases it.
func (f *Frame) Present() {
	if f == nil || f.done {
		return
	}
	if f.present != nil {
		f.present()
	}
	f.release()
}

// Discard releases the frame without presenting it.
func (f *Frame) Discard() {
	if f == nil || f.done {
		return
	}
	f.release()
}

func (f *Frame) release() {
	f.done = true
	if f.View != nil {
		f.View.Release()
		f.View = nil
	}
	if f.texture != nil && f.ownTex {
		f.texture.Release()
	}
	f.texture = nil
}

// base holds the state shared by every Surface implementation.
type base struct {
	self Surface

	dev      *device.Device
	frame    common.Rect
	size     common.PixelSize
	opaque   bool
	clips    bool
	delegate Delegate
	parent   Parent
	released bool

	// configured is the drawable size the backing store was last built for.
	configured common.PixelSize
}

func newBase(dev *device.Device) base {
	return base{
		dev:    dev,
		opaque: true,
		clips:  true,
	}
}

func (b *base) Device() *device.Device             { return b.dev }
func (b *base) Frame() common.Rect                 { return b.frame }
func (b *base) SetFrame(frame common.Rect)         { b.frame = frame }
func (b *base) DrawableSize() common.PixelSize     { return b.size }
func (b *base) SetDrawableSize(s common.PixelSize) { b.size = s }
func (b *base) Opaque() bool                       { return b.opaque }
func (b *base) ClipsToBounds() bool                { return b.clips }
func (b *base) SetClipsToBounds(clips bool)        { b.clips = clips }
func (b *base) Delegate() Delegate                 { return b.delegate }
func (b *base) SetDelegate(d Delegate)             { b.delegate = d }
func (b *base) AttachTo(p Parent)                  { b.parent = p }

func (b *base) Draw() {
	if b.released || b.delegate == nil {
		return
	}
	b.delegate.Draw(b.self)
}

// needsConfigure reports whether the backing store must be rebuilt before the next frame.
func (b *base) needsConfigure() bool {
	return b.configured != b.size
}

func (b *base) RemoveFromParent() {
	p := b.parent
	b.parent = nil
	if p != nil {
		p.DetachSurface(b.self)
	}
}

func (b *base) SetOpaque(opaque bool) {
	if b.opaque == opaque {
		return
	}
	b.opaque = opaque
	// Compositing mode is part of the swap chain configuration.
	b.configured = common.PixelSize{}
}

// chooseAlphaMode picks the compositing mode for the surface. Non-opaque surfaces prefer
// premultiplied alpha so the content behind shows through unfilled pixels.
//
// Parameters:
//   - supported: the alpha modes reported by the surface capabilities
//   - opaque: whether the surface is opaque
//
// Returns:
//   - wgpu.CompositeAlphaMode: the chosen mode
func chooseAlphaMode(supported []wgpu.CompositeAlphaMode, opaque bool) wgpu.CompositeAlphaMode {
	preferred := []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModePremultiplied, wgpu.CompositeAlphaModeUnpremultiplied}
	if opaque {
		preferred = []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque}
	}
	for _, want := range preferred {
		for _, have := range supported {
			if have == want {
				return have
			}
		}
	}
	if len(supported) > 0 {
		return supported[0]
	}
	return wgpu.CompositeAlphaModeAuto
}
