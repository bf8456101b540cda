package window

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/device"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/host"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/surface"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoSurface is returned when the window cannot provide a surface descriptor.
var ErrNoSurface = errors.New("window has no surface descriptor")

// HostBackend is the desktop host.Backend: the GPU device and surface come from a GLFW window.
type HostBackend interface {
	host.Backend
	surface.Parent

	// Window returns the window the backend renders into.
	//
	// Returns:
	//   - Window: the window
	Window() Window

	// HostBounds returns the host bounds that make the host's expanded surface rectangle the
	// whole window, so the swap chain matches the framebuffer. The framebuffer is converted to
	// points at the scale the host resolves from this backend.
	//
	// Returns:
	//   - common.Rect: the middle third of the window, in points
	HostBounds() common.Rect

	// Attached returns the surface currently attached to the window, or nil.
	//
	// Returns:
	//   - surface.Surface: the attached surface
	Attached() surface.Surface

	// Release frees the WebGPU instance and any surface handle not handed to a Surface.
	Release()
}

type hostBackend struct {
	window Window

	forceFallbackAdapter bool
	presentMode          surface.PresentMode

	// displayScale overrides the window content scale when positive.
	displayScale float64

	instance *wgpu.Instance
	// pending is the window surface created for the adapter request and not yet wrapped.
	pending  *wgpu.Surface
	attached surface.Surface
	clips    bool
}

var _ HostBackend = &hostBackend{}

// NewHostBackend creates a host.Backend rendering into w.
//
// Parameters:
//   - w: the window to render into
//   - options: functional options applied in order
//
// Returns:
//   - HostBackend: the backend
func NewHostBackend(w Window, options ...HostBackendOption) HostBackend {
	b := &hostBackend{
		window:      w,
		presentMode: surface.PresentModeVSync,
		clips:       true,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *hostBackend) AcquireDevice() (*device.Device, error) {
	desc := b.window.SurfaceDescriptor()
	if desc == nil {
		return nil, ErrNoSurface
	}
	if b.instance == nil {
		b.instance = wgpu.CreateInstance(nil)
	}
	if b.pending == nil {
		b.pending = b.instance.CreateSurface(desc)
	}

	dev, err := device.AcquireDefault(
		device.WithInstance(b.instance),
		device.WithCompatibleSurface(b.pending),
		device.WithForceFallbackAdapter(b.forceFallbackAdapter),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire device for window: %w", err)
	}
	return dev, nil
}

func (b *hostBackend) CreateSurface(dev *device.Device) (surface.Surface, error) {
	if b.pending == nil {
		return nil, ErrNoSurface
	}
	s := surface.NewWindowSurface(dev, b.pending, surface.WithPresentMode(b.presentMode))
	b.pending = nil
	return s, nil
}

func (b *hostBackend) AttachSurface(s surface.Surface) {
	b.attached = s
	s.AttachTo(b)
}

func (b *hostBackend) DetachSurface(s surface.Surface) {
	if b.attached == s {
		b.attached = nil
	}
}

func (b *hostBackend) SetClipsToBounds(clips bool) {
	b.clips = clips
}

func (b *hostBackend) DisplayScale() (float64, bool) {
	if b.displayScale > 0 {
		return b.displayScale, true
	}
	return b.window.ContentScale()
}

func (b *hostBackend) DefaultDisplayScale() (float64, bool) {
	return b.window.MonitorContentScale()
}

func (b *hostBackend) HostBounds() common.Rect {
	scale := host.ResolveScale(b.DisplayScale, b.DefaultDisplayScale)
	return HostBounds(common.NewRect(0, 0, float64(b.window.Width())/scale, float64(b.window.Height())/scale))
}

func (b *hostBackend) Window() Window {
	return b.window
}

func (b *hostBackend) Attached() surface.Surface {
	return b.attached
}

func (b *hostBackend) Release() {
	if b.pending != nil {
		b.pending.Release()
		b.pending = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	common.Logger().Debug("window backend released")
}

// HostBounds returns the middle third of windowBounds. A top-level window has nothing around
// it to draw into, so the window itself is the host's expanded surface rectangle.
//
// Parameters:
//   - windowBounds: the window bounds in points
//
// Returns:
//   - common.Rect: the host bounds
func HostBounds(windowBounds common.Rect) common.Rect {
	return windowBounds.Inset(windowBounds.Width()/3, windowBounds.Height()/3)
}
