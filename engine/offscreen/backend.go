// Package offscreen provides a host.Backend with no window. Frames are rendered into a device
// texture, which makes it suitable for headless runs and tests.
package offscreen

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-dissolve/engine/device"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/host"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/surface"
	"github.com/cogentcore/webgpu/wgpu"
)

// HostBackend is a headless host.Backend. Display scales are whatever the caller configures.
type HostBackend interface {
	host.Backend
	surface.Parent

	// SetDisplayScale changes the scale reported by DisplayScale.
	//
	// Parameters:
	//   - scale: the scale factor
	//   - ok: false to report the scale as unavailable
	SetDisplayScale(scale float64, ok bool)

	// SetDefaultDisplayScale changes the scale reported by DefaultDisplayScale.
	//
	// Parameters:
	//   - scale: the scale factor
	//   - ok: false to report the scale as unavailable
	SetDefaultDisplayScale(scale float64, ok bool)

	// Attached returns the surface currently attached, or nil.
	//
	// Returns:
	//   - surface.Offscreen: the attached surface
	Attached() surface.Offscreen

	// Presented returns how many frames the attached surfaces have presented.
	//
	// Returns:
	//   - int: the presented frame count
	Presented() int

	// ClipsToBounds reports the last value passed to SetClipsToBounds.
	ClipsToBounds() bool
}

type scaleReport struct {
	scale float64
	ok    bool
}

type hostBackend struct {
	display      scaleReport
	defaultScale scaleReport

	forceFallbackAdapter bool
	format               wgpu.TextureFormat
	label                string

	// acquire creates the device; replaced in tests.
	acquire func(options ...device.DeviceBuilderOption) (*device.Device, error)

	attached  surface.Offscreen
	clips     bool
	presented atomic.Int64
}

var _ HostBackend = &hostBackend{}

// NewHostBackend creates a headless backend. With no options both scales are unavailable, so
// a host using it resolves a scale of 1.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - HostBackend: the backend
func NewHostBackend(options ...HostBackendOption) HostBackend {
	b := &hostBackend{
		format:  wgpu.TextureFormatRGBA8Unorm,
		label:   "Offscreen Surface",
		acquire: device.AcquireDefault,
		clips:   true,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *hostBackend) AcquireDevice() (*device.Device, error) {
	return b.acquire(
		device.WithLabel("Offscreen Device"),
		device.WithForceFallbackAdapter(b.forceFallbackAdapter),
	)
}

func (b *hostBackend) CreateSurface(dev *device.Device) (surface.Surface, error) {
	s := surface.NewOffscreenSurface(dev, surface.WithFormat(b.format), surface.WithLabel(b.label))
	s.OnPresent(func() {
		b.presented.Add(1)
	})
	return s, nil
}

func (b *hostBackend) AttachSurface(s surface.Surface) {
	if o, ok := s.(surface.Offscreen); ok {
		b.attached = o
	}
	s.AttachTo(b)
}

func (b *hostBackend) DetachSurface(s surface.Surface) {
	if b.attached != nil && surface.Surface(b.attached) == s {
		b.attached = nil
	}
}

func (b *hostBackend) SetClipsToBounds(clips bool) {
	b.clips = clips
}

func (b *hostBackend) ClipsToBounds() bool {
	return b.clips
}

func (b *hostBackend) DisplayScale() (float64, bool) {
	return b.display.scale, b.display.ok
}

func (b *hostBackend) DefaultDisplayScale() (float64, bool) {
	return b.defaultScale.scale, b.defaultScale.ok
}

func (b *hostBackend) SetDisplayScale(scale float64, ok bool) {
	b.display = scaleReport{scale: scale, ok: ok}
}

func (b *hostBackend) SetDefaultDisplayScale(scale float64, ok bool) {
	b.defaultScale = scaleReport{scale: scale, ok: ok}
}

func (b *hostBackend) Attached() surface.Offscreen {
	return b.attached
}

func (b *hostBackend) Presented() int {
	return int(b.presented.Load())
}
