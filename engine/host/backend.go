package host

import (
	"math"

	"github.com/Carmen-Shannon/oxy-dissolve/engine/device"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/surface"
)

// Backend supplies the platform primitives a SurfaceHost is built on. There is one
// implementation per windowing system; the host logic itself never branches on platform.
type Backend interface {
	// AcquireDevice returns the default GPU device. The host owns the returned reference.
	//
	// Returns:
	//   - *device.Device: the device
	//   - error: error if no device is available
	AcquireDevice() (*device.Device, error)

	// CreateSurface creates a drawable surface bound to dev.
	//
	// Parameters:
	//   - dev: the device the surface renders with
	//
	// Returns:
	//   - surface.Surface: the new surface, not yet attached
	//   - error: error if the surface cannot be created
	CreateSurface(dev *device.Device) (surface.Surface, error)

	// AttachSurface embeds s in the host's container.
	//
	// Parameters:
	//   - s: the surface to attach
	AttachSurface(s surface.Surface)

	// SetClipsToBounds enables or disables clipping of the host container.
	//
	// Parameters:
	//   - clips: false to let content exceed the host bounds
	SetClipsToBounds(clips bool)

	// DisplayScale reports the scale of the display currently showing the host.
	//
	// Returns:
	//   - float64: the scale factor
	//   - bool: false when the host is not on a display yet
	DisplayScale() (float64, bool)

	// DefaultDisplayScale reports the process-wide default display scale.
	//
	// Returns:
	//   - float64: the scale factor
	//   - bool: false when no display information exists at all
	DefaultDisplayScale() (float64, bool)
}

// ScaleSource reports a candidate device scale factor and whether it is available.
type ScaleSource func() (float64, bool)

// ResolveScale returns the first usable scale among sources, in order, or 1 when none is.
// A scale is usable when its source reports it available and it is positive and finite.
//
// Parameters:
//   - sources: candidate sources, most specific first
//
// Returns:
//   - float64: the effective device scale factor
func ResolveScale(sources ...ScaleSource) float64 {
	for _, source := range sources {
		if source == nil {
			continue
		}
		if scale, ok := source(); ok && scale > 0 && !math.IsInf(scale, 0) && !math.IsNaN(scale) {
			return scale
		}
	}
	return 1
}
