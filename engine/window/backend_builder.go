package window

import "github.com/Carmen-Shannon/oxy-dissolve/engine/surface"

// HostBackendOption is a functional option for configuring a HostBackend.
type HostBackendOption func(*hostBackend)

// WithForceFallbackAdapter requests the software adapter instead of a hardware GPU.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - HostBackendOption: option function to apply
func WithForceFallbackAdapter(force bool) HostBackendOption {
	return func(b *hostBackend) {
		b.forceFallbackAdapter = force
	}
}

// WithPresentMode sets how the window surface presents frames.
//
// Parameters:
//   - mode: the present mode
//
// Returns:
//   - HostBackendOption: option function to apply
func WithPresentMode(mode surface.PresentMode) HostBackendOption {
	return func(b *hostBackend) {
		b.presentMode = mode
	}
}

// WithDisplayScale overrides the scale DisplayScale reports. Non-positive values keep the
// window content scale.
//
// Parameters:
//   - scale: the scale factor
//
// Returns:
//   - HostBackendOption: option function to apply
func WithDisplayScale(scale float64) HostBackendOption {
	return func(b *hostBackend) {
		b.displayScale = scale
	}
}
