package offscreen

import "github.com/cogentcore/webgpu/wgpu"

// HostBackendOption is a functional option for configuring a HostBackend.
type HostBackendOption func(*hostBackend)

// WithDisplayScale makes DisplayScale report scale.
//
// Parameters:
//   - scale: the scale factor
//
// Returns:
//   - HostBackendOption: option function to apply
func WithDisplayScale(scale float64) HostBackendOption {
	return func(b *hostBackend) {
		b.display = scaleReport{scale: scale, ok: true}
	}
}

// WithDefaultDisplayScale makes DefaultDisplayScale report scale.
//
// Parameters:
//   - scale: the scale factor
//
// Returns:
//   - HostBackendOption: option function to apply
func WithDefaultDisplayScale(scale float64) HostBackendOption {
	return func(b *hostBackend) {
		b.defaultScale = scaleReport{scale: scale, ok: true}
	}
}

// WithForceFallbackAdapter requests the software adapter. Useful on machines without a GPU
// when a software Vulkan driver (lavapipe, SwiftShader) is installed.
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

// WithFormat sets the texture format of the offscreen target.
//
// Parameters:
//   - format: the texture format
//
// Returns:
//   - HostBackendOption: option function to apply
func WithFormat(format wgpu.TextureFormat) HostBackendOption {
	return func(b *hostBackend) {
		b.format = format
	}
}
