package device

import "github.com/cogentcore/webgpu/wgpu"

// deviceConfig collects the options applied by AcquireDefault before the adapter request.
type deviceConfig struct {
	label                string
	forceFallbackAdapter bool
	instance             *wgpu.Instance
	compatibleSurface    *wgpu.Surface
}

// DeviceBuilderOption is a functional option applied during AcquireDefault.
type DeviceBuilderOption func(*deviceConfig)

// WithLabel sets the debug label of the logical device.
//
// Parameters:
//   - label: the device label
//
// Returns:
//   - DeviceBuilderOption: option function to apply
func WithLabel(label string) DeviceBuilderOption {
	return func(c *deviceConfig) {
		c.label = label
	}
}

// WithForceFallbackAdapter forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - DeviceBuilderOption: option function to apply
func WithForceFallbackAdapter(force bool) DeviceBuilderOption {
	return func(c *deviceConfig) {
		c.forceFallbackAdapter = force
	}
}

// WithInstance reuses an existing WebGPU instance. The Device does not release an instance it
// did not create.
//
// Parameters:
//   - instance: the instance to request the adapter from
//
// Returns:
//   - DeviceBuilderOption: option function to apply
func WithInstance(instance *wgpu.Instance) DeviceBuilderOption {
	return func(c *deviceConfig) {
		c.instance = instance
	}
}

// WithCompatibleSurface asks for an adapter able to present to the given surface.
//
// Parameters:
//   - surface: the window surface the adapter must support
//
// Returns:
//   - DeviceBuilderOption: option function to apply
func WithCompatibleSurface(surface *wgpu.Surface) DeviceBuilderOption {
	return func(c *deviceConfig) {
		c.compatibleSurface = surface
	}
}
