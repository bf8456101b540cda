package surface

import "github.com/cogentcore/webgpu/wgpu"

// surfaceConfig collects the options applied when a surface is constructed.
type surfaceConfig struct {
	label       string
	presentMode PresentMode
	format      wgpu.TextureFormat
}

// SurfaceBuilderOption is a functional option applied by NewWindowSurface and NewOffscreenSurface.
type SurfaceBuilderOption func(*surfaceConfig)

// WithLabel sets the debug label used for GPU resources created by the surface.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - SurfaceBuilderOption: option function to apply
func WithLabel(label string) SurfaceBuilderOption {
	return func(c *surfaceConfig) {
		c.label = label
	}
}

// WithPresentMode sets how a window surface presents frames. Ignored by offscreen surfaces.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - SurfaceBuilderOption: option function to apply
func WithPresentMode(mode PresentMode) SurfaceBuilderOption {
	return func(c *surfaceConfig) {
		c.presentMode = mode
	}
}

// WithFormat overrides the texture format of an offscreen surface. Window surfaces always use
// the first format the platform reports.
//
// Parameters:
//   - format: the color format
//
// Returns:
//   - SurfaceBuilderOption: option function to apply
func WithFormat(format wgpu.TextureFormat) SurfaceBuilderOption {
	return func(c *surfaceConfig) {
		c.format = format
	}
}

func newSurfaceConfig(options []SurfaceBuilderOption) *surfaceConfig {
	c := &surfaceConfig{
		label:       "Dissolve Surface",
		presentMode: PresentModeVSync,
		format:      wgpu.TextureFormatRGBA8Unorm,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}
