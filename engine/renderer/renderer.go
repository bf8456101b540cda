package renderer

import (
	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/device"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/surface"
)

// Transition bundles everything a renderer needs to run one dissolve.
// The host builds it in Begin and hands it straight to PrepareResources; it keeps no reference.
type Transition struct {
	// Image is the source bitmap. Borrowed: renderers must not mutate it and must copy
	// whatever they need to keep past PrepareResources.
	Image common.Bitmap

	// TargetFrame is where the image sits, in the host's coordinate space.
	TargetFrame common.Rect

	// OnComplete is invoked at most once, when no further animation is needed.
	OnComplete func()

	// OnFirstFrameRendered is invoked at most once, no later than the first frame whose
	// pixels contain rendered output.
	OnFirstFrameRendered func()
}

// Renderer is the collaborator a host drives. It is installed as the surface delegate once,
// when the surface is created, and stays installed until the host tears down.
//
// Contract:
//   - PrepareResources may be called any number of times. Each call supersedes the previous
//     transition and leaves the renderer ready to draw as soon as it returns.
//   - OnFirstFrameRendered and OnComplete fire at most once per PrepareResources call, from
//     whatever goroutine runs the draw loop.
//   - After OnComplete the renderer keeps answering Draw with a stable idle frame; it never
//     restarts the animation on its own.
//   - Cancel is safe at any time, including before the first PrepareResources, and no
//     callback fires after it returns.
type Renderer interface {
	surface.Delegate

	// PrepareResources primes the renderer for a new transition.
	//
	// Parameters:
	//   - dev: the device the host's surface renders with
	//   - t: the transition to run
	PrepareResources(dev *device.Device, t Transition)

	// Cancel stops any in-flight transition, drops its callbacks and releases the GPU
	// resources allocated by PrepareResources.
	Cancel()
}
