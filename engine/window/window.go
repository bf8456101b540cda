package window

import (
	"fmt"
	"math"
	"runtime"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving the new bounds in points
	SetResizeCallback(callback func(bounds common.Rect))

	// SetContentScaleCallback sets the function called when the window moves to a display with
	// a different scale factor, or the display scale changes.
	//
	// Parameters:
	//   - callback: function receiving the new content scale
	SetContentScaleCallback(callback func(scale float64))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// ContentScale returns the ratio between framebuffer pixels and points for this window.
	//
	// Returns:
	//   - float64: the scale factor
	//   - bool: false if the platform did not report a usable value
	ContentScale() (float64, bool)

	// MonitorContentScale returns the content scale of the primary monitor.
	//
	// Returns:
	//   - float64: the scale factor
	//   - bool: false if there is no monitor or it did not report a usable value
	MonitorContentScale() (float64, bool)

	// Bounds returns the client area in points, anchored at the origin.
	//
	// Returns:
	//   - common.Rect: the client area
	Bounds() common.Rect

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// maxWidth is the maximum allowed window width during resize.
	maxWidth int

	// maxHeight is the maximum allowed window height during resize.
	maxHeight int

	// minWidth is the minimum allowed window width during resize.
	minWidth int

	// minHeight is the minimum allowed window height during resize.
	minHeight int

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// transparent requests a framebuffer with an alpha channel the compositor honors.
	transparent bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	// onResize is called when the framebuffer is resized.
	onResize func(bounds common.Rect)

	// onContentScale is called when the content scale changes.
	onContentScale func(scale float64)

	// onKeyDown is called when a key is pressed.
	onKeyDown func(keyCode uint32)

	// onKeyUp is called when a key is released.
	onKeyUp func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:     "Dissolve",
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  200,
		minHeight: 200,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(bounds common.Rect)) {
	w.onResize = callback
}

func (w *engineWindow) SetContentScaleCallback(callback func(scale float64)) {
	w.onContentScale = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) ContentScale() (float64, bool) {
	return validScale(platformContentScale(w))
}

func (w *engineWindow) MonitorContentScale() (float64, bool) {
	return validScale(platformMonitorContentScale())
}

func (w *engineWindow) Bounds() common.Rect {
	return boundsFor(w.width, w.height, w.ContentScale)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// validScale filters platform scale reports. GLFW may return 0 or NaN for a display that has
// not finished connecting.
func validScale(scale float32, ok bool) (float64, bool) {
	s := float64(scale)
	if !ok || !(s > 0) || math.IsInf(s, 0) {
		return 0, false
	}
	return s, true
}

// boundsFor converts a framebuffer size into point bounds at the window's content scale.
//
// Parameters:
//   - width: the framebuffer width in pixels
//   - height: the framebuffer height in pixels
//   - scale: the content scale source; unavailable scale counts as 1
//
// Returns:
//   - common.Rect: the bounds in points
func boundsFor(width, height int, scale func() (float64, bool)) common.Rect {
	s, ok := scale()
	if !ok {
		s = 1
	}
	return common.NewRect(0, 0, float64(width)/s, float64(height)/s)
}
