package device

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNoAdapter is returned when no graphics adapter satisfies the request.
	ErrNoAdapter = errors.New("no GPU adapter available")

	// ErrNoDevice is returned when the adapter refuses to create a logical device.
	ErrNoDevice = errors.New("no GPU device available")
)

// Device bundles the WebGPU handles needed to render: the instance, the adapter it
// selected, the logical device and its queue.
//
// A Device is created once, shared by reference between a host and its surface, and never
// mutated after creation. It is reference counted; the handles are released when the
// last holder calls Release.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// ownInstance is false when the instance was supplied by the caller through WithInstance.
	ownInstance bool

	refs     atomic.Int32
	released atomic.Bool
}

// AcquireDefault requests the default adapter and creates a device on it.
// The returned Device holds one reference.
//
// Parameters:
//   - options: functional options applied before the adapter request
//
// Returns:
//   - *Device: the acquired device
//   - error: ErrNoAdapter or ErrNoDevice wrapping the underlying cause
func AcquireDefault(options ...DeviceBuilderOption) (*Device, error) {
	cfg := &deviceConfig{label: "Dissolve Device"}
	for _, opt := range options {
		opt(cfg)
	}

	// wgpu-native expects calls from the thread that created the instance.
	runtime.LockOSThread()

	d := &Device{instance: cfg.instance}
	if d.instance == nil {
		d.instance = wgpu.CreateInstance(nil)
		d.ownInstance = true
	}

	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
		CompatibleSurface:    cfg.compatibleSurface,
	})
	if err != nil || adapter == nil {
		d.releaseHandles()
		return nil, fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}
	d.adapter = adapter

	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: cfg.label,
	})
	if err != nil || dev == nil {
		d.releaseHandles()
		return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	d.device = dev
	d.queue = dev.GetQueue()
	d.refs.Store(1)

	common.Logger().Info("gpu device acquired", "label", cfg.label, "fallback", cfg.forceFallbackAdapter)
	return d, nil
}

// Instance returns the WebGPU instance the device was created from.
func (d *Device) Instance() *wgpu.Instance { return d.instance }

// Adapter returns the selected adapter.
func (d *Device) Adapter() *wgpu.Adapter { return d.adapter }

// Device returns the logical device.
func (d *Device) Device() *wgpu.Device { return d.device }

// Queue returns the device queue.
func (d *Device) Queue() *wgpu.Queue { return d.queue }

// Retain adds a reference and returns the same Device for chaining.
func (d *Device) Retain() *Device {
	d.refs.Add(1)
	return d
}

// Refs returns the current reference count.
func (d *Device) Refs() int {
	return int(d.refs.Load())
}

// Released reports whether the GPU handles have been released.
func (d *Device) Released() bool {
	return d.released.Load()
}

// Release drops one reference. The GPU handles are released with the last reference.
// Releasing a nil Device or one that is already fully released is a no-op.
func (d *Device) Release() {
	if d == nil || d.released.Load() {
		return
	}
	if d.refs.Add(-1) > 0 {
		return
	}
	if !d.released.CompareAndSwap(false, true) {
		return
	}
	d.releaseHandles()
	common.Logger().Debug("gpu device released")
}

func (d *Device) releaseHandles() {
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil && d.ownInstance {
		d.instance.Release()
	}
	d.instance = nil
}
