package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/host"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/surface"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow is a Window with no platform window behind it.
type fakeWindow struct {
	scale, monitorScale     float64
	scaleOK, monitorScaleOK bool
}

var _ Window = &fakeWindow{}

func (w *fakeWindow) SetUpdateCallback(func())                   {}
func (w *fakeWindow) SetResizeCallback(func(common.Rect))        {}
func (w *fakeWindow) SetContentScaleCallback(func(float64))      {}
func (w *fakeWindow) SetKeyDownCallback(func(uint32))            {}
func (w *fakeWindow) SetKeyUpCallback(func(uint32))              {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) ContentScale() (float64, bool)              { return w.scale, w.scaleOK }
func (w *fakeWindow) MonitorContentScale() (float64, bool)       { return w.monitorScale, w.monitorScaleOK }
func (w *fakeWindow) Bounds() common.Rect                        { return common.NewRect(0, 0, 640, 480) }
func (w *fakeWindow) IsRunning() bool                            { return false }
func (w *fakeWindow) Close() error                               { return nil }
func (w *fakeWindow) ProcessMessages()                           {}
func (w *fakeWindow) Width() int                                 { return 640 }
func (w *fakeWindow) Height() int                                { return 480 }

// stubSurface records the parent it is attached to.
type stubSurface struct {
	surface.Surface
	parent surface.Parent
}

func (s *stubSurface) AttachTo(p surface.Parent) { s.parent = p }

func TestHostBackendScales(t *testing.T) {
	w := &fakeWindow{scale: 2, scaleOK: true, monitorScale: 1.25, monitorScaleOK: true}
	b := NewHostBackend(w)

	s, ok := b.DisplayScale()
	assert.True(t, ok)
	assert.Equal(t, 2.0, s)

	s, ok = b.DefaultDisplayScale()
	assert.True(t, ok)
	assert.Equal(t, 1.25, s)

	assert.Equal(t, 2.0, host.ResolveScale(b.DisplayScale, b.DefaultDisplayScale))

	w.scaleOK = false
	assert.Equal(t, 1.25, host.ResolveScale(b.DisplayScale, b.DefaultDisplayScale))

	w.monitorScaleOK = false
	assert.Equal(t, 1.0, host.ResolveScale(b.DisplayScale, b.DefaultDisplayScale))
}

func TestHostBackendAttachDetach(t *testing.T) {
	b := NewHostBackend(&fakeWindow{})
	s := &stubSurface{}

	b.AttachSurface(s)
	assert.Same(t, s, b.Attached())
	assert.Same(t, b, s.parent)

	b.DetachSurface(&stubSurface{})
	assert.Same(t, s, b.Attached(), "detaching another surface is ignored")

	b.DetachSurface(s)
	assert.Nil(t, b.Attached())
}

func TestHostBackendWithoutWindowSurface(t *testing.T) {
	b := NewHostBackend(&fakeWindow{}, WithForceFallbackAdapter(true), WithPresentMode(surface.PresentModeUncapped))

	_, err := b.AcquireDevice()
	require.ErrorIs(t, err, ErrNoSurface)

	_, err = b.CreateSurface(nil)
	require.ErrorIs(t, err, ErrNoSurface)

	assert.NotPanics(t, b.Release)
	assert.NotPanics(t, b.Release)
}

func TestHostBackendOptions(t *testing.T) {
	b := NewHostBackend(&fakeWindow{}, WithForceFallbackAdapter(true), WithPresentMode(surface.PresentModeUncapped)).(*hostBackend)
	assert.True(t, b.forceFallbackAdapter)
	assert.Equal(t, surface.PresentModeUncapped, b.presentMode)
	assert.True(t, b.clips)

	b.SetClipsToBounds(false)
	assert.False(t, b.clips)
}

func TestHostBounds(t *testing.T) {
	assert.Equal(t, common.NewRect(100, 50, 100, 50), HostBounds(common.NewRect(0, 0, 300, 150)))
	assert.Equal(t, common.NewRect(0, 0, 300, 150), host.ExpandedRect(HostBounds(common.NewRect(0, 0, 300, 150))))
}

func TestHostBoundsDrawableMatchesFramebuffer(t *testing.T) {
	tests := []struct {
		name      string
		window    *fakeWindow
		options   []HostBackendOption
		wantScale float64
	}{
		{"scale 1", &fakeWindow{scale: 1, scaleOK: true}, nil, 1},
		{"retina", &fakeWindow{scale: 2, scaleOK: true}, nil, 2},
		{"fractional", &fakeWindow{scale: 1.25, scaleOK: true}, nil, 1.25},
		{"monitor fallback", &fakeWindow{monitorScale: 1.5, monitorScaleOK: true}, nil, 1.5},
		{"no scale", &fakeWindow{}, nil, 1},
		{"override", &fakeWindow{scale: 2, scaleOK: true}, []HostBackendOption{WithDisplayScale(3)}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewHostBackend(tt.window, tt.options...)
			bounds := b.HostBounds()

			// The same computation host.Layout performs.
			scale := host.ResolveScale(b.DisplayScale, b.DefaultDisplayScale)
			expanded := host.ExpandedRect(bounds)

			assert.Equal(t, tt.wantScale, scale)
			assert.Equal(t, common.PixelSize{Width: 640, Height: 480}, common.PixelSizeOf(expanded.Size, scale))
			assert.InDelta(t, 0, expanded.MinX(), 1e-9)
			assert.InDelta(t, 0, expanded.MinY(), 1e-9)
			assert.InDelta(t, 640/scale/3, bounds.Width(), 1e-9)
			assert.InDelta(t, 480/scale/3, bounds.Height(), 1e-9)
		})
	}
}

func TestDisplayScaleOverride(t *testing.T) {
	w := &fakeWindow{scale: 2, scaleOK: true}

	s, ok := NewHostBackend(w, WithDisplayScale(0)).DisplayScale()
	assert.True(t, ok)
	assert.Equal(t, 2.0, s, "non-positive keeps the content scale")

	s, ok = NewHostBackend(w, WithDisplayScale(1.5)).DisplayScale()
	assert.True(t, ok)
	assert.Equal(t, 1.5, s)
}
