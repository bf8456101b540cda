package surface

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyDelegate struct {
	draws []Drawable
}

func (s *spyDelegate) Draw(d Drawable) {
	s.draws = append(s.draws, d)
}

type spyParent struct {
	detached []Surface
}

func (p *spyParent) DetachSurface(s Surface) {
	p.detached = append(p.detached, s)
}

// newTestSurface builds an offscreen surface without touching the GPU.
func newTestSurface() *offscreenSurface {
	o := &offscreenSurface{base: newBase(nil), format: wgpu.TextureFormatRGBA8Unorm, label: "test"}
	o.self = o
	return o
}

func TestDrawForwardsToDelegate(t *testing.T) {
	s := newTestSurface()
	d := &spyDelegate{}
	s.SetDelegate(d)

	s.Draw()
	s.Draw()

	require.Len(t, d.draws, 2)
	assert.Same(t, s, d.draws[0])
}

func TestDrawWithoutDelegateIsNoop(t *testing.T) {
	s := newTestSurface()
	assert.NotPanics(t, s.Draw)
}

func TestDrawAfterReleaseIsNoop(t *testing.T) {
	s := newTestSurface()
	d := &spyDelegate{}
	s.SetDelegate(d)

	s.Release()
	s.Draw()

	assert.Empty(t, d.draws)
	assert.Nil(t, s.Delegate())
}

func TestReleaseIsIdempotent(t *testing.T) {
	s := newTestSurface()
	s.Release()
	assert.NotPanics(t, s.Release)
}

func TestRemoveFromParentDetachesOnce(t *testing.T) {
	s := newTestSurface()
	p := &spyParent{}
	s.AttachTo(p)

	s.RemoveFromParent()
	s.RemoveFromParent()

	require.Len(t, p.detached, 1)
	assert.Same(t, s, p.detached[0])
}

func TestDefaults(t *testing.T) {
	s := newTestSurface()
	assert.True(t, s.Opaque())
	assert.True(t, s.ClipsToBounds())

	s.SetOpaque(false)
	s.SetClipsToBounds(false)
	assert.False(t, s.Opaque())
	assert.False(t, s.ClipsToBounds())
}

func TestSetOpaqueForcesReconfigure(t *testing.T) {
	s := newTestSurface()
	s.SetDrawableSize(common.PixelSize{Width: 10, Height: 10})
	s.configured = s.size
	require.False(t, s.needsConfigure())

	s.SetOpaque(false)
	assert.True(t, s.needsConfigure())
}

func TestDrawableSizeChangeForcesReconfigure(t *testing.T) {
	s := newTestSurface()
	s.SetDrawableSize(common.PixelSize{Width: 10, Height: 10})
	s.configured = s.size

	s.SetDrawableSize(common.PixelSize{Width: 10, Height: 10})
	assert.False(t, s.needsConfigure())

	s.SetDrawableSize(common.PixelSize{Width: 20, Height: 10})
	assert.True(t, s.needsConfigure())
}

func TestAcquireFrameErrors(t *testing.T) {
	s := newTestSurface()

	_, err := s.AcquireFrame()
	assert.ErrorIs(t, err, ErrZeroSize)

	s.Release()
	_, err = s.AcquireFrame()
	assert.ErrorIs(t, err, ErrReleased)
}

func TestFramePresentRunsOnce(t *testing.T) {
	presents := 0
	f := &Frame{present: func() { presents++ }}

	f.Present()
	f.Present()
	f.Discard()

	assert.Equal(t, 1, presents)
}

func TestFrameDiscardSkipsPresent(t *testing.T) {
	presents := 0
	f := &Frame{present: func() { presents++ }}

	f.Discard()
	f.Present()

	assert.Zero(t, presents)
}

func TestChooseAlphaMode(t *testing.T) {
	tests := []struct {
		name      string
		supported []wgpu.CompositeAlphaMode
		opaque    bool
		want      wgpu.CompositeAlphaMode
	}{
		{
			name:      "transparent prefers premultiplied",
			supported: []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque, wgpu.CompositeAlphaModePremultiplied},
			want:      wgpu.CompositeAlphaModePremultiplied,
		},
		{
			name:      "transparent falls back to unpremultiplied",
			supported: []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque, wgpu.CompositeAlphaModeUnpremultiplied},
			want:      wgpu.CompositeAlphaModeUnpremultiplied,
		},
		{
			name:      "transparent without alpha support takes first",
			supported: []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque},
			want:      wgpu.CompositeAlphaModeOpaque,
		},
		{
			name:      "opaque prefers opaque",
			supported: []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModePremultiplied, wgpu.CompositeAlphaModeOpaque},
			opaque:    true,
			want:      wgpu.CompositeAlphaModeOpaque,
		},
		{
			name: "nothing reported",
			want: wgpu.CompositeAlphaModeAuto,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chooseAlphaMode(tt.supported, tt.opaque))
		})
	}
}

func TestPresentModeMapping(t *testing.T) {
	assert.Equal(t, wgpu.PresentModeFifo, PresentModeVSync.toWGPU())
	assert.Equal(t, wgpu.PresentModeImmediate, PresentModeUncapped.toWGPU())
}
