package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectInset(t *testing.T) {
	r := NewRect(0, 0, 100, 200)

	grown := r.Inset(-r.Width(), -r.Height())
	assert.Equal(t, NewRect(-100, -200, 300, 600), grown)
	assert.Equal(t, r.Center(), grown.Center())

	shrunk := r.Inset(10, 20)
	assert.Equal(t, NewRect(10, 20, 80, 160), shrunk)
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 30)
	assert.Equal(t, 5.0, r.MinX())
	assert.Equal(t, 10.0, r.MinY())
	assert.Equal(t, 25.0, r.MaxX())
	assert.Equal(t, 40.0, r.MaxY())
	assert.Equal(t, Point{X: 15, Y: 25}, r.Center())
	assert.Equal(t, NewRect(6, 8, 20, 30), r.Offset(1, -2))
}

func TestPixelSizeOf(t *testing.T) {
	tests := []struct {
		name  string
		size  Size
		scale float64
		want  PixelSize
	}{
		{"integral", Size{Width: 300, Height: 600}, 2, PixelSize{Width: 600, Height: 1200}},
		{"rounds each axis", Size{Width: 100.2, Height: 100.7}, 1, PixelSize{Width: 100, Height: 101}},
		{"fractional scale", Size{Width: 99, Height: 33}, 1.5, PixelSize{Width: 149, Height: 50}},
		{"negative clamps", Size{Width: -10, Height: 10}, 1, PixelSize{Width: 0, Height: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PixelSizeOf(tt.size, tt.scale))
		})
	}
}

func TestPixelSizeEmpty(t *testing.T) {
	assert.True(t, PixelSize{}.Empty())
	assert.True(t, PixelSize{Width: 1}.Empty())
	assert.False(t, PixelSize{Width: 1, Height: 1}.Empty())
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 2.0, Coalesce(0, 2.0, 3.0))
	assert.Equal(t, "", Coalesce("", ""))
	assert.Equal(t, 1, Coalesce(1))
}
