package dissolve

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool() worker.DynamicWorkerPool {
	return worker.NewDynamicWorkerPool(2, 16, time.Second)
}

// solidBitmap returns a w x h bitmap filled with one premultiplied color.
func solidBitmap(w, h int, r, g, b, a byte) common.Bitmap {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, a
	}
	return common.Bitmap{Pixels: pix, Width: uint32(w), Height: uint32(h)}
}

func TestBuildFieldDropsTransparentCells(t *testing.T) {
	img := common.Bitmap{
		Pixels: []byte{
			255, 0, 0, 255, 0, 0, 0, 0,
			0, 255, 0, 255, 0, 0, 128, 128,
		},
		Width:  2,
		Height: 2,
	}

	field, err := BuildField(newTestPool(), img, common.NewRect(10, 20, 2, 2), FieldOptions{CellSize: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, field.Cols)
	assert.Equal(t, 2, field.Rows)
	assert.Equal(t, 1.0, field.CellSize)
	require.Len(t, field.Particles, 3)

	assert.Equal(t, [2]float32{10.5, 20.5}, field.Particles[0].Origin)
	assert.Equal(t, [2]float32{10.5, 21.5}, field.Particles[1].Origin)
	assert.Equal(t, [2]float32{11.5, 21.5}, field.Particles[2].Origin)

	assert.InDelta(t, 1.0, field.Particles[0].Color[0], 0.01)
	assert.InDelta(t, 1.0, field.Particles[0].Color[3], 0.01)
	assert.InDelta(t, 1.0, field.Particles[1].Color[1], 0.01)
	assert.InDelta(t, 0.5, field.Particles[2].Color[3], 0.01)
}

func TestBuildFieldCoversEveryRow(t *testing.T) {
	img := solidBitmap(8, 8, 10, 20, 30, 255)

	field, err := BuildField(newTestPool(), img, common.NewRect(0, 0, 64, 50), FieldOptions{CellSize: 1})
	require.NoError(t, err)

	assert.Equal(t, 64, field.Cols)
	assert.Equal(t, 50, field.Rows)
	assert.Len(t, field.Particles, 64*50)
	last := field.Particles[len(field.Particles)-1]
	assert.Equal(t, [2]float32{63.5, 49.5}, last.Origin)
}

func TestBuildFieldIsDeterministic(t *testing.T) {
	img := solidBitmap(4, 4, 255, 255, 255, 255)
	target := common.NewRect(0, 0, 16, 16)

	a, err := BuildField(newTestPool(), img, target, FieldOptions{CellSize: 2, Seed: 7})
	require.NoError(t, err)
	b, err := BuildField(newTestPool(), img, target, FieldOptions{CellSize: 2, Seed: 7})
	require.NoError(t, err)
	c, err := BuildField(newTestPool(), img, target, FieldOptions{CellSize: 2, Seed: 8})
	require.NoError(t, err)

	assert.Equal(t, a.Particles, b.Particles)
	assert.NotEqual(t, a.Particles, c.Particles)
}

func TestBuildFieldJitterRanges(t *testing.T) {
	img := solidBitmap(4, 4, 255, 255, 255, 255)
	target := common.NewRect(0, 0, 40, 40)

	field, err := BuildField(newTestPool(), img, target, FieldOptions{CellSize: 1, Travel: 100})
	require.NoError(t, err)
	require.NotEmpty(t, field.Particles)

	for _, p := range field.Particles {
		assert.GreaterOrEqual(t, p.Delay, float32(0))
		assert.LessOrEqual(t, p.Delay, float32(0.55))
		assert.GreaterOrEqual(t, p.Scale, float32(0.8))
		assert.LessOrEqual(t, p.Scale, float32(1.2))

		dist := float64(p.Velocity[0])*float64(p.Velocity[0]) + float64(p.Velocity[1])*float64(p.Velocity[1])
		assert.GreaterOrEqual(t, dist, 34.9*34.9)
		assert.LessOrEqual(t, dist, 100.1*100.1)
	}
}

func TestBuildFieldRespectsMaxParticles(t *testing.T) {
	img := solidBitmap(1, 1, 255, 0, 0, 255)

	field, err := BuildField(newTestPool(), img, common.NewRect(0, 0, 100, 100), FieldOptions{CellSize: 1, MaxParticles: 1000})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(field.Particles), 1000)
	assert.Greater(t, field.CellSize, 1.0)
	assert.Equal(t, field.Cols*field.Rows, len(field.Particles))
}

func TestBuildFieldErrors(t *testing.T) {
	_, err := BuildField(newTestPool(), common.Bitmap{}, common.NewRect(0, 0, 10, 10), FieldOptions{})
	assert.ErrorIs(t, err, common.ErrEmptyBitmap)

	_, err = BuildField(newTestPool(), solidBitmap(1, 1, 0, 0, 0, 255), common.NewRect(0, 0, 0, 10), FieldOptions{})
	assert.ErrorIs(t, err, ErrEmptyTarget)
}

func TestGridFor(t *testing.T) {
	cols, rows, cell := gridFor(common.NewRect(0, 0, 10, 5), 4, 0)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 2, rows)
	assert.Equal(t, 4.0, cell)

	cols, rows, _ = gridFor(common.NewRect(0, 0, 1, 1), 4, 10)
	assert.Equal(t, 1, cols)
	assert.Equal(t, 1, rows)
}
