package common

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32(nil)))

	data := []float32{1, -2}
	b := SliceToBytes(data)
	assert.Len(t, b, 8)
	assert.Equal(t, float32(-2), math.Float32frombits(binary.NativeEndian.Uint32(b[4:])))

	data[0] = 3
	assert.Equal(t, float32(3), math.Float32frombits(binary.NativeEndian.Uint32(b[:4])), "the view shares memory")
}

func TestStructToBytes(t *testing.T) {
	v := struct {
		A uint32
		B [2]float32
	}{A: 7, B: [2]float32{0.5, 1}}

	b := StructToBytes(&v)
	assert.Len(t, b, 12)
	assert.Equal(t, uint32(7), binary.NativeEndian.Uint32(b))
}
