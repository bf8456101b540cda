package dissolve

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-dissolve/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderSource is the WGSL program that draws the particle field.
// Entry points: vs_main and fs_main. Group 0 binding 0 holds Uniforms.
//
//go:embed assets/dissolve.wgsl
var ShaderSource string

// Particle is one cell of the dissolving image. Its layout matches the ParticleInput
// instance attributes in ShaderSource exactly.
// Size: 48 bytes.
type Particle struct {
	Origin   [2]float32 // offset  0: cell center in host coordinates (8 bytes)
	Velocity [2]float32 // offset  8: full travel vector in points (8 bytes)
	Color    [4]float32 // offset 16: premultiplied RGBA (16 bytes)
	Delay    float32    // offset 32: start delay as a fraction of the timeline (4 bytes)
	Scale    float32    // offset 36: size multiplier (4 bytes)
	_        [2]float32 // offset 40: padding to 16-byte stride (8 bytes)
}

// Uniforms is the per-frame uniform block. Matches the WGSL Uniforms struct.
// Size: 32 bytes.
type Uniforms struct {
	SurfaceOrigin [2]float32 // offset  0: surface frame origin in host coordinates
	SurfaceSize   [2]float32 // offset  8: surface frame size in points
	Progress      float32    // offset 16: timeline progress in [0,1]
	ParticleSize  float32    // offset 20: edge length of one particle in points
	Spread        float32    // offset 24: travel multiplier
	_             float32    // offset 28: padding
}

const (
	particleStride = uint64(unsafe.Sizeof(Particle{}))
	uniformsSize   = uint64(unsafe.Sizeof(Uniforms{}))

	// verticesPerParticle is two triangles per quad.
	verticesPerParticle = 6
)

// uniformsFor builds the uniform block for one frame.
//
// Parameters:
//   - frame: the surface frame in host coordinates
//   - progress: the timeline progress
//   - particleSize: the field cell size in points
//   - spread: the travel multiplier
//
// Returns:
//   - Uniforms: the uniform block
func uniformsFor(frame common.Rect, progress, particleSize, spread float64) Uniforms {
	return Uniforms{
		SurfaceOrigin: [2]float32{float32(frame.MinX()), float32(frame.MinY())},
		SurfaceSize:   [2]float32{float32(frame.Width()), float32(frame.Height())},
		Progress:      float32(progress),
		ParticleSize:  float32(particleSize),
		Spread:        float32(spread),
	}
}

// particleLayout describes the instance-rate vertex buffer holding Particles.
func particleLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: particleStride,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 32, ShaderLocation: 3},
		},
	}
}

// particleBytes reinterprets the particles as a byte slice for upload.
func particleBytes(ps []Particle) []byte {
	return common.SliceToBytes(ps)
}

// uniformBytes reinterprets the uniform block as a byte slice for upload.
func uniformBytes(u *Uniforms) []byte {
	return common.StructToBytes(u)
}
