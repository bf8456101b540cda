package dissolve

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-dissolve/engine/device"
	"github.com/Carmen-Shannon/oxy-dissolve/engine/surface"
	"github.com/cogentcore/webgpu/wgpu"
)

var errNoDevice = errors.New("drawable has no device")

// RendererBackend is the GPU side of the dissolve renderer. It owns every GPU object the
// renderer creates; the renderer itself only tracks transition state.
type RendererBackend interface {
	// Upload replaces the particle buffer. An empty slice leaves no particle buffer.
	//
	// Parameters:
	//   - dev: the device to allocate on
	//   - particles: the particles to upload
	//
	// Returns:
	//   - error: error if a GPU object could not be created
	Upload(dev *device.Device, particles []Particle) error

	// Render acquires a frame from d, clears it to transparent and draws count particles.
	// A count of zero only clears.
	//
	// Parameters:
	//   - d: the drawable to render into
	//   - u: the uniform block for this frame
	//   - count: the number of particles to draw
	//
	// Returns:
	//   - error: error if the frame could not be acquired or encoded
	Render(d surface.Drawable, u Uniforms, count int) error

	// ReleaseParticles frees the particle buffer, keeping the pipeline.
	ReleaseParticles()

	// Release frees every GPU object and the device reference.
	Release()
}

// wgpuRendererBackend renders the particle field with WebGPU.
type wgpuRendererBackend struct {
	label string
	dev   *device.Device

	shader         *wgpu.ShaderModule
	bindLayout     *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	uniformBuffer  *wgpu.Buffer
	bindGroup      *wgpu.BindGroup

	pipeline       *wgpu.RenderPipeline
	pipelineFormat wgpu.TextureFormat

	particleBuffer *wgpu.Buffer
	particleCount  int
}

var _ RendererBackend = &wgpuRendererBackend{}

// NewWGPURendererBackend creates the WebGPU backend. GPU objects are created lazily.
//
// Parameters:
//   - label: the debug label prefix for GPU objects
//
// Returns:
//   - RendererBackend: the backend
func NewWGPURendererBackend(label string) RendererBackend {
	return &wgpuRendererBackend{label: label}
}

func (b *wgpuRendererBackend) Upload(dev *device.Device, particles []Particle) error {
	if err := b.bind(dev); err != nil {
		return err
	}
	b.ReleaseParticles()
	if len(particles) == 0 {
		return nil
	}

	data := particleBytes(particles)
	buf, err := b.dev.Device().CreateBuffer(&wgpu.BufferDescriptor{
		Label:            b.label + " Particle Buffer",
		Size:             uint64(len(data)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return fmt.Errorf("failed to create particle buffer: %w", err)
	}
	if err := b.dev.Queue().WriteBuffer(buf, 0, data); err != nil {
		buf.Release()
		return fmt.Errorf("failed to write particle buffer: %w", err)
	}
	b.particleBuffer = buf
	b.particleCount = len(particles)
	return nil
}

func (b *wgpuRendererBackend) Render(d surface.Drawable, u Uniforms, count int) error {
	if err := b.bind(d.Device()); err != nil {
		return err
	}
	count = min(count, b.particleCount)
	if count > 0 {
		if err := b.ensurePipeline(d.Format()); err != nil {
			return err
		}
		if err := b.dev.Queue().WriteBuffer(b.uniformBuffer, 0, uniformBytes(&u)); err != nil {
			return fmt.Errorf("failed to write uniforms: %w", err)
		}
	}

	frame, err := d.AcquireFrame()
	if err != nil {
		return err
	}

	encoder, err := b.dev.Device().CreateCommandEncoder(nil)
	if err != nil {
		frame.Discard()
		return fmt.Errorf("failed to create command encoder: %w", err)
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: b.label + " Render Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       frame.View,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{},
			},
		},
	})
	if count > 0 {
		pass.SetPipeline(b.pipeline)
		pass.SetBindGroup(0, b.bindGroup, nil)
		pass.SetVertexBuffer(0, b.particleBuffer, 0, wgpu.WholeSize)
		pass.Draw(verticesPerParticle, uint32(count), 0, 0)
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		frame.Discard()
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	b.dev.Queue().Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()

	frame.Present()
	return nil
}

func (b *wgpuRendererBackend) ReleaseParticles() {
	if b.particleBuffer != nil {
		b.particleBuffer.Release()
		b.particleBuffer = nil
	}
	b.particleCount = 0
}

func (b *wgpuRendererBackend) Release() {
	b.ReleaseParticles()
	if b.pipeline != nil {
		b.pipeline.Release()
		b.pipeline = nil
	}
	if b.bindGroup != nil {
		b.bindGroup.Release()
		b.bindGroup = nil
	}
	if b.uniformBuffer != nil {
		b.uniformBuffer.Release()
		b.uniformBuffer = nil
	}
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
		b.pipelineLayout = nil
	}
	if b.bindLayout != nil {
		b.bindLayout.Release()
		b.bindLayout = nil
	}
	if b.shader != nil {
		b.shader.Release()
		b.shader = nil
	}
	if b.dev != nil {
		b.dev.Release()
		b.dev = nil
	}
}

// bind makes dev the backend's device, creating the device-scoped objects on first use.
// Switching devices releases everything created on the previous one.
func (b *wgpuRendererBackend) bind(dev *device.Device) error {
	if dev == nil || dev.Device() == nil {
		return errNoDevice
	}
	if b.dev == dev {
		return nil
	}
	b.Release()
	b.dev = dev.Retain()

	gpu := dev.Device()
	shader, err := gpu.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: b.label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: ShaderSource,
		},
	})
	if err != nil {
		b.Release()
		return fmt.Errorf("failed to create shader module: %w", err)
	}
	b.shader = shader

	bindLayout, err := gpu.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: b.label + " Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uniformsSize,
				},
			},
		},
	})
	if err != nil {
		b.Release()
		return fmt.Errorf("failed to create bind group layout: %w", err)
	}
	b.bindLayout = bindLayout

	pipelineLayout, err := gpu.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            b.label + " Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindLayout},
	})
	if err != nil {
		b.Release()
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}
	b.pipelineLayout = pipelineLayout

	uniformBuffer, err := gpu.CreateBuffer(&wgpu.BufferDescriptor{
		Label: b.label + " Uniform Buffer",
		Size:  uniformsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		b.Release()
		return fmt.Errorf("failed to create uniform buffer: %w", err)
	}
	b.uniformBuffer = uniformBuffer

	bindGroup, err := gpu.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  b.label + " Bind Group",
		Layout: bindLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  uniformBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		b.Release()
		return fmt.Errorf("failed to create bind group: %w", err)
	}
	b.bindGroup = bindGroup
	return nil
}

// ensurePipeline builds the render pipeline for format, rebuilding it when the surface
// format changes.
func (b *wgpuRendererBackend) ensurePipeline(format wgpu.TextureFormat) error {
	if b.pipeline != nil && b.pipelineFormat == format {
		return nil
	}
	if b.pipeline != nil {
		b.pipeline.Release()
		b.pipeline = nil
	}

	created, err := b.dev.Device().CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  b.label + " Render Pipeline",
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     b.shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{particleLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     b.shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format: format,
					// Colors are premultiplied.
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create render pipeline: %w", err)
	}
	b.pipeline = created
	b.pipelineFormat = format
	return nil
}
