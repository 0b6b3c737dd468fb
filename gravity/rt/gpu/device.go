package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Buffer is a GPU-resident buffer handle.
type Buffer interface {
	Size() uint64
	Release()
}

type Pipeline interface {
	Release()
}

// PipelineDesc describes a render pipeline built from one WGSL module with
// vs_main/fs_main entry points.
type PipelineDesc struct {
	Label      string
	ShaderCode string
	Buffers    []wgpu.VertexBufferLayout
}

// Device is the subset of the GPU device and queue the renderer needs.
type Device interface {
	CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (Buffer, error)
	CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (Buffer, error)
	WriteBuffer(buf Buffer, offset uint64, data []byte) error
	CreateRenderPipeline(desc PipelineDesc) (Pipeline, error)
}

// RenderPass records draw commands into the frame being built.
type RenderPass interface {
	SetPipeline(p Pipeline)
	SetVertexBuffer(slot uint32, buf Buffer)
	SetIndexBuffer(buf Buffer, format wgpu.IndexFormat)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

// Surface hands out one render pass per frame. BeginFrame acquires the
// next drawable and clears it; EndFrame submits and presents.
type Surface interface {
	BeginFrame(clear wgpu.Color) (RenderPass, error)
	EndFrame() error
	Configure(width, height uint32)
}
