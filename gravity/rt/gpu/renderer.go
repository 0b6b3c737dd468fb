package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/blackhole/gravity/rt/core"
)

var ClearColor = wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

// ErrPresent marks failures after a frame was acquired, while submitting
// or presenting it.
var ErrPresent = errors.New("present frame")

// ShaderSource carries the WGSL code for both pipelines.
type ShaderSource struct {
	Particle  string
	Attractor string
}

func ParticlePipelineDesc(code string) PipelineDesc {
	return PipelineDesc{
		Label:      "particle pipeline",
		ShaderCode: code,
		Buffers:    []wgpu.VertexBufferLayout{VertexBufferLayout(), InstanceBufferLayout()},
	}
}

func AttractorPipelineDesc(code string) PipelineDesc {
	return PipelineDesc{
		Label:      "black hole pipeline",
		ShaderCode: code,
		Buffers:    []wgpu.VertexBufferLayout{VertexBufferLayout()},
	}
}

// Renderer owns the GPU resources of the scene and records its two draws.
type Renderer struct {
	particlePipeline  Pipeline
	attractorPipeline Pipeline
	particleShape     *StaticMesh
	attractor         *Attractor
	instances         *InstanceBuffer
}

func NewRenderer(dev Device, src ShaderSource) (*Renderer, error) {
	r := &Renderer{}
	var err error

	if r.particleShape, err = NewStaticMesh(dev, "particle", core.ParticleShape()); err != nil {
		return nil, err
	}
	if r.attractor, err = NewAttractor(dev); err != nil {
		r.Release()
		return nil, err
	}
	if r.instances, err = NewInstanceBuffer(dev, MinInstanceCapacity); err != nil {
		r.Release()
		return nil, err
	}
	if err = r.ReloadPipelines(dev, src); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

// ReloadPipelines builds both pipelines from src. On failure the current
// pipelines are left untouched.
func (r *Renderer) ReloadPipelines(dev Device, src ShaderSource) error {
	particle, err := dev.CreateRenderPipeline(ParticlePipelineDesc(src.Particle))
	if err != nil {
		return fmt.Errorf("particle pipeline: %w", err)
	}
	attractor, err := dev.CreateRenderPipeline(AttractorPipelineDesc(src.Attractor))
	if err != nil {
		particle.Release()
		return fmt.Errorf("black hole pipeline: %w", err)
	}

	r.releasePipelines()
	r.particlePipeline = particle
	r.attractorPipeline = attractor
	return nil
}

// Upload writes the instance projection to the GPU.
func (r *Renderer) Upload(instances []core.InstanceRaw) (bool, error) {
	return r.instances.Upload(instances)
}

func (r *Renderer) Instances() *InstanceBuffer { return r.instances }

// Draw records the particle draw followed by the black hole draw, so the
// attractor always covers particles that reach the center.
func (r *Renderer) Draw(pass RenderPass) {
	pass.SetPipeline(r.particlePipeline)
	pass.SetVertexBuffer(VertexSlot, r.particleShape.Vertices)
	pass.SetVertexBuffer(InstanceSlot, r.instances.Buffer())
	pass.SetIndexBuffer(r.particleShape.Indices, wgpu.IndexFormatUint16)
	pass.DrawIndexed(r.particleShape.IndexCount, r.instances.Count(), 0, 0, 0)

	vertices, indices, indexCount := r.attractor.Buffers()
	pass.SetPipeline(r.attractorPipeline)
	pass.SetVertexBuffer(VertexSlot, vertices)
	pass.SetIndexBuffer(indices, wgpu.IndexFormatUint16)
	pass.DrawIndexed(indexCount, 1, 0, 0, 0)
}

// Render clears the next frame, draws the scene and presents it.
// Acquisition errors are returned as is for ClassifySurfaceError.
func (r *Renderer) Render(surface Surface) error {
	pass, err := surface.BeginFrame(ClearColor)
	if err != nil {
		return err
	}
	r.Draw(pass)
	if err := surface.EndFrame(); err != nil {
		return fmt.Errorf("%w: %w", ErrPresent, err)
	}
	return nil
}

func (r *Renderer) releasePipelines() {
	if r.particlePipeline != nil {
		r.particlePipeline.Release()
		r.particlePipeline = nil
	}
	if r.attractorPipeline != nil {
		r.attractorPipeline.Release()
		r.attractorPipeline = nil
	}
}

func (r *Renderer) Release() {
	r.releasePipelines()
	if r.instances != nil {
		r.instances.Release()
	}
	if r.attractor != nil {
		r.attractor.Release()
	}
	if r.particleShape != nil {
		r.particleShape.Release()
	}
}
