// Package gputest provides recording fakes of the gpu collaborator
// interfaces for tests that run without a GPU.
package gputest

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/blackhole/gravity/rt/gpu"
)

type Buffer struct {
	Label    string
	Usage    wgpu.BufferUsage
	Data     []byte
	Released bool
}

func (b *Buffer) Size() uint64 { return uint64(len(b.Data)) }
func (b *Buffer) Release()     { b.Released = true }

type Pipeline struct {
	Desc     gpu.PipelineDesc
	Released bool
}

func (p *Pipeline) Release() { p.Released = true }

// Device records every allocation and write. Set the Fail* fields to make
// the next matching call fail.
type Device struct {
	Buffers   []*Buffer
	Pipelines []*Pipeline
	Writes    int

	FailBufferInit bool
	FailBuffer     bool
	FailPipeline   func(desc gpu.PipelineDesc) bool
}

var ErrInjected = errors.New("injected failure")

func (d *Device) CreateBufferInit(label string, contents []byte, usage wgpu.BufferUsage) (gpu.Buffer, error) {
	if d.FailBufferInit {
		return nil, ErrInjected
	}
	b := &Buffer{Label: label, Usage: usage, Data: append([]byte(nil), contents...)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (gpu.Buffer, error) {
	if d.FailBuffer {
		return nil, ErrInjected
	}
	b := &Buffer{Label: label, Usage: usage, Data: make([]byte, size)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) error {
	b := buf.(*Buffer)
	if b.Released {
		return fmt.Errorf("write to released buffer %q", b.Label)
	}
	if offset+uint64(len(data)) > b.Size() {
		return fmt.Errorf("write of %d bytes overflows %q (%d bytes)", len(data), b.Label, b.Size())
	}
	copy(b.Data[offset:], data)
	d.Writes++
	return nil
}

func (d *Device) CreateRenderPipeline(desc gpu.PipelineDesc) (gpu.Pipeline, error) {
	if d.FailPipeline != nil && d.FailPipeline(desc) {
		return nil, ErrInjected
	}
	p := &Pipeline{Desc: desc}
	d.Pipelines = append(d.Pipelines, p)
	return p, nil
}

// Live returns the buffers that have not been released.
func (d *Device) Live() []*Buffer {
	var live []*Buffer
	for _, b := range d.Buffers {
		if !b.Released {
			live = append(live, b)
		}
	}
	return live
}

// Draw is one recorded DrawIndexed call with the state bound at the time.
type Draw struct {
	Pipeline      *Pipeline
	VertexBuffers map[uint32]*Buffer
	IndexBuffer   *Buffer
	IndexFormat   wgpu.IndexFormat
	IndexCount    uint32
	InstanceCount uint32
}

type Pass struct {
	Draws []Draw

	pipeline    *Pipeline
	vertex      map[uint32]*Buffer
	index       *Buffer
	indexFormat wgpu.IndexFormat
}

func (p *Pass) SetPipeline(pipeline gpu.Pipeline) {
	p.pipeline = pipeline.(*Pipeline)
}

func (p *Pass) SetVertexBuffer(slot uint32, buf gpu.Buffer) {
	if p.vertex == nil {
		p.vertex = map[uint32]*Buffer{}
	}
	p.vertex[slot] = buf.(*Buffer)
}

func (p *Pass) SetIndexBuffer(buf gpu.Buffer, format wgpu.IndexFormat) {
	p.index = buf.(*Buffer)
	p.indexFormat = format
}

func (p *Pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	bound := make(map[uint32]*Buffer, len(p.vertex))
	for slot, b := range p.vertex {
		bound[slot] = b
	}
	p.Draws = append(p.Draws, Draw{
		Pipeline:      p.pipeline,
		VertexBuffers: bound,
		IndexBuffer:   p.index,
		IndexFormat:   p.indexFormat,
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
	})
}

// Surface hands out a fresh Pass per frame. Errors queued in AcquireErrs
// are returned by successive BeginFrame calls before frames succeed.
type Surface struct {
	AcquireErrs []error
	PresentErr  error
	Frames      []*Pass
	Clears      []wgpu.Color
	Configured  [][2]uint32
	Presented   int

	current *Pass
}

func (s *Surface) BeginFrame(clear wgpu.Color) (gpu.RenderPass, error) {
	if len(s.AcquireErrs) > 0 {
		err := s.AcquireErrs[0]
		s.AcquireErrs = s.AcquireErrs[1:]
		return nil, err
	}
	s.current = &Pass{}
	s.Clears = append(s.Clears, clear)
	return s.current, nil
}

func (s *Surface) EndFrame() error {
	if s.current == nil {
		return errors.New("no frame in progress")
	}
	if s.PresentErr != nil {
		s.current = nil
		return s.PresentErr
	}
	s.Frames = append(s.Frames, s.current)
	s.current = nil
	s.Presented++
	return nil
}

func (s *Surface) Configure(width, height uint32) {
	s.Configured = append(s.Configured, [2]uint32{width, height})
}

// LastFrame returns the most recently presented pass, or nil.
func (s *Surface) LastFrame() *Pass {
	if len(s.Frames) == 0 {
		return nil
	}
	return s.Frames[len(s.Frames)-1]
}
