package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/blackhole/gravity/rt/core"
)

// StaticMesh is an immutable vertex/index buffer pair uploaded once.
type StaticMesh struct {
	Vertices   Buffer
	Indices    Buffer
	IndexCount uint32
}

// NewStaticMesh validates the mesh and uploads it.
func NewStaticMesh(dev Device, label string, mesh core.Mesh) (*StaticMesh, error) {
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("%s mesh: %w", label, err)
	}
	if mesh.IndexCount() == 0 {
		return nil, fmt.Errorf("%s mesh: no triangles", label)
	}

	vertexBuffer, err := dev.CreateBufferInit(label+" vertex buffer", wgpu.ToBytes(mesh.Vertices), wgpu.BufferUsageVertex)
	if err != nil {
		return nil, fmt.Errorf("%s vertex buffer: %w", label, err)
	}

	indexBuffer, err := dev.CreateBufferInit(label+" index buffer", padToWord(wgpu.ToBytes(mesh.Indices)), wgpu.BufferUsageIndex)
	if err != nil {
		vertexBuffer.Release()
		return nil, fmt.Errorf("%s index buffer: %w", label, err)
	}

	return &StaticMesh{
		Vertices:   vertexBuffer,
		Indices:    indexBuffer,
		IndexCount: mesh.IndexCount(),
	}, nil
}

func (m *StaticMesh) Release() {
	if m.Vertices != nil {
		m.Vertices.Release()
		m.Vertices = nil
	}
	if m.Indices != nil {
		m.Indices.Release()
		m.Indices = nil
	}
}

// padToWord pads to a multiple of 4 bytes, the write alignment WebGPU
// requires for mapped buffer contents. Odd uint16 index counts need it.
func padToWord(data []byte) []byte {
	rem := len(data) % 4
	if rem == 0 {
		return data
	}
	padded := make([]byte, len(data)+4-rem)
	copy(padded, data)
	return padded
}

// Attractor is the black hole disk drawn at the origin.
type Attractor struct {
	mesh *StaticMesh
}

func NewAttractor(dev Device) (*Attractor, error) {
	mesh, err := NewStaticMesh(dev, "black hole", core.AttractorShape())
	if err != nil {
		return nil, err
	}
	return &Attractor{mesh: mesh}, nil
}

func (a *Attractor) Buffers() (vertex Buffer, index Buffer, indexCount uint32) {
	return a.mesh.Vertices, a.mesh.Indices, a.mesh.IndexCount
}

func (a *Attractor) Release() {
	a.mesh.Release()
}
