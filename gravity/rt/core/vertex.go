package core

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex matches the per-vertex input of both WGSL programs.
// The `gpu` tags drive the vertex buffer layout built in the gpu package.
type Vertex struct {
	Position [3]float32 `gpu:"layout" format:"float3" location:"0"`
	Color    [3]float32 `gpu:"layout" format:"float3" location:"1"`
}

func (v Vertex) String() string {
	return fmt.Sprintf("pos: %v color: %v", v.Position, v.Color)
}

// Mesh is a triangle fan pivoting on vertex 0.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint16
}

func (m Mesh) IndexCount() uint32 {
	return uint32(len(m.Indices))
}

// Validate checks the fan invariant: every triangle is (0, i, i+1) and
// every index references an existing vertex.
func (m Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for t := 0; t < len(m.Indices); t += 3 {
		i := uint16(t/3 + 1)
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		if a != 0 || b != i || c != i+1 {
			return fmt.Errorf("triangle %d is (%d, %d, %d), want (0, %d, %d)", t/3, a, b, c, i, i+1)
		}
		if int(c) >= len(m.Vertices) {
			return fmt.Errorf("triangle %d references vertex %d of %d", t/3, c, len(m.Vertices))
		}
	}
	return nil
}

// ColorOf converts an 8-bit RGBA color to the float triple the shaders expect.
// Alpha is dropped.
func ColorOf(c color.RGBA) mgl32.Vec3 {
	return mgl32.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}
