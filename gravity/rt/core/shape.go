package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
)

const (
	// DiskRadius is the radius of every generated disk in clip-space units.
	DiskRadius = float32(1.0 / 64.0)

	ParticleShapeVertices = 8
	AttractorVertices     = 30
)

var (
	ParticleShapeColor = ColorOf(colornames.Red)
	AttractorColor     = ColorOf(colornames.Black)
)

// GenerateDisk approximates a disk of radius DiskRadius with vertexCount
// boundary points and a triangle fan anchored at the first of them.
//
// Vertex i (1-based) sits at i * (90 / (vertexCount/4)) degrees, so the
// first vertex is one step past angle 0. vertexCount must be in
// [3, 65535]; smaller counts yield the vertices with no triangles.
func GenerateDisk(vertexCount uint32, color mgl32.Vec3) Mesh {
	vertices := make([]Vertex, 0, vertexCount)
	step := 90.0 / (float32(vertexCount) / 4.0)
	for i := uint32(1); i <= vertexCount; i++ {
		theta := float64(mgl32.DegToRad(float32(i) * step))
		vertices = append(vertices, Vertex{
			Position: [3]float32{
				float32(math.Cos(theta)) * DiskRadius,
				float32(math.Sin(theta)) * DiskRadius,
				0,
			},
			Color: color,
		})
	}

	var indices []uint16
	if vertexCount >= 3 {
		indices = make([]uint16, 0, 3*(vertexCount-2))
		for i := uint32(1); i <= vertexCount-2; i++ {
			indices = append(indices, 0, uint16(i), uint16(i+1))
		}
	}

	return Mesh{Vertices: vertices, Indices: indices}
}

// ParticleShape is the fan every particle instance is drawn with.
func ParticleShape() Mesh {
	return GenerateDisk(ParticleShapeVertices, ParticleShapeColor)
}

// AttractorShape is the fixed black hole disk.
func AttractorShape() Mesh {
	return GenerateDisk(AttractorVertices, AttractorColor)
}
