package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestParticle_AccumulateForceCompounds(t *testing.T) {
	p := Particle{Position: mgl32.Vec3{0.1, 0.2, 0}}
	f := mgl32.Vec3{0.01, -0.02, 0}

	p.AccumulateForce(f)
	assert.Equal(t, f, p.Force)
	assertVecNear(t, mgl32.Vec3{0.11, 0.18, 0}, p.Position)

	// Force is not reset: the second call moves by F+F, not F.
	p.AccumulateForce(f)
	assertVecNear(t, f.Mul(2), p.Force)
	assertVecNear(t, mgl32.Vec3{0.1, 0.2, 0}.Add(f).Add(f.Mul(2)), p.Position)
}

func TestParticle_GravitationalPullMagnitude(t *testing.T) {
	p := Particle{Position: mgl32.Vec3{0.2, 0.3, 0}}
	pull := p.GravitationalPull()

	dx, dy := 20.0, 30.0
	k := GravitationalConstant * AttractorMass * ParticleMass / (dx*dx + dy*dy)
	assert.InDelta(t, k*dx, float64(pull.X()), 1e-7)
	assert.InDelta(t, k*dy, float64(pull.Y()), 1e-7)
	assert.Equal(t, float32(0), pull.Z())

	// Pull points toward the origin.
	assert.Less(t, pull.Dot(p.Position), float32(0))
}

func TestParticle_GravitationalPullSymmetry(t *testing.T) {
	points := []mgl32.Vec2{
		{0.2, 0.3},
		{0.75, 0.1},
		{0.05, 0.9},
		{0.5, 0.5},
	}
	for _, pt := range points {
		x, y := pt.X(), pt.Y()
		base := (&Particle{Position: mgl32.Vec3{x, y, 0}}).GravitationalPull()
		flipY := (&Particle{Position: mgl32.Vec3{x, -y, 0}}).GravitationalPull()
		flipX := (&Particle{Position: mgl32.Vec3{-x, y, 0}}).GravitationalPull()

		assert.Equal(t, -base.Y(), flipY.Y(), "point %v", pt)
		assert.Equal(t, base.X(), flipY.X(), "point %v", pt)
		assert.Equal(t, -base.X(), flipX.X(), "point %v", pt)
		assert.Equal(t, base.Y(), flipX.Y(), "point %v", pt)
	}
}

func TestParticle_GravitationalPullAtAttractor(t *testing.T) {
	p := Particle{Position: mgl32.Vec3{0, 0, 0}, Force: mgl32.Vec3{0.01, 0, 0}}

	pull := p.GravitationalPull()
	assert.Equal(t, mgl32.Vec3{}, pull)

	p.AccumulateForce(pull)
	for _, c := range p.Position {
		assert.False(t, math.IsNaN(float64(c)) || math.IsInf(float64(c), 0))
	}
	assertVecNear(t, mgl32.Vec3{0.01, 0, 0}, p.Position)
}

func TestParticle_RawDropsForce(t *testing.T) {
	p := Particle{
		Position: mgl32.Vec3{0.5, -0.5, 0},
		Color:    DefaultSpawnColor,
		Force:    mgl32.Vec3{9, 9, 9},
	}
	raw := p.Raw()
	assert.Equal(t, InstanceRaw{Position: [3]float32{0.5, -0.5, 0}, Color: [3]float32{1, 1, 0.5}}, raw)
}

func assertVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, float64(want[i]), float64(got[i]), 1e-6, "component %d: want %v got %v", i, want, got)
	}
}
