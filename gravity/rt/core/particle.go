package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	GravitationalConstant = 6.67430e-11
	// AttractorMass is negative: with Δ pointing from the attractor to the
	// particle, a negative mass turns the product into a pull toward the origin.
	AttractorMass = -1.0e10
	ParticleMass  = 2.0

	// PositionScale maps clip space onto the units the force law works in.
	PositionScale = 100.0

	// minDistanceSq guards the coincident case; closer particles feel no pull.
	minDistanceSq = 1e-12
)

// Particle is one spawned instance. Force is a running accumulator that
// is never reset, so it behaves as a velocity under a unit time step.
type Particle struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Force    mgl32.Vec3
}

// InstanceRaw is the per-instance GPU record. The force is not uploaded.
type InstanceRaw struct {
	Position [3]float32 `gpu:"layout" format:"float3" location:"3"`
	Color    [3]float32 `gpu:"layout" format:"float3" location:"4"`
}

// AccumulateForce adds delta to the accumulator and then moves the
// particle by the whole accumulated force.
func (p *Particle) AccumulateForce(delta mgl32.Vec3) {
	p.Force = p.Force.Add(delta)
	p.Position = p.Position.Add(p.Force)
}

// GravitationalPull returns the force the attractor at the origin exerts
// on p. A particle sitting on the attractor gets the zero vector.
func (p *Particle) GravitationalPull() mgl32.Vec3 {
	dx := float64(p.Position.X()) * PositionScale
	dy := float64(p.Position.Y()) * PositionScale
	distSq := dx*dx + dy*dy
	if distSq < minDistanceSq {
		return mgl32.Vec3{}
	}
	k := GravitationalConstant * AttractorMass * ParticleMass / distSq
	return mgl32.Vec3{float32(k * dx), float32(k * dy), 0}
}

func (p *Particle) Raw() InstanceRaw {
	return InstanceRaw{Position: p.Position, Color: p.Color}
}
