package core

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/rand"
)

// SpawnJitter bounds the random initial force on each axis.
const SpawnJitter = 0.05

var DefaultSpawnColor = mgl32.Vec3{1.0, 1.0, 0.5}

// Simulation owns every particle and the input they are spawned from.
type Simulation struct {
	Input Input

	particles    []Particle
	rng          *rand.Rand
	maxParticles int
	spawnColor   mgl32.Vec3
	spawnJitter  float32
}

type Option func(*Simulation)

// WithRand replaces the time-seeded jitter source.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulation) { s.rng = r }
}

// WithMaxParticles caps the collection; once full, every spawn evicts the
// oldest particle. Zero or less means unbounded.
func WithMaxParticles(n int) Option {
	return func(s *Simulation) { s.maxParticles = n }
}

func WithSpawnColor(c mgl32.Vec3) Option {
	return func(s *Simulation) { s.spawnColor = c }
}

// WithSpawnJitter sets the bound of the random initial force per axis.
func WithSpawnJitter(j float32) Option {
	return func(s *Simulation) { s.spawnJitter = j }
}

func NewSimulation(opts ...Option) *Simulation {
	s := &Simulation{
		spawnColor:  DefaultSpawnColor,
		spawnJitter: SpawnJitter,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return s
}

func (s *Simulation) Len() int {
	return len(s.particles)
}

// Particles exposes the collection in instance order. Callers must not
// keep the slice across a Step.
func (s *Simulation) Particles() []Particle {
	return s.particles
}

func (s *Simulation) MaxParticles() int {
	return s.maxParticles
}

func (s *Simulation) jitter() float32 {
	return (s.rng.Float32()*2 - 1) * s.spawnJitter
}

// Spawn appends one particle at the pointer if the primary button is held.
func (s *Simulation) Spawn() bool {
	if !s.Input.PrimaryHeld {
		return false
	}
	if s.maxParticles > 0 && len(s.particles) >= s.maxParticles {
		n := copy(s.particles, s.particles[len(s.particles)-s.maxParticles+1:])
		s.particles = s.particles[:n]
	}
	s.particles = append(s.particles, Particle{
		Position: s.Input.Pointer.Vec3(0),
		Color:    s.spawnColor,
		Force:    mgl32.Vec3{s.jitter(), s.jitter(), 0},
	})
	return true
}

// Advance applies the attractor's pull to every particle once.
func (s *Simulation) Advance() {
	for i := range s.particles {
		p := &s.particles[i]
		p.AccumulateForce(p.GravitationalPull())
	}
}

// Step runs one tick: spawn, then physics for every particle including
// the one just spawned.
func (s *Simulation) Step() (spawned bool) {
	spawned = s.Spawn()
	s.Advance()
	return spawned
}

// Clear drops every particle.
func (s *Simulation) Clear() {
	s.particles = s.particles[:0]
}

// Instances writes the render projection of every particle into dst,
// reusing its storage, and returns it.
func (s *Simulation) Instances(dst []InstanceRaw) []InstanceRaw {
	dst = dst[:0]
	for i := range s.particles {
		dst = append(dst, s.particles[i].Raw())
	}
	return dst
}
