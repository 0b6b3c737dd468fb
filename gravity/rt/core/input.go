package core

import "github.com/go-gl/mathgl/mgl32"

// Input is the pointer state the simulation spawns from.
type Input struct {
	PrimaryHeld bool
	// Pointer is in normalized device coordinates, Y up.
	Pointer mgl32.Vec2
}

func (in *Input) SetPrimary(held bool) {
	in.PrimaryHeld = held
}

// SetPointerPixels converts a window-space cursor position (origin top
// left, Y down) into [-1,1]x[-1,1] with Y up. A zero-sized window keeps
// the previous pointer.
func (in *Input) SetPointerPixels(x, y float64, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	nx := x/(float64(width)/2.0) - 1.0
	ny := 1.0 - y/(float64(height)/2.0)
	in.Pointer = mgl32.Vec2{float32(nx), float32(ny)}
}
