package gpu

import (
	"errors"
	"strings"
)

// SurfaceStatus classifies the outcome of acquiring a frame.
type SurfaceStatus int

const (
	SurfaceOK SurfaceStatus = iota
	SurfaceTimeout
	SurfaceOutdated
	SurfaceLost
	SurfaceOutOfMemory
	SurfaceDeviceLost
)

func (s SurfaceStatus) String() string {
	switch s {
	case SurfaceOK:
		return "ok"
	case SurfaceTimeout:
		return "timeout"
	case SurfaceOutdated:
		return "outdated"
	case SurfaceLost:
		return "lost"
	case SurfaceOutOfMemory:
		return "out of memory"
	case SurfaceDeviceLost:
		return "device lost"
	default:
		return "unknown"
	}
}

// Fatal reports whether rendering cannot continue.
func (s SurfaceStatus) Fatal() bool {
	return s == SurfaceOutOfMemory || s == SurfaceDeviceLost
}

// NeedsReconfigure reports whether the surface must be configured again.
func (s SurfaceStatus) NeedsReconfigure() bool {
	return s == SurfaceOutdated || s == SurfaceLost
}

var (
	ErrSurfaceTimeout     = errors.New("surface texture timeout")
	ErrSurfaceOutdated    = errors.New("surface texture outdated")
	ErrSurfaceLost        = errors.New("surface lost")
	ErrSurfaceOutOfMemory = errors.New("surface out of memory")
	ErrDeviceLost         = errors.New("device lost")
)

// ClassifySurfaceError maps a frame acquisition error to a status. The
// wgpu binding reports the texture status only through the error text,
// so unmatched errors fall back to text matching and then to outdated.
func ClassifySurfaceError(err error) SurfaceStatus {
	switch {
	case err == nil:
		return SurfaceOK
	case errors.Is(err, ErrSurfaceTimeout):
		return SurfaceTimeout
	case errors.Is(err, ErrSurfaceOutdated):
		return SurfaceOutdated
	case errors.Is(err, ErrSurfaceLost):
		return SurfaceLost
	case errors.Is(err, ErrSurfaceOutOfMemory):
		return SurfaceOutOfMemory
	case errors.Is(err, ErrDeviceLost):
		return SurfaceDeviceLost
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return SurfaceTimeout
	case strings.Contains(msg, "outofmemory"), strings.Contains(msg, "out of memory"):
		return SurfaceOutOfMemory
	case strings.Contains(msg, "devicelost"), strings.Contains(msg, "device lost"):
		return SurfaceDeviceLost
	case strings.Contains(msg, "lost"):
		return SurfaceLost
	default:
		return SurfaceOutdated
	}
}
