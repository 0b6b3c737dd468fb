package app

import (
	"errors"
	"fmt"

	"github.com/gekko3d/blackhole"
	"github.com/gekko3d/blackhole/gravity/rt/core"
	"github.com/gekko3d/blackhole/gravity/rt/gpu"
	"github.com/gekko3d/blackhole/gravity/rt/shaders"
	"golang.org/x/exp/rand"
)

// ErrFatal wraps every error after which the app cannot keep rendering.
var ErrFatal = errors.New("fatal")

// statsInterval is the number of frames between profiler log lines.
const statsInterval = 300

type App struct {
	logger  blackhole.Logger
	device  gpu.Device
	surface gpu.Surface
	shaders shaders.Library
	watcher *shaders.Watcher

	renderer  *gpu.Renderer
	sim       *core.Simulation
	profiler  *Profiler
	instances []core.InstanceRaw

	width  int
	height int
	quit   bool
}

func New(cfg blackhole.Config, logger blackhole.Logger, device gpu.Device, surface gpu.Surface) (*App, error) {
	lib := shaders.Library{Dir: cfg.Shaders.Dir}
	src, err := loadShaders(lib)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFatal, err)
	}

	renderer, err := gpu.NewRenderer(device, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFatal, err)
	}

	opts := []core.Option{core.WithMaxParticles(cfg.Simulation.MaxParticles)}
	if cfg.Simulation.Seed != 0 {
		opts = append(opts, core.WithRand(rand.New(rand.NewSource(cfg.Simulation.Seed))))
	}

	a := &App{
		logger:   logger,
		device:   device,
		surface:  surface,
		shaders:  lib,
		renderer: renderer,
		sim:      core.NewSimulation(opts...),
		profiler: NewProfiler(),
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
	}

	if cfg.Shaders.Watch {
		w, err := shaders.Watch(cfg.Shaders.Dir)
		if err != nil {
			logger.Warnf("shader reload disabled: %v", err)
		} else {
			a.watcher = w
			logger.Infof("watching %s for shader changes", cfg.Shaders.Dir)
		}
	}

	logger.Infof("renderer ready: %dx%d, max particles %d", a.width, a.height, cfg.Simulation.MaxParticles)
	return a, nil
}

func loadShaders(lib shaders.Library) (gpu.ShaderSource, error) {
	particle, err := lib.Load(shaders.Instance)
	if err != nil {
		return gpu.ShaderSource{}, err
	}
	attractor, err := lib.Load(shaders.BlackHole)
	if err != nil {
		return gpu.ShaderSource{}, err
	}
	return gpu.ShaderSource{Particle: particle, Attractor: attractor}, nil
}

func (a *App) ShouldQuit() bool { return a.quit }

func (a *App) Simulation() *core.Simulation { return a.sim }

// Resize reconfigures the surface. Zero sizes from minimized windows are
// ignored.
func (a *App) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.width, a.height = width, height
	a.surface.Configure(uint32(width), uint32(height))
}

// Frame runs one tick: Update then Render.
func (a *App) Frame() error {
	if err := a.Update(); err != nil {
		return err
	}
	if err := a.Render(); err != nil {
		return err
	}

	a.profiler.SetCount("particles", a.sim.Len())
	a.profiler.EndFrame()
	if a.profiler.Frames() >= statsInterval {
		if a.logger.DebugEnabled() {
			a.logger.Debugf("%s", a.profiler.Summary())
		}
		a.profiler.Reset()
	}
	return nil
}

// Update applies pending shader changes, spawns and moves particles and
// uploads the instance projection.
func (a *App) Update() error {
	a.pollShaderChanges()

	a.profiler.BeginScope("update")
	a.sim.Step()
	a.profiler.EndScope("update")

	a.profiler.BeginScope("upload")
	a.instances = a.sim.Instances(a.instances)
	grew, err := a.renderer.Upload(a.instances)
	a.profiler.EndScope("upload")
	if err != nil {
		return fmt.Errorf("%w: upload instances: %w", ErrFatal, err)
	}
	if grew {
		a.logger.Debugf("instance buffer grown to %d", a.renderer.Instances().Capacity())
	}
	return nil
}

// Render draws the frame. Timeouts skip the frame and lost or outdated
// surfaces are reconfigured; only fatal errors are returned.
func (a *App) Render() error {
	a.profiler.BeginScope("render")
	err := a.renderer.Render(a.surface)
	a.profiler.EndScope("render")
	return a.handleRenderError(err)
}

func (a *App) handleRenderError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gpu.ErrPresent) {
		return fmt.Errorf("%w: %w", ErrFatal, err)
	}

	status := gpu.ClassifySurfaceError(err)
	switch {
	case status == gpu.SurfaceTimeout:
		a.logger.Warnf("surface timeout, frame skipped")
		return nil
	case status.NeedsReconfigure():
		a.logger.Warnf("surface %s, reconfiguring %dx%d: %v", status, a.width, a.height, err)
		a.surface.Configure(uint32(a.width), uint32(a.height))
		return nil
	default:
		return fmt.Errorf("%w: surface %s: %w", ErrFatal, status, err)
	}
}

// pollShaderChanges drains the watcher without blocking and rebuilds the
// pipelines once if any shader changed.
func (a *App) pollShaderChanges() {
	if a.watcher == nil {
		return
	}

	changed := false
drain:
	for {
		select {
		case name := <-a.watcher.Changes():
			a.logger.Debugf("shader %s changed", name)
			changed = true
		case err := <-a.watcher.Errors():
			a.logger.Warnf("shader watch: %v", err)
		default:
			break drain
		}
	}

	if changed {
		if err := a.ReloadShaders(); err != nil {
			a.logger.Errorf("shader reload failed, keeping previous pipelines: %v", err)
		}
	}
}

// ReloadShaders rebuilds both pipelines from the shader library.
func (a *App) ReloadShaders() error {
	src, err := loadShaders(a.shaders)
	if err != nil {
		return err
	}
	if err := a.renderer.ReloadPipelines(a.device, src); err != nil {
		return err
	}
	a.logger.Infof("shaders reloaded")
	return nil
}

func (a *App) Close() {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.logger.Warnf("close shader watcher: %v", err)
		}
	}
	a.renderer.Release()
}
