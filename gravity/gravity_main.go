package main

import (
	"errors"
	"flag"
	"os"
	"runtime"

	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/blackhole"
	"github.com/gekko3d/blackhole/gravity/rt/app"
	"github.com/gekko3d/blackhole/gravity/rt/gpu"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := blackhole.ParseFlags(os.Args[0], os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	logger := blackhole.NewDefaultLogger("gravity", cfg.Debug)
	if err != nil {
		logger.Errorf("config: %v", err)
		return 2
	}

	if err := glfw.Init(); err != nil {
		logger.Errorf("glfw init: %v", err)
		return 1
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		logger.Errorf("create window: %v", err)
		return 1
	}
	defer window.Destroy()

	fbWidth, fbHeight := window.GetFramebufferSize()
	ctx, err := gpu.NewContext(wgpuglfw.GetSurfaceDescriptor(window), fbWidth, fbHeight)
	if err != nil {
		logger.Errorf("gpu: %v", err)
		return 1
	}
	defer ctx.Release()
	logger.Debugf("surface format %v", ctx.Format())

	application, err := app.New(cfg, logger, ctx, ctx)
	if err != nil {
		logger.Errorf("init: %v", err)
		return 1
	}
	defer application.Close()
	application.Resize(fbWidth, fbHeight)

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})

	window.SetContentScaleCallback(func(w *glfw.Window, x, y float32) {
		application.Resize(w.GetFramebufferSize())
	})

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		width, height := w.GetSize()
		application.HandleCursor(xpos, ypos, width, height)
	})

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		application.HandleMouseButton(mouseButton(button), action == glfw.Press)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		application.HandleKey(appKey(key), action == glfw.Press)
	})

	for !window.ShouldClose() && !application.ShouldQuit() {
		glfw.PollEvents()
		if err := application.Frame(); err != nil {
			logger.Errorf("%v", err)
			return 1
		}
	}
	return 0
}

func appKey(key glfw.Key) app.Key {
	switch key {
	case glfw.KeyEscape:
		return app.KeyEscape
	case glfw.KeyC:
		return app.KeyC
	default:
		return app.KeyUnknown
	}
}

func mouseButton(button glfw.MouseButton) app.MouseButton {
	switch button {
	case glfw.MouseButtonLeft:
		return app.MouseButtonLeft
	case glfw.MouseButtonRight:
		return app.MouseButtonRight
	case glfw.MouseButtonMiddle:
		return app.MouseButtonMiddle
	default:
		return app.MouseButtonOther
	}
}
