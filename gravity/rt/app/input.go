package app

// Key is a keyboard key the app reacts to. The window layer translates
// its own key codes into these.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyC
)

type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonOther
)

// HandleKey applies a key press or release. Escape quits and C clears
// every particle.
func (a *App) HandleKey(key Key, pressed bool) {
	if !pressed {
		return
	}
	switch key {
	case KeyEscape:
		a.quit = true
	case KeyC:
		a.sim.Clear()
		a.logger.Debugf("particles cleared")
	}
}

func (a *App) HandleMouseButton(button MouseButton, pressed bool) {
	if button == MouseButtonLeft {
		a.sim.Input.SetPrimary(pressed)
	}
}

// HandleCursor takes the cursor position in window coordinates and the
// window size they are relative to.
func (a *App) HandleCursor(x, y float64, width, height int) {
	a.sim.Input.SetPointerPixels(x, y, width, height)
}
