package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/demo"
)

// handleInput maps window events to demo input. Space toggles the
// demo, R resets it, and a held left button becomes a normalized
// pointer sample unless it lands on the parameter panel.
func (a *App) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		if a.running {
			a.demo.Stop()
		} else {
			a.demo.Start()
		}
		a.running = !a.running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.demo.Reset()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.orbit.Reset()
	}

	// Right drag orbits, wheel dollies.
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		a.orbit.Rotate(-delta.X*0.005, delta.Y*0.005)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.orbit.Dolly(1 - wheel*0.1)
	}

	if !rl.IsMouseButtonDown(rl.MouseLeftButton) {
		return
	}

	pos := rl.GetMousePosition()
	if a.panel.contains(pos) {
		return
	}
	a.demo.OnInput(demo.InputState{
		X:    pos.X / a.cfg.Derived.ScreenW32,
		Y:    pos.Y / a.cfg.Derived.ScreenH32,
		Down: true,
	})
}
