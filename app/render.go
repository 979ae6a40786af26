package app

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/demo"
	"github.com/pthm-cable/ripple/fluid"
	"github.com/pthm-cable/ripple/telemetry"
)

// Draw renders the current scene, HUD, and parameter panel.
func (a *App) Draw() {
	a.perf.StartPhase(telemetry.PhaseDraw)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 18, G: 20, B: 26, A: 255})

	px, py, pz := a.orbit.Position()
	cam := rl.Camera3D{
		Position:   rl.Vector3{X: px, Y: py, Z: pz},
		Target:     rl.Vector3{X: a.orbit.TargetX, Y: a.orbit.TargetY, Z: a.orbit.TargetZ},
		Up:         rl.Vector3{Y: 1},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}

	rl.BeginMode3D(cam)
	a.drawBounds()
	a.drawScene(a.demo.Scene())
	rl.EndMode3D()

	a.drawHUD()
	a.panel.draw()

	rl.EndDrawing()
	a.perf.EndTick()
}

func (a *App) drawBounds() {
	b := fluid.BoundsFromConfig(a.cfg.Fluid.Bounds)
	size := b.Size()
	c := b.Center()
	rl.DrawCubeWires(rl.Vector3{X: c.X(), Y: c.Y(), Z: c.Z()},
		size.X(), size.Y(), size.Z(), rl.Gray)
}

func (a *App) drawScene(s demo.Scene) {
	switch sc := s.(type) {
	case demo.FluidScene:
		a.drawFluid(sc)
	case demo.EffectScene:
		a.drawEffects(sc)
	case demo.ObjectScene:
		a.drawObjects(sc)
	case []demo.NamedScene:
		for _, ns := range sc {
			a.drawScene(ns.Scene)
		}
	}
}

func (a *App) drawFluid(sc demo.FluidScene) {
	rest := float32(a.cfg.Fluid.RestDensity)
	for _, p := range sc.Snapshot() {
		pos := rl.Vector3{X: p.Position.X(), Y: p.Position.Y(), Z: p.Position.Z()}
		rl.DrawSphereEx(pos, 0.08, 4, 4, densityColor(p.Density, rest))
	}
}

func (a *App) drawEffects(sc demo.EffectScene) {
	for _, e := range sc.Effects() {
		fade := e.Life / e.MaxLife
		pos := rl.Vector3{X: e.Pos.X(), Y: e.Pos.Y(), Z: e.Pos.Z()}
		rl.DrawSphereEx(pos, e.Size, 4, 4, rl.Fade(rl.Gold, fade))
	}
}

func (a *App) drawObjects(sc demo.ObjectScene) {
	for _, o := range sc.Objects() {
		pos := rl.Vector3{X: o.Position.X(), Y: o.Position.Y(), Z: o.Position.Z()}
		rl.DrawSphere(pos, o.Radius, rl.SkyBlue)
	}
}

// densityColor shades particles from blue at rest density toward white
// under compression.
func densityColor(density, rest float32) rl.Color {
	if rest <= 0 {
		return rl.SkyBlue
	}
	t := density / (2 * rest)
	if t > 1 {
		t = 1
	}
	return rl.Color{
		R: uint8(60 + 195*t),
		G: uint8(120 + 135*t),
		B: 255,
		A: 255,
	}
}

func (a *App) drawHUD() {
	status := "running"
	if !a.running {
		status = "paused (space)"
	}
	rl.DrawText(fmt.Sprintf("%s | %s | tick %d | %d fps",
		a.kind, status, a.tick, rl.GetFPS()), 10, 10, 10, rl.RayWhite)

	ps := a.perf.Stats()
	rl.DrawText(fmt.Sprintf("frame %.2fms | update %.2fms | over budget %d",
		ps.AvgTick.Seconds()*1000,
		ps.AvgPhases[telemetry.PhaseUpdate].Seconds()*1000,
		ps.BudgetExceeded), 10, 24, 10, rl.LightGray)

	if fd, ok := a.demo.(*demo.FluidDemo); ok {
		st := fd.PoolStats()
		rl.DrawText(fmt.Sprintf("particles %d | intent pool %d/%d/%d",
			fd.Simulation().Count(), st.Active, st.Available, st.Total), 10, 38, 10, rl.LightGray)
	}
}
