// Package app hosts demos in a raylib window. It owns the concerns the
// simulations treat as external: input capture, rendering, the
// parameter panel, telemetry, and snapshot streaming.
package app

import (
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/camera"
	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/demo"
	"github.com/pthm-cable/ripple/fluid"
	"github.com/pthm-cable/ripple/stream"
	"github.com/pthm-cable/ripple/telemetry"
)

// Options configures an App.
type Options struct {
	Kind      string // demo kind to run
	Seed      int64
	LogStats  bool
	OutputDir string
	Headless  bool
}

// App owns a demo instance and the host-side frame loop state.
type App struct {
	cfg  *config.Config
	kind string
	demo demo.Demo

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	streamer  *stream.Server

	orbit   *camera.Orbit
	panel   *panel
	running bool
	tick    int32
}

// New constructs the app, its demo, and the telemetry/stream
// collaborators. The demo starts running.
func New(cfg *config.Config, opts Options) (*App, error) {
	d, err := demo.New(opts.Kind, cfg, opts.Seed)
	if err != nil {
		return nil, err
	}

	windowTicks := int(cfg.Telemetry.StatsWindow * float64(cfg.Screen.TargetFPS))
	budget := time.Duration(cfg.Sim.FrameBudgetMS * float64(time.Millisecond))

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	a := &App{
		cfg:       cfg,
		kind:      opts.Kind,
		demo:      d,
		collector: telemetry.NewCollector(windowTicks, opts.LogStats),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow, budget),
		output:    output,
		panel:     newPanel(d, cfg.Derived.ScreenW32),
	}

	if cfg.Stream.Enabled {
		a.streamer = stream.NewServer(cfg.Stream.Addr,
			time.Duration(cfg.Stream.Interval*float64(time.Second)))
		go func() {
			if err := a.streamer.Run(); err != nil {
				slog.Error("snapshot stream failed", "error", err)
			}
		}()
	}

	if !opts.Headless {
		bounds := fluid.BoundsFromConfig(cfg.Fluid.Bounds)
		center := bounds.Center()
		distance := bounds.Size().Len() * 1.1
		a.orbit = camera.New(center.X(), center.Y(), center.Z(), 0.8, 0.45, distance)
	}

	d.Start()
	a.running = true
	return a, nil
}

// Update runs one host frame: input, demo step, stats, stream. The
// perf tick stays open so Draw's phase lands in the same sample; Draw
// closes it.
func (a *App) Update() {
	a.perf.StartTick()

	a.perf.StartPhase(telemetry.PhaseInput)
	a.handleInput()

	a.perf.StartPhase(telemetry.PhaseUpdate)
	dt := rl.GetFrameTime()
	a.demo.Update(dt)
	a.tick++

	a.recordFrame(float64(dt))
}

// UpdateHeadless runs one fixed-dt frame without raylib.
func (a *App) UpdateHeadless(dt float32) {
	a.perf.StartTick()

	a.perf.StartPhase(telemetry.PhaseUpdate)
	a.demo.Update(dt)
	a.tick++

	a.recordFrame(float64(dt))
	a.perf.EndTick()
}

// recordFrame feeds telemetry and the streamer from the fluid scene,
// when the active demo exposes one.
func (a *App) recordFrame(dt float64) {
	scene := findFluidScene(a.demo.Scene())
	if scene == nil {
		return
	}

	a.perf.StartPhase(telemetry.PhaseStats)
	snap := scene.Snapshot()
	clamps := 0
	if fd, ok := a.demo.(*demo.FluidDemo); ok {
		clamps = fd.Simulation().SpeedClamps()
	}
	if ws, done := a.collector.Record(snap, clamps, dt); done {
		if err := a.output.WriteStats(ws); err != nil {
			slog.Error("writing stats", "error", err)
		}
		if err := a.output.WritePerf(a.perf.Stats(), ws.WindowEndTick); err != nil {
			slog.Error("writing perf", "error", err)
		}
	}

	if a.streamer != nil {
		a.perf.StartPhase(telemetry.PhaseStream)
		a.streamer.Publish(stream.Frame{Tick: a.tick, Particles: snap})
	}
}

// findFluidScene digs the fluid scene out of a possibly combined scene.
func findFluidScene(s demo.Scene) demo.FluidScene {
	switch sc := s.(type) {
	case demo.FluidScene:
		return sc
	case []demo.NamedScene:
		for _, ns := range sc {
			if fs, ok := ns.Scene.(demo.FluidScene); ok {
				return fs
			}
		}
	}
	return nil
}

// Tick returns the number of frames run.
func (a *App) Tick() int32 {
	return a.tick
}

// PerfStats returns the current perf window summary.
func (a *App) PerfStats() telemetry.PerfStats {
	return a.perf.Stats()
}

// Unload releases all host resources.
func (a *App) Unload() {
	if a.streamer != nil {
		a.streamer.Close()
	}
	if err := a.output.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
}
