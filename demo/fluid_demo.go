package demo

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/fluid"
	"github.com/pthm-cable/ripple/param"
	"github.com/pthm-cable/ripple/pool"
)

// FluidScene is the read-only render view of the fluid demo.
type FluidScene interface {
	Snapshot() []fluid.ParticleState
	Bounds() fluid.Bounds
}

// FluidDemo owns the fluid simulation and translates lifecycle and
// pointer input into simulation operations. The simulation's particle
// arrays are never mutated from here; the demo only submits force
// intents and reads snapshots.
type FluidDemo struct {
	sim     *fluid.Simulation
	running bool

	// Force intents recycled through a pool so pointer-heavy frames do
	// not allocate.
	intents *pool.ObjectPool[*fluid.ForceIntent]
	pending []*fluid.ForceIntent
	stepBuf []fluid.ForceIntent

	forceStrength float32
	forceRadius   float32
}

// NewFluidDemo builds a fluid demo from loaded config.
func NewFluidDemo(cfg *config.Config, seed int64) (*FluidDemo, error) {
	sim, err := fluid.NewSimulation(
		fluid.ParamsFromConfig(cfg),
		fluid.BoundsFromConfig(cfg.Fluid.Bounds),
		seed,
	)
	if err != nil {
		return nil, err
	}

	return &FluidDemo{
		sim: sim,
		intents: pool.New(
			func() *fluid.ForceIntent { return &fluid.ForceIntent{} },
			func(fi *fluid.ForceIntent) { *fi = fluid.ForceIntent{} },
			cfg.Pool.ForceBatch,
		),
		stepBuf:       make([]fluid.ForceIntent, 0, cfg.Pool.ForceBatch),
		forceStrength: float32(cfg.Input.ForceStrength),
		forceRadius:   float32(cfg.Input.ForceRadius),
	}, nil
}

func init() {
	Register("fluid", func(cfg *config.Config, seed int64) (Demo, error) {
		return NewFluidDemo(cfg, seed)
	})
}

// Start enables stepping.
func (d *FluidDemo) Start() { d.running = true }

// Stop disables stepping; the last snapshot stays valid.
func (d *FluidDemo) Stop() { d.running = false }

// Running reports whether Update performs work.
func (d *FluidDemo) Running() bool { return d.running }

// Reset restores the initial particle distribution. Pending input
// intents are discarded back into the pool.
func (d *FluidDemo) Reset() {
	d.releasePending()
	d.sim.Reset()
}

// Update advances the simulation one step, consuming any pending force
// intents. A no-op while stopped.
func (d *FluidDemo) Update(dt float32) {
	if !d.running {
		return
	}

	d.stepBuf = d.stepBuf[:0]
	for _, fi := range d.pending {
		d.stepBuf = append(d.stepBuf, *fi)
	}

	d.sim.Step(dt, d.stepBuf)
	d.releasePending()
}

// OnInput translates an active pointer into a transient point force at
// the pointer's projected position inside the container, applied on the
// next update only. Input while stopped is dropped; no update will
// consume it, and queued intents must not accumulate across a pause.
func (d *FluidDemo) OnInput(state InputState) {
	if !state.Down || !d.running {
		return
	}

	b := d.sim.Bounds()
	size := b.Size()
	fi := d.intents.Acquire()
	fi.Position = mgl32.Vec3{
		b.Min[0] + state.X*size[0],
		b.Max[1] - state.Y*size[1], // screen Y grows downward
		b.Center()[2],
	}
	fi.Force = d.forceStrength
	fi.Radius = d.forceRadius
	d.pending = append(d.pending, fi)
}

// SetParameter forwards to the simulation's tuning contract.
func (d *FluidDemo) SetParameter(key string, value float64) error {
	return d.sim.SetParameter(key, value)
}

// ParameterSchema returns the simulation's tuning contract.
func (d *FluidDemo) ParameterSchema() param.Schema {
	return d.sim.ParameterSchema()
}

// Scene returns the render-bindable view of the simulation.
func (d *FluidDemo) Scene() Scene {
	return FluidScene(d.sim)
}

// PoolStats exposes force-intent pool occupancy for telemetry.
func (d *FluidDemo) PoolStats() pool.Stats {
	return d.intents.Stats()
}

// Simulation exposes the underlying simulation for telemetry reads.
func (d *FluidDemo) Simulation() *fluid.Simulation {
	return d.sim
}

func (d *FluidDemo) releasePending() {
	for _, fi := range d.pending {
		d.intents.Release(fi)
	}
	d.pending = d.pending[:0]
}
