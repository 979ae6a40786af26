package demo

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/fluid"
	"github.com/pthm-cable/ripple/param"
	"github.com/pthm-cable/ripple/pool"
)

// Effect is one decorative particle: no pressure coupling, just drift
// along a coherent noise field plus a finite lifetime.
type Effect struct {
	Pos     mgl32.Vec3
	Vel     mgl32.Vec3
	Life    float32
	MaxLife float32
	Size    float32
}

// EffectScene is the read-only render view of the effects demo.
type EffectScene interface {
	Effects() []*Effect
}

// EffectsDemo animates pooled effect particles through an opensimplex
// drift field inside the shared container box.
type EffectsDemo struct {
	rng     *rand.Rand
	noise   opensimplex.Noise
	effects *pool.ObjectPool[*Effect]
	alive   []*Effect
	running bool

	bounds     fluid.Bounds
	target     int
	driftScale float32
	driftSpeed float32
	lifetime   float32
	noiseTime  float32
}

// NewEffectsDemo builds an effects demo from loaded config.
func NewEffectsDemo(cfg *config.Config, seed int64) (*EffectsDemo, error) {
	return &EffectsDemo{
		rng:   rand.New(rand.NewSource(seed)),
		noise: opensimplex.New(seed),
		effects: pool.New(
			func() *Effect { return &Effect{} },
			func(e *Effect) { *e = Effect{} },
			cfg.Pool.EffectBatch,
		),
		bounds:     fluid.BoundsFromConfig(cfg.Fluid.Bounds),
		target:     cfg.Effects.Count,
		driftScale: float32(cfg.Effects.DriftScale),
		driftSpeed: float32(cfg.Effects.DriftSpeed),
		lifetime:   float32(cfg.Effects.Lifetime),
	}, nil
}

func init() {
	Register("effects", func(cfg *config.Config, seed int64) (Demo, error) {
		return NewEffectsDemo(cfg, seed)
	})
}

func (d *EffectsDemo) Start() { d.running = true }
func (d *EffectsDemo) Stop()  { d.running = false }

// Reset releases every live effect back to the pool.
func (d *EffectsDemo) Reset() {
	for _, e := range d.alive {
		d.effects.Release(e)
	}
	d.alive = d.alive[:0]
	d.noiseTime = 0
}

// Update spawns up to the target population, drifts each effect along
// the noise field, ages it, and recycles the expired.
func (d *EffectsDemo) Update(dt float32) {
	if !d.running {
		return
	}
	d.noiseTime += dt * d.driftSpeed

	for len(d.alive) < d.target {
		d.alive = append(d.alive, d.spawn())
	}

	keep := d.alive[:0]
	for _, e := range d.alive {
		e.Life -= dt
		if e.Life <= 0 {
			d.effects.Release(e)
			continue
		}

		drift := d.sampleDrift(e.Pos)
		e.Vel = e.Vel.Add(drift.Mul(dt)).Mul(0.98)
		e.Pos = e.Pos.Add(e.Vel.Mul(dt))
		d.wrap(e)
		keep = append(keep, e)
	}
	d.alive = keep
}

// OnInput emits a radial burst of effects at the pointer's projected
// position while the pointer is down.
func (d *EffectsDemo) OnInput(state InputState) {
	if !state.Down {
		return
	}
	size := d.bounds.Size()
	origin := mgl32.Vec3{
		d.bounds.Min[0] + state.X*size[0],
		d.bounds.Max[1] - state.Y*size[1],
		d.bounds.Center()[2],
	}

	count := 8 + d.rng.Intn(7)
	for i := 0; i < count; i++ {
		e := d.spawn()
		e.Pos = origin
		angle := d.rng.Float64() * 2 * math.Pi
		speed := 1 + d.rng.Float32()*2
		e.Vel = mgl32.Vec3{
			float32(math.Cos(angle)) * speed,
			d.rng.Float32() * speed,
			float32(math.Sin(angle)) * speed,
		}
		d.alive = append(d.alive, e)
	}
}

const (
	keyEffectCount = "effectCount"
	keyDriftSpeed  = "driftSpeed"
)

func (d *EffectsDemo) ParameterSchema() param.Schema {
	return param.Schema{
		{Key: keyEffectCount, Name: "Effects", Kind: param.Number,
			Min: 0, Max: 2000, Step: 10, Default: float64(d.target)},
		{Key: keyDriftSpeed, Name: "Drift Speed", Kind: param.Number,
			Min: 0, Max: 5, Step: 0.05, Default: float64(d.driftSpeed)},
	}
}

func (d *EffectsDemo) SetParameter(key string, value float64) error {
	spec, ok := d.ParameterSchema().Find(key)
	if !ok {
		return errUnknownParameter("effects", key)
	}
	if err := spec.Validate(value); err != nil {
		return err
	}
	switch key {
	case keyEffectCount:
		d.target = int(value)
	case keyDriftSpeed:
		d.driftSpeed = float32(value)
	}
	return nil
}

// Scene returns the render-bindable view of the live effects.
func (d *EffectsDemo) Scene() Scene {
	return EffectScene(d)
}

// Effects returns the live effect list. Read-only for renderers.
func (d *EffectsDemo) Effects() []*Effect {
	return d.alive
}

// PoolStats exposes effect pool occupancy for telemetry.
func (d *EffectsDemo) PoolStats() pool.Stats {
	return d.effects.Stats()
}

func (d *EffectsDemo) spawn() *Effect {
	size := d.bounds.Size()
	e := d.effects.Acquire()
	e.Pos = mgl32.Vec3{
		d.bounds.Min[0] + d.rng.Float32()*size[0],
		d.bounds.Min[1] + d.rng.Float32()*size[1],
		d.bounds.Min[2] + d.rng.Float32()*size[2],
	}
	e.Vel = mgl32.Vec3{}
	e.MaxLife = d.lifetime * (0.5 + d.rng.Float32())
	e.Life = e.MaxLife
	e.Size = 0.05 + d.rng.Float32()*0.1
	return e
}

// sampleDrift reads the animated noise field as a velocity target.
func (d *EffectsDemo) sampleDrift(p mgl32.Vec3) mgl32.Vec3 {
	s := float64(d.driftScale)
	t := float64(d.noiseTime)
	return mgl32.Vec3{
		float32(d.noise.Eval3(float64(p[0])*s, float64(p[1])*s, t)),
		float32(d.noise.Eval3(float64(p[1])*s, float64(p[2])*s, t+31.7)),
		float32(d.noise.Eval3(float64(p[2])*s, float64(p[0])*s, t+67.3)),
	}
}

// wrap keeps effects inside the box by toroidal wrapping; decorative
// particles do not collide with walls.
func (d *EffectsDemo) wrap(e *Effect) {
	for a := 0; a < 3; a++ {
		span := d.bounds.Max[a] - d.bounds.Min[a]
		for e.Pos[a] < d.bounds.Min[a] {
			e.Pos[a] += span
		}
		for e.Pos[a] > d.bounds.Max[a] {
			e.Pos[a] -= span
		}
	}
}
