package demo

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/fluid"
	"github.com/pthm-cable/ripple/param"
)

// ECS components for the object demo.

// Position is a body's world position.
type Position struct {
	V mgl32.Vec3
}

// Velocity is a body's linear velocity.
type Velocity struct {
	V mgl32.Vec3
}

// Body holds a rigid sphere's collision parameters.
type Body struct {
	Radius      float32
	Restitution float32
}

// ObjectState is one read-only snapshot entry for rendering.
type ObjectState struct {
	Position mgl32.Vec3
	Radius   float32
}

// ObjectScene is the read-only render view of the object demo.
type ObjectScene interface {
	Objects() []ObjectState
}

// ObjectDemo simulates rigid spheres bouncing under gravity inside the
// shared container box, stored in an ECS world.
type ObjectDemo struct {
	world   *ecs.World
	mapper  *ecs.Map3[Position, Velocity, Body]
	filter  *ecs.Filter3[Position, Velocity, Body]
	rng     *rand.Rand
	running bool

	bounds      fluid.Bounds
	count       int
	radius      float32
	restitution float32
	gravity     float32

	snapBuf []ObjectState
}

// NewObjectDemo builds an object demo from loaded config.
func NewObjectDemo(cfg *config.Config, seed int64) (*ObjectDemo, error) {
	world := ecs.NewWorld()

	d := &ObjectDemo{
		world:       world,
		mapper:      ecs.NewMap3[Position, Velocity, Body](world),
		filter:      ecs.NewFilter3[Position, Velocity, Body](world),
		rng:         rand.New(rand.NewSource(seed)),
		bounds:      fluid.BoundsFromConfig(cfg.Fluid.Bounds),
		count:       cfg.Objects.Count,
		radius:      float32(cfg.Objects.Radius),
		restitution: float32(cfg.Objects.Restitution),
		gravity:     float32(cfg.Fluid.Gravity),
		snapBuf:     make([]ObjectState, 0, cfg.Objects.Count),
	}
	d.spawnAll()
	return d, nil
}

func init() {
	Register("objects", func(cfg *config.Config, seed int64) (Demo, error) {
		return NewObjectDemo(cfg, seed)
	})
}

func (d *ObjectDemo) Start() { d.running = true }
func (d *ObjectDemo) Stop()  { d.running = false }

// Reset rescatters the spheres and zeroes their velocities; entities
// are reused, not reallocated.
func (d *ObjectDemo) Reset() {
	query := d.filter.Query()
	for query.Next() {
		pos, vel, _ := query.Get()
		pos.V = d.scatterPos()
		vel.V = mgl32.Vec3{}
	}
}

// Update integrates gravity and resolves wall bounces per axis.
func (d *ObjectDemo) Update(dt float32) {
	if !d.running {
		return
	}

	query := d.filter.Query()
	for query.Next() {
		pos, vel, body := query.Get()

		vel.V[1] -= d.gravity * dt
		pos.V = pos.V.Add(vel.V.Mul(dt))

		for a := 0; a < 3; a++ {
			if pos.V[a]-body.Radius < d.bounds.Min[a] {
				pos.V[a] = d.bounds.Min[a] + body.Radius
				vel.V[a] = -vel.V[a] * body.Restitution
			} else if pos.V[a]+body.Radius > d.bounds.Max[a] {
				pos.V[a] = d.bounds.Max[a] - body.Radius
				vel.V[a] = -vel.V[a] * body.Restitution
			}
		}
	}
}

// OnInput kicks spheres near the pointer's projected position.
func (d *ObjectDemo) OnInput(state InputState) {
	if !state.Down {
		return
	}
	size := d.bounds.Size()
	origin := mgl32.Vec3{
		d.bounds.Min[0] + state.X*size[0],
		d.bounds.Max[1] - state.Y*size[1],
		d.bounds.Center()[2],
	}
	const kickRadius = 3.0
	const kickSpeed = 8.0

	query := d.filter.Query()
	for query.Next() {
		pos, vel, _ := query.Get()
		delta := pos.V.Sub(origin)
		dist := delta.Len()
		if dist > kickRadius || dist < 1e-5 {
			continue
		}
		vel.V = vel.V.Add(delta.Mul(kickSpeed * (1 - dist/kickRadius) / dist))
	}
}

const (
	keyObjectCount = "objectCount"
	keyRestitution = "restitution"
	keyObjGravity  = "gravity"
)

func (d *ObjectDemo) ParameterSchema() param.Schema {
	return param.Schema{
		{Key: keyObjectCount, Name: "Objects", Kind: param.Number,
			Min: 0, Max: 500, Step: 1, Default: float64(d.count)},
		{Key: keyRestitution, Name: "Restitution", Kind: param.Number,
			Min: 0, Max: 0.99, Step: 0.01, Default: float64(d.restitution)},
		{Key: keyObjGravity, Name: "Gravity", Kind: param.Number,
			Min: 0, Max: 30, Step: 0.1, Default: float64(d.gravity)},
	}
}

func (d *ObjectDemo) SetParameter(key string, value float64) error {
	spec, ok := d.ParameterSchema().Find(key)
	if !ok {
		return errUnknownParameter("objects", key)
	}
	if err := spec.Validate(value); err != nil {
		return err
	}
	switch key {
	case keyObjectCount:
		d.count = int(value)
		d.respawn()
	case keyRestitution:
		d.restitution = float32(value)
		query := d.filter.Query()
		for query.Next() {
			_, _, body := query.Get()
			body.Restitution = d.restitution
		}
	case keyObjGravity:
		d.gravity = float32(value)
	}
	return nil
}

// Scene returns the render-bindable view of the spheres.
func (d *ObjectDemo) Scene() Scene {
	return ObjectScene(d)
}

// Objects fills and returns the reusable snapshot buffer.
func (d *ObjectDemo) Objects() []ObjectState {
	d.snapBuf = d.snapBuf[:0]
	query := d.filter.Query()
	for query.Next() {
		pos, _, body := query.Get()
		d.snapBuf = append(d.snapBuf, ObjectState{Position: pos.V, Radius: body.Radius})
	}
	return d.snapBuf
}

// Count returns the live sphere count.
func (d *ObjectDemo) Count() int {
	n := 0
	query := d.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

func (d *ObjectDemo) spawnAll() {
	for i := 0; i < d.count; i++ {
		pos := Position{V: d.scatterPos()}
		vel := Velocity{}
		body := Body{Radius: d.radius, Restitution: d.restitution}
		d.mapper.NewEntity(&pos, &vel, &body)
	}
}

// respawn rebuilds the entity set after a count change. Collect first,
// then remove: the query iteration must complete before mutation.
func (d *ObjectDemo) respawn() {
	var toRemove []ecs.Entity
	query := d.filter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		d.mapper.Remove(e)
	}
	d.spawnAll()
}

func (d *ObjectDemo) scatterPos() mgl32.Vec3 {
	size := d.bounds.Size()
	return mgl32.Vec3{
		d.bounds.Min[0] + d.radius + d.rng.Float32()*(size[0]-2*d.radius),
		d.bounds.Min[1] + size[1]*0.5 + d.rng.Float32()*(size[1]*0.5-d.radius),
		d.bounds.Min[2] + d.radius + d.rng.Float32()*(size[2]-2*d.radius),
	}
}
