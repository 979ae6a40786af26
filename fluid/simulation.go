package fluid

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/ripple/spatial"
)

// epsilon guards divisions in kernel and pressure math.
const epsilon = 1e-6

// Simulation owns all particle state and advances it one timestep at a
// time. It is single-threaded: the whole pipeline runs synchronously
// inside Step and nothing else mutates the particle arrays or the hash.
// Step never allocates, errors, or blocks; invalid configuration is
// rejected at Initialize/SetParameter time instead.
type Simulation struct {
	params Params
	bounds Bounds
	seed   int64

	// SoA particle state. Index i is stable across steps.
	positions  []mgl32.Vec3
	velocities []mgl32.Vec3
	forces     []mgl32.Vec3
	densities  []float32
	pressures  []float32
	masses     []float32

	hash *spatial.Hash[int32]

	// Per-particle neighbor lists, rebuilt each step. Capacity is
	// retained so steady-state stepping does not allocate.
	neighbors [][]int32

	// Scratch buffers reused across steps.
	viscBuf   []mgl32.Vec3
	intentBuf []int32
	snapBuf   []ParticleState

	speedClamps int
}

// NewSimulation creates a simulation and allocates particle state for
// params.ParticleCount inside bounds. The seed fixes the initial
// distribution so identical inputs replay identically.
func NewSimulation(params Params, bounds Bounds, seed int64) (*Simulation, error) {
	if params.SmoothingRadius <= epsilon {
		return nil, fmt.Errorf("fluid: smoothing radius must be > 0, got %v", params.SmoothingRadius)
	}
	if params.CellSizeFactor < 1 {
		return nil, fmt.Errorf("fluid: cell size factor must be >= 1, got %v", params.CellSizeFactor)
	}
	if params.MaxParticles <= 0 {
		return nil, fmt.Errorf("fluid: max particles must be > 0, got %d", params.MaxParticles)
	}

	s := &Simulation{
		params: params,
		bounds: bounds,
		seed:   seed,
		hash:   spatial.NewHash[int32](params.SmoothingRadius * params.CellSizeFactor),
	}
	if err := s.Initialize(params.ParticleCount, bounds); err != nil {
		return nil, err
	}
	return s, nil
}

// Initialize (re)allocates particle state for count particles,
// uniformly distributed in the upper region of bounds. Counts above the
// configured cap are clamped rather than rejected.
func (s *Simulation) Initialize(count int, bounds Bounds) error {
	if count < 0 {
		return fmt.Errorf("fluid: particle count must be >= 0, got %d", count)
	}
	if count > s.params.MaxParticles {
		count = s.params.MaxParticles
	}

	s.params.ParticleCount = count
	s.bounds = bounds

	s.positions = make([]mgl32.Vec3, count)
	s.velocities = make([]mgl32.Vec3, count)
	s.forces = make([]mgl32.Vec3, count)
	s.densities = make([]float32, count)
	s.pressures = make([]float32, count)
	s.masses = make([]float32, count)

	s.neighbors = make([][]int32, count)
	for i := range s.neighbors {
		s.neighbors[i] = make([]int32, 0, 32)
	}
	s.viscBuf = make([]mgl32.Vec3, count)
	s.intentBuf = make([]int32, 0, 256)
	s.snapBuf = make([]ParticleState, count)

	for i := range s.masses {
		s.masses[i] = s.params.ParticleMass
	}

	s.scatter()
	return nil
}

// Reset restores the initial particle distribution and zeroes derived
// state without reallocating any buffers. Two consecutive resets yield
// the same distribution.
func (s *Simulation) Reset() {
	for i := range s.positions {
		s.velocities[i] = mgl32.Vec3{}
		s.forces[i] = mgl32.Vec3{}
		s.densities[i] = 0
		s.pressures[i] = 0
	}
	s.scatter()
}

// scatter places particles uniformly in the upper region of the box,
// from a fresh RNG so the distribution is a pure function of the seed.
func (s *Simulation) scatter() {
	rng := rand.New(rand.NewSource(s.seed))
	size := s.bounds.Size()
	// Upper region: the top 40% of the box.
	yBase := s.bounds.Min[1] + size[1]*0.6
	ySpan := size[1] * 0.4

	for i := range s.positions {
		s.positions[i] = mgl32.Vec3{
			s.bounds.Min[0] + rng.Float32()*size[0],
			yBase + rng.Float32()*ySpan,
			s.bounds.Min[2] + rng.Float32()*size[2],
		}
		s.velocities[i] = mgl32.Vec3{}
	}
}

// Count returns the current particle count.
func (s *Simulation) Count() int {
	return len(s.positions)
}

// Bounds returns the container box.
func (s *Simulation) Bounds() Bounds {
	return s.bounds
}

// Params returns a copy of the current parameters.
func (s *Simulation) Params() Params {
	return s.params
}

// SpeedClamps returns how many velocity-magnitude clamps the last step
// applied. Nonzero values flag a configuration near instability.
func (s *Simulation) SpeedClamps() int {
	return s.speedClamps
}

// Step advances the simulation by one timestep. dt is clamped to MaxDT
// so host frame skips cannot tunnel particles through walls. external
// forces apply for this step only.
func (s *Simulation) Step(dt float32, external []ForceIntent) {
	if len(s.positions) == 0 || dt <= 0 {
		return
	}
	if dt > s.params.MaxDT {
		dt = s.params.MaxDT
	}
	h := s.params.SmoothingRadius
	if h <= epsilon {
		return
	}

	s.rebuildHash(h)
	s.gatherNeighbors(h)
	s.computeDensities(h)
	s.computePressures()
	s.applyPressureForces(h)
	s.applyViscosity(h, dt)
	s.applyExternalForces(external)
	s.integrate(dt)
	s.collideBounds()
}

// rebuildHash re-inserts every particle; no stale entries persist.
func (s *Simulation) rebuildHash(h float32) {
	s.hash.Clear()
	s.hash.SetCellSize(h * s.params.CellSizeFactor)
	for i := range s.positions {
		s.hash.Insert(s.positions[i], int32(i))
	}
}

// gatherNeighbors caches each particle's candidate neighbors once so
// the density, pressure, and viscosity phases share one hash walk. The
// lists are supersets; each phase filters by exact distance through the
// kernel cutoff.
func (s *Simulation) gatherNeighbors(h float32) {
	for i := range s.positions {
		s.neighbors[i] = s.hash.QueryInto(s.neighbors[i][:0], s.positions[i], h)
	}
}

// computeDensities sums mass-weighted kernel contributions over the
// neighborhood, including the particle itself.
func (s *Simulation) computeDensities(h float32) {
	for i := range s.positions {
		density := float32(0)
		for _, j := range s.neighbors[i] {
			r := s.positions[i].Sub(s.positions[j]).Len()
			density += s.masses[j] * kernelWeight(r, h)
		}
		s.densities[i] = density
	}
}

// computePressures applies the clamped linear equation of state.
// Clamping at zero prevents attractive forces when density is below
// rest.
func (s *Simulation) computePressures() {
	for i := range s.densities {
		p := s.params.Stiffness * (s.densities[i] - s.params.RestDensity)
		if p < 0 {
			p = 0
		}
		s.pressures[i] = p
	}
}

// applyPressureForces accumulates the pairwise repulsion. Each pair is
// visited once (j > i) and the force applied equal-and-opposite, so
// pressure conserves momentum; the magnitude itself stays a simplified
// kernel-weighted average of the two pressures.
func (s *Simulation) applyPressureForces(h float32) {
	for i := range s.forces {
		s.forces[i] = mgl32.Vec3{0, -s.params.Gravity * s.masses[i], 0}
	}

	for i := range s.positions {
		for _, j := range s.neighbors[i] {
			if j <= int32(i) {
				continue
			}
			delta := s.positions[i].Sub(s.positions[j])
			r := delta.Len()
			if r >= h || r < epsilon {
				continue
			}
			w := kernelWeight(r, h)
			shared := (s.pressures[i] + s.pressures[j]) * 0.5
			if shared <= 0 {
				continue
			}
			f := delta.Mul(w * shared / r)
			s.forces[i] = s.forces[i].Add(f)
			s.forces[j] = s.forces[j].Sub(f)
		}
	}
}

// applyViscosity blends each velocity toward the mass-weighted average
// of its neighborhood: an explicit low-pass filter standing in for the
// Laplacian viscosity term. New velocities land in a scratch buffer so
// the blend reads a consistent pre-step view.
func (s *Simulation) applyViscosity(h, dt float32) {
	if s.params.Viscosity <= 0 {
		return
	}
	blend := 1 - float32(math.Exp(-float64(s.params.Viscosity*dt)))

	for i := range s.positions {
		var avg mgl32.Vec3
		wSum := float32(0)
		for _, j := range s.neighbors[i] {
			r := s.positions[i].Sub(s.positions[j]).Len()
			w := s.masses[j] * kernelWeight(r, h)
			if w <= 0 {
				continue
			}
			avg = avg.Add(s.velocities[j].Mul(w))
			wSum += w
		}
		if wSum > epsilon {
			avg = avg.Mul(1 / wSum)
			s.viscBuf[i] = s.velocities[i].Add(avg.Sub(s.velocities[i]).Mul(blend))
		} else {
			s.viscBuf[i] = s.velocities[i]
		}
	}
	copy(s.velocities, s.viscBuf)
}

// applyExternalForces adds point-force intents: linear falloff push
// away from the intent position, via a hash query bounded by the intent
// radius.
func (s *Simulation) applyExternalForces(external []ForceIntent) {
	for _, intent := range external {
		if intent.Radius <= epsilon || intent.Force == 0 {
			continue
		}
		s.intentBuf = s.hash.QueryInto(s.intentBuf[:0], intent.Position, intent.Radius)
		for _, idx := range s.intentBuf {
			delta := s.positions[idx].Sub(intent.Position)
			r := delta.Len()
			if r > intent.Radius {
				continue
			}
			falloff := 1 - r/intent.Radius
			var dir mgl32.Vec3
			if r < epsilon {
				dir = mgl32.Vec3{0, 1, 0} // coincident with the intent: push up
			} else {
				dir = delta.Mul(1 / r)
			}
			s.forces[idx] = s.forces[idx].Add(dir.Mul(intent.Force * falloff))
		}
	}
}

// integrate applies semi-implicit Euler: velocity first, then position.
// Velocity magnitude is clamped as the instability backstop.
func (s *Simulation) integrate(dt float32) {
	s.speedClamps = 0
	maxSpeed := s.params.MaxSpeed

	for i := range s.positions {
		m := s.masses[i]
		if m < epsilon {
			continue
		}
		accel := s.forces[i].Mul(1 / m)
		s.velocities[i] = s.velocities[i].Add(accel.Mul(dt))

		if maxSpeed > 0 {
			speed := s.velocities[i].Len()
			if speed > maxSpeed {
				s.velocities[i] = s.velocities[i].Mul(maxSpeed / speed)
				s.speedClamps++
			}
		}

		s.positions[i] = s.positions[i].Add(s.velocities[i].Mul(dt))
	}
}

// collideBounds clamps each axis independently and reflects the
// velocity component with damping. Sequential per-axis resolution
// handles corner hits where several walls are violated at once.
func (s *Simulation) collideBounds() {
	damping := s.params.BoundaryDamping
	for i := range s.positions {
		for a := 0; a < 3; a++ {
			if s.positions[i][a] < s.bounds.Min[a] {
				s.positions[i][a] = s.bounds.Min[a]
				s.velocities[i][a] = -s.velocities[i][a] * damping
			} else if s.positions[i][a] > s.bounds.Max[a] {
				s.positions[i][a] = s.bounds.Max[a]
				s.velocities[i][a] = -s.velocities[i][a] * damping
			}
		}
	}
}

// Snapshot fills and returns the read-only render view. The backing
// buffer is reused; callers must not retain it across steps.
func (s *Simulation) Snapshot() []ParticleState {
	for i := range s.positions {
		s.snapBuf[i] = ParticleState{
			Position: s.positions[i],
			Velocity: s.velocities[i],
			Density:  s.densities[i],
		}
	}
	return s.snapBuf
}
