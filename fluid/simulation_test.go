package fluid

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testParams() Params {
	return Params{
		ParticleCount:   100,
		MaxParticles:    5000,
		Gravity:         9.8,
		Viscosity:       0,
		RestDensity:     2.0,
		Stiffness:       20,
		BoundaryDamping: 0.3,
		SmoothingRadius: 1.0,
		CellSizeFactor:  1.0,
		MaxSpeed:        40,
		MaxDT:           1.0 / 30.0,
		ParticleMass:    1.0,
	}
}

func testBounds() Bounds {
	return Bounds{Min: mgl32.Vec3{-4, 0, -4}, Max: mgl32.Vec3{4, 8, 4}}
}

func newTestSim(t *testing.T, p Params) *Simulation {
	t.Helper()
	s, err := NewSimulation(p, testBounds(), 42)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	return s
}

func assertFinite(t *testing.T, s *Simulation) {
	t.Helper()
	for i, st := range s.Snapshot() {
		for a := 0; a < 3; a++ {
			if math.IsNaN(float64(st.Position[a])) || math.IsInf(float64(st.Position[a]), 0) {
				t.Fatalf("particle %d position axis %d not finite: %v", i, a, st.Position[a])
			}
		}
	}
}

func assertContained(t *testing.T, s *Simulation) {
	t.Helper()
	const tol = 1e-4
	b := s.Bounds()
	for i, st := range s.Snapshot() {
		for a := 0; a < 3; a++ {
			if st.Position[a] < b.Min[a]-tol || st.Position[a] > b.Max[a]+tol {
				t.Fatalf("particle %d axis %d escaped: %v not in [%v, %v]",
					i, a, st.Position[a], b.Min[a], b.Max[a])
			}
		}
	}
}

func TestRejectsDegenerateConfiguration(t *testing.T) {
	p := testParams()
	p.SmoothingRadius = 0
	if _, err := NewSimulation(p, testBounds(), 1); err == nil {
		t.Error("zero smoothing radius accepted")
	}

	p = testParams()
	p.CellSizeFactor = 0.5
	if _, err := NewSimulation(p, testBounds(), 1); err == nil {
		t.Error("cell size factor below 1 accepted")
	}
}

func TestInitializeDistributesInUpperRegion(t *testing.T) {
	s := newTestSim(t, testParams())
	b := s.Bounds()
	mid := b.Min[1] + b.Size()[1]*0.5

	for i, st := range s.Snapshot() {
		if st.Position[1] < mid {
			t.Errorf("particle %d spawned at y=%v, below the upper region", i, st.Position[1])
		}
	}
	assertContained(t, s)
}

func TestDeterminism(t *testing.T) {
	run := func() []ParticleState {
		s := newTestSim(t, testParams())
		intent := []ForceIntent{{Position: mgl32.Vec3{0, 2, 0}, Force: 15, Radius: 2}}
		for i := 0; i < 60; i++ {
			if i%10 == 0 {
				s.Step(1.0/60.0, intent)
			} else {
				s.Step(1.0/60.0, nil)
			}
		}
		out := make([]ParticleState, s.Count())
		copy(out, s.Snapshot())
		return out
	}

	a := run()
	b := run()

	const tol = 1e-6
	for i := range a {
		for axis := 0; axis < 3; axis++ {
			if math.Abs(float64(a[i].Position[axis]-b[i].Position[axis])) > tol {
				t.Fatalf("particle %d diverged on axis %d: %v vs %v",
					i, axis, a[i].Position[axis], b[i].Position[axis])
			}
		}
	}
}

func TestBoundaryContainment(t *testing.T) {
	p := testParams()
	p.Gravity = 30 // drive particles hard into the floor
	s := newTestSim(t, p)

	for i := 0; i < 200; i++ {
		s.Step(1.0/60.0, nil)
		assertContained(t, s)
	}
}

func TestDensityAndPressureNonNegative(t *testing.T) {
	s := newTestSim(t, testParams())
	for i := 0; i < 100; i++ {
		s.Step(1.0/60.0, nil)
		for j := range s.densities {
			if s.densities[j] < 0 {
				t.Fatalf("step %d: density[%d] = %v < 0", i, j, s.densities[j])
			}
			if s.pressures[j] < 0 {
				t.Fatalf("step %d: pressure[%d] = %v < 0", i, j, s.pressures[j])
			}
		}
	}
}

// Settling scenario: 100 particles under gravity for 120 steps must stay
// finite, stay contained, and pile into a bottom layer whose mean
// density is on the order of the rest density.
func TestSettlingScenario(t *testing.T) {
	s := newTestSim(t, testParams())

	for i := 0; i < 120; i++ {
		s.Step(1.0/60.0, nil)
	}

	assertFinite(t, s)
	assertContained(t, s)

	b := s.Bounds()
	layerTop := b.Min[1] + 1.5*s.Params().SmoothingRadius
	var sum float64
	var n int
	for _, st := range s.Snapshot() {
		if st.Position[1] <= layerTop {
			sum += float64(st.Density)
			n++
		}
	}
	if n == 0 {
		t.Fatal("no particles settled into the bottom layer after 120 steps")
	}

	mean := sum / float64(n)
	rest := float64(s.Params().RestDensity)
	if mean < rest*0.25 || mean > rest*4 {
		t.Errorf("bottom layer mean density = %v, want within [%v, %v]", mean, rest*0.25, rest*4)
	}
}

func TestZeroParticles(t *testing.T) {
	s := newTestSim(t, testParams())

	if err := s.SetParameter(KeyParticleCount, 0); err != nil {
		t.Fatalf("SetParameter(particleCount, 0): %v", err)
	}

	s.Step(1.0/60.0, []ForceIntent{{Position: mgl32.Vec3{}, Force: 10, Radius: 2}})

	if got := len(s.Snapshot()); got != 0 {
		t.Errorf("snapshot length = %d, want 0", got)
	}
}

// Point-force scenario: with gravity, pressure, and viscosity disabled,
// particles inside the intent radius gain velocity directed away from
// the intent position in the same step; particles outside are untouched.
func TestExternalPointForce(t *testing.T) {
	p := testParams()
	p.Gravity = 0
	p.Stiffness = 0
	p.Viscosity = 0
	s := newTestSim(t, p)

	center := s.Snapshot()[0].Position
	const radius = 2.0
	s.Step(1.0/60.0, []ForceIntent{{Position: center, Force: 10, Radius: radius}})

	affected := 0
	for i, st := range s.Snapshot() {
		dist := st.Position.Sub(center).Len()
		speed := st.Velocity.Len()
		if dist <= radius-0.1 && dist > 0.01 {
			if speed == 0 {
				t.Errorf("particle %d inside radius gained no velocity", i)
				continue
			}
			affected++
			if st.Velocity.Dot(st.Position.Sub(center)) <= 0 {
				t.Errorf("particle %d velocity not directed away from force center", i)
			}
		} else if dist > radius+0.1 {
			if speed != 0 {
				t.Errorf("particle %d outside radius gained velocity %v", i, speed)
			}
		}
	}
	if affected == 0 {
		t.Error("no particles affected by point force at a particle position")
	}
}

func TestResetIdempotence(t *testing.T) {
	s := newTestSim(t, testParams())

	for i := 0; i < 30; i++ {
		s.Step(1.0/60.0, nil)
	}

	s.Reset()
	first := make([]ParticleState, s.Count())
	copy(first, s.Snapshot())

	s.Reset()
	second := s.Snapshot()

	if len(first) != len(second) {
		t.Fatalf("count changed across resets: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Position != second[i].Position {
			t.Fatalf("particle %d position differs across resets: %v vs %v",
				i, first[i].Position, second[i].Position)
		}
		if second[i].Velocity.Len() != 0 {
			t.Errorf("particle %d velocity not zeroed on reset", i)
		}
		if second[i].Density != 0 {
			t.Errorf("particle %d density not zeroed on reset", i)
		}
	}
}

func TestDTClamp(t *testing.T) {
	p := testParams()
	s := newTestSim(t, p)

	before := make([]ParticleState, s.Count())
	copy(before, s.Snapshot())

	// A pathological 10-second frame must behave like a MaxDT frame.
	s.Step(10, nil)
	assertContained(t, s)

	maxDisp := float64(p.MaxSpeed * p.MaxDT)
	for i, st := range s.Snapshot() {
		d := float64(st.Position.Sub(before[i].Position).Len())
		if d > maxDisp+1e-4 {
			t.Errorf("particle %d moved %v in one clamped step, limit %v", i, d, maxDisp)
		}
	}
}

func TestSetParameterRejectsInvalidAndRetainsOld(t *testing.T) {
	s := newTestSim(t, testParams())
	oldGravity := s.Params().Gravity

	if err := s.SetParameter(KeyGravity, -5); err == nil {
		t.Error("negative gravity accepted")
	}
	if got := s.Params().Gravity; got != oldGravity {
		t.Errorf("gravity changed after rejected set: %v, want %v", got, oldGravity)
	}

	if err := s.SetParameter("unknown", 1); err == nil {
		t.Error("unknown parameter accepted")
	}

	if err := s.SetParameter(KeyParticleCount, -1); err == nil {
		t.Error("negative particle count accepted")
	}
}

func TestParticleCountClampedToCap(t *testing.T) {
	p := testParams()
	p.MaxParticles = 500
	s := newTestSim(t, p)

	if err := s.SetParameter(KeyParticleCount, 100000); err != nil {
		t.Fatalf("SetParameter: %v", err)
	}
	if got := s.Count(); got != 500 {
		t.Errorf("count = %d, want clamped to 500", got)
	}
}

func TestSnapshotReusesBuffer(t *testing.T) {
	s := newTestSim(t, testParams())

	a := s.Snapshot()
	s.Step(1.0/60.0, nil)
	b := s.Snapshot()

	if len(a) != len(b) {
		t.Fatalf("snapshot length changed: %d vs %d", len(a), len(b))
	}
	if &a[0] != &b[0] {
		t.Error("snapshot allocated a new buffer between frames")
	}
}

func BenchmarkStep(b *testing.B) {
	p := testParams()
	p.ParticleCount = 1000
	s, err := NewSimulation(p, testBounds(), 42)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step(1.0/60.0, nil)
	}
}
