package demo

import (
	"testing"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/fluid"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	return cfg
}

func TestRegistryKinds(t *testing.T) {
	kinds := Kinds()
	want := map[string]bool{"fluid": false, "effects": false, "objects": false, "combined": false}
	for _, k := range kinds {
		if _, ok := want[k]; ok {
			want[k] = true
		}
	}
	for k, found := range want {
		if !found {
			t.Errorf("kind %q not registered (have %v)", k, kinds)
		}
	}

	if _, err := New("nope", testConfig(t), 1); err == nil {
		t.Error("unknown kind accepted")
	}
}

func TestFluidDemoLifecycle(t *testing.T) {
	d, err := NewFluidDemo(testConfig(t), 42)
	if err != nil {
		t.Fatal(err)
	}

	scene, ok := d.Scene().(FluidScene)
	if !ok {
		t.Fatal("fluid demo scene is not a FluidScene")
	}
	initial := make([]fluid.ParticleState, len(scene.Snapshot()))
	copy(initial, scene.Snapshot())

	// Stopped: update must be a no-op and the snapshot stays valid.
	d.Update(1.0 / 60.0)
	for i, st := range scene.Snapshot() {
		if st.Position != initial[i].Position {
			t.Fatalf("particle %d moved while stopped", i)
		}
	}

	d.Start()
	d.Update(1.0 / 60.0)
	moved := false
	for i, st := range scene.Snapshot() {
		if st.Position != initial[i].Position {
			moved = true
			break
		}
	}
	if !moved {
		t.Error("no particle moved after start + update")
	}

	d.Stop()
	afterStop := make([]fluid.ParticleState, len(scene.Snapshot()))
	copy(afterStop, scene.Snapshot())
	d.Update(1.0 / 60.0)
	for i, st := range scene.Snapshot() {
		if st.Position != afterStop[i].Position {
			t.Fatalf("particle %d moved after stop", i)
		}
	}
}

func TestFluidDemoInputBecomesTransientForce(t *testing.T) {
	d, err := NewFluidDemo(testConfig(t), 42)
	if err != nil {
		t.Fatal(err)
	}
	d.Start()

	d.OnInput(InputState{X: 0.5, Y: 0.5, Down: true})
	if got := d.PoolStats().Active; got != 1 {
		t.Errorf("active intents after input = %d, want 1", got)
	}

	// The update consumes the intent and returns it to the pool.
	d.Update(1.0 / 60.0)
	if got := d.PoolStats().Active; got != 0 {
		t.Errorf("active intents after update = %d, want 0", got)
	}

	// A released pointer produces no intent.
	d.OnInput(InputState{X: 0.5, Y: 0.5, Down: false})
	if got := d.PoolStats().Active; got != 0 {
		t.Errorf("active intents after up-input = %d, want 0", got)
	}
}

func TestFluidDemoResetDiscardsPendingInput(t *testing.T) {
	d, err := NewFluidDemo(testConfig(t), 42)
	if err != nil {
		t.Fatal(err)
	}
	d.Start()

	d.OnInput(InputState{X: 0.2, Y: 0.2, Down: true})
	if got := d.PoolStats().Active; got != 1 {
		t.Fatalf("active intents before reset = %d, want 1", got)
	}
	d.Reset()

	s := d.PoolStats()
	if s.Active != 0 {
		t.Errorf("active intents after reset = %d, want 0", s.Active)
	}
}

func TestFluidDemoDropsInputWhileStopped(t *testing.T) {
	d, err := NewFluidDemo(testConfig(t), 42)
	if err != nil {
		t.Fatal(err)
	}
	d.Start()
	d.Stop()

	// A pointer held through a long pause must not queue intents.
	before := d.PoolStats()
	for i := 0; i < 300; i++ {
		d.OnInput(InputState{X: 0.5, Y: 0.5, Down: true})
	}

	after := d.PoolStats()
	if after.Active != 0 {
		t.Errorf("active intents while stopped = %d, want 0", after.Active)
	}
	if after.Total != before.Total {
		t.Errorf("pool grew to %d while stopped, want %d", after.Total, before.Total)
	}

	// Nothing queued fires on resume.
	d.Start()
	d.Update(1.0 / 60.0)
	if got := d.PoolStats().Active; got != 0 {
		t.Errorf("active intents after resume = %d, want 0", got)
	}
}

func TestEffectsDemoRecyclesThroughPool(t *testing.T) {
	cfg := testConfig(t)
	cfg.Effects.Count = 50
	d, err := NewEffectsDemo(cfg, 7)
	if err != nil {
		t.Fatal(err)
	}
	d.Start()

	d.Update(1.0 / 60.0)
	if got := len(d.Effects()); got != 50 {
		t.Fatalf("live effects = %d, want 50", got)
	}
	s := d.PoolStats()
	if s.Active != 50 {
		t.Errorf("pool active = %d, want 50", s.Active)
	}
	if s.Active+s.Available != s.Total {
		t.Errorf("pool invariant violated: %+v", s)
	}

	// Run past every lifetime; expired effects must return to the pool
	// and be respawned, keeping the population at target.
	for i := 0; i < 60*10; i++ {
		d.Update(1.0 / 60.0)
	}
	if got := len(d.Effects()); got != 50 {
		t.Errorf("live effects after churn = %d, want 50", got)
	}

	d.Reset()
	if got := d.PoolStats().Active; got != 0 {
		t.Errorf("pool active after reset = %d, want 0", got)
	}
}

func TestObjectDemoStaysInBounds(t *testing.T) {
	cfg := testConfig(t)
	d, err := NewObjectDemo(cfg, 3)
	if err != nil {
		t.Fatal(err)
	}
	d.Start()

	for i := 0; i < 300; i++ {
		d.Update(1.0 / 60.0)
	}

	bounds := fluid.BoundsFromConfig(cfg.Fluid.Bounds)
	for i, obj := range d.Objects() {
		for a := 0; a < 3; a++ {
			if obj.Position[a]-obj.Radius < bounds.Min[a]-1e-3 ||
				obj.Position[a]+obj.Radius > bounds.Max[a]+1e-3 {
				t.Errorf("object %d escaped on axis %d: %v", i, a, obj.Position[a])
			}
		}
	}
}

func TestObjectDemoCountParameter(t *testing.T) {
	d, err := NewObjectDemo(testConfig(t), 3)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.SetParameter("objectCount", 5); err != nil {
		t.Fatal(err)
	}
	if got := d.Count(); got != 5 {
		t.Errorf("count = %d, want 5", got)
	}
}

func TestCombinedDemoComposition(t *testing.T) {
	cfg := testConfig(t)
	d, err := New("combined", cfg, 42)
	if err != nil {
		t.Fatal(err)
	}

	d.Start()
	d.Update(1.0 / 60.0)

	scenes, ok := d.Scene().([]NamedScene)
	if !ok {
		t.Fatalf("combined scene has type %T, want []NamedScene", d.Scene())
	}
	if len(scenes) != 2 {
		t.Fatalf("combined scene count = %d, want 2", len(scenes))
	}
	if _, ok := scenes[0].Scene.(FluidScene); !ok {
		t.Errorf("first child scene is %T, want FluidScene", scenes[0].Scene)
	}

	// Prefixed parameter routing.
	if err := d.SetParameter("fluid.gravity", 5); err != nil {
		t.Errorf("SetParameter(fluid.gravity): %v", err)
	}
	if err := d.SetParameter("gravity", 5); err == nil {
		t.Error("unprefixed key accepted by combined demo")
	}
	if err := d.SetParameter("objects.gravity", 5); err == nil {
		t.Error("key for absent child accepted")
	}

	schema := d.ParameterSchema()
	if _, ok := schema.Find("fluid.particleCount"); !ok {
		t.Error("combined schema missing fluid.particleCount")
	}
}
