package pool

import "testing"

type widget struct {
	value int
}

func newWidgetPool(batch int) *ObjectPool[*widget] {
	return New(
		func() *widget { return &widget{} },
		func(w *widget) { w.value = 0 },
		batch,
	)
}

func checkInvariant(t *testing.T, p *ObjectPool[*widget]) {
	t.Helper()
	s := p.Stats()
	if s.Active+s.Available != s.Total {
		t.Fatalf("invariant violated: active=%d available=%d total=%d", s.Active, s.Available, s.Total)
	}
}

func TestAcquireRelease(t *testing.T) {
	p := newWidgetPool(4)
	checkInvariant(t, p)

	if got := p.Stats().Total; got != 4 {
		t.Fatalf("initial total = %d, want 4", got)
	}

	w := p.Acquire()
	checkInvariant(t, p)
	if got := p.Stats().Active; got != 1 {
		t.Errorf("active after acquire = %d, want 1", got)
	}

	p.Release(w)
	checkInvariant(t, p)
	if got := p.Stats().Active; got != 0 {
		t.Errorf("active after release = %d, want 0", got)
	}
}

func TestGrowthBeyondInitialBatch(t *testing.T) {
	p := newWidgetPool(4)

	// Drain the initial batch and force growth.
	var acquired []*widget
	for i := 0; i < 10; i++ {
		acquired = append(acquired, p.Acquire())
		checkInvariant(t, p)
	}

	s := p.Stats()
	if s.Active != 10 {
		t.Errorf("active = %d, want 10", s.Active)
	}
	// 4 initial + 2 growth batches of 4.
	if s.Total != 12 {
		t.Errorf("total = %d, want 12", s.Total)
	}

	// All acquired instances must be distinct.
	seen := make(map[*widget]bool)
	for _, w := range acquired {
		if seen[w] {
			t.Fatal("pool handed out the same instance twice")
		}
		seen[w] = true
	}
}

func TestDoubleReleaseIsNoop(t *testing.T) {
	p := newWidgetPool(2)
	w := p.Acquire()

	p.Release(w)
	before := p.Stats()
	p.Release(w)
	after := p.Stats()

	if before != after {
		t.Errorf("double release changed stats: %+v -> %+v", before, after)
	}
	checkInvariant(t, p)
}

func TestReleaseForeignObjectIsNoop(t *testing.T) {
	p := newWidgetPool(2)
	before := p.Stats()

	p.Release(&widget{value: 99})

	if after := p.Stats(); before != after {
		t.Errorf("foreign release changed stats: %+v -> %+v", before, after)
	}
	checkInvariant(t, p)
}

func TestResetRunsOnRelease(t *testing.T) {
	p := newWidgetPool(1)
	w := p.Acquire()
	w.value = 42

	p.Release(w)

	if w.value != 0 {
		t.Errorf("reset not applied: value = %d, want 0", w.value)
	}
}

func TestNilResetIsAllowed(t *testing.T) {
	p := New(func() *widget { return &widget{} }, nil, 2)
	w := p.Acquire()
	w.value = 7
	p.Release(w)

	if w.value != 7 {
		t.Errorf("nil reset mutated value: got %d, want 7", w.value)
	}
}

func TestRandomizedSequenceHoldsInvariant(t *testing.T) {
	p := newWidgetPool(8)
	var held []*widget

	// Deterministic mixed acquire/release pattern.
	for i := 0; i < 500; i++ {
		if i%3 == 0 && len(held) > 0 {
			p.Release(held[len(held)-1])
			held = held[:len(held)-1]
		} else {
			held = append(held, p.Acquire())
		}
		checkInvariant(t, p)
	}
}
