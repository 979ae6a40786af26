// Package pool provides a generic object pool for short-lived simulation
// instances, avoiding per-frame heap churn.
package pool

// Stats reports pool occupancy at a point in time.
// Active + Available == Total always holds.
type Stats struct {
	Active    int
	Available int
	Total     int
}

// ObjectPool recycles instances of T. Acquire never fails; when the free
// list is empty the pool grows by a fixed batch via the factory. Releasing
// an instance that is not currently active is a silent no-op, so misuse
// degrades gracefully instead of corrupting counts.
type ObjectPool[T comparable] struct {
	factory func() T
	reset   func(T)
	batch   int
	free    []T
	active  map[T]struct{}
}

// New creates a pool with the given factory, optional reset (may be nil),
// and growth batch size. An initial batch is allocated up front.
func New[T comparable](factory func() T, reset func(T), batch int) *ObjectPool[T] {
	if batch < 1 {
		batch = 1
	}
	p := &ObjectPool[T]{
		factory: factory,
		reset:   reset,
		batch:   batch,
		free:    make([]T, 0, batch),
		active:  make(map[T]struct{}, batch),
	}
	p.grow()
	return p
}

// Acquire returns an instance from the free list, growing the pool by one
// batch if it is empty.
func (p *ObjectPool[T]) Acquire() T {
	if len(p.free) == 0 {
		p.grow()
	}
	obj := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.active[obj] = struct{}{}
	return obj
}

// Release returns an instance to the free list. Instances that are not
// active (double release, foreign objects) are ignored.
func (p *ObjectPool[T]) Release(obj T) {
	if _, ok := p.active[obj]; !ok {
		return
	}
	delete(p.active, obj)
	if p.reset != nil {
		p.reset(obj)
	}
	p.free = append(p.free, obj)
}

// Stats returns the current pool occupancy.
func (p *ObjectPool[T]) Stats() Stats {
	return Stats{
		Active:    len(p.active),
		Available: len(p.free),
		Total:     len(p.active) + len(p.free),
	}
}

// grow allocates one batch of fresh instances onto the free list.
func (p *ObjectPool[T]) grow() {
	for i := 0; i < p.batch; i++ {
		p.free = append(p.free, p.factory())
	}
}
