// Package spatial provides a uniform-grid spatial hash that bounds
// neighbor-search cost from O(n^2) to near O(n).
package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Key identifies a grid cell. Coordinates are floor(component/cellSize)
// per axis; floor rather than truncation so negative positions hash to
// their own cells instead of aliasing onto cell zero.
type Key struct {
	X, Y, Z int32
}

// Hash maps cell keys to buckets of items. It is rebuilt from scratch
// once per simulation step, so no stale entries survive across frames.
//
// Query returns a superset of the true neighbors within the radius
// (false positives allowed, false negatives never); callers post-filter
// by exact distance. Cell size should be >= the query radius so that a
// 3x3x3 cell walk suffices for typical queries; larger radii widen the
// walk automatically.
type Hash[T any] struct {
	cellSize float32
	buckets  map[Key][]T
}

// NewHash creates an empty hash with the given cell size.
func NewHash[T any](cellSize float32) *Hash[T] {
	return &Hash[T]{
		cellSize: cellSize,
		buckets:  make(map[Key][]T),
	}
}

// CellSize returns the current cell size.
func (h *Hash[T]) CellSize() float32 {
	return h.cellSize
}

// SetCellSize changes the cell size. Only valid between Clear and the
// next round of inserts; existing entries keep their old keys.
func (h *Hash[T]) SetCellSize(size float32) {
	h.cellSize = size
}

// Clear empties all buckets, keeping their capacity for reuse.
func (h *Hash[T]) Clear() {
	for k := range h.buckets {
		h.buckets[k] = h.buckets[k][:0]
	}
}

// Insert adds an item to the bucket for the cell containing pos.
func (h *Hash[T]) Insert(pos mgl32.Vec3, item T) {
	k := h.keyFor(pos)
	h.buckets[k] = append(h.buckets[k], item)
}

// QueryInto appends every item whose cell extent intersects the cube
// [pos-radius, pos+radius] to dst and returns the updated slice. Reuse
// dst across calls to avoid allocations.
func (h *Hash[T]) QueryInto(dst []T, pos mgl32.Vec3, radius float32) []T {
	if h.cellSize <= 0 {
		return dst
	}

	minX := cellCoord(pos[0]-radius, h.cellSize)
	maxX := cellCoord(pos[0]+radius, h.cellSize)
	minY := cellCoord(pos[1]-radius, h.cellSize)
	maxY := cellCoord(pos[1]+radius, h.cellSize)
	minZ := cellCoord(pos[2]-radius, h.cellSize)
	maxZ := cellCoord(pos[2]+radius, h.cellSize)

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				if bucket, ok := h.buckets[Key{X: x, Y: y, Z: z}]; ok {
					dst = append(dst, bucket...)
				}
			}
		}
	}

	return dst
}

// keyFor returns the cell key containing pos.
func (h *Hash[T]) keyFor(pos mgl32.Vec3) Key {
	return Key{
		X: cellCoord(pos[0], h.cellSize),
		Y: cellCoord(pos[1], h.cellSize),
		Z: cellCoord(pos[2], h.cellSize),
	}
}

// cellCoord maps a world coordinate to a cell coordinate.
func cellCoord(v, size float32) int32 {
	return int32(math.Floor(float64(v / size)))
}
