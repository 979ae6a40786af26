package fluid

// kernelWeight is the linear falloff kernel: 1 at zero distance, 0 at
// the smoothing radius and beyond. O(1) per neighbor, no transcendental
// math; a simplification of the cubic-spline kernels used by full SPH
// solvers.
func kernelWeight(r, h float32) float32 {
	if h <= 0 || r >= h {
		return 0
	}
	return 1 - r/h
}
