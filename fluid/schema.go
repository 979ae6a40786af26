package fluid

import (
	"fmt"

	"github.com/pthm-cable/ripple/param"
)

// Parameter keys accepted by SetParameter.
const (
	KeyParticleCount   = "particleCount"
	KeyGravity         = "gravity"
	KeyViscosity       = "viscosity"
	KeyRestDensity     = "restDensity"
	KeyStiffness       = "stiffness"
	KeyBoundaryDamping = "boundaryDamping"
	KeySmoothingRadius = "smoothingRadius"
)

// ParameterSchema returns the tuning contract for the fluid simulation.
func (s *Simulation) ParameterSchema() param.Schema {
	return param.Schema{
		{Key: KeyParticleCount, Name: "Particles", Kind: param.Number,
			Min: 0, Max: float64(s.params.MaxParticles), Step: 50,
			Default: float64(s.params.ParticleCount)},
		{Key: KeyGravity, Name: "Gravity", Kind: param.Number,
			Min: 0, Max: 30, Step: 0.1, Default: float64(s.params.Gravity)},
		{Key: KeyViscosity, Name: "Viscosity", Kind: param.Number,
			Min: 0, Max: 10, Step: 0.05, Default: float64(s.params.Viscosity)},
		{Key: KeyRestDensity, Name: "Rest Density", Kind: param.Number,
			Min: 0.1, Max: 10, Step: 0.1, Default: float64(s.params.RestDensity)},
		{Key: KeyStiffness, Name: "Stiffness", Kind: param.Number,
			Min: 0, Max: 500, Step: 1, Default: float64(s.params.Stiffness)},
		{Key: KeyBoundaryDamping, Name: "Wall Damping", Kind: param.Number,
			Min: 0, Max: 0.99, Step: 0.01, Default: float64(s.params.BoundaryDamping)},
		{Key: KeySmoothingRadius, Name: "Smoothing Radius", Kind: param.Number,
			Min: 0.05, Max: 4, Step: 0.05, Default: float64(s.params.SmoothingRadius)},
	}
}

// SetParameter applies a runtime tuning change. Invalid values are
// rejected with an error and the previously valid value is retained.
// Changing particleCount reinitializes the particle arrays; requests
// above the hard cap are clamped rather than rejected.
func (s *Simulation) SetParameter(key string, value float64) error {
	spec, ok := s.ParameterSchema().Find(key)
	if !ok {
		return fmt.Errorf("fluid: unknown parameter %q", key)
	}

	if key == KeyParticleCount {
		if value < 0 {
			return fmt.Errorf("fluid: particle count must be >= 0, got %v", value)
		}
		return s.Initialize(int(spec.Clamp(value)), s.bounds)
	}

	if err := spec.Validate(value); err != nil {
		return fmt.Errorf("fluid: %w", err)
	}

	switch key {
	case KeyGravity:
		s.params.Gravity = float32(value)
	case KeyViscosity:
		s.params.Viscosity = float32(value)
	case KeyRestDensity:
		s.params.RestDensity = float32(value)
	case KeyStiffness:
		s.params.Stiffness = float32(value)
	case KeyBoundaryDamping:
		s.params.BoundaryDamping = float32(value)
	case KeySmoothingRadius:
		s.params.SmoothingRadius = float32(value)
	}
	return nil
}
