// Package fluid implements a simplified SPH-style particle fluid:
// density and pressure derived from neighbor queries each step, a
// clamped linear equation of state, low-pass viscosity, semi-implicit
// Euler integration, and damped boundary reflection. The kernel is a
// deliberate linear falloff rather than a textbook SPH spline; the goal
// is bounded per-frame cost and clarity, not research-grade fidelity.
package fluid

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/ripple/config"
)

// ParticleState is one read-only snapshot entry. Index i refers to the
// same logical particle across frames, so renderers can reuse
// per-instance buffers without reallocation.
type ParticleState struct {
	Position mgl32.Vec3 `json:"p"`
	Velocity mgl32.Vec3 `json:"v"`
	Density  float32    `json:"d"`
}

// ForceIntent is an externally supplied point force: particles within
// Radius of Position are pushed away with linear falloff. Intents apply
// for a single step only.
type ForceIntent struct {
	Position mgl32.Vec3
	Force    float32
	Radius   float32
}

// Bounds is the axis-aligned container box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// BoundsFromConfig builds the container box from config dimensions,
// centered on the origin in X/Z with Y up from zero.
func BoundsFromConfig(b config.BoundsConfig) Bounds {
	w := float32(b.Width)
	h := float32(b.Height)
	d := float32(b.Depth)
	return Bounds{
		Min: mgl32.Vec3{-w / 2, 0, -d / 2},
		Max: mgl32.Vec3{w / 2, h, d / 2},
	}
}

// Size returns the box extent per axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the box midpoint.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max.Sub(b.Min).Mul(0.5))
}

// Params holds the runtime-tunable simulation parameters.
type Params struct {
	ParticleCount   int
	MaxParticles    int     // Hard cap; count requests above it are clamped
	Gravity         float32 // Downward acceleration
	Viscosity       float32 // Per-second velocity low-pass rate
	RestDensity     float32
	Stiffness       float32
	BoundaryDamping float32 // Velocity retained on wall bounce [0,1)
	SmoothingRadius float32 // Kernel cutoff h
	CellSizeFactor  float32 // Hash cell size = h * this (>= 1)
	MaxSpeed        float32 // Velocity magnitude clamp
	MaxDT           float32 // Timestep clamp
	ParticleMass    float32
}

// ParamsFromConfig builds simulation parameters from loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		ParticleCount:   cfg.Fluid.ParticleCount,
		MaxParticles:    cfg.Fluid.MaxParticles,
		Gravity:         float32(cfg.Fluid.Gravity),
		Viscosity:       float32(cfg.Fluid.Viscosity),
		RestDensity:     float32(cfg.Fluid.RestDensity),
		Stiffness:       float32(cfg.Fluid.Stiffness),
		BoundaryDamping: float32(cfg.Fluid.BoundaryDamping),
		SmoothingRadius: float32(cfg.Fluid.SmoothingRadius),
		CellSizeFactor:  float32(cfg.Fluid.CellSizeFactor),
		MaxSpeed:        float32(cfg.Fluid.MaxSpeed),
		MaxDT:           cfg.Derived.MaxDT32,
		ParticleMass:    float32(cfg.Fluid.ParticleMass),
	}
}
