// Package config provides configuration loading and access for the demo lab.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all demo lab configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Sim       SimConfig       `yaml:"sim"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Pool      PoolConfig      `yaml:"pool"`
	Input     InputConfig     `yaml:"input"`
	Effects   EffectsConfig   `yaml:"effects"`
	Objects   ObjectsConfig   `yaml:"objects"`
	Stream    StreamConfig    `yaml:"stream"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimConfig holds host-loop timing parameters shared by all demos.
type SimConfig struct {
	MaxDT         float64 `yaml:"max_dt"`          // Clamp for host-supplied dt (seconds)
	FrameBudgetMS float64 `yaml:"frame_budget_ms"` // Soft per-step budget for perf reporting
}

// FluidConfig holds fluid simulation parameters.
type FluidConfig struct {
	ParticleCount   int          `yaml:"particle_count"`
	MaxParticles    int          `yaml:"max_particles"`    // Hard cap; requests above are clamped
	Gravity         float64      `yaml:"gravity"`          // Downward acceleration
	Viscosity       float64      `yaml:"viscosity"`        // Velocity low-pass coefficient
	RestDensity     float64      `yaml:"rest_density"`     // Density at which pressure is zero
	Stiffness       float64      `yaml:"stiffness"`        // Equation-of-state gain
	BoundaryDamping float64      `yaml:"boundary_damping"` // Velocity retained on wall bounce [0,1)
	SmoothingRadius float64      `yaml:"smoothing_radius"` // Kernel cutoff distance h
	CellSizeFactor  float64      `yaml:"cell_size_factor"` // Spatial hash cell size = h * this (>= 1)
	MaxSpeed        float64      `yaml:"max_speed"`        // Velocity magnitude clamp
	ParticleMass    float64      `yaml:"particle_mass"`
	Bounds          BoundsConfig `yaml:"bounds"`
}

// BoundsConfig holds the axis-aligned container box, centered on the
// origin in X/Z with Y up from zero.
type BoundsConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Depth  float64 `yaml:"depth"`
}

// PoolConfig holds object pool growth parameters.
type PoolConfig struct {
	ForceBatch  int `yaml:"force_batch"`  // Growth batch for the force intent pool
	EffectBatch int `yaml:"effect_batch"` // Growth batch for the effect particle pool
}

// InputConfig holds pointer-to-force translation parameters.
type InputConfig struct {
	ForceStrength float64 `yaml:"force_strength"`
	ForceRadius   float64 `yaml:"force_radius"`
}

// EffectsConfig holds effects demo parameters.
type EffectsConfig struct {
	Count      int     `yaml:"count"`
	DriftScale float64 `yaml:"drift_scale"` // Noise frequency for the drift field
	DriftSpeed float64 `yaml:"drift_speed"` // Noise animation speed
	Lifetime   float64 `yaml:"lifetime"`    // Mean particle lifetime (seconds)
}

// ObjectsConfig holds object demo parameters.
type ObjectsConfig struct {
	Count       int     `yaml:"count"`
	Radius      float64 `yaml:"radius"`
	Restitution float64 `yaml:"restitution"`
}

// StreamConfig holds snapshot streaming parameters.
type StreamConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Addr     string  `yaml:"addr"`
	Interval float64 `yaml:"interval"` // Seconds between broadcast frames
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Ticks in the perf rolling window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MaxDT32    float32 // Sim.MaxDT as float32
	ScreenW32  float32
	ScreenH32  float32
	CellSize32 float32 // SmoothingRadius * CellSizeFactor as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects configurations the simulation cannot guard at runtime.
func (c *Config) validate() error {
	if c.Fluid.ParticleCount < 0 {
		return fmt.Errorf("fluid.particle_count must be >= 0, got %d", c.Fluid.ParticleCount)
	}
	if c.Fluid.MaxParticles <= 0 {
		return fmt.Errorf("fluid.max_particles must be > 0, got %d", c.Fluid.MaxParticles)
	}
	if c.Fluid.SmoothingRadius <= 0 {
		return fmt.Errorf("fluid.smoothing_radius must be > 0, got %v", c.Fluid.SmoothingRadius)
	}
	if c.Fluid.CellSizeFactor < 1 {
		return fmt.Errorf("fluid.cell_size_factor must be >= 1, got %v", c.Fluid.CellSizeFactor)
	}
	if c.Fluid.BoundaryDamping < 0 || c.Fluid.BoundaryDamping >= 1 {
		return fmt.Errorf("fluid.boundary_damping must be in [0,1), got %v", c.Fluid.BoundaryDamping)
	}
	if c.Sim.MaxDT <= 0 {
		return fmt.Errorf("sim.max_dt must be > 0, got %v", c.Sim.MaxDT)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MaxDT32 = float32(c.Sim.MaxDT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.CellSize32 = float32(c.Fluid.SmoothingRadius * c.Fluid.CellSizeFactor)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
