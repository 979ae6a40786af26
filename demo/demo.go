// Package demo provides the orchestrators that wire simulations to the
// generic demo lifecycle: start/stop/reset/update, pointer input,
// parameter tuning, and a render-bindable scene handle. Each demo type
// satisfies the same capability interface structurally; the combined
// demo composes instances rather than inheriting from them.
package demo

import (
	"fmt"
	"sort"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/param"
)

// InputState carries externally captured pointer activity. X and Y are
// normalized to [0,1] with the origin at the top-left of the viewport.
type InputState struct {
	X, Y float32
	Down bool
}

// Scene is a render-bindable handle onto a demo's current state.
// Renderers type-switch on the concrete scene (FluidScene, EffectScene,
// ObjectScene) and only ever read from it.
type Scene any

// Demo is the capability interface shared by all simulation demos.
type Demo interface {
	// Start enables stepping; Update is a no-op while stopped and the
	// last scene remains valid for rendering.
	Start()
	Stop()
	// Reset restores the initial state without reallocating pooled
	// instances.
	Reset()
	// Update advances the demo by dt seconds of host time.
	Update(dt float32)
	// OnInput translates pointer activity into demo-specific intents
	// consumed on the next update.
	OnInput(state InputState)

	SetParameter(key string, value float64) error
	ParameterSchema() param.Schema

	Scene() Scene
}

// Factory constructs a demo from loaded config and an RNG seed.
type Factory func(cfg *config.Config, seed int64) (Demo, error)

var registry = map[string]Factory{}

// Register adds a demo kind to the registry. Called from init funcs.
func Register(kind string, f Factory) {
	if _, dup := registry[kind]; dup {
		panic(fmt.Sprintf("demo: duplicate registration for %q", kind))
	}
	registry[kind] = f
}

// New constructs a registered demo kind.
func New(kind string, cfg *config.Config, seed int64) (Demo, error) {
	f, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("demo: unknown kind %q (have %v)", kind, Kinds())
	}
	return f(cfg, seed)
}

// errUnknownParameter is the shared rejection for unrecognized keys.
func errUnknownParameter(kind, key string) error {
	return fmt.Errorf("%s: unknown parameter %q", kind, key)
}

// Kinds returns the registered demo kinds, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
