package demo

import (
	"fmt"
	"strings"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/param"
)

// NamedScene pairs a child demo's kind with its scene handle.
type NamedScene struct {
	Kind  string
	Scene Scene
}

// CombinedDemo composes several demos behind one lifecycle. Children
// keep their own state; parameters are addressed as "<kind>.<key>".
// Composition, not inheritance: the combined demo holds instances and
// fans calls out to them.
type CombinedDemo struct {
	kinds []string
	demos []Demo

	sceneBuf []NamedScene
}

// NewCombinedDemo composes the given already-constructed children.
func NewCombinedDemo(kinds []string, demos []Demo) (*CombinedDemo, error) {
	if len(kinds) != len(demos) || len(demos) == 0 {
		return nil, fmt.Errorf("demo: combined needs matching non-empty kinds and demos, got %d/%d",
			len(kinds), len(demos))
	}
	return &CombinedDemo{
		kinds:    kinds,
		demos:    demos,
		sceneBuf: make([]NamedScene, len(demos)),
	}, nil
}

func init() {
	Register("combined", func(cfg *config.Config, seed int64) (Demo, error) {
		kinds := []string{"fluid", "effects"}
		demos := make([]Demo, 0, len(kinds))
		for i, kind := range kinds {
			d, err := New(kind, cfg, seed+int64(i))
			if err != nil {
				return nil, err
			}
			demos = append(demos, d)
		}
		return NewCombinedDemo(kinds, demos)
	})
}

func (d *CombinedDemo) Start() {
	for _, c := range d.demos {
		c.Start()
	}
}

func (d *CombinedDemo) Stop() {
	for _, c := range d.demos {
		c.Stop()
	}
}

func (d *CombinedDemo) Reset() {
	for _, c := range d.demos {
		c.Reset()
	}
}

func (d *CombinedDemo) Update(dt float32) {
	for _, c := range d.demos {
		c.Update(dt)
	}
}

func (d *CombinedDemo) OnInput(state InputState) {
	for _, c := range d.demos {
		c.OnInput(state)
	}
}

// SetParameter routes "<kind>.<key>" to the owning child.
func (d *CombinedDemo) SetParameter(key string, value float64) error {
	kind, childKey, ok := strings.Cut(key, ".")
	if !ok {
		return fmt.Errorf("combined: parameter key %q must be <kind>.<key>", key)
	}
	for i, k := range d.kinds {
		if k == kind {
			return d.demos[i].SetParameter(childKey, value)
		}
	}
	return fmt.Errorf("combined: no child demo %q", kind)
}

// ParameterSchema returns every child's schema with prefixed keys.
func (d *CombinedDemo) ParameterSchema() param.Schema {
	var schema param.Schema
	for i, c := range d.demos {
		for _, sp := range c.ParameterSchema() {
			sp.Key = d.kinds[i] + "." + sp.Key
			sp.Name = d.kinds[i] + ": " + sp.Name
			schema = append(schema, sp)
		}
	}
	return schema
}

// Scene returns one named scene per child.
func (d *CombinedDemo) Scene() Scene {
	for i, c := range d.demos {
		d.sceneBuf[i] = NamedScene{Kind: d.kinds[i], Scene: c.Scene()}
	}
	return d.sceneBuf
}
