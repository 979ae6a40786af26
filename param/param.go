// Package param defines the generic tuning contract shared by all demo
// types: a schema of numeric, boolean, and enumerated parameters that UI
// widgets and config plumbing can drive without knowing the demo.
package param

import "fmt"

// Kind classifies a parameter.
type Kind uint8

const (
	// Number is a continuous value in [Min, Max] with a suggested Step.
	Number Kind = iota
	// Bool is a toggle encoded as 0 or 1.
	Bool
	// Choice is an index into Choices.
	Choice
)

// Spec describes one tunable parameter. All values travel as float64;
// Bool uses 0/1 and Choice uses the option index.
type Spec struct {
	Key     string
	Name    string
	Kind    Kind
	Min     float64
	Max     float64
	Step    float64
	Default float64
	Choices []string
}

// Schema is an ordered list of parameter specs.
type Schema []Spec

// Find returns the spec for key, if present.
func (s Schema) Find(key string) (Spec, bool) {
	for _, sp := range s {
		if sp.Key == key {
			return sp, true
		}
	}
	return Spec{}, false
}

// Validate checks a value against the spec. Demos reject invalid values
// and keep the previously valid one.
func (sp Spec) Validate(v float64) error {
	switch sp.Kind {
	case Bool:
		if v != 0 && v != 1 {
			return fmt.Errorf("parameter %q: boolean value must be 0 or 1, got %v", sp.Key, v)
		}
	case Choice:
		idx := int(v)
		if float64(idx) != v || idx < 0 || idx >= len(sp.Choices) {
			return fmt.Errorf("parameter %q: choice index %v out of range [0,%d)", sp.Key, v, len(sp.Choices))
		}
	default:
		if v < sp.Min || v > sp.Max {
			return fmt.Errorf("parameter %q: value %v outside range [%v, %v]", sp.Key, v, sp.Min, sp.Max)
		}
	}
	return nil
}

// Clamp forces a numeric value into the spec's range.
func (sp Spec) Clamp(v float64) float64 {
	if v < sp.Min {
		return sp.Min
	}
	if v > sp.Max {
		return sp.Max
	}
	return v
}
