package app

import (
	"fmt"
	"log/slog"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/demo"
	"github.com/pthm-cable/ripple/param"
)

const (
	panelWidth   = 260
	panelPad     = 10
	rowHeight    = 38
	sliderHeight = 18
)

// panel renders a slider per schema entry and pushes changed values
// back through SetParameter. Values are cached host-side so a rejected
// change simply snaps the slider back.
type panel struct {
	demo   demo.Demo
	schema param.Schema
	values map[string]float64
	x      float32
}

func newPanel(d demo.Demo, screenW float32) *panel {
	schema := d.ParameterSchema()
	values := make(map[string]float64, len(schema))
	for _, sp := range schema {
		values[sp.Key] = sp.Default
	}
	return &panel{
		demo:   d,
		schema: schema,
		values: values,
		x:      screenW - panelWidth - panelPad,
	}
}

// contains reports whether a screen position falls inside the panel,
// so pointer drags over the sliders do not also become demo input.
func (p *panel) contains(pos rl.Vector2) bool {
	return pos.X >= p.x-panelPad &&
		pos.Y <= float32(panelPad+rowHeight*len(p.schema)+panelPad)
}

func (p *panel) draw() {
	y := float32(panelPad)
	rl.DrawRectangle(int32(p.x-panelPad), 0, panelWidth+2*panelPad,
		int32(panelPad+rowHeight*len(p.schema)+panelPad), rl.Fade(rl.Black, 0.4))

	for _, sp := range p.schema {
		cur := p.values[sp.Key]
		rl.DrawText(fmt.Sprintf("%s: %s", sp.Name, formatValue(sp, cur)),
			int32(p.x), int32(y), 10, rl.RayWhite)
		y += 14

		rect := rl.Rectangle{X: p.x, Y: y, Width: panelWidth - 50, Height: sliderHeight}
		next := float64(gui.SliderBar(rect,
			formatValue(sp, sp.Min), formatValue(sp, sp.Max),
			float32(cur), float32(sp.Min), float32(sp.Max)))
		y += rowHeight - 14

		next = quantize(sp, next)
		if next == cur {
			continue
		}
		if err := p.demo.SetParameter(sp.Key, next); err != nil {
			slog.Warn("parameter rejected", "key", sp.Key, "value", next, "error", err)
			continue
		}
		p.values[sp.Key] = next
	}
}

// quantize snaps slider output to the spec's step so integer-valued
// parameters do not churn on every frame of a drag.
func quantize(sp param.Spec, v float64) float64 {
	if sp.Step <= 0 {
		return v
	}
	return sp.Clamp(math.Round(v/sp.Step) * sp.Step)
}

func formatValue(sp param.Spec, v float64) string {
	if sp.Step >= 1 || sp.Kind == param.Bool {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
