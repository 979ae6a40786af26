// Kernel tuning preview tool - interactive visualization with sliders.
//
// Drops a handful of sample particles on a 2D plane and shades the
// resulting density and pressure fields, so smoothing radius, rest
// density, and stiffness can be tuned by eye before a full run.
//
// Usage: go run ./cmd/kernelpreview
package main

import (
	"fmt"
	"math"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30

	gridSize  = 256
	worldSize = float32(16) // world units spanned by the preview
)

// KernelParams holds the tunable fluid response parameters.
type KernelParams struct {
	SmoothingRadius float32
	RestDensity     float32
	Stiffness       float32
	Mass            float32
}

type sample struct {
	x, y float32
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Kernel Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := KernelParams{
		SmoothingRadius: 0.6,
		RestDensity:     1.2,
		Stiffness:       40,
		Mass:            1,
	}

	particles := scatter(40, 12345)

	field := make([]float32, gridSize*gridSize)
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	showPressure := false
	needsRegen := true

	for !rl.WindowShouldClose() {
		// Click inside the preview to add a particle.
		if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
			pos := rl.GetMousePosition()
			if pos.X >= 10 && pos.X < 10+previewSize && pos.Y >= 10 && pos.Y < 10+previewSize {
				particles = append(particles, sample{
					x: (pos.X - 10) / previewSize * worldSize,
					y: (pos.Y - 10) / previewSize * worldSize,
				})
				needsRegen = true
			}
		}

		if needsRegen {
			generateField(field, particles, params, showPressure)
			updateTexture(texture, field)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gridSize), Height: float32(gridSize)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Field stats
		var minVal, maxVal float32 = math.MaxFloat32, 0
		var total float32
		for _, v := range field {
			total += v
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
		avg := total / float32(len(field))

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Avg: %.3f", minVal, maxVal, avg), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Particles: %d (click preview to add)", len(particles)), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Kernel Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Smoothing radius slider
		rl.DrawText("Smoothing radius (kernel support h)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newRadius := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.1", "4.0",
			params.SmoothingRadius, 0.1, 4.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.SmoothingRadius), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newRadius != params.SmoothingRadius {
			params.SmoothingRadius = newRadius
			needsRegen = true
		}
		panelY += 35

		// Rest density slider
		rl.DrawText("Rest density (pressure zero point)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newRest := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.1", "5.0",
			params.RestDensity, 0.1, 5.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.RestDensity), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newRest != params.RestDensity {
			params.RestDensity = newRest
			needsRegen = true
		}
		panelY += 35

		// Stiffness slider
		rl.DrawText("Stiffness (pressure per excess density)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newStiffness := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "200",
			params.Stiffness, 0, 200,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.Stiffness), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newStiffness != params.Stiffness {
			params.Stiffness = newStiffness
			needsRegen = true
		}
		panelY += 35

		// Mass slider
		rl.DrawText("Particle mass", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newMass := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.1", "4.0",
			params.Mass, 0.1, 4.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Mass), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newMass != params.Mass {
			params.Mass = newMass
			needsRegen = true
		}
		panelY += 35

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		label := "Showing: density"
		if showPressure {
			label = "Showing: pressure"
		}
		rl.DrawText(label, int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 28}, "Toggle field") {
			showPressure = !showPressure
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 28}, "Rescatter") {
			particles = scatter(40, rand.Int63())
			needsRegen = true
		}

		rl.EndDrawing()
	}
}

// scatter places n sample particles in a loose cluster near the
// center, the region a settled fluid would occupy.
func scatter(n int, seed int64) []sample {
	rng := rand.New(rand.NewSource(seed))
	out := make([]sample, n)
	for i := range out {
		out[i] = sample{
			x: worldSize*0.5 + (rng.Float32()-0.5)*worldSize*0.5,
			y: worldSize*0.6 + (rng.Float32()-0.5)*worldSize*0.4,
		}
	}
	return out
}

// generateField evaluates summed kernel density (or the clamped linear
// pressure response) at every grid cell.
func generateField(field []float32, particles []sample, p KernelParams, pressure bool) {
	h := p.SmoothingRadius
	for gy := 0; gy < gridSize; gy++ {
		wy := (float32(gy) + 0.5) / gridSize * worldSize
		for gx := 0; gx < gridSize; gx++ {
			wx := (float32(gx) + 0.5) / gridSize * worldSize

			var density float32
			for _, s := range particles {
				dx := wx - s.x
				dy := wy - s.y
				r := float32(math.Sqrt(float64(dx*dx + dy*dy)))
				if r < h {
					density += p.Mass * (1 - r/h)
				}
			}

			if pressure {
				excess := density - p.RestDensity
				if excess < 0 {
					excess = 0
				}
				field[gy*gridSize+gx] = p.Stiffness * excess
			} else {
				field[gy*gridSize+gx] = density
			}
		}
	}
}

// updateTexture normalizes the field to the current max and uploads it
// as a blue-to-white ramp.
func updateTexture(texture rl.Texture2D, field []float32) {
	var maxVal float32
	for _, v := range field {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	pixels := make([]rl.Color, len(field))
	for i, v := range field {
		t := v / maxVal
		pixels[i] = rl.Color{
			R: uint8(30 + 225*t),
			G: uint8(60 + 195*t),
			B: uint8(120 + 135*t),
			A: 255,
		}
	}
	rl.UpdateTexture(texture, pixels)
}
