// Package camera provides an orbit camera for viewing the simulation
// container.
package camera

import "math"

// Orbit tracks a camera circling a fixed target point. Yaw and pitch
// are in radians; Distance is the range from the target.
type Orbit struct {
	TargetX, TargetY, TargetZ float32

	Yaw      float32
	Pitch    float32
	Distance float32

	// Distance constraints
	MinDistance, MaxDistance float32

	defaultYaw, defaultPitch, defaultDistance float32
}

// pitchLimit keeps the camera off the poles, where yaw degenerates.
const pitchLimit = float32(math.Pi/2 - 0.1)

// New creates an orbit camera aimed at the given target. The initial
// pose becomes the Reset pose.
func New(targetX, targetY, targetZ, yaw, pitch, distance float32) *Orbit {
	return &Orbit{
		TargetX:         targetX,
		TargetY:         targetY,
		TargetZ:         targetZ,
		Yaw:             yaw,
		Pitch:           clamp(pitch, -pitchLimit, pitchLimit),
		Distance:        distance,
		MinDistance:     distance * 0.2,
		MaxDistance:     distance * 4,
		defaultYaw:      yaw,
		defaultPitch:    pitch,
		defaultDistance: distance,
	}
}

// Position returns the camera's world position for the current pose.
func (o *Orbit) Position() (x, y, z float32) {
	cp := float32(math.Cos(float64(o.Pitch)))
	x = o.TargetX + o.Distance*cp*float32(math.Sin(float64(o.Yaw)))
	y = o.TargetY + o.Distance*float32(math.Sin(float64(o.Pitch)))
	z = o.TargetZ + o.Distance*cp*float32(math.Cos(float64(o.Yaw)))
	return x, y, z
}

// Rotate adjusts yaw and pitch by the given deltas in radians. Pitch
// is clamped short of vertical.
func (o *Orbit) Rotate(dYaw, dPitch float32) {
	o.Yaw += dYaw
	o.Pitch = clamp(o.Pitch+dPitch, -pitchLimit, pitchLimit)
}

// Dolly multiplies the distance by the given factor, clamped to the
// camera's range limits.
func (o *Orbit) Dolly(factor float32) {
	if factor <= 0 {
		return
	}
	o.Distance = clamp(o.Distance*factor, o.MinDistance, o.MaxDistance)
}

// Reset returns the camera to its initial pose.
func (o *Orbit) Reset() {
	o.Yaw = o.defaultYaw
	o.Pitch = clamp(o.defaultPitch, -pitchLimit, pitchLimit)
	o.Distance = o.defaultDistance
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
