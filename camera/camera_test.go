package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(0, 4, 0, 0.5, 0.4, 20)

	if cam.TargetY != 4 {
		t.Errorf("expected target y 4, got %f", cam.TargetY)
	}
	if cam.Distance != 20 {
		t.Errorf("expected distance 20, got %f", cam.Distance)
	}
}

func TestPositionStaysAtDistance(t *testing.T) {
	cam := New(0, 4, 0, 0.5, 0.4, 20)

	poses := []struct{ yaw, pitch float32 }{
		{0, 0},
		{1.2, 0.8},
		{-2.5, -0.3},
		{6.5, 1.0},
	}

	for _, p := range poses {
		cam.Yaw, cam.Pitch = p.yaw, clamp(p.pitch, -pitchLimit, pitchLimit)
		x, y, z := cam.Position()
		dx, dy, dz := x-cam.TargetX, y-cam.TargetY, z-cam.TargetZ
		dist := math.Sqrt(float64(dx*dx + dy*dy + dz*dz))
		if math.Abs(dist-float64(cam.Distance)) > 0.001 {
			t.Errorf("pose (%f,%f): distance %f, want %f", p.yaw, p.pitch, dist, cam.Distance)
		}
	}
}

func TestRotateClampsPitch(t *testing.T) {
	cam := New(0, 0, 0, 0, 0, 10)

	cam.Rotate(0, 10)
	if cam.Pitch > pitchLimit {
		t.Errorf("pitch %f exceeds limit %f", cam.Pitch, pitchLimit)
	}
	cam.Rotate(0, -20)
	if cam.Pitch < -pitchLimit {
		t.Errorf("pitch %f below limit %f", cam.Pitch, -pitchLimit)
	}
}

func TestDollyClamps(t *testing.T) {
	cam := New(0, 0, 0, 0, 0, 10)

	cam.Dolly(0.01)
	if cam.Distance < cam.MinDistance {
		t.Errorf("distance %f below min %f", cam.Distance, cam.MinDistance)
	}
	cam.Dolly(1000)
	if cam.Distance > cam.MaxDistance {
		t.Errorf("distance %f above max %f", cam.Distance, cam.MaxDistance)
	}

	// Non-positive factors are ignored
	before := cam.Distance
	cam.Dolly(0)
	if cam.Distance != before {
		t.Errorf("zero factor changed distance to %f", cam.Distance)
	}
}

func TestReset(t *testing.T) {
	cam := New(0, 4, 0, 0.5, 0.4, 20)
	cam.Rotate(2, 0.5)
	cam.Dolly(2)

	cam.Reset()
	if cam.Yaw != 0.5 || cam.Pitch != 0.4 || cam.Distance != 20 {
		t.Errorf("reset pose (%f, %f, %f), want (0.5, 0.4, 20)",
			cam.Yaw, cam.Pitch, cam.Distance)
	}
}
