// Package camerapath moves the camera along the automatic closed orbit.
package camerapath

import (
	stdmath "math"

	"shader-scene/control"
	"shader-scene/math"
)

// Camera is the part of a camera the path drives.
type Camera interface {
	SetPosition(pos math.Vec3)
	LookAt(target, up math.Vec3)
}

// Position is the camera position at elapsed time t seconds. The x/z
// components trace an ellipse; y is a non-harmonic wobble so the path never
// settles into a flat ring.
func Position(t float64, cc control.CameraControl) math.Vec3 {
	v := t * float64(cc.Speed)
	return math.Vec3{
		X: float32(stdmath.Cos(v)) * cc.XMultiply,
		Y: float32(stdmath.Sin(v+stdmath.Cos(v))) * cc.YMultiply,
		Z: float32(stdmath.Sin(v)) * cc.ZMultiply,
	}
}

// Apply writes the path position into cam and aims it at the origin. It
// does nothing and returns false while free-cam is on.
func Apply(cam Camera, t float64, cc control.CameraControl) bool {
	if cc.UseFreeCam {
		return false
	}
	cam.SetPosition(Position(t, cc))
	cam.LookAt(math.Vec3Zero, math.Vec3Up)
	return true
}
