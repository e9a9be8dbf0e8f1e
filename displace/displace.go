// Package displace is the CPU reference of the displacement program: the
// same per-vertex formulas the bundled GLSL evaluates on the GPU.
package displace

import (
	"github.com/chewxy/math32"

	"shader-scene/core"
	"shader-scene/math"
)

// AxisDisplacement weights the six coordinate terms that feed one output axis.
type AxisDisplacement struct {
	ByLocalX  float32 `toml:"byLocalX"`
	ByLocalY  float32 `toml:"byLocalY"`
	ByLocalZ  float32 `toml:"byLocalZ"`
	ByWorldX  float32 `toml:"byWorldX"`
	ByWorldY  float32 `toml:"byWorldY"`
	ByWorldZ  float32 `toml:"byWorldZ"`
	Influence float32 `toml:"influence"`
}

// Raw is the weighted sum of local and world coordinates, before influence.
func (a AxisDisplacement) Raw(local, world math.Vec3) float32 {
	return a.ByLocalX*local.X + a.ByLocalY*local.Y + a.ByLocalZ*local.Z +
		a.ByWorldX*world.X + a.ByWorldY*world.Y + a.ByWorldZ*world.Z
}

type Params struct {
	X, Y, Z AxisDisplacement
}

// Displace moves a local-space vertex. Each output axis is offset by its own
// raw term scaled by influence; axes do not feed each other.
func Displace(p Params, local, world math.Vec3) math.Vec3 {
	return math.Vec3{
		X: local.X + p.X.Raw(local, world)*p.X.Influence,
		Y: local.Y + p.Y.Raw(local, world)*p.Y.Influence,
		Z: local.Z + p.Z.Raw(local, world)*p.Z.Influence,
	}
}

// BaseColor is the time-animated palette sampled at a local position.
func BaseColor(time float32, local math.Vec3) core.Color {
	return core.Color{
		R: 0.5 + 0.5*math32.Cos(time+local.X*0.05),
		G: 0.5 + 0.5*math32.Cos(time+local.Y*0.05+2),
		B: 0.5 + 0.5*math32.Cos(time+local.X*0.05+4),
		A: 1,
	}
}

// Shade applies the view-facing term: surfaces facing the camera keep their
// colour, grazing ones darken, sharper as dotPower grows. With lighting off
// the base colour is returned unchanged.
func Shade(base core.Color, normal, cameraForward math.Vec3, dotPower float32, vertexLighting bool) core.Color {
	if !vertexLighting {
		return base
	}
	facing := normal.Normalize().Dot(cameraForward.Negate())
	if facing < 0 {
		facing = 0
	}
	return base.Scale(math32.Pow(facing, dotPower))
}
