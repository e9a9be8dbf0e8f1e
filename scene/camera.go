package scene

import (
	"github.com/chewxy/math32"

	reMath "shader-scene/math"
)

// Camera is a perspective camera. Its local -Z axis is the view direction.
type Camera struct {
	Position    reMath.Vec3
	Rotation    reMath.Quaternion
	FOV         float32 // vertical, radians
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	// Cached matrices
	viewMatrix       reMath.Mat4
	projectionMatrix reMath.Mat4
	viewProjMatrix   reMath.Mat4
	dirty            bool
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Position:    reMath.Vec3Zero,
		Rotation:    reMath.QuaternionIdentity(),
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		dirty:       true,
	}
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
		c.dirty = true
	}
}

func (c *Camera) SetPosition(pos reMath.Vec3) {
	c.Position = pos
	c.dirty = true
}

// LookAt orients the camera so that Forward points from Position to target.
// When up is parallel to the view direction the basis is nudged so the result
// stays finite.
func (c *Camera) LookAt(target, up reMath.Vec3) {
	zAxis := c.Position.Sub(target)
	if zAxis.LengthSqr() == 0 {
		zAxis.Z = 1
	}
	zAxis = zAxis.Normalize()

	xAxis := up.Cross(zAxis)
	if xAxis.LengthSqr() < 1e-12 {
		if math32.Abs(up.Z) == 1 {
			zAxis.X += 0.0001
		} else {
			zAxis.Z += 0.0001
		}
		zAxis = zAxis.Normalize()
		xAxis = up.Cross(zAxis)
	}
	xAxis = xAxis.Normalize()
	yAxis := zAxis.Cross(xAxis)

	c.Rotation = reMath.QuaternionFromBasis(xAxis, yAxis, zAxis)
	c.dirty = true
}

// Forward is the unit view direction in world space.
func (c *Camera) Forward() reMath.Vec3 {
	return c.Rotation.RotateVector(reMath.Vec3Back)
}

func (c *Camera) Right() reMath.Vec3 {
	return c.Rotation.RotateVector(reMath.Vec3Right)
}

func (c *Camera) Up() reMath.Vec3 {
	return c.Rotation.RotateVector(reMath.Vec3Up)
}

func (c *Camera) ViewMatrix() reMath.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewMatrix
}

func (c *Camera) ProjectionMatrix() reMath.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.projectionMatrix
}

func (c *Camera) ViewProjectionMatrix() reMath.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewProjMatrix
}

func (c *Camera) updateMatrices() {
	// Inverse of the camera transform: undo translation, then rotation.
	translation := reMath.Mat4Translation(c.Position.Negate())
	c.viewMatrix = translation.Mul(c.Rotation.Conjugate().ToMat4())

	c.projectionMatrix = reMath.Mat4Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
	c.viewProjMatrix = c.viewMatrix.Mul(c.projectionMatrix)

	c.dirty = false
}

// OrbitCamera orbits a target point on a sphere of radius Distance.
type OrbitCamera struct {
	*Camera
	Target   reMath.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32
}

const maxPitch = 1.5

// NewOrbitCamera drives cam around target. The orbit starts from cam's
// current position.
func NewOrbitCamera(cam *Camera, target reMath.Vec3) *OrbitCamera {
	c := &OrbitCamera{Camera: cam, Target: target}
	c.SyncFromPosition()
	return c
}

// SyncFromPosition derives Distance, Yaw and Pitch from the camera's current
// position so that control can be taken over without a jump.
func (c *OrbitCamera) SyncFromPosition() {
	offset := c.Position.Sub(c.Target)
	c.Distance = offset.Length()
	if c.Distance < 1e-6 {
		c.Distance = 1
		c.Yaw, c.Pitch = 0, 0
		return
	}
	c.Pitch = math32.Asin(clamp(offset.Y/c.Distance, -1, 1))
	c.Yaw = math32.Atan2(offset.X, offset.Z)
}

func (c *OrbitCamera) UpdatePosition() {
	c.Pitch = clamp(c.Pitch, -maxPitch, maxPitch)

	sinPitch, cosPitch := math32.Sincos(c.Pitch)
	sinYaw, cosYaw := math32.Sincos(c.Yaw)

	offset := reMath.Vec3{
		X: c.Distance * cosPitch * sinYaw,
		Y: c.Distance * sinPitch,
		Z: c.Distance * cosPitch * cosYaw,
	}

	c.SetPosition(c.Target.Add(offset))
	c.LookAt(c.Target, reMath.Vec3Up)
}

func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.UpdatePosition()
}

func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance += delta
	if c.Distance < 0.1 {
		c.Distance = 0.1
	}
	c.UpdatePosition()
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
