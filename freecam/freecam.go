// Package freecam is the user-driven orbit camera used while the automatic
// camera path is switched off: left drag orbits, right drag pans, the wheel
// zooms and the bound keys orbit at a fixed rate.
package freecam

import (
	"shader-scene/math"
	"shader-scene/scene"
)

// Input is the polled mouse and keyboard state, normally a *window.Window.
type Input interface {
	IsMouseButtonPressed(button int) bool
	GetCursorPos() (x, y float64)
	IsKeyPressed(key int) bool
}

// Bindings holds the device codes the controls poll.
type Bindings struct {
	OrbitButton int
	PanButton   int
	Left, Right int
	Up, Down    int
}

type Controls struct {
	orbit    *scene.OrbitCamera
	input    Input
	bindings Bindings

	RotateSpeed float32 // radians per pixel of drag
	PanSpeed    float32 // world units per pixel per unit of distance
	ZoomSpeed   float32 // fraction of distance per wheel notch
	KeyRate     float32 // radians per second while an arrow key is held

	home         math.Vec3
	lastX, lastY float64
	firstMouse   bool
	scroll       float64
}

// New drives cam around target. Engage returns the orbit to target.
func New(cam *scene.Camera, target math.Vec3, input Input, b Bindings) *Controls {
	return &Controls{
		orbit:       scene.NewOrbitCamera(cam, target),
		input:       input,
		bindings:    b,
		RotateSpeed: 0.005,
		PanSpeed:    0.002,
		ZoomSpeed:   0.1,
		KeyRate:     1.5,
		home:        target,
		firstMouse:  true,
	}
}

// Orbit exposes the underlying orbit state.
func (c *Controls) Orbit() *scene.OrbitCamera {
	return c.orbit
}

// Scroll accumulates wheel movement until the next Update. Hook it to the
// window's scroll callback.
func (c *Controls) Scroll(yoff float64) {
	c.scroll += yoff
}

// Engage takes the camera over from wherever it currently is, so switching
// modes does not jump.
// A pan from an earlier session is dropped; the orbit is centred on the
// point the automatic path looks at.
func (c *Controls) Engage() {
	c.orbit.Target = c.home
	c.orbit.SyncFromPosition()
	c.firstMouse = true
	c.scroll = 0
}

// Update applies the input gathered since the previous call. The camera is
// only written when some input moved it.
func (c *Controls) Update(dt float64) {
	x, y := c.input.GetCursorPos()
	if c.firstMouse {
		c.lastX, c.lastY = x, y
		c.firstMouse = false
	}
	dx := float32(x - c.lastX)
	dy := float32(y - c.lastY)
	c.lastX, c.lastY = x, y

	o := c.orbit
	moved := false

	if c.scroll != 0 {
		o.Distance -= float32(c.scroll) * c.ZoomSpeed * o.Distance
		c.scroll = 0
		moved = true
	}

	if dx != 0 || dy != 0 {
		switch {
		case c.input.IsMouseButtonPressed(c.bindings.OrbitButton):
			o.Yaw -= dx * c.RotateSpeed
			o.Pitch += dy * c.RotateSpeed
			moved = true
		case c.input.IsMouseButtonPressed(c.bindings.PanButton):
			pan := o.Distance * c.PanSpeed
			offset := o.Right().Mul(-dx * pan).Add(o.Up().Mul(dy * pan))
			o.Target = o.Target.Add(offset)
			moved = true
		}
	}

	step := c.KeyRate * float32(dt)
	if c.input.IsKeyPressed(c.bindings.Left) {
		o.Yaw -= step
		moved = true
	}
	if c.input.IsKeyPressed(c.bindings.Right) {
		o.Yaw += step
		moved = true
	}
	if c.input.IsKeyPressed(c.bindings.Up) {
		o.Pitch += step
		moved = true
	}
	if c.input.IsKeyPressed(c.bindings.Down) {
		o.Pitch -= step
		moved = true
	}

	if moved {
		// Zoom clamps the distance and repositions in one go.
		o.Zoom(0)
	}
}
