// Package frame runs the per-refresh update: apply queued control changes,
// move the camera, refresh uniforms and bloom, then draw.
package frame

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shader-scene/bloom"
	"shader-scene/camerapath"
	"shader-scene/control"
	"shader-scene/math"
	"shader-scene/scene"
	"shader-scene/uniform"
)

var ErrLoopStopped = errors.New("frame loop stopped")

type State int

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Camera is the view the loop drives and reads the forward vector from.
type Camera interface {
	camerapath.Camera
	Forward() math.Vec3
}

// Meshes owns the scene geometry.
type Meshes interface {
	Rebuild(mc control.MeshControl) (*scene.Node, error)
	SetAxesVisible(show bool)
	Release()
}

// Engine draws a frame with the given uniforms and owns the bloom stage.
type Engine interface {
	bloom.Stage
	Draw(uniforms *uniform.Set) error
	Teardown()
}

// FreeCam is user-driven camera control. Engage is called when free-cam
// mode is switched on, Update once per frame while it stays on.
type FreeCam interface {
	Engage()
	Update(dt float64)
}

// Driver supplies the refresh cadence.
type Driver interface {
	ShouldClose() bool
	PollEvents()
	Time() float64
	SwapBuffers()
}

type Config struct {
	Store   *control.Store
	Queue   *control.Queue
	Camera  Camera
	Meshes  Meshes
	Engine  Engine
	FreeCam FreeCam // optional
	Logger  *slog.Logger
}

// Loop is the frame state machine. All methods must be called from the
// thread that owns the GL context.
type Loop struct {
	cfg      Config
	logger   *slog.Logger
	uniforms *uniform.Set

	state    State
	t0       float64
	last     float64
	clocked  bool
	freeCam  bool
	frames   uint64
	failures uint64
}

func New(cfg Config) *Loop {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Queue == nil {
		cfg.Queue = control.NewQueue()
	}
	return &Loop{
		cfg:      cfg,
		logger:   logger,
		uniforms: uniform.NewSet(),
	}
}

func (l *Loop) State() State { return l.state }

// Uniforms is the set handed to the engine each frame.
func (l *Loop) Uniforms() *uniform.Set { return l.uniforms }

// Frames counts completed Step calls, failed or not.
func (l *Loop) Frames() uint64 { return l.frames }

// Failures counts frames that were abandoned because a step failed.
func (l *Loop) Failures() uint64 { return l.failures }

// Start builds the initial geometry and moves the loop to Running. It is a
// no-op when already running.
func (l *Loop) Start() error {
	switch l.state {
	case Running:
		return nil
	case Stopped:
		return ErrLoopStopped
	}
	st := l.cfg.Store.State()
	if _, err := l.cfg.Meshes.Rebuild(st.Mesh); err != nil {
		return fmt.Errorf("initial mesh: %w", err)
	}
	l.cfg.Meshes.SetAxesVisible(st.Scene.ShowAxis)
	l.state = Running
	l.logger.Info("frame loop started")
	return nil
}

// Step runs one frame at driver time now (seconds). Elapsed time is
// measured from the first Step. A failing step abandons the rest of the
// frame; the error is logged, counted and returned, and the loop stays
// Running.
func (l *Loop) Step(now float64) error {
	if l.state == Stopped {
		return ErrLoopStopped
	}
	if l.state == Idle {
		if err := l.Start(); err != nil {
			return err
		}
	}
	if !l.clocked {
		l.t0, l.last, l.clocked = now, now, true
	}
	elapsed := now - l.t0
	dt := now - l.last
	l.last = now
	l.frames++

	if err := guard(l.applyQueued); err != nil {
		l.failures++
		l.logger.Warn("frame step failed", "step", "controls", "frame", l.frames, "err", err)
		return fmt.Errorf("controls: %w", err)
	}

	st := l.cfg.Store.State()
	var forward math.Vec3
	steps := []struct {
		name string
		fn   func() error
	}{
		{"camera forward", func() error {
			forward = l.cfg.Camera.Forward()
			return nil
		}},
		{"camera path", func() error {
			l.moveCamera(elapsed, dt, st.Camera)
			return nil
		}},
		{"uniforms", func() error {
			if f := l.cfg.Camera.Forward(); f.IsFinite() {
				forward = f
			}
			uniform.Sync(l.uniforms, st, uniform.Derived{Time: float32(elapsed), CameraForward: forward})
			return nil
		}},
		{"bloom", func() error {
			bloom.Sync(l.cfg.Engine, st.Bloom)
			return nil
		}},
		{"draw", func() error {
			return l.cfg.Engine.Draw(l.uniforms)
		}},
	}
	for _, s := range steps {
		if err := guard(s.fn); err != nil {
			l.failures++
			l.logger.Warn("frame step failed", "step", s.name, "frame", l.frames, "err", err)
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// applyQueued drains pending commands and performs the work their classes
// call for: at most one rebuild per frame. A failed rebuild keeps the old
// cube and is counted but does not abandon the frame.
func (l *Loop) applyQueued() error {
	cmds := l.cfg.Queue.Drain()
	if len(cmds) == 0 {
		return nil
	}
	ch := l.cfg.Store.ApplyAll(cmds, l.logger)
	st := l.cfg.Store.State()
	if ch.Topology {
		if _, err := l.cfg.Meshes.Rebuild(st.Mesh); err != nil {
			l.failures++
			l.logger.Warn("mesh rebuild failed", "err", err)
		}
	}
	if ch.Helpers {
		l.cfg.Meshes.SetAxesVisible(st.Scene.ShowAxis)
	}
	return nil
}

func (l *Loop) moveCamera(elapsed, dt float64, cc control.CameraControl) {
	if camerapath.Apply(l.cfg.Camera, elapsed, cc) {
		l.freeCam = false
		return
	}
	if l.cfg.FreeCam == nil {
		return
	}
	if !l.freeCam {
		l.freeCam = true
		l.cfg.FreeCam.Engage()
	}
	l.cfg.FreeCam.Update(dt)
}

// Run steps once per refresh until the driver closes, ctx is cancelled or
// Stop is called, then stops the loop.
func (l *Loop) Run(ctx context.Context, driver Driver) error {
	defer l.Stop()
	if err := l.Start(); err != nil {
		return err
	}

	for l.state == Running && ctx.Err() == nil && !driver.ShouldClose() {
		driver.PollEvents()
		if err := l.Step(driver.Time()); errors.Is(err, ErrLoopStopped) {
			break
		}
		driver.SwapBuffers()
	}
	l.logger.Info("frame loop finished", "frames", l.frames, "failures", l.failures)
	return nil
}

// Stop releases the scene geometry and tears the engine down. Only the
// first call has any effect.
func (l *Loop) Stop() {
	if l.state == Stopped {
		return
	}
	l.state = Stopped
	l.cfg.Meshes.Release()
	l.cfg.Engine.Teardown()
	l.logger.Info("frame loop stopped")
}

func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
