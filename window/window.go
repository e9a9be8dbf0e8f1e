// Package window wraps a GLFW window and its OpenGL context.
package window

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"shader-scene/core"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	keyHandlers    []KeyCallback
	resizeHandlers []ResizeCallback
}

// New opens a window with a current OpenGL 4.1 core context.
func New(config core.WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	var monitor *glfw.Monitor
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	window := &Window{
		Handle: handle,
		Title:  config.Title,
	}
	// Framebuffer size, not window size, drives the viewport on HiDPI displays.
	window.Width, window.Height = handle.GetFramebufferSize()

	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
		for _, cb := range window.resizeHandlers {
			cb(width, height)
		}
	})
	handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		ev := KeyEvent{
			Key:    int(key),
			Repeat: action == glfw.Repeat,
			Shift:  mods&glfw.ModShift != 0,
			Ctrl:   mods&glfw.ModControl != 0,
		}
		for _, cb := range window.keyHandlers {
			cb(ev)
		}
	})

	return window, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.Handle.SetShouldClose(v)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

// Time returns seconds since GLFW was initialised.
func (w *Window) Time() float64 {
	return glfw.GetTime()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func (w *Window) IsMouseButtonPressed(button int) bool {
	return w.Handle.GetMouseButton(glfw.MouseButton(button)) == glfw.Press
}

func (w *Window) GetCursorPos() (float64, float64) {
	return w.Handle.GetCursorPos()
}

// KeyEvent is a key press or auto-repeat delivered from PollEvents.
type KeyEvent struct {
	Key    int
	Repeat bool
	Shift  bool
	Ctrl   bool
}

type KeyCallback func(ev KeyEvent)

func (w *Window) OnKey(cb KeyCallback) {
	w.keyHandlers = append(w.keyHandlers, cb)
}

type ResizeCallback func(width, height int)

func (w *Window) OnResize(cb ResizeCallback) {
	w.resizeHandlers = append(w.resizeHandlers, cb)
}

// ScrollCallback is the type for scroll event handlers
type ScrollCallback func(xoff, yoff float64)

func (w *Window) SetScrollCallback(cb ScrollCallback) {
	w.Handle.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		cb(xoff, yoff)
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const (
	MouseLeft   = int(glfw.MouseButtonLeft)
	MouseRight  = int(glfw.MouseButtonRight)
	MouseMiddle = int(glfw.MouseButtonMiddle)
)

const (
	Key1         = int(glfw.Key1)
	Key2         = int(glfw.Key2)
	Key3         = int(glfw.Key3)
	Key4         = int(glfw.Key4)
	KeyA         = int(glfw.KeyA)
	KeyB         = int(glfw.KeyB)
	KeyC         = int(glfw.KeyC)
	KeyD         = int(glfw.KeyD)
	KeyE         = int(glfw.KeyE)
	KeyF         = int(glfw.KeyF)
	KeyG         = int(glfw.KeyG)
	KeyH         = int(glfw.KeyH)
	KeyL         = int(glfw.KeyL)
	KeyM         = int(glfw.KeyM)
	KeyQ         = int(glfw.KeyQ)
	KeyR         = int(glfw.KeyR)
	KeyS         = int(glfw.KeyS)
	KeyT         = int(glfw.KeyT)
	KeyV         = int(glfw.KeyV)
	KeyW         = int(glfw.KeyW)
	KeyX         = int(glfw.KeyX)
	KeyY         = int(glfw.KeyY)
	KeyZ         = int(glfw.KeyZ)
	KeyEscape    = int(glfw.KeyEscape)
	KeyTab       = int(glfw.KeyTab)
	KeyUp        = int(glfw.KeyUp)
	KeyDown      = int(glfw.KeyDown)
	KeyLeft      = int(glfw.KeyLeft)
	KeyRight     = int(glfw.KeyRight)
	KeyLeftShift = int(glfw.KeyLeftShift)
	KeySpace     = int(glfw.KeySpace)
	KeyEnter     = int(glfw.KeyEnter)
)
