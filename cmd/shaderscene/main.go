// Command shaderscene renders the displaced cube with bloom, an orbiting
// camera and live keyboard and file tuning.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chewxy/math32"
	"golang.org/x/sync/errgroup"

	"shader-scene/config"
	"shader-scene/control"
	"shader-scene/frame"
	"shader-scene/freecam"
	"shader-scene/math"
	"shader-scene/meshfactory"
	"shader-scene/renderer"
	"shader-scene/scene"
	"shader-scene/shaders"
	"shader-scene/tuning"
	"shader-scene/uniform"
	"shader-scene/window"
)

func main() {
	configPath := flag.String("config", "", "TOML config file (defaults apply when empty)")
	logLevel := flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	flag.Parse()

	if err := run(*configPath, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "shaderscene: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, levelOverride string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if levelOverride != "" {
		cfg.Log.Level = levelOverride
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := shaders.Fetch(ctx, cfg.Shaders.Vertex, cfg.Shaders.Fragment)
	if err != nil {
		return err
	}
	if err := shaders.CheckUniforms(src, uniform.NewSet().GLSLTypes()); err != nil {
		return fmt.Errorf("shader uniforms: %w", err)
	}
	logger.Info("shaders loaded", "vertex", cfg.Shaders.Vertex, "fragment", cfg.Shaders.Fragment)

	win, err := window.New(cfg.Window)
	if err != nil {
		return err
	}
	defer win.Destroy()

	fbw, fbh := win.GetFramebufferSize()
	engine, err := renderer.NewRenderEngine(src, fbw, fbh, cfg.Render, logger)
	if err != nil {
		return err
	}
	defer engine.Teardown()

	sc := scene.NewScene()
	cam := scene.NewCamera(
		cfg.Camera.FOVDegrees*math32.Pi/180,
		float32(fbw)/float32(max(fbh, 1)),
		cfg.Camera.Near,
		cfg.Camera.Far,
	)
	sc.SetCamera(cam)
	engine.SetScene(sc)
	win.OnResize(engine.Resize)

	store := control.NewStore(cfg.Controls, control.Standard(), cfg.Tuning.HistoryDepth)
	queue := control.NewQueue()

	free := freecam.New(cam, math.Vec3Zero, win, freecam.Bindings{
		OrbitButton: window.MouseLeft,
		PanButton:   window.MouseRight,
		Left:        window.KeyA,
		Right:       window.KeyD,
		Up:          window.KeyE,
		Down:        window.KeyC,
	})
	win.SetScrollCallback(func(_, yoff float64) { free.Scroll(yoff) })

	keys, err := tuning.NewKeymap(store.Table(), keyBindings())
	if err != nil {
		return err
	}
	showSelection := func(p *control.Param) {
		win.SetTitle(fmt.Sprintf("%s | %s = %s", cfg.Window.Title, p.ID, p.Get(store.State())))
	}
	keys.OnSelect(showSelection)
	win.OnKey(func(ev window.KeyEvent) {
		if ev.Key == window.KeyEscape {
			win.SetShouldClose(true)
			return
		}
		queue.Push(keys.Commands(tuning.KeyPress(ev))...)
	})

	meshes := meshfactory.New(sc, engine, logger)
	loop := frame.New(frame.Config{
		Store:   store,
		Queue:   queue,
		Camera:  cam,
		Meshes:  meshes,
		Engine:  engine,
		FreeCam: free,
		Logger:  logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Tuning.File != "" {
		fileSrc := tuning.NewFileSource(cfg.Tuning.File, store.Table(), queue, store.Snapshot(), logger)
		g.Go(func() error {
			if err := fileSrc.Run(gctx); err != nil {
				logger.Warn("live tuning disabled", "file", cfg.Tuning.File, "err", err)
			}
			return nil
		})
	}

	printControls(logger)
	runErr := loop.Run(gctx, &titledDriver{Window: win, refresh: func() { showSelection(keys.Selected()) }})
	stop()
	watchErr := g.Wait()

	objects, vertices, triangles := engine.DrawStats()
	logger.Info("exiting",
		"frames", loop.Frames(), "failures", loop.Failures(), "rebuilds", meshes.Rebuilds(),
		"objects", objects, "vertices", vertices, "triangles", triangles)
	return errors.Join(runErr, watchErr)
}

func keyBindings() tuning.Bindings {
	return tuning.Bindings{
		Toggles: map[int]control.ParamID{
			window.KeyW: control.MeshWireframe,
			window.KeyB: control.MeshBackface,
			window.KeyL: control.ShaderVertexLighting,
			window.KeyF: control.CameraUseFreeCam,
			window.KeyX: control.SceneShowAxis,
		},
		Next: window.KeyTab,
		Prev: window.KeyQ,
		Inc:  window.KeyUp,
		Dec:  window.KeyDown,
		Flip: window.KeySpace,
		Undo: window.KeyZ,
		Redo: window.KeyY,
	}
}

// titledDriver refreshes the title once per second so the selected
// parameter's value stays current after commands apply.
type titledDriver struct {
	*window.Window
	refresh func()
	last    float64
}

func (d *titledDriver) SwapBuffers() {
	d.Window.SwapBuffers()
	if now := d.Window.Time(); now-d.last >= 1 {
		d.last = now
		d.refresh()
	}
}

func printControls(logger *slog.Logger) {
	logger.Info("controls",
		"tab/q", "select next/previous parameter",
		"up/down", "step selected parameter (shift x10)",
		"space", "toggle selected switch",
		"w b l f x", "wireframe, backface, lighting, free camera, axes",
		"ctrl+z / ctrl+y", "undo / redo",
		"free camera", "left drag orbit, right drag pan, wheel zoom, a/d/e/c orbit",
		"esc", "quit")
}
