// Package renderer drives the OpenGL backend for one scene.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"shader-scene/config"
	"shader-scene/internal/opengl"
	"shader-scene/scene"
	"shader-scene/shaders"
	"shader-scene/uniform"
)

var ErrNoCamera = errors.New("no scene or camera")

// RenderEngine is the high-level renderer that drives the OpenGL backend.
// It draws, uploads meshes and owns the bloom stage.
type RenderEngine struct {
	gl     *opengl.Renderer
	Scene  *scene.Scene
	logger *slog.Logger

	// Per-frame stats (populated during Draw)
	lastObjects   int
	lastVertices  int
	lastTriangles int

	tornDown bool
}

// NewRenderEngine needs a current GL context sized width x height in
// framebuffer pixels.
func NewRenderEngine(src shaders.Sources, width, height int, rc config.RenderConfig, logger *slog.Logger) (*RenderEngine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	glRenderer, err := opengl.NewRenderer(src, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}
	glRenderer.SetViewport(width, height)

	if err := glRenderer.EnablePostProcess(width, height, rc.BloomPasses); err != nil {
		glRenderer.Destroy()
		return nil, fmt.Errorf("post-process: %w", err)
	}
	glRenderer.PostProcess().Exposure = rc.Exposure

	logger.Info("render engine initialized", "width", width, "height", height, "bloomPasses", rc.BloomPasses)
	return &RenderEngine{gl: glRenderer, logger: logger}, nil
}

func (re *RenderEngine) SetScene(s *scene.Scene) {
	re.Scene = s
}

// Draw renders every visible mesh into the HDR target and resolves it to
// the window. Presenting is left to the caller.
func (re *RenderEngine) Draw(uniforms *uniform.Set) error {
	if re.Scene == nil || re.Scene.Camera == nil {
		return ErrNoCamera
	}
	cam := re.Scene.Camera
	viewProj := cam.ViewProjectionMatrix()

	re.gl.BeginFrame(re.Scene.Background)

	objects, vertices, triangles := 0, 0, 0
	var errs []error
	for _, node := range re.Scene.GetVisibleNodes() {
		if node.Mesh == nil {
			continue
		}
		model := node.GetWorldMatrix()
		mvp := model.Mul(viewProj)
		if err := re.gl.DrawMesh(node.Mesh, mvp, model, uniforms); err != nil {
			errs = append(errs, fmt.Errorf("draw %s: %w", node.Name, err))
			continue
		}
		objects++
		vertices += len(node.Mesh.Vertices)
		if node.Mesh.DrawMode == scene.DrawTriangles {
			triangles += len(node.Mesh.Indices) / 3
		}
	}

	re.lastObjects = objects
	re.lastVertices = vertices
	re.lastTriangles = triangles

	re.gl.EndFrame()
	return errors.Join(errs...)
}

// DrawStats returns stats from the most recent Draw call.
func (re *RenderEngine) DrawStats() (objects, vertices, triangles int) {
	return re.lastObjects, re.lastVertices, re.lastTriangles
}

func (re *RenderEngine) UploadMesh(mesh *scene.Mesh) error {
	return re.gl.UploadMesh(mesh)
}

func (re *RenderEngine) ReleaseMesh(mesh *scene.Mesh) {
	re.gl.ReleaseMesh(mesh)
}

func (re *RenderEngine) SetBloomStrength(v float32) {
	if pp := re.gl.PostProcess(); pp != nil {
		pp.BloomStrength = v
	}
}

// SetBloomRadius sets the blur spread, in half-resolution texels per tap.
func (re *RenderEngine) SetBloomRadius(v float32) {
	if pp := re.gl.PostProcess(); pp != nil {
		pp.BloomRadius = v
	}
}

func (re *RenderEngine) SetBloomThreshold(v float32) {
	if pp := re.gl.PostProcess(); pp != nil {
		pp.BloomThreshold = v
	}
}

// Resize follows the framebuffer. A minimised window reports 0x0 and is
// skipped.
func (re *RenderEngine) Resize(width, height int) {
	if width <= 0 || height <= 0 || re.tornDown {
		return
	}
	re.gl.SetViewport(width, height)
	if err := re.gl.ResizePostProcess(width, height); err != nil {
		re.logger.Warn("resize post-process", "err", err)
	}
	if re.Scene != nil && re.Scene.Camera != nil {
		re.Scene.Camera.UpdateAspectRatio(float32(width), float32(height))
	}
}

// Teardown frees every GPU resource. Later calls do nothing.
func (re *RenderEngine) Teardown() {
	if re.tornDown {
		return
	}
	re.tornDown = true
	re.gl.Destroy()
	re.logger.Info("render engine destroyed")
}
