// Package opengl is the OpenGL 4.1 backend: the displacement program, mesh
// buffers and the HDR bloom target.
package opengl

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"shader-scene/core"
	"shader-scene/math"
	"shader-scene/scene"
	"shader-scene/shaders"
	"shader-scene/uniform"
)

var ErrEmptyMesh = errors.New("mesh has no vertices")

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO         uint32
	VBO         uint32
	EBO         uint32
	IndexCount  int32
	VertexCount int32
	HasIndices  bool
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	displaced *Program
	lines     *Program

	gpuMeshes map[*scene.Mesh]*GPUMesh

	postProcess *PostProcessFBO

	viewportW int32
	viewportH int32

	// last rasteriser state set by applyMaterial
	wireframe bool
	culling   bool

	logger *slog.Logger
}

// lineVertSrc draws helpers with their vertex colours.
const lineVertSrc = `
#version 410 core
layout(location = 0) in vec3 position;
layout(location = 3) in vec4 color;
uniform mat4 mvp;
out vec4 vColor;
void main() {
    vColor = color;
    gl_Position = mvp * vec4(position, 1.0);
}
` + "\x00"

const lineFragSrc = `
#version 410 core
in  vec4 vColor;
out vec4 fragColor;
void main() {
    fragColor = vColor;
}
` + "\x00"

// NewRenderer loads GL function pointers for the current context and
// compiles src as the displacement program.
func NewRenderer(src shaders.Sources, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("opengl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	displaced, err := NewProgram(src.Vertex, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("displacement shader: %w", err)
	}
	lines, err := NewProgram(lineVertSrc, lineFragSrc)
	if err != nil {
		displaced.Delete()
		return nil, fmt.Errorf("line shader: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.FrontFace(gl.CCW)
	gl.CullFace(gl.BACK)

	return &Renderer{
		displaced: displaced,
		lines:     lines,
		gpuMeshes: make(map[*scene.Mesh]*GPUMesh),
		logger:    logger,
	}, nil
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

// EnablePostProcess creates the HDR target and its bloom chain at the given
// size. Call once after NewRenderer.
func (r *Renderer) EnablePostProcess(width, height, bloomPasses int) error {
	if r.postProcess != nil {
		r.postProcess.Destroy()
	}
	pp, err := NewPostProcessFBO(width, height, bloomPasses)
	if err != nil {
		return err
	}
	r.postProcess = pp
	return nil
}

// PostProcess returns nil until EnablePostProcess succeeds.
func (r *Renderer) PostProcess() *PostProcessFBO {
	return r.postProcess
}

// ResizePostProcess reallocates the HDR target. It does nothing while
// post-processing is off.
func (r *Renderer) ResizePostProcess(width, height int) error {
	if r.postProcess == nil {
		return nil
	}
	return r.postProcess.Resize(width, height)
}

// BeginFrame binds the HDR target (or the window when post-processing is
// off) and clears it.
func (r *Renderer) BeginFrame(bg core.Color) {
	if r.postProcess != nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, r.postProcess.FBO)
		gl.Viewport(0, 0, r.postProcess.Width, r.postProcess.Height)
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, r.viewportW, r.viewportH)
	}
	gl.ClearColor(bg.R, bg.G, bg.B, bg.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawMesh draws mesh with its material. Displaced meshes read their
// parameters from set; helpers ignore it.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, mvp, model math.Mat4, set *uniform.Set) error {
	gpu, err := r.ensureUploaded(mesh)
	if err != nil {
		return err
	}

	mat := mesh.Material
	if mat == nil {
		mat = scene.NewShaderMaterial(mesh.Name, false, scene.FrontSide)
	}
	r.applyMaterial(mat)

	switch mat.Shading {
	case scene.ShadingVertexColor:
		r.lines.Use()
		r.lines.SetMat4("mvp", mvp)
	default:
		r.displaced.Use()
		r.displaced.SetMat4("mvp", mvp)
		r.displaced.SetMat4("model", model)
		if set != nil {
			r.displaced.Upload(set)
		}
	}

	primitive := uint32(gl.TRIANGLES)
	if mesh.DrawMode == scene.DrawLines {
		primitive = gl.LINES
	}

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(primitive, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(primitive, 0, gpu.VertexCount)
	}
	gl.BindVertexArray(0)
	return nil
}

// applyMaterial sets polygon mode and face culling, touching GL only when
// the state actually changes.
func (r *Renderer) applyMaterial(mat *scene.ShaderMaterial) {
	if mat.Wireframe != r.wireframe {
		r.wireframe = mat.Wireframe
		if r.wireframe {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		} else {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		}
	}
	cull := mat.Side == scene.FrontSide
	if cull != r.culling {
		r.culling = cull
		if cull {
			gl.Enable(gl.CULL_FACE)
		} else {
			gl.Disable(gl.CULL_FACE)
		}
	}
}

// EndFrame resolves the HDR target to the window. A no-op without
// post-processing.
func (r *Renderer) EndFrame() {
	if r.postProcess == nil {
		return
	}
	// The fullscreen triangle must be filled and never culled.
	if r.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		r.wireframe = false
	}
	if r.culling {
		gl.Disable(gl.CULL_FACE)
		r.culling = false
	}
	r.postProcess.Blit()
}

// UploadMesh creates the GPU buffers for mesh. Uploading an already
// uploaded mesh is a no-op.
func (r *Renderer) UploadMesh(mesh *scene.Mesh) error {
	_, err := r.ensureUploaded(mesh)
	return err
}

// ReleaseMesh deletes the GPU buffers for mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		if gpu.HasIndices {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	if r.postProcess != nil {
		r.postProcess.Destroy()
		r.postProcess = nil
	}
	r.displaced.Delete()
	r.lines.Delete()
}

func (r *Renderer) ensureUploaded(mesh *scene.Mesh) (*GPUMesh, error) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu, nil
	}
	if len(mesh.Vertices) == 0 {
		return nil, fmt.Errorf("upload %q: %w", mesh.Name, ErrEmptyMesh)
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount:  int32(len(mesh.Indices)),
		VertexCount: int32(len(mesh.Vertices)),
		HasIndices:  len(mesh.Indices) > 0,
	}

	// drain stale errors so the check below only sees this upload
	for gl.GetError() != gl.NO_ERROR {
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))
	colorOff := int(unsafe.Offsetof(v.Color))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 4, gl.FLOAT, false, stride, gl.PtrOffset(colorOff))

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu

	if code := gl.GetError(); code != gl.NO_ERROR {
		r.ReleaseMesh(mesh)
		return nil, fmt.Errorf("upload %q: gl error 0x%X", mesh.Name, code)
	}
	return gpu, nil
}
