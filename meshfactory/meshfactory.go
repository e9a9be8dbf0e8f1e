// Package meshfactory owns the displaced cube node and the axes helper, and
// rebuilds the cube whenever its topology controls change.
package meshfactory

import (
	"fmt"
	"log/slog"
	stdmath "math"

	"shader-scene/control"
	"shader-scene/scene"
)

// MaxSegments caps the per-edge subdivision. A full box at this size is
// about 1.6M vertices.
const MaxSegments = 512

// AxesLength matches the extent of the default cube.
const AxesLength = 16

const cubeName = "DisplacedCube"

// Scene is where the factory attaches its nodes.
type Scene interface {
	AddNode(node *scene.Node)
	RemoveNode(node *scene.Node) bool
}

// Resources uploads and frees the GPU side of a mesh.
type Resources interface {
	UploadMesh(mesh *scene.Mesh) error
	ReleaseMesh(mesh *scene.Mesh)
}

// SegmentCount is the per-edge subdivision for mc: the truncated product of
// resolution and multiplier, never below 1 and never above MaxSegments.
func SegmentCount(mc control.MeshControl) int {
	product := float64(mc.Resolution) * float64(mc.ResolutionMultiplier)
	if stdmath.IsNaN(product) || product < 1 {
		return 1
	}
	if product >= MaxSegments {
		return MaxSegments
	}
	return int(product)
}

// Side maps the backface flag onto a rasterisation side.
func Side(mc control.MeshControl) scene.Side {
	if mc.Backface {
		return scene.DoubleSide
	}
	return scene.FrontSide
}

type Factory struct {
	scene     Scene
	resources Resources
	logger    *slog.Logger

	current  *scene.Node
	axes     *scene.Node
	rebuilds int
}

func New(sc Scene, res Resources, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{scene: sc, resources: res, logger: logger}
}

// Rebuild replaces the cube with one built from mc. The new mesh is uploaded
// first; if that fails the old cube stays attached and the error is
// returned. Otherwise the old cube is detached and released before the new
// one is attached, so exactly one cube is in the scene afterwards.
func (f *Factory) Rebuild(mc control.MeshControl) (*scene.Node, error) {
	seg := SegmentCount(mc)
	size := float32(seg)

	mesh := scene.CreateBox(size, size, size, seg, seg, seg)
	mesh.Name = cubeName
	mesh.Material = scene.NewShaderMaterial("Displacement", mc.Wireframe, Side(mc))

	if err := f.resources.UploadMesh(mesh); err != nil {
		return f.current, fmt.Errorf("upload %d-segment cube: %w", seg, err)
	}

	f.detachCurrent()
	node := scene.NewMeshNode(mesh)
	f.scene.AddNode(node)
	f.current = node
	f.rebuilds++

	f.logger.Debug("cube rebuilt",
		"segments", seg,
		"vertices", len(mesh.Vertices),
		"wireframe", mc.Wireframe,
		"side", Side(mc).String(),
	)
	return node, nil
}

func (f *Factory) detachCurrent() {
	if f.current == nil {
		return
	}
	f.scene.RemoveNode(f.current)
	f.resources.ReleaseMesh(f.current.Mesh)
	f.current = nil
}

// Current returns the attached cube node, or nil before the first Rebuild.
func (f *Factory) Current() *scene.Node {
	return f.current
}

// Rebuilds counts successful rebuilds.
func (f *Factory) Rebuilds() int {
	return f.rebuilds
}

// SetAxesVisible adds or removes the axes helper. It is built on first use.
func (f *Factory) SetAxesVisible(show bool) {
	switch {
	case show && f.axes == nil:
		f.axes = scene.NewMeshNode(scene.CreateAxes(AxesLength))
		f.scene.AddNode(f.axes)
	case !show && f.axes != nil:
		f.scene.RemoveNode(f.axes)
		f.resources.ReleaseMesh(f.axes.Mesh)
		f.axes = nil
	}
}

func (f *Factory) AxesVisible() bool {
	return f.axes != nil
}

// Release detaches and frees everything the factory attached.
func (f *Factory) Release() {
	f.detachCurrent()
	f.SetAxesVisible(false)
}
