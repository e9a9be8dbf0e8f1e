package meshfactory

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shader-scene/control"
	"shader-scene/scene"
)

type fakeResources struct {
	uploaded  []*scene.Mesh
	released  []*scene.Mesh
	uploadErr error
}

func (r *fakeResources) UploadMesh(m *scene.Mesh) error {
	if r.uploadErr != nil {
		return r.uploadErr
	}
	r.uploaded = append(r.uploaded, m)
	return nil
}

func (r *fakeResources) ReleaseMesh(m *scene.Mesh) {
	r.released = append(r.released, m)
}

func newFactory() (*Factory, *scene.Scene, *fakeResources) {
	sc := scene.NewScene()
	res := &fakeResources{}
	return New(sc, res, slog.New(slog.NewTextHandler(io.Discard, nil))), sc, res
}

func cubes(sc *scene.Scene) int {
	n := 0
	for _, node := range sc.GetVisibleNodes() {
		if node.Name == cubeName {
			n++
		}
	}
	return n
}

func TestSegmentCount(t *testing.T) {
	tests := []struct {
		name string
		mc   control.MeshControl
		want int
	}{
		{"default", control.MeshControl{Resolution: 128, ResolutionMultiplier: 1}, 128},
		{"truncates", control.MeshControl{Resolution: 3, ResolutionMultiplier: 1.5}, 4},
		{"zero resolution", control.MeshControl{Resolution: 0, ResolutionMultiplier: 1}, 1},
		{"negative resolution", control.MeshControl{Resolution: -4, ResolutionMultiplier: 1}, 1},
		{"tiny product", control.MeshControl{Resolution: 1, ResolutionMultiplier: 0.2}, 1},
		{"negative multiplier", control.MeshControl{Resolution: 10, ResolutionMultiplier: -1}, 1},
		{"capped", control.MeshControl{Resolution: 128, ResolutionMultiplier: 100}, MaxSegments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentCount(tt.mc))
		})
	}
}

func TestRebuildAttachesExactlyOne(t *testing.T) {
	f, sc, res := newFactory()
	mc := control.MeshControl{Resolution: 4, ResolutionMultiplier: 1}

	first, err := f.Rebuild(mc)
	require.NoError(t, err)
	assert.Equal(t, 1, cubes(sc))

	mc.Wireframe = true
	second, err := f.Rebuild(mc)
	require.NoError(t, err)
	assert.Equal(t, 1, cubes(sc))
	assert.False(t, sc.Contains(first))
	assert.True(t, sc.Contains(second))
	assert.Equal(t, []*scene.Mesh{first.Mesh}, res.released)
	assert.Equal(t, 2, f.Rebuilds())
}

func TestRebuildGeometryAndMaterial(t *testing.T) {
	f, _, _ := newFactory()
	node, err := f.Rebuild(control.MeshControl{Resolution: 3, ResolutionMultiplier: 1, Wireframe: true, Backface: true})
	require.NoError(t, err)

	m := node.Mesh
	assert.Len(t, m.Vertices, 6*4*4)
	require.NotNil(t, m.Material)
	assert.True(t, m.Material.Wireframe)
	assert.Equal(t, scene.DoubleSide, m.Material.Side)
	assert.Equal(t, scene.ShadingDisplaced, m.Material.Shading)

	// Edge length equals the segment count.
	for _, v := range m.Vertices {
		assert.InDelta(t, 0, v.Position.X, 1.5+1e-5)
	}
}

func TestRebuildClampsResolution(t *testing.T) {
	f, sc, _ := newFactory()
	node, err := f.Rebuild(control.MeshControl{Resolution: 0, ResolutionMultiplier: 1})
	require.NoError(t, err)
	assert.Len(t, node.Mesh.Vertices, 24)
	assert.Equal(t, 1, cubes(sc))
}

func TestRebuildUploadFailureKeepsOldCube(t *testing.T) {
	f, sc, res := newFactory()
	old, err := f.Rebuild(control.MeshControl{Resolution: 2, ResolutionMultiplier: 1})
	require.NoError(t, err)

	res.uploadErr = errors.New("out of memory")
	got, err := f.Rebuild(control.MeshControl{Resolution: 8, ResolutionMultiplier: 1})
	assert.ErrorIs(t, err, res.uploadErr)
	assert.Same(t, old, got)
	assert.True(t, sc.Contains(old))
	assert.Empty(t, res.released)
	assert.Equal(t, 1, f.Rebuilds())
}

func TestAxesToggle(t *testing.T) {
	f, sc, res := newFactory()
	_, err := f.Rebuild(control.MeshControl{Resolution: 1, ResolutionMultiplier: 1})
	require.NoError(t, err)

	f.SetAxesVisible(true)
	f.SetAxesVisible(true)
	assert.True(t, f.AxesVisible())
	assert.Len(t, sc.GetVisibleNodes(), 2)
	assert.Equal(t, 1, cubes(sc))

	f.SetAxesVisible(false)
	assert.False(t, f.AxesVisible())
	assert.Len(t, sc.GetVisibleNodes(), 1)
	assert.Len(t, res.released, 1)
}

func TestReleaseDetachesAll(t *testing.T) {
	f, sc, res := newFactory()
	_, err := f.Rebuild(control.MeshControl{Resolution: 1, ResolutionMultiplier: 1})
	require.NoError(t, err)
	f.SetAxesVisible(true)

	f.Release()
	assert.Empty(t, sc.GetVisibleNodes())
	assert.Len(t, res.released, 2)
	assert.Nil(t, f.Current())

	f.Release()
	assert.Len(t, res.released, 2)
}
