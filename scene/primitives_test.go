package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBoxCounts(t *testing.T) {
	tests := []struct {
		name        string
		segments    int
		wantVerts   int
		wantIndices int
	}{
		{"single", 1, 6 * 4, 6 * 6},
		{"three", 3, 6 * 16, 6 * 9 * 6},
		{"clamped", 0, 6 * 4, 6 * 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CreateBox(2, 2, 2, tt.segments, tt.segments, tt.segments)
			assert.Len(t, m.Vertices, tt.wantVerts)
			assert.Len(t, m.Indices, tt.wantIndices)
			assert.Equal(t, uint32(tt.wantIndices), m.IndexCount)
		})
	}
}

func TestCreateBoxExtents(t *testing.T) {
	m := CreateBox(4, 4, 4, 4, 4, 4)
	for _, v := range m.Vertices {
		assert.InDelta(t, 0, v.Position.X, 2+tol)
		assert.InDelta(t, 0, v.Position.Y, 2+tol)
		assert.InDelta(t, 0, v.Position.Z, 2+tol)
		// Every vertex sits on the face its normal points out of.
		assert.InDelta(t, 2, v.Position.Dot(v.Normal), tol)
	}
}

func TestCreateBoxOutwardWinding(t *testing.T) {
	m := CreateBox(2, 2, 2, 2, 2, 2)
	require.Zero(t, len(m.Indices)%3)
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		assert.Greater(t, n.Dot(a.Normal), float32(0), "triangle %d", i/3)
	}
}

func TestCreateAxes(t *testing.T) {
	m := CreateAxes(16)
	assert.Equal(t, DrawLines, m.DrawMode)
	assert.Len(t, m.Indices, 6)
	require.NotNil(t, m.Material)
	assert.Equal(t, ShadingVertexColor, m.Material.Shading)
	assert.Equal(t, float32(16), m.Vertices[1].Position.X)
}
